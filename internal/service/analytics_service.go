package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"masarif/internal/models"
)

// AnalyticsService computes aggregates over a submitted set of expense
// records. It is stateless: the caller supplies the records with every call.
type AnalyticsService struct {
	logger *zap.Logger
}

func NewAnalyticsService(logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{logger: logger}
}

// CurrencySummary aggregates records sharing one currency. Mixing currencies
// in a single sum would be meaningless, so everything groups by currency
// first.
type CurrencySummary struct {
	Count      int                                  `json:"count"`
	Total      decimal.Decimal                      `json:"total"`
	Average    decimal.Decimal                      `json:"average"`
	ByCategory map[models.Category]decimal.Decimal `json:"by_category"`
}

// Summary is the full aggregate over a record set.
type Summary struct {
	Count      int                        `json:"count"`
	ByCurrency map[string]CurrencySummary `json:"by_currency"`
}

// Summarize computes totals, averages, and category breakdowns per currency.
// Records without an amount are counted but excluded from sums.
func (s *AnalyticsService) Summarize(records []models.ExpenseRecord) *Summary {
	summary := &Summary{
		Count:      len(records),
		ByCurrency: map[string]CurrencySummary{},
	}

	for _, rec := range records {
		if rec.Amount == nil {
			continue
		}
		currency := rec.Currency
		if currency == "" {
			currency = "unknown"
		}

		cs, ok := summary.ByCurrency[currency]
		if !ok {
			cs = CurrencySummary{ByCategory: map[models.Category]decimal.Decimal{}}
		}
		cs.Count++
		cs.Total = cs.Total.Add(*rec.Amount)

		category := rec.Category
		if category == "" {
			category = models.CategoryOther
		}
		cs.ByCategory[category] = cs.ByCategory[category].Add(*rec.Amount)

		summary.ByCurrency[currency] = cs
	}

	for currency, cs := range summary.ByCurrency {
		cs.Average = cs.Total.Div(decimal.NewFromInt(int64(cs.Count))).Round(2)
		summary.ByCurrency[currency] = cs
	}

	s.logger.Debug("Summary computed",
		zap.Int("records", summary.Count),
		zap.Int("currencies", len(summary.ByCurrency)),
	)

	return summary
}

// GroupBucket aggregates the records sharing one group value. Percentage is
// the bucket's share of its currency total, 0-100.
type GroupBucket struct {
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CurrencyGroups is the group breakdown within one currency.
type CurrencyGroups struct {
	Total  decimal.Decimal        `json:"total"`
	Groups map[string]GroupBucket `json:"groups"`
}

// GroupReport is the result of grouping a record set by a caller-chosen key.
type GroupReport struct {
	GroupBy    string                    `json:"group_by"`
	Count      int                       `json:"count"`
	ByCurrency map[string]CurrencyGroups `json:"by_currency"`
}

// GroupBy buckets records by category, payment_method, or date (calendar
// month) and computes per-currency sums, counts, and percentage shares. An
// empty key means category.
func (s *AnalyticsService) GroupBy(records []models.ExpenseRecord, key string) (*GroupReport, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "category"
	}
	switch key {
	case "category", "payment_method", "date":
	default:
		return nil, fmt.Errorf("unsupported group_by %q: must be category, payment_method, or date", key)
	}

	report := &GroupReport{
		GroupBy:    key,
		Count:      len(records),
		ByCurrency: map[string]CurrencyGroups{},
	}

	for _, rec := range records {
		if rec.Amount == nil {
			continue
		}
		currency := rec.Currency
		if currency == "" {
			currency = "unknown"
		}

		cg, ok := report.ByCurrency[currency]
		if !ok {
			cg = CurrencyGroups{Groups: map[string]GroupBucket{}}
		}
		cg.Total = cg.Total.Add(*rec.Amount)

		value := groupValue(rec, key)
		bucket := cg.Groups[value]
		bucket.Count++
		bucket.Total = bucket.Total.Add(*rec.Amount)
		cg.Groups[value] = bucket

		report.ByCurrency[currency] = cg
	}

	hundred := decimal.NewFromInt(100)
	for currency, cg := range report.ByCurrency {
		for value, bucket := range cg.Groups {
			if !cg.Total.IsZero() {
				bucket.Percentage = bucket.Total.Mul(hundred).Div(cg.Total).Round(2)
			}
			cg.Groups[value] = bucket
		}
		report.ByCurrency[currency] = cg
	}

	s.logger.Debug("Group report computed",
		zap.String("group_by", key),
		zap.Int("records", report.Count),
	)

	return report, nil
}

func groupValue(rec models.ExpenseRecord, key string) string {
	switch key {
	case "payment_method":
		if rec.PaymentMethod == "" {
			return string(models.PaymentOther)
		}
		return string(rec.PaymentMethod)
	case "date":
		// Bucket by calendar month; undated records land together.
		if len(rec.Date) >= 7 {
			return rec.Date[:7]
		}
		return "undated"
	default:
		if rec.Category == "" {
			return string(models.CategoryOther)
		}
		return string(rec.Category)
	}
}

// FilterPeriod keeps records whose date starts with period ("2025",
// "2025-12", or a full date). An empty period keeps everything.
func (s *AnalyticsService) FilterPeriod(records []models.ExpenseRecord, period string) []models.ExpenseRecord {
	period = strings.TrimSpace(period)
	if period == "" {
		return records
	}
	out := make([]models.ExpenseRecord, 0, len(records))
	for _, rec := range records {
		if strings.HasPrefix(rec.Date, period) {
			out = append(out, rec)
		}
	}
	return out
}

// Anomaly is one record whose amount stands out against its category mean.
type Anomaly struct {
	Index        int                  `json:"index"`
	Expense      models.ExpenseRecord `json:"expense"`
	CategoryMean decimal.Decimal      `json:"category_mean"`
	Ratio        decimal.Decimal      `json:"ratio"`
}

// defaultAnomalyFactor flags amounts at least 3x their category mean.
var defaultAnomalyFactor = decimal.NewFromInt(3)

// Anomalies flags records whose amount is at least factor times the mean of
// the same category and currency. Groups with fewer than three records are
// skipped: a "mean" of one purchase flags nothing but noise.
func (s *AnalyticsService) Anomalies(records []models.ExpenseRecord, factor decimal.Decimal) []Anomaly {
	if factor.LessThanOrEqual(decimal.NewFromInt(1)) {
		factor = defaultAnomalyFactor
	}

	type groupKey struct {
		currency string
		category models.Category
	}
	groups := map[groupKey][]int{}
	for i, rec := range records {
		if rec.Amount == nil {
			continue
		}
		groups[groupKey{rec.Currency, rec.Category}] = append(groups[groupKey{rec.Currency, rec.Category}], i)
	}

	var anomalies []Anomaly
	for _, indexes := range groups {
		if len(indexes) < 3 {
			continue
		}

		total := decimal.Zero
		for _, i := range indexes {
			total = total.Add(*records[i].Amount)
		}
		mean := total.Div(decimal.NewFromInt(int64(len(indexes))))
		if mean.IsZero() {
			continue
		}

		for _, i := range indexes {
			ratio := records[i].Amount.Div(mean)
			if ratio.GreaterThanOrEqual(factor) {
				anomalies = append(anomalies, Anomaly{
					Index:        i,
					Expense:      records[i],
					CategoryMean: mean.Round(2),
					Ratio:        ratio.Round(2),
				})
			}
		}
	}

	sort.Slice(anomalies, func(i, j int) bool { return anomalies[i].Index < anomalies[j].Index })

	return anomalies
}
