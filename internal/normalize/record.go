package normalize

import (
	"time"

	"masarif/internal/errs"
	"masarif/internal/models"
	"masarif/internal/schema"
)

// Expense turns one pruned expense object into a normalized record. Only the
// fields present in the schema are looked at; ref anchors relative dates and
// defaultCurrency covers unmapped or missing currency tokens.
func Expense(s *schema.Schema, raw map[string]any, ref time.Time, defaultCurrency string) (models.ExpenseRecord, error) {
	var rec models.ExpenseRecord

	for _, f := range s.Fields {
		v := raw[f.Name]

		switch f.Name {
		case "amount":
			d, err := Amount(v)
			if err != nil {
				return rec, err
			}
			rec.Amount = &d
		case "currency":
			rec.Currency = Currency(stringVal(v), defaultCurrency)
		case "category":
			rec.Category = models.ParseCategory(stringVal(v))
		case "payment_method":
			rec.PaymentMethod = models.ParsePaymentMethod(stringVal(v))
		case "date":
			date, err := Date(stringVal(v), ref)
			if err != nil {
				return rec, errs.NewExtractionFailure(err.Error(), "", err)
			}
			rec.Date = date
		case "description":
			rec.Description = stringVal(v)
		case "vendor":
			rec.Vendor = stringVal(v)
		case "tax_rate":
			d, err := optionalAmount(v)
			if err != nil {
				return rec, err
			}
			rec.TaxRate = d
		case "tax_amount":
			d, err := optionalAmount(v)
			if err != nil {
				return rec, err
			}
			rec.TaxAmount = d
		case "line_items":
			items, err := lineItems(v)
			if err != nil {
				return rec, err
			}
			rec.LineItems = items
		}
	}

	// A category hint from the caller overrides whatever the model inferred,
	// even when the category field itself was not requested.
	if s.ExpenseType != "" {
		rec.Category = s.ExpenseType
	}

	return rec, nil
}

// Receipt turns a decoded receipt envelope into a normalized record and
// cross-checks the totals.
func Receipt(env *schema.ReceiptEnvelope, ref time.Time, defaultCurrency string) (*models.ReceiptRecord, error) {
	rec := &models.ReceiptRecord{
		PaymentMethod:    models.ParsePaymentMethod(env.PaymentMethod),
		LanguageDetected: env.LanguageDetected,
		LineItems:        []models.LineItem{},
	}

	switch models.PaymentStatus(env.PaymentStatus) {
	case models.PaymentStatusPaid, models.PaymentStatusUnpaid, models.PaymentStatusPartial:
		rec.PaymentStatus = models.PaymentStatus(env.PaymentStatus)
	}

	if env.Vendor != nil {
		rec.Vendor = &models.Vendor{
			Name:    stringVal(env.Vendor["name"]),
			Address: stringVal(env.Vendor["address"]),
			Phone:   stringVal(env.Vendor["phone"]),
			TaxID:   stringVal(env.Vendor["tax_id"]),
		}
	}

	if env.Invoice != nil {
		inv := &models.Invoice{
			Number: stringVal(env.Invoice["number"]),
			Type:   stringVal(env.Invoice["type"]),
		}
		var err error
		if inv.Date, err = Date(stringVal(env.Invoice["date"]), ref); err != nil {
			return nil, errs.NewExtractionFailure(err.Error(), "", err)
		}
		if inv.DueDate, err = Date(stringVal(env.Invoice["due_date"]), ref); err != nil {
			return nil, errs.NewExtractionFailure(err.Error(), "", err)
		}
		rec.Invoice = inv
	}

	for _, raw := range env.LineItems {
		item, err := lineItem(raw)
		if err != nil {
			return nil, err
		}
		rec.LineItems = append(rec.LineItems, item)
	}

	if env.Totals != nil {
		totals := &models.Totals{
			Currency: Currency(stringVal(env.Totals["currency"]), defaultCurrency),
		}
		var err error
		if totals.Subtotal, err = optionalAmount(env.Totals["subtotal"]); err != nil {
			return nil, err
		}
		if totals.TaxRate, err = optionalAmount(env.Totals["tax_rate"]); err != nil {
			return nil, err
		}
		if totals.TaxAmount, err = optionalAmount(env.Totals["tax_amount"]); err != nil {
			return nil, err
		}
		if d, err := optionalAmount(env.Totals["discount"]); err != nil {
			return nil, err
		} else if d != nil {
			totals.Discount = *d
		}
		total, err := Amount(env.Totals["total"])
		if err != nil {
			return nil, err
		}
		totals.Total = total
		rec.Totals = totals
	}

	rec.TotalsConsistent = rec.Totals.Consistent()
	return rec, nil
}

func lineItems(v any) ([]models.LineItem, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, errs.NewExtractionFailure("line_items is not an array", "", nil)
	}
	items := make([]models.LineItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, errs.NewExtractionFailure("line item is not an object", "", nil)
		}
		item, err := lineItem(m)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func lineItem(m map[string]any) (models.LineItem, error) {
	item := models.LineItem{
		Description: stringVal(m["description"]),
	}
	if c := stringVal(m["category"]); c != "" {
		item.Category = models.ParseCategory(c)
	}

	if q, err := optionalAmount(m["quantity"]); err != nil {
		return item, err
	} else if q != nil {
		item.Quantity = *q
	}

	var err error
	if item.UnitPrice, err = optionalAmount(m["unit_price"]); err != nil {
		return item, err
	}

	total, err := Amount(m["total"])
	if err != nil {
		return item, err
	}
	item.Total = total
	return item, nil
}

func stringVal(v any) string {
	s, _ := v.(string)
	return s
}
