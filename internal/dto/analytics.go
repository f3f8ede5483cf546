package dto

import "masarif/internal/models"

// AnalyticsRequest carries the record set to aggregate. The service is
// stateless; clients resubmit the records they extracted earlier. GroupBy
// picks the breakdown key (category, payment_method, date); Period keeps
// only records whose date starts with it ("2025", "2025-12").
type AnalyticsRequest struct {
	Expenses []models.ExpenseRecord `json:"expenses" validate:"required"`
	GroupBy  string                 `json:"group_by,omitempty"`
	Period   string                 `json:"period,omitempty"`
}

// AnomaliesRequest optionally overrides the flagging factor (amounts at
// least Factor times their category mean are flagged).
type AnomaliesRequest struct {
	Expenses []models.ExpenseRecord `json:"expenses" validate:"required"`
	Factor   float64                `json:"factor,omitempty"`
}

// ExportRequest carries the records to render. Title and IncludeSummary only
// apply to Excel export; IncludeSummary defaults to true when omitted.
type ExportRequest struct {
	Expenses       []models.ExpenseRecord `json:"expenses" validate:"required"`
	Title          string                 `json:"title,omitempty"`
	IncludeSummary *bool                  `json:"include_summary,omitempty"`
}
