package models

import (
	"github.com/shopspring/decimal"
)

// PaymentStatus is the closed set of receipt payment states.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
)

type Vendor struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

type Invoice struct {
	Number  string `json:"number,omitempty"`
	Date    string `json:"date,omitempty"`
	DueDate string `json:"due_date,omitempty"`
	Type    string `json:"type,omitempty"` // receipt, invoice, or bill
}

type LineItem struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Total       decimal.Decimal  `json:"total"`
	Category    Category         `json:"category,omitempty"`
}

type Totals struct {
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
	TaxRate   *decimal.Decimal `json:"tax_rate,omitempty"`
	TaxAmount *decimal.Decimal `json:"tax_amount,omitempty"`
	Discount  decimal.Decimal  `json:"discount"`
	Total     decimal.Decimal  `json:"total"`
	Currency  string           `json:"currency"`
}

// totalsTolerance is the rounding slack allowed between the stated total
// and subtotal + tax - discount, in the record's currency unit.
var totalsTolerance = decimal.NewFromFloat(0.01)

// Consistent reports whether total matches subtotal + tax_amount - discount
// within rounding tolerance. Receipts without a stated subtotal cannot be
// cross-checked and are treated as consistent.
func (t *Totals) Consistent() bool {
	if t == nil || t.Subtotal == nil {
		return true
	}
	expected := *t.Subtotal
	if t.TaxAmount != nil {
		expected = expected.Add(*t.TaxAmount)
	}
	expected = expected.Sub(t.Discount)
	return t.Total.Sub(expected).Abs().Cmp(totalsTolerance) < 0
}

// ReceiptRecord is a fully parsed receipt or invoice.
type ReceiptRecord struct {
	Vendor           *Vendor       `json:"vendor,omitempty"`
	Invoice          *Invoice      `json:"invoice,omitempty"`
	LineItems        []LineItem    `json:"line_items"`
	Totals           *Totals       `json:"totals,omitempty"`
	PaymentMethod    PaymentMethod `json:"payment_method,omitempty"`
	PaymentStatus    PaymentStatus `json:"payment_status,omitempty"`
	LanguageDetected string        `json:"language_detected,omitempty"`

	// TotalsConsistent mirrors Totals.Consistent; a violating receipt is
	// flagged rather than dropped.
	TotalsConsistent bool `json:"totals_consistent"`
}
