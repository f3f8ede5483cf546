package models

import (
	"github.com/shopspring/decimal"
)

// Category is the closed set of expense categories.
type Category string

const (
	CategoryTransport     Category = "transport"
	CategoryFood          Category = "food"
	CategoryUtilities     Category = "utilities"
	CategoryRent          Category = "rent"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

// Categories lists every valid category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryTransport,
		CategoryFood,
		CategoryUtilities,
		CategoryRent,
		CategoryEntertainment,
		CategoryShopping,
		CategoryHealth,
		CategoryEducation,
		CategoryTravel,
		CategoryOther,
	}
}

// ParseCategory maps free text onto the closed set, falling back to "other".
func ParseCategory(s string) Category {
	c := Category(s)
	for _, known := range Categories() {
		if c == known {
			return known
		}
	}
	return CategoryOther
}

// PaymentMethod is the closed set of payment methods.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentMobile   PaymentMethod = "mobile"
	PaymentOther    PaymentMethod = "other"
)

// ParsePaymentMethod maps free text onto the closed set, falling back to "other".
func ParsePaymentMethod(s string) PaymentMethod {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentMobile:
		return PaymentMethod(s)
	}
	return PaymentOther
}

// ExpenseRecord is one extracted expense. Only the fields the caller
// requested are populated; everything else stays at its zero value and is
// omitted from JSON.
type ExpenseRecord struct {
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	Category      Category         `json:"category,omitempty"`
	PaymentMethod PaymentMethod    `json:"payment_method,omitempty"`
	Date          string           `json:"date,omitempty"`
	Description   string           `json:"description,omitempty"`
	Vendor        string           `json:"vendor,omitempty"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	TaxAmount     *decimal.Decimal `json:"tax_amount,omitempty"`
	LineItems     []LineItem       `json:"line_items,omitempty"`
}
