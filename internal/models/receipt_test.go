package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestTotalsConsistent(t *testing.T) {
	tests := []struct {
		name   string
		totals *Totals
		want   bool
	}{
		{
			name: "subtotal plus tax matches total",
			totals: &Totals{
				Subtotal:  decPtr("100.00"),
				TaxAmount: decPtr("20.00"),
				Total:     dec("120.00"),
			},
			want: true,
		},
		{
			name: "rounding within tolerance",
			totals: &Totals{
				Subtotal:  decPtr("33.335"),
				TaxAmount: decPtr("6.67"),
				Total:     dec("40.01"),
			},
			want: true,
		},
		{
			name: "total off by more than a cent",
			totals: &Totals{
				Subtotal:  decPtr("100.00"),
				TaxAmount: decPtr("20.00"),
				Total:     dec("125.00"),
			},
			want: false,
		},
		{
			name: "discount subtracted before comparison",
			totals: &Totals{
				Subtotal:  decPtr("100.00"),
				TaxAmount: decPtr("20.00"),
				Discount:  dec("10.00"),
				Total:     dec("110.00"),
			},
			want: true,
		},
		{
			name: "no subtotal means no cross-check",
			totals: &Totals{
				Total: dec("99.99"),
			},
			want: true,
		},
		{
			name: "no tax amount still checked against subtotal",
			totals: &Totals{
				Subtotal: decPtr("50.00"),
				Total:    dec("50.00"),
			},
			want: true,
		},
		{
			name:   "nil totals",
			totals: nil,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.totals.Consistent())
		})
	}
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryTransport, ParseCategory("transport"))
	assert.Equal(t, CategoryFood, ParseCategory("food"))
	assert.Equal(t, CategoryOther, ParseCategory("groceries"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}

func TestParsePaymentMethod(t *testing.T) {
	assert.Equal(t, PaymentCash, ParsePaymentMethod("cash"))
	assert.Equal(t, PaymentMobile, ParsePaymentMethod("mobile"))
	assert.Equal(t, PaymentOther, ParsePaymentMethod("bitcoin"))
}
