package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"masarif/internal/errs"
)

// Amount converts a raw amount value to a decimal. Accepts the numeric types
// a JSON decoder can produce plus numeric strings. Negative or non-numeric
// values are rejected.
func Amount(v any) (decimal.Decimal, error) {
	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, errs.NewInvalidAmount(fmt.Sprintf("%v", v))
	}
	if d.IsNegative() {
		return decimal.Zero, errs.NewInvalidAmount(d.String())
	}
	return d, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		return decimal.NewFromString(s)
	case decimal.Decimal:
		return n, nil
	default:
		return decimal.Zero, fmt.Errorf("not a number: %T", v)
	}
}

// optionalAmount is like Amount but treats nil and empty string as absent.
func optionalAmount(v any) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := Amount(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
