// Package normalize converts raw model output into validated domain values:
// currency symbols to ISO 4217 codes, relative date phrases to calendar
// dates, and amounts to exact decimals.
package normalize

import "strings"

// symbolToISO maps currency symbols and colloquial names, lowercased, to
// ISO 4217 codes. Moroccan dirham spellings dominate because that is where
// most of the input comes from.
var symbolToISO = map[string]string{
	"dh":      "MAD",
	"dhs":     "MAD",
	"dirham":  "MAD",
	"dirhams": "MAD",
	"درهم":    "MAD",
	"دراهم":   "MAD",

	"$":       "USD",
	"dollar":  "USD",
	"dollars": "USD",

	"€":     "EUR",
	"euro":  "EUR",
	"euros": "EUR",

	"£":      "GBP",
	"pound":  "GBP",
	"pounds": "GBP",

	"₽":      "RUB",
	"руб":    "RUB",
	"рублей": "RUB",

	"¥":   "JPY",
	"yen": "JPY",
}

// Currency resolves a raw currency token to an ISO 4217 code. The lookup
// table wins over the passthrough: "dhs" and "yen" are colloquial names, not
// codes. Codes not in the table pass through unchanged, so the function is
// idempotent. Anything unrecognized falls back to the configured default.
func Currency(raw, fallback string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return fallback
	}
	if code, ok := symbolToISO[strings.ToLower(token)]; ok {
		return code
	}
	if isISOCode(token) {
		return strings.ToUpper(token)
	}
	return fallback
}

func isISOCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
