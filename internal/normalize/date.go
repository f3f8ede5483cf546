package normalize

import (
	"fmt"
	"strings"
	"time"
)

// relativeDays maps relative date phrases, lowercased, to a day offset from
// the reference timestamp. Covers English, French, German, Moroccan Darija
// in Latin and Arabic script, and Standard Arabic.
var relativeDays = map[string]int{
	"today":                0,
	"tonight":              0,
	"this morning":         0,
	"this afternoon":       0,
	"this evening":         0,
	"yesterday":            -1,
	"day before yesterday": -2,
	"tomorrow":             1,

	"aujourd'hui": 0,
	"ce matin":    0,
	"ce soir":     0,
	"hier":        -1,
	"avant-hier":  -2,
	"demain":      1,

	"heute":      0,
	"gestern":    -1,
	"vorgestern": -2,
	"morgen":     1,

	"lyouma": 0,
	"lyoum":  0,
	"daba":   0,
	"lbareh": -1,
	"lbar7":  -1,
	"ghedda": 1,

	"اليوم":  0,
	"ليوما":  0,
	"أمس":    -1,
	"امس":    -1,
	"البارح": -1,
	"غدا":    1,
}

// absoluteLayouts are tried in order; the first parse wins. Day-first forms
// outrank month-first because the inputs are predominantly European.
var absoluteLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Date resolves a raw date value to YYYY-MM-DD. Relative phrases resolve
// against ref; absolute dates are calendar-validated and reformatted. An
// empty input stays empty. Anything else is an error the caller surfaces as
// an extraction failure.
func Date(raw string, ref time.Time) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", nil
	}

	if offset, ok := relativeDays[strings.ToLower(token)]; ok {
		return ref.AddDate(0, 0, offset).Format("2006-01-02"), nil
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}

	return "", fmt.Errorf("unrecognized date %q", raw)
}
