package schema

import "masarif/internal/errs"

// ReceiptOptions toggles the optional sections of the receipt contract.
type ReceiptOptions struct {
	IncludeVendor    bool
	IncludeLineItems bool
	IncludeTax       bool
}

// DefaultReceiptOptions enables every section.
func DefaultReceiptOptions() ReceiptOptions {
	return ReceiptOptions{IncludeVendor: true, IncludeLineItems: true, IncludeTax: true}
}

// ReceiptContract renders the strict JSON Schema for full receipt parsing.
// Unlike expense contracts the shape is fixed; options only drop sections.
func ReceiptContract(opts ReceiptOptions) string {
	return marshalDoc(receiptEnvelope(opts, false))
}

// ValidateReceipt checks raw model output against the tolerant receipt
// contract.
func ValidateReceipt(opts ReceiptOptions, raw []byte) error {
	return validate(marshalDoc(receiptEnvelope(opts, true)), raw)
}

// ReceiptEnvelope is the decoded receipt response. Amounts stay as
// json.Number until normalization.
type ReceiptEnvelope struct {
	Vendor           map[string]any   `json:"vendor"`
	Invoice          map[string]any   `json:"invoice"`
	LineItems        []map[string]any `json:"line_items"`
	Totals           map[string]any   `json:"totals"`
	PaymentMethod    string           `json:"payment_method"`
	PaymentStatus    string           `json:"payment_status"`
	LanguageDetected string           `json:"language_detected"`
	Success          bool             `json:"success"`
}

// DecodeReceipt validates and decodes a receipt response.
func DecodeReceipt(opts ReceiptOptions, raw []byte) (*ReceiptEnvelope, error) {
	if err := ValidateReceipt(opts, raw); err != nil {
		return nil, err
	}
	var env ReceiptEnvelope
	if err := decodeNumeric(raw, &env); err != nil {
		return nil, errs.NewExtractionFailure("response is not valid JSON", string(raw), err)
	}
	return &env, nil
}

func receiptEnvelope(opts ReceiptOptions, tolerant bool) map[string]any {
	props := map[string]any{
		"invoice": objectOf(tolerant, nil, map[string]any{
			"number":   map[string]any{"type": []any{"string", "null"}},
			"date":     map[string]any{"type": []any{"string", "null"}, "description": "YYYY-MM-DD"},
			"due_date": map[string]any{"type": []any{"string", "null"}},
			"type":     map[string]any{"type": []any{"string", "null"}, "enum": []any{"receipt", "invoice", "bill", nil}},
		}),
		"totals":            totalsObject(opts, tolerant),
		"payment_method":    map[string]any{"type": []any{"string", "null"}, "enum": enumWithNull(paymentMethodNames())},
		"payment_status":    map[string]any{"type": []any{"string", "null"}, "enum": []any{"paid", "unpaid", "partial", nil}},
		"language_detected": map[string]any{"type": "string"},
		"success":           map[string]any{"type": "boolean"},
	}
	required := []string{"totals", "language_detected", "success"}

	if opts.IncludeVendor {
		props["vendor"] = objectOf(tolerant, []string{"name"}, map[string]any{
			"name":    map[string]any{"type": "string"},
			"address": map[string]any{"type": []any{"string", "null"}},
			"phone":   map[string]any{"type": []any{"string", "null"}},
			"tax_id":  map[string]any{"type": []any{"string", "null"}},
		})
	}
	if opts.IncludeLineItems {
		itemProps := make(map[string]any, len(lineItemFields))
		var itemRequired []string
		for _, f := range lineItemFields {
			itemProps[f.Name] = fieldProperty(f, tolerant)
			if f.Required {
				itemRequired = append(itemRequired, f.Name)
			}
		}
		props["line_items"] = map[string]any{
			"type":  "array",
			"items": objectOf(tolerant, itemRequired, itemProps),
		}
		required = append(required, "line_items")
	}

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": tolerant,
	}
}

func totalsObject(opts ReceiptOptions, tolerant bool) map[string]any {
	props := map[string]any{
		"subtotal": map[string]any{"type": []any{"number", "null"}},
		"discount": map[string]any{"type": []any{"number", "null"}},
		"total":    map[string]any{"type": "number"},
		"currency": map[string]any{"type": []any{"string", "null"}},
	}
	if opts.IncludeTax {
		props["tax_rate"] = map[string]any{"type": []any{"number", "null"}, "description": "tax rate in percent"}
		props["tax_amount"] = map[string]any{"type": []any{"number", "null"}}
	}
	return objectOf(tolerant, []string{"total"}, props)
}

func objectOf(tolerant bool, required []string, props map[string]any) map[string]any {
	obj := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": tolerant,
	}
	if len(required) > 0 {
		obj["required"] = required
	}
	return obj
}

func enumWithNull(values []string) []any {
	out := make([]any, 0, len(values)+1)
	for _, v := range values {
		out = append(out, v)
	}
	return append(out, nil)
}
