package schema

import (
	"encoding/json"
)

// Mode selects the envelope shape of the contract.
type Mode string

const (
	// ModeSingle wraps one expense object.
	ModeSingle Mode = "single"
	// ModeMulti wraps an array of expense objects.
	ModeMulti Mode = "multi"
)

// Contract renders the JSON Schema (draft-07) the model is asked to follow.
// The emitted document is strict: additionalProperties is false so the model
// has no incentive to improvise keys.
func (s *Schema) Contract(mode Mode) string {
	return marshalDoc(s.envelope(mode, false))
}

// validationContract is the tolerant twin used to check responses. Extra
// keys are allowed at this stage and pruned afterwards instead of failing
// the whole extraction.
func (s *Schema) validationContract(mode Mode) string {
	return marshalDoc(s.envelope(mode, true))
}

func (s *Schema) envelope(mode Mode, tolerant bool) map[string]any {
	expense := s.expenseObject(tolerant)

	props := map[string]any{
		"language_detected": map[string]any{"type": "string"},
		"success":           map[string]any{"type": "boolean"},
	}
	required := []string{"language_detected", "success"}

	switch mode {
	case ModeMulti:
		props["expenses"] = map[string]any{
			"type":  "array",
			"items": expense,
		}
		required = append([]string{"expenses"}, required...)
	default:
		props["expense"] = expense
		required = append([]string{"expense"}, required...)
	}

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": tolerant,
	}
}

func (s *Schema) expenseObject(tolerant bool) map[string]any {
	props := make(map[string]any, len(s.Fields))
	var required []string

	for _, f := range s.Fields {
		props[f.Name] = fieldProperty(f, tolerant)
		if f.Required {
			required = append(required, f.Name)
		}
	}

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

func fieldProperty(f FieldSpec, tolerant bool) map[string]any {
	var prop map[string]any

	switch f.Type {
	case TypeNumber:
		prop = map[string]any{"type": typeFor("number", f.Required)}
	case TypeEnum:
		values := make([]any, 0, len(f.Enum)+1)
		for _, v := range f.Enum {
			values = append(values, v)
		}
		if !f.Required {
			values = append(values, nil)
		}
		prop = map[string]any{"type": typeFor("string", f.Required), "enum": values}
	case TypeList:
		itemProps := make(map[string]any, len(f.Items))
		var itemRequired []string
		for _, item := range f.Items {
			itemProps[item.Name] = fieldProperty(item, tolerant)
			if item.Required {
				itemRequired = append(itemRequired, item.Name)
			}
		}
		items := map[string]any{
			"type":                 "object",
			"properties":           itemProps,
			"additionalProperties": tolerant,
		}
		if len(itemRequired) > 0 {
			items["required"] = itemRequired
		}
		prop = map[string]any{"type": "array", "items": items}
	default:
		// string and date fields are both plain strings on the wire.
		prop = map[string]any{"type": typeFor("string", f.Required)}
	}

	if f.Hint != "" {
		prop["description"] = f.Hint
	}
	return prop
}

// typeFor widens optional fields to accept null, so a model that emits
// explicit nulls for absent values still validates.
func typeFor(base string, required bool) any {
	if required {
		return base
	}
	return []any{base, "null"}
}

func marshalDoc(doc map[string]any) string {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		// The document is built from plain maps and strings; this cannot
		// fail at runtime.
		panic(err)
	}
	return string(b)
}
