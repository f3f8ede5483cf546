// Package schema builds per-request extraction contracts from a fixed field
// vocabulary and validates model output against them.
package schema

import (
	"masarif/internal/errs"
	"masarif/internal/models"
)

// FieldType tags the variants a vocabulary field can take.
type FieldType string

const (
	TypeNumber FieldType = "number"
	TypeString FieldType = "string"
	TypeEnum   FieldType = "enum"
	TypeDate   FieldType = "date"
	TypeList   FieldType = "list"
)

// FieldSpec describes one extractable field.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Required bool
	Hint     string
	Enum     []string
	Items    []FieldSpec
}

// lineItemFields is the nested shape of one entry in line_items.
var lineItemFields = []FieldSpec{
	{Name: "description", Type: TypeString, Required: true},
	{Name: "quantity", Type: TypeNumber},
	{Name: "unit_price", Type: TypeNumber},
	{Name: "total", Type: TypeNumber, Required: true},
	{Name: "category", Type: TypeEnum, Enum: categoryNames()},
}

// vocabulary is the complete set of requestable fields, in canonical order.
// Contracts are always emitted in this order so the same request produces
// the same document.
var vocabulary = []FieldSpec{
	{Name: "amount", Type: TypeNumber, Required: true, Hint: "numeric value only, no currency symbols"},
	{Name: "currency", Type: TypeString, Hint: "currency as written in the text, symbol or code"},
	{Name: "category", Type: TypeEnum, Enum: categoryNames()},
	{Name: "payment_method", Type: TypeEnum, Enum: paymentMethodNames()},
	{Name: "date", Type: TypeDate, Hint: "YYYY-MM-DD, or the relative phrase verbatim if no absolute date is given"},
	{Name: "description", Type: TypeString, Hint: "short free-text summary of the expense"},
	{Name: "vendor", Type: TypeString, Hint: "merchant or counterparty name"},
	{Name: "tax_rate", Type: TypeNumber, Hint: "tax rate in percent"},
	{Name: "tax_amount", Type: TypeNumber},
	{Name: "line_items", Type: TypeList, Items: lineItemFields},
}

var vocabularyByName = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(vocabulary))
	for _, f := range vocabulary {
		m[f.Name] = f
	}
	return m
}()

func categoryNames() []string {
	cats := models.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

func paymentMethodNames() []string {
	return []string{
		string(models.PaymentCash),
		string(models.PaymentCard),
		string(models.PaymentTransfer),
		string(models.PaymentMobile),
		string(models.PaymentOther),
	}
}

// FieldNames returns the full vocabulary in canonical order.
func FieldNames() []string {
	out := make([]string, len(vocabulary))
	for i, f := range vocabulary {
		out[i] = f.Name
	}
	return out
}

// DefaultFields is the field set the API applies when a request names none.
func DefaultFields() []string {
	return []string{"amount", "currency", "category", "description"}
}

// Schema is one resolved extraction contract.
type Schema struct {
	Fields []FieldSpec

	// ExpenseType, when set to a valid category, pins the category field
	// instead of letting the model infer it.
	ExpenseType models.Category
}

// Build resolves requested field names against the vocabulary. Duplicates
// collapse, order is canonicalized, and a name outside the vocabulary fails
// the whole request. An empty request is legal: the expense object in the
// contract is then empty and only the success and language_detected envelope
// fields carry information.
func Build(fields []string, expenseType string) (*Schema, error) {
	requested := make(map[string]bool, len(fields))
	for _, name := range fields {
		if _, ok := vocabularyByName[name]; !ok {
			return nil, errs.NewUnknownField(name)
		}
		requested[name] = true
	}

	s := &Schema{}
	for _, f := range vocabulary {
		if requested[f.Name] {
			s.Fields = append(s.Fields, f)
		}
	}

	if expenseType != "" {
		// An unrecognized hint is ignored rather than rejected; the model
		// then infers the category as usual.
		if c := models.ParseCategory(expenseType); string(c) == expenseType {
			s.ExpenseType = c
		}
	}

	return s, nil
}

// Has reports whether the schema includes the named field.
func (s *Schema) Has(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// FieldNames returns the resolved field names in contract order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Prune copies only schema fields out of a decoded expense object. Anything
// the model added beyond the contract is dropped.
func (s *Schema) Prune(m map[string]any) map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		if v, ok := m[f.Name]; ok {
			out[f.Name] = v
		}
	}
	return out
}
