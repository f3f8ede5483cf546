package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masarif/internal/errs"
	"masarif/internal/models"
)

func TestBuildCanonicalizesAndDedupes(t *testing.T) {
	s, err := Build([]string{"currency", "amount", "currency", "date"}, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"amount", "currency", "date"}, s.FieldNames())
}

func TestBuildRejectsUnknownField(t *testing.T) {
	_, err := Build([]string{"amount", "iban"}, "")
	require.Error(t, err)
	assert.Equal(t, errs.CodeUnknownField, errs.CodeOf(err))
	assert.Contains(t, err.Error(), "iban")
}

func TestBuildEmptyFieldSet(t *testing.T) {
	s, err := Build(nil, "")
	require.NoError(t, err)
	assert.Empty(t, s.FieldNames())

	// The contract still carries the envelope fields.
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s.Contract(ModeSingle)), &doc))
	props := doc["properties"].(map[string]any)
	assert.Contains(t, props, "success")
	assert.Contains(t, props, "language_detected")
}

func TestBuildExpenseTypeHint(t *testing.T) {
	s, err := Build([]string{"amount", "category"}, "transport")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTransport, s.ExpenseType)

	// Unrecognized hints are ignored, not rejected.
	s, err = Build([]string{"amount", "category"}, "crypto")
	require.NoError(t, err)
	assert.Empty(t, s.ExpenseType)
}

func TestContractShape(t *testing.T) {
	s, err := Build([]string{"amount", "currency", "category"}, "")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s.Contract(ModeSingle)), &doc))

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])
	assert.Equal(t, false, doc["additionalProperties"])

	props := doc["properties"].(map[string]any)
	assert.Contains(t, props, "expense")
	assert.Contains(t, props, "success")
	assert.Contains(t, props, "language_detected")

	expense := props["expense"].(map[string]any)
	assert.Equal(t, false, expense["additionalProperties"])

	expenseProps := expense["properties"].(map[string]any)
	assert.Len(t, expenseProps, 3)
	assert.Contains(t, expenseProps, "amount")
	assert.Contains(t, expenseProps, "currency")
	assert.Contains(t, expenseProps, "category")

	category := expenseProps["category"].(map[string]any)
	assert.Contains(t, category["enum"], "transport")
}

func TestContractMultiUsesArray(t *testing.T) {
	s, err := Build([]string{"amount"}, "")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s.Contract(ModeMulti)), &doc))

	props := doc["properties"].(map[string]any)
	expenses := props["expenses"].(map[string]any)
	assert.Equal(t, "array", expenses["type"])
	assert.NotContains(t, props, "expense")
}

func TestContractIsDeterministic(t *testing.T) {
	a, err := Build([]string{"date", "amount", "vendor"}, "")
	require.NoError(t, err)
	b, err := Build([]string{"vendor", "date", "amount"}, "")
	require.NoError(t, err)

	assert.Equal(t, a.Contract(ModeSingle), b.Contract(ModeSingle))
}

func TestDecodeSingle(t *testing.T) {
	s, err := Build([]string{"amount", "currency"}, "")
	require.NoError(t, err)

	raw := `{"expense":{"amount":15,"currency":"dh"},"language_detected":"darija","success":true}`
	env, err := s.DecodeSingle([]byte(raw))
	require.NoError(t, err)

	assert.True(t, env.Success)
	assert.Equal(t, "darija", env.LanguageDetected)
	assert.Equal(t, json.Number("15"), env.Expense["amount"])
}

func TestDecodeSingleToleratesAndPrunesExtras(t *testing.T) {
	s, err := Build([]string{"amount"}, "")
	require.NoError(t, err)

	// Model invented "mood"; validation tolerates it, Prune drops it.
	raw := `{"expense":{"amount":15,"mood":"great"},"language_detected":"english","success":true}`
	env, err := s.DecodeSingle([]byte(raw))
	require.NoError(t, err)

	pruned := s.Prune(env.Expense)
	assert.Contains(t, pruned, "amount")
	assert.NotContains(t, pruned, "mood")
}

func TestDecodeSingleRejectsMissingEnvelope(t *testing.T) {
	s, err := Build([]string{"amount"}, "")
	require.NoError(t, err)

	_, err = s.DecodeSingle([]byte(`{"amount":15}`))
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(err))
}

func TestDecodeSingleRejectsWrongTypes(t *testing.T) {
	s, err := Build([]string{"amount"}, "")
	require.NoError(t, err)

	raw := `{"expense":{"amount":"plenty"},"language_detected":"english","success":true}`
	_, err = s.DecodeSingle([]byte(raw))
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(err))
}

func TestDecodeSingleRejectsMalformedJSON(t *testing.T) {
	s, err := Build([]string{"amount"}, "")
	require.NoError(t, err)

	_, err = s.DecodeSingle([]byte(`{"expense":`))
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(err))
}

func TestDecodeMulti(t *testing.T) {
	s, err := Build([]string{"amount", "currency"}, "")
	require.NoError(t, err)

	raw := `{"expenses":[{"amount":50,"currency":"dh"},{"amount":30,"currency":"dh"}],"language_detected":"darija","success":true}`
	env, err := s.DecodeMulti([]byte(raw))
	require.NoError(t, err)
	assert.Len(t, env.Expenses, 2)
}

func TestReceiptContractSections(t *testing.T) {
	full := ReceiptContract(DefaultReceiptOptions())
	assert.Contains(t, full, `"vendor"`)
	assert.Contains(t, full, `"line_items"`)
	assert.Contains(t, full, `"tax_amount"`)

	bare := ReceiptContract(ReceiptOptions{})
	assert.NotContains(t, bare, `"vendor"`)
	assert.NotContains(t, bare, `"line_items"`)
	assert.NotContains(t, bare, `"tax_amount"`)
	assert.Contains(t, bare, `"totals"`)
}

func TestDecodeReceipt(t *testing.T) {
	raw := `{
		"vendor": {"name": "Cafe Atlas"},
		"line_items": [{"description": "Espresso", "total": 12}],
		"totals": {"subtotal": 12, "tax_amount": 2.4, "total": 14.4, "currency": "MAD"},
		"payment_method": "cash",
		"payment_status": "paid",
		"language_detected": "french",
		"success": true
	}`

	env, err := DecodeReceipt(DefaultReceiptOptions(), []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "Cafe Atlas", env.Vendor["name"])
	require.Len(t, env.LineItems, 1)
	assert.Equal(t, json.Number("14.4"), env.Totals["total"])
}

func TestDecodeReceiptRequiresTotals(t *testing.T) {
	raw := `{"language_detected":"english","success":true,"line_items":[]}`
	_, err := DecodeReceipt(DefaultReceiptOptions(), []byte(raw))
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(err))
}

func TestVocabularyCoversAllFields(t *testing.T) {
	names := FieldNames()
	assert.Equal(t, []string{
		"amount", "currency", "category", "payment_method", "date",
		"description", "vendor", "tax_rate", "tax_amount", "line_items",
	}, names)

	for _, name := range DefaultFields() {
		assert.True(t, strings.Contains(strings.Join(names, ","), name))
	}
}
