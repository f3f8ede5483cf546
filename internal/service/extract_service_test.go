package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"masarif/internal/errs"
	"masarif/internal/schema"
	"masarif/pkg/retry"
)

func defaultFields() []string {
	return schema.DefaultFields()
}

// fakeGenerator scripts provider behavior per call. Safe for concurrent use
// because batch extraction calls it from several goroutines.
type fakeGenerator struct {
	mu      sync.Mutex
	fn      func(prompt string) (string, error)
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.fn(prompt)
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      1,
	}
}

func newTestExtractService(gen Generator) *ExtractService {
	s := NewExtractService(gen, testPolicy(), "MAD", 2, zap.NewNop())
	s.now = func() time.Time {
		return time.Date(2025, 12, 29, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func respond(body string) func(string) (string, error) {
	return func(string) (string, error) { return body, nil }
}

func TestExtractSingleDarijaTaxi(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expense": {"amount": 15, "currency": "dh", "category": "transport", "description": "taxi ride"},
		"language_detected": "darija",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSingle(context.Background(), "khlsst 15 dh f taxi", defaultFields(), "", "")
	require.NoError(t, err)

	require.NotNil(t, result.Expense.Amount)
	assert.Equal(t, "15", result.Expense.Amount.String())
	assert.Equal(t, "MAD", result.Expense.Currency)
	assert.Equal(t, "transport", string(result.Expense.Category))
	assert.Equal(t, "darija", result.LanguageDetected)
	assert.False(t, result.AmbiguousLanguage)
	assert.Equal(t, 1, gen.callCount())
}

func TestExtractSingleDollarCurrency(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expense": {"amount": 15, "currency": "$", "category": "food", "description": "lunch"},
		"language_detected": "english",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSingle(context.Background(), "spent $15 on lunch", defaultFields(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "USD", result.Expense.Currency)
}

func TestExtractSingleResolvesRelativeDate(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expense": {"amount": 40, "currency": "dh", "date": "yesterday"},
		"language_detected": "english",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSingle(context.Background(), "paid 40dh yesterday", []string{"amount", "currency", "date"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-28", result.Expense.Date)
}

func TestExtractSingleUnknownFieldSkipsProvider(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{}`)}
	svc := newTestExtractService(gen)

	_, err := svc.ExtractSingle(context.Background(), "15 dh taxi", []string{"amount", "iban"}, "", "")
	require.Error(t, err)
	assert.Equal(t, errs.CodeUnknownField, errs.CodeOf(err))
	assert.Equal(t, 0, gen.callCount())
}

func TestExtractSingleAcceptsMarkdownFences(t *testing.T) {
	gen := &fakeGenerator{fn: respond("Here you go:\n```json\n" + `{"expense":{"amount":20,"currency":"eur","category":"food","description":"pizza"},"language_detected":"german","success":true}` + "\n```")}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSingle(context.Background(), "20 euro pizza gestern", defaultFields(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "EUR", result.Expense.Currency)
}

func TestExtractSingleMalformedResponseNotRetried(t *testing.T) {
	gen := &fakeGenerator{fn: respond("I cannot extract anything from this text.")}
	svc := newTestExtractService(gen)

	_, err := svc.ExtractSingle(context.Background(), "15 dh taxi", defaultFields(), "", "")
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(err))
	assert.Equal(t, 1, gen.callCount(), "contract violations must not be retried")
}

func TestExtractSingleSchemaViolationCarriesRawResponse(t *testing.T) {
	body := `{"expense":{"amount":"plenty"},"language_detected":"english","success":true}`
	gen := &fakeGenerator{fn: respond(body)}
	svc := newTestExtractService(gen)

	_, err := svc.ExtractSingle(context.Background(), "some text", []string{"amount"}, "", "")
	require.Error(t, err)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.CodeExtractionFailure, e.Code)
	assert.Equal(t, body, e.RawResponse)
	assert.Equal(t, 1, gen.callCount())
}

func TestExtractSingleTransientErrorsExhaustRetries(t *testing.T) {
	gen := &fakeGenerator{fn: func(string) (string, error) {
		return "", errs.NewProviderError(errors.New("connection reset"))
	}}
	svc := newTestExtractService(gen)

	_, err := svc.ExtractSingle(context.Background(), "15 dh taxi", defaultFields(), "", "")
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionUnavailable, errs.CodeOf(err))
	assert.Equal(t, 3, gen.callCount())
}

func TestExtractSingleRecoversAfterTransientError(t *testing.T) {
	attempts := 0
	gen := &fakeGenerator{fn: func(string) (string, error) {
		attempts++
		if attempts == 1 {
			return "", errs.NewProviderError(errors.New("timeout"))
		}
		return `{"expense":{"amount":10,"currency":"dh","category":"food","description":"bread"},"language_detected":"darija","success":true}`, nil
	}}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSingle(context.Background(), "chrit khobz b 10dh", defaultFields(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "10", result.Expense.Amount.String())
	assert.Equal(t, 2, gen.callCount())
}

func TestExtractSingleNoExpenseFound(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{"expense":null,"language_detected":"english","success":false}`)}
	svc := newTestExtractService(gen)

	_, err := svc.ExtractSingle(context.Background(), "hello how are you", defaultFields(), "", "")
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(err))
}

func TestExtractSingleFlagsAmbiguousLanguage(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expense": {"amount": 5, "currency": "dh", "category": "other", "description": "misc"},
		"language_detected": "unknown",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSingle(context.Background(), "5dh", defaultFields(), "", "")
	require.NoError(t, err)
	assert.True(t, result.AmbiguousLanguage)
}

func TestExtractSingleEmptyFieldSetReturnsEnvelopeOnly(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{"expense":{},"language_detected":"english","success":true}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSingle(context.Background(), "paid 15dh", nil, "", "")
	require.NoError(t, err)

	assert.Equal(t, "english", result.LanguageDetected)
	assert.Nil(t, result.Expense.Amount)
	assert.Empty(t, result.Expense.Currency)
}

func TestExtractMultiDarijaThreeExpenses(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expenses": [
			{"amount": 50, "currency": "dh", "category": "transport", "description": "taxi"},
			{"amount": 30, "currency": "dh", "category": "food", "description": "sandwich"},
			{"amount": 100, "currency": "dh", "category": "utilities", "description": "telephone"}
		],
		"language_detected": "darija",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractMulti(context.Background(), "khlsst 50dh f taxi w 30dh f sandwich w 100dh f telephone", defaultFields(), "", "")
	require.NoError(t, err)

	require.Equal(t, 3, result.Count)
	for _, exp := range result.Expenses {
		assert.Equal(t, "MAD", exp.Currency)
	}
	assert.Equal(t, "50", result.Expenses[0].Amount.String())
	assert.Equal(t, "30", result.Expenses[1].Amount.String())
	assert.Equal(t, "100", result.Expenses[2].Amount.String())
}

func TestExtractMultiIsolatesBadRecords(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expenses": [
			{"amount": 50, "currency": "dh", "date": "2025-12-20", "description": "taxi"},
			{"amount": 30, "currency": "dh", "date": "sometime last spring", "description": "sandwich"},
			{"amount": 100, "currency": "dh", "date": "yesterday", "description": "telephone"}
		],
		"language_detected": "english",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractMulti(context.Background(), "three purchases", []string{"amount", "currency", "date", "description"}, "", "")
	require.NoError(t, err, "one bad record must not abort the whole request")

	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Index)
	assert.Contains(t, result.Failures[0].Error, "sometime last spring")
	assert.Equal(t, "2025-12-28", result.Expenses[1].Date)
}

func TestExtractMultiAllRecordsBadIsFailure(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expenses": [{"amount": 10, "currency": "dh", "date": "whenever"}],
		"language_detected": "english",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	_, err := svc.ExtractMulti(context.Background(), "one purchase", []string{"amount", "currency", "date"}, "", "")
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(err))
}

func TestExtractMultiEmptyListIsFailure(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{"expenses":[],"language_detected":"english","success":true}`)}
	svc := newTestExtractService(gen)

	_, err := svc.ExtractMulti(context.Background(), "nothing here", defaultFields(), "", "")
	require.Error(t, err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(err))
}

func TestExtractSmartRoutesMultiplePricesToMulti(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expenses": [
			{"amount": 50, "currency": "dh", "category": "transport", "description": "taxi"},
			{"amount": 30, "currency": "dh", "category": "food", "description": "sandwich"}
		],
		"language_detected": "darija",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSmart(context.Background(), "khlsst 50dh f taxi w 30dh f sandwich", defaultFields(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "EVERY distinct expense")
}

func TestExtractSmartRoutesSinglePriceToSingle(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expense": {"amount": 15, "currency": "dh", "category": "transport", "description": "taxi"},
		"language_detected": "darija",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSmart(context.Background(), "khlsst 15dh f taxi", defaultFields(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	require.Len(t, gen.prompts, 1)
	assert.NotContains(t, gen.prompts[0], "EVERY distinct expense")
}

func TestExtractBatchIsolatesFailures(t *testing.T) {
	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "garbled") {
			return "no dice", nil
		}
		return `{"expense":{"amount":10,"currency":"dh","category":"food","description":"snack"},"language_detected":"darija","success":true}`, nil
	}}
	svc := newTestExtractService(gen)

	texts := []string{"10dh snack", "garbled nonsense", "10dh snack again"}
	results := svc.ExtractBatch(context.Background(), texts, defaultFields(), "")

	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Result)
	assert.Equal(t, 1, results[0].Result.Count)

	require.Error(t, results[1].Err)
	assert.Equal(t, errs.CodeExtractionFailure, errs.CodeOf(results[1].Err))
	assert.Nil(t, results[1].Result)

	assert.NoError(t, results[2].Err)
	require.NotNil(t, results[2].Result)
}

func TestExtractBatchPreservesOrder(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{"expense":{"amount":10,"currency":"dh","category":"food","description":"snack"},"language_detected":"darija","success":true}`)}
	svc := newTestExtractService(gen)

	texts := []string{"a 10dh", "b 10dh", "c 10dh", "d 10dh", "e 10dh"}
	results := svc.ExtractBatch(context.Background(), texts, defaultFields(), "")

	require.Len(t, results, len(texts))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.NoError(t, r.Err)
	}
}

func TestExtractPromptPinsCategory(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expense": {"amount": 200, "currency": "dh", "category": "shopping", "description": "groceries"},
		"language_detected": "english",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	result, err := svc.ExtractSingle(context.Background(), "200 dh at marjane", nil, "food", "")
	require.NoError(t, err)

	// The caller's hint wins over the model's answer, and the prompt told
	// the model which category to use.
	assert.Equal(t, "food", string(result.Expense.Category))
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `"food"`)
}

func TestExtractPromptCarriesLanguageHint(t *testing.T) {
	gen := &fakeGenerator{fn: respond(`{
		"expense": {"amount": 15, "currency": "dh", "category": "transport", "description": "taxi"},
		"language_detected": "darija",
		"success": true
	}`)}
	svc := newTestExtractService(gen)

	_, err := svc.ExtractSingle(context.Background(), "khlsst 15dh f taxi", defaultFields(), "", "Moroccan Darija")
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Moroccan Darija")
}
