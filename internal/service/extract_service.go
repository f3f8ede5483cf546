package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"masarif/internal/errs"
	"masarif/internal/models"
	"masarif/internal/normalize"
	"masarif/internal/schema"
	"masarif/pkg/retry"
)

// ExtractService turns free-form expense text into normalized records via
// the model provider.
type ExtractService struct {
	gen              Generator
	policy           retry.Policy
	defaultCurrency  string
	batchConcurrency int
	logger           *zap.Logger

	// now is swappable so relative-date resolution is testable.
	now func() time.Time
}

func NewExtractService(gen Generator, policy retry.Policy, defaultCurrency string, batchConcurrency int, logger *zap.Logger) *ExtractService {
	if batchConcurrency < 1 {
		batchConcurrency = 1
	}
	return &ExtractService{
		gen:              gen,
		policy:           policy,
		defaultCurrency:  defaultCurrency,
		batchConcurrency: batchConcurrency,
		logger:           logger,
		now:              time.Now,
	}
}

// ExtractionResult is one extracted and normalized expense.
type ExtractionResult struct {
	Expense          models.ExpenseRecord `json:"expense"`
	LanguageDetected string               `json:"language_detected"`

	// AmbiguousLanguage is set when the model could not identify the input
	// language. The extraction itself still stands.
	AmbiguousLanguage bool `json:"ambiguous_language,omitempty"`
}

// ItemFailure reports one expense the model returned that failed
// normalization in multi mode. The surviving records are still delivered.
type ItemFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// MultiExtractionResult holds every expense found in one text.
type MultiExtractionResult struct {
	Expenses          []models.ExpenseRecord `json:"expenses"`
	Count             int                    `json:"count"`
	LanguageDetected  string                 `json:"language_detected"`
	AmbiguousLanguage bool                   `json:"ambiguous_language,omitempty"`
	Failures          []ItemFailure          `json:"failures,omitempty"`
}

// ExtractSingle extracts exactly one expense from text using the requested
// field set. With an empty field set the expense object in the contract has
// no fields, so the result carries only the detected language.
func (s *ExtractService) ExtractSingle(ctx context.Context, text string, fields []string, expenseType, language string) (*ExtractionResult, error) {
	sch, err := schema.Build(fields, expenseType)
	if err != nil {
		return nil, err
	}

	raw, err := s.complete(ctx, buildExtractionPrompt(text, sch, schema.ModeSingle, language))
	if err != nil {
		return nil, err
	}

	env, err := sch.DecodeSingle([]byte(raw))
	if err != nil {
		return nil, err
	}
	if !env.Success || env.Expense == nil {
		return nil, errs.NewExtractionFailure("no expense found in input", raw, nil)
	}

	rec, err := normalize.Expense(sch, sch.Prune(env.Expense), s.now(), s.defaultCurrency)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Expense extracted",
		zap.String("language", env.LanguageDetected),
		zap.Strings("fields", sch.FieldNames()),
	)

	return &ExtractionResult{
		Expense:           rec,
		LanguageDetected:  env.LanguageDetected,
		AmbiguousLanguage: isAmbiguousLanguage(env.LanguageDetected),
	}, nil
}

// ExtractMulti extracts every distinct expense mentioned in text. A record
// that fails normalization is reported as a per-item failure; it never drags
// the valid records down with it.
func (s *ExtractService) ExtractMulti(ctx context.Context, text string, fields []string, expenseType, language string) (*MultiExtractionResult, error) {
	sch, err := schema.Build(fields, expenseType)
	if err != nil {
		return nil, err
	}

	raw, err := s.complete(ctx, buildExtractionPrompt(text, sch, schema.ModeMulti, language))
	if err != nil {
		return nil, err
	}

	env, err := sch.DecodeMulti([]byte(raw))
	if err != nil {
		return nil, err
	}
	if !env.Success || len(env.Expenses) == 0 {
		return nil, errs.NewExtractionFailure("no expenses found in input", raw, nil)
	}

	records := make([]models.ExpenseRecord, 0, len(env.Expenses))
	var failures []ItemFailure
	for i, obj := range env.Expenses {
		rec, err := normalize.Expense(sch, sch.Prune(obj), s.now(), s.defaultCurrency)
		if err != nil {
			failures = append(failures, ItemFailure{Index: i, Error: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, errs.NewExtractionFailure("no expenses survived normalization", raw, nil)
	}

	s.logger.Info("Expenses extracted",
		zap.Int("count", len(records)),
		zap.Int("failed", len(failures)),
		zap.String("language", env.LanguageDetected),
	)

	return &MultiExtractionResult{
		Expenses:          records,
		Count:             len(records),
		LanguageDetected:  env.LanguageDetected,
		AmbiguousLanguage: isAmbiguousLanguage(env.LanguageDetected),
		Failures:          failures,
	}, nil
}

// priceToken matches an amount next to a currency marker in any of the
// supported scripts.
var priceToken = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?\s*(?:dh|dhs|mad|usd|eur|gbp|درهم|dirham|euro|dollar|pound|\$|€|£))|(?:[$€£]\s*\d+(?:[.,]\d+)?)`)

// ExtractSmart routes between single and multi extraction: texts mentioning
// more than one price go through multi.
func (s *ExtractService) ExtractSmart(ctx context.Context, text string, fields []string, expenseType, language string) (*MultiExtractionResult, error) {
	if len(priceToken.FindAllString(text, 2)) > 1 {
		return s.ExtractMulti(ctx, text, fields, expenseType, language)
	}

	single, err := s.ExtractSingle(ctx, text, fields, expenseType, language)
	if err != nil {
		return nil, err
	}
	return &MultiExtractionResult{
		Expenses:          []models.ExpenseRecord{single.Expense},
		Count:             1,
		LanguageDetected:  single.LanguageDetected,
		AmbiguousLanguage: single.AmbiguousLanguage,
	}, nil
}

// BatchItemResult is the outcome for one text in a batch. Exactly one of
// Result and Err is set.
type BatchItemResult struct {
	Index  int
	Result *MultiExtractionResult
	Err    error
}

// ExtractBatch runs smart extraction over each text independently under
// bounded concurrency. One failing item never aborts the rest.
func (s *ExtractService) ExtractBatch(ctx context.Context, texts []string, fields []string, expenseType string) []BatchItemResult {
	results := make([]BatchItemResult, len(texts))

	sem := make(chan struct{}, s.batchConcurrency)
	var wg sync.WaitGroup

	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := s.ExtractSmart(ctx, text, fields, expenseType, "")
			results[i] = BatchItemResult{Index: i, Result: res, Err: err}
			if err != nil {
				s.logger.Warn("Batch item failed",
					zap.Int("index", i),
					zap.String("code", string(errs.CodeOf(err))),
					zap.Error(err),
				)
			}
		}(i, text)
	}

	wg.Wait()
	return results
}

func (s *ExtractService) complete(ctx context.Context, prompt string) (string, error) {
	return completeJSON(ctx, s.gen, s.policy, prompt)
}

func buildExtractionPrompt(text string, sch *schema.Schema, mode schema.Mode, language string) string {
	var b strings.Builder

	switch mode {
	case schema.ModeMulti:
		b.WriteString("Extract EVERY distinct expense from the text below. Emit one object per purchase.\n\n")
	default:
		b.WriteString("Extract the expense described in the text below.\n\n")
	}

	if sch.ExpenseType != "" {
		fmt.Fprintf(&b, "The caller already knows the category: use %q.\n\n", sch.ExpenseType)
	}
	if language != "" {
		fmt.Fprintf(&b, "The text is expected to be in %s.\n\n", language)
	}

	b.WriteString("Respond with ONLY a JSON document conforming to this JSON Schema:\n")
	b.WriteString(sch.Contract(mode))
	b.WriteString("\n\nText:\n")
	b.WriteString(sanitizeUTF8(text))

	return b.String()
}

func isAmbiguousLanguage(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "unknown", "mixed":
		return true
	}
	return false
}
