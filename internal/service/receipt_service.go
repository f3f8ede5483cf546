package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"masarif/internal/errs"
	"masarif/internal/models"
	"masarif/internal/normalize"
	"masarif/internal/schema"
	"masarif/pkg/retry"
)

// ReceiptService parses whole receipts and invoices into structured records:
// vendor block, line items, and cross-checked totals.
type ReceiptService struct {
	gen             Generator
	policy          retry.Policy
	defaultCurrency string
	logger          *zap.Logger

	now func() time.Time
}

func NewReceiptService(gen Generator, policy retry.Policy, defaultCurrency string, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		gen:             gen,
		policy:          policy,
		defaultCurrency: defaultCurrency,
		logger:          logger,
		now:             time.Now,
	}
}

// ParseText parses receipt text into a structured record. A receipt whose
// totals do not add up is flagged, not rejected; OCR noise makes that case
// common enough to keep.
func (s *ReceiptService) ParseText(ctx context.Context, text string, opts schema.ReceiptOptions) (*models.ReceiptRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.NewExtractionFailure("empty receipt text", "", nil)
	}

	raw, err := completeJSON(ctx, s.gen, s.policy, buildReceiptPrompt(text, opts))
	if err != nil {
		return nil, err
	}

	env, err := schema.DecodeReceipt(opts, []byte(raw))
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, errs.NewExtractionFailure("no receipt data found in input", raw, nil)
	}

	rec, err := normalize.Receipt(env, s.now(), s.defaultCurrency)
	if err != nil {
		return nil, err
	}

	if !rec.TotalsConsistent {
		s.logger.Warn("Receipt totals do not add up",
			zap.String("total", rec.Totals.Total.String()),
		)
	}
	s.logger.Info("Receipt parsed",
		zap.Int("line_items", len(rec.LineItems)),
		zap.String("language", rec.LanguageDetected),
		zap.Bool("totals_consistent", rec.TotalsConsistent),
	)

	return rec, nil
}

func buildReceiptPrompt(text string, opts schema.ReceiptOptions) string {
	var b strings.Builder

	b.WriteString("Parse the receipt or invoice text below into structured data.\n")
	b.WriteString("Read vendor details, line items, and totals exactly as printed; do not recompute or correct them.\n\n")
	b.WriteString("Respond with ONLY a JSON document conforming to this JSON Schema:\n")
	b.WriteString(schema.ReceiptContract(opts))
	b.WriteString("\n\nReceipt text:\n")
	b.WriteString(sanitizeUTF8(text))

	return b.String()
}
