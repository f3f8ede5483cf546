package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"masarif/internal/errs"
	"masarif/pkg/retry"
)

// completeJSON runs one prompt against the provider under the retry policy
// and extracts the JSON object from the completion. Only transport-level
// provider errors are retried; a malformed completion is a contract
// violation and fails immediately.
func completeJSON(ctx context.Context, gen Generator, policy retry.Policy, prompt string) (string, error) {
	var content string
	err := retry.Do(ctx, policy, errs.IsRetryable, func(ctx context.Context) error {
		var genErr error
		content, genErr = gen.Generate(ctx, prompt)
		return genErr
	})
	if err != nil {
		if errs.IsRetryable(err) {
			return "", errs.NewExtractionUnavailable(policy.MaxAttempts, err)
		}
		return "", err
	}

	return extractJSONObject(content)
}

// extractJSONObject pulls the outermost JSON object out of a completion.
// Models occasionally wrap their output in markdown fences or add a lead-in
// sentence despite instructions; the contract validation downstream decides
// whether what is left is acceptable.
func extractJSONObject(content string) (string, error) {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", errs.NewExtractionFailure("no JSON object in response", content, nil)
	}

	jsonStr := content[start : end+1]
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")
	return strings.TrimSpace(jsonStr), nil
}

// sanitizeUTF8 strips invalid UTF-8 sequences. OCR output and user uploads
// occasionally carry broken byte sequences that would corrupt the prompt.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}
