package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"masarif/internal/errs"
)

// SingleEnvelope is the decoded wrapper around one extracted expense.
type SingleEnvelope struct {
	Expense          map[string]any `json:"expense"`
	LanguageDetected string         `json:"language_detected"`
	Success          bool           `json:"success"`
}

// MultiEnvelope is the decoded wrapper around several extracted expenses.
type MultiEnvelope struct {
	Expenses         []map[string]any `json:"expenses"`
	LanguageDetected string           `json:"language_detected"`
	Success          bool             `json:"success"`
}

// DecodeSingle validates raw against the single-expense contract and decodes
// it. A contract violation is an extraction failure, never retried.
func (s *Schema) DecodeSingle(raw []byte) (*SingleEnvelope, error) {
	if err := validate(s.validationContract(ModeSingle), raw); err != nil {
		return nil, err
	}
	var env SingleEnvelope
	if err := decodeNumeric(raw, &env); err != nil {
		return nil, errs.NewExtractionFailure("response is not valid JSON", string(raw), err)
	}
	return &env, nil
}

// DecodeMulti validates raw against the multi-expense contract and decodes it.
func (s *Schema) DecodeMulti(raw []byte) (*MultiEnvelope, error) {
	if err := validate(s.validationContract(ModeMulti), raw); err != nil {
		return nil, err
	}
	var env MultiEnvelope
	if err := decodeNumeric(raw, &env); err != nil {
		return nil, errs.NewExtractionFailure("response is not valid JSON", string(raw), err)
	}
	return &env, nil
}

func validate(contract string, raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(contract),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return errs.NewExtractionFailure("response is not valid JSON", string(raw), err)
	}
	if !result.Valid() {
		return errs.NewExtractionFailure(describeViolations(result), string(raw), nil)
	}
	return nil
}

func describeViolations(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return "schema violation: " + strings.Join(msgs, "; ")
}

// decodeNumeric unmarshals with UseNumber so amounts survive as exact
// strings until normalization converts them to decimals.
func decodeNumeric(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}
