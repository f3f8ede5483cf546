package dto

import "masarif/internal/models"

// ExtractRequest asks for extraction from one free-form text. Fields selects
// the output columns; an empty list means the default set. ExpenseType, when
// it names a known category, pins the category instead of inferring it.
// Language is an optional hint about the input language; detection still
// runs either way.
type ExtractRequest struct {
	Text        string   `json:"text" validate:"required"`
	Fields      []string `json:"fields,omitempty"`
	ExpenseType string   `json:"expense_type,omitempty"`
	Language    string   `json:"language,omitempty"`
}

type BatchExtractRequest struct {
	Texts       []string `json:"texts" validate:"required,min=1"`
	Fields      []string `json:"fields,omitempty"`
	ExpenseType string   `json:"expense_type,omitempty"`
}

type ExtractResponse struct {
	Success           bool                 `json:"success"`
	Expense           models.ExpenseRecord `json:"expense"`
	LanguageDetected  string               `json:"language_detected"`
	AmbiguousLanguage bool                 `json:"ambiguous_language,omitempty"`
}

// MultiItemFailure reports one expense dropped during multi extraction while
// the rest of the records went through.
type MultiItemFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type MultiExtractResponse struct {
	Success           bool                   `json:"success"`
	Expenses          []models.ExpenseRecord `json:"expenses"`
	Count             int                    `json:"count"`
	LanguageDetected  string                 `json:"language_detected"`
	AmbiguousLanguage bool                   `json:"ambiguous_language,omitempty"`
	Failures          []MultiItemFailure     `json:"failures,omitempty"`
}

// BatchItemResponse reports one batch entry. Result is set on success,
// Error on failure; indexes match the request order.
type BatchItemResponse struct {
	Index  int                   `json:"index"`
	Result *MultiExtractResponse `json:"result,omitempty"`
	Error  *ErrorResponse        `json:"error,omitempty"`
}

type BatchExtractResponse struct {
	Success   bool                `json:"success"`
	Results   []BatchItemResponse `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// UploadExtractResponse carries both the recovered document text and the
// expenses extracted from it.
type UploadExtractResponse struct {
	Success       bool                  `json:"success"`
	ExtractedText string                `json:"extracted_text"`
	Extraction    *MultiExtractResponse `json:"extraction,omitempty"`
}

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	Success     bool   `json:"success"`
	Code        string `json:"code,omitempty"`
	Error       string `json:"error"`
	RawResponse string `json:"raw_response,omitempty"`
}

// SchemaInfoResponse documents the extraction vocabulary for clients.
type SchemaInfoResponse struct {
	Fields        []string `json:"fields"`
	DefaultFields []string `json:"default_fields"`
	Categories    []string `json:"categories"`
}
