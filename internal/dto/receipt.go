package dto

import "masarif/internal/models"

// ParseReceiptRequest parses one receipt text. The include toggles default
// to true; a nil pointer means "not specified".
type ParseReceiptRequest struct {
	Text             string `json:"text" validate:"required"`
	IncludeVendor    *bool  `json:"include_vendor,omitempty"`
	IncludeLineItems *bool  `json:"include_line_items,omitempty"`
	IncludeTax       *bool  `json:"include_tax,omitempty"`
}

type ReceiptResponse struct {
	Success bool                  `json:"success"`
	Receipt *models.ReceiptRecord `json:"receipt"`
}

// UploadReceiptResponse carries the OCR text alongside the parsed receipt.
type UploadReceiptResponse struct {
	Success       bool                  `json:"success"`
	ExtractedText string                `json:"extracted_text"`
	Receipt       *models.ReceiptRecord `json:"receipt"`
}
