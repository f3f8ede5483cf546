package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"masarif/internal/dto"
	"masarif/internal/schema"
	"masarif/internal/service"
)

type ReceiptHandler struct {
	receipts *service.ReceiptService
	ingest   *service.IngestService
	logger   *zap.Logger
}

func NewReceiptHandler(receipts *service.ReceiptService, ingest *service.IngestService, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receipts: receipts,
		ingest:   ingest,
		logger:   logger,
	}
}

// ParseText godoc
// @Summary Parse receipt text
// @Description Parse receipt or invoice text into vendor, line items, and cross-checked totals
// @Tags receipts
// @Accept json
// @Produce json
// @Param request body dto.ParseReceiptRequest true "Receipt text"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/receipts/parse/text [post]
func (h *ReceiptHandler) ParseText(c *fiber.Ctx) error {
	var req dto.ParseReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}

	rec, err := h.receipts.ParseText(c.Context(), req.Text, receiptOptions(req))
	if err != nil {
		h.logger.Warn("Receipt parsing failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(dto.ReceiptResponse{Success: true, Receipt: rec})
}

// ParseUpload godoc
// @Summary Parse an uploaded receipt
// @Description OCR an image or PDF receipt and parse it into a structured record
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Receipt image or PDF"
// @Success 200 {object} dto.UploadReceiptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/receipts/parse/upload [post]
func (h *ReceiptHandler) ParseUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	src, err := file.Open()
	if err != nil {
		return badRequest(c, "failed to open file")
	}
	defer src.Close()

	text, err := h.ingest.ExtractTextFromUpload(c.Context(), src, file.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Warn("Receipt upload ingestion failed", zap.String("file", file.Filename), zap.Error(err))
		return respondError(c, err)
	}

	rec, err := h.receipts.ParseText(c.Context(), text, schema.DefaultReceiptOptions())
	if err != nil {
		h.logger.Warn("Receipt parsing failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(dto.UploadReceiptResponse{
		Success:       true,
		ExtractedText: text,
		Receipt:       rec,
	})
}

// PDFInfo godoc
// @Summary Inspect an uploaded PDF
// @Description Report page count, metadata, and whether the PDF has a text layer
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 200 {object} service.PDFInfo
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/pdf/info [post]
func (h *ReceiptHandler) PDFInfo(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	src, err := file.Open()
	if err != nil {
		return badRequest(c, "failed to open file")
	}
	defer src.Close()

	info, err := h.ingest.InspectPDF(src)
	if err != nil {
		h.logger.Warn("PDF inspection failed", zap.String("file", file.Filename), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(info)
}

func receiptOptions(req dto.ParseReceiptRequest) schema.ReceiptOptions {
	opts := schema.DefaultReceiptOptions()
	if req.IncludeVendor != nil {
		opts.IncludeVendor = *req.IncludeVendor
	}
	if req.IncludeLineItems != nil {
		opts.IncludeLineItems = *req.IncludeLineItems
	}
	if req.IncludeTax != nil {
		opts.IncludeTax = *req.IncludeTax
	}
	return opts
}
