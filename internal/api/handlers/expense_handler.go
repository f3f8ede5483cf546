package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"masarif/internal/dto"
	"masarif/internal/models"
	"masarif/internal/schema"
	"masarif/internal/service"
)

type ExpenseHandler struct {
	extract *service.ExtractService
	ingest  *service.IngestService
	logger  *zap.Logger
}

func NewExpenseHandler(extract *service.ExtractService, ingest *service.IngestService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		extract: extract,
		ingest:  ingest,
		logger:  logger,
	}
}

// Extract godoc
// @Summary Extract one expense from text
// @Description Extract a single structured expense from free-form multilingual text
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body dto.ExtractRequest true "Extraction request"
// @Success 200 {object} dto.ExtractResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/expenses/extract [post]
func (h *ExpenseHandler) Extract(c *fiber.Ctx) error {
	var req dto.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}

	result, err := h.extract.ExtractSingle(c.Context(), req.Text, fieldsOrDefault(req.Fields), req.ExpenseType, req.Language)
	if err != nil {
		h.logger.Warn("Extraction failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(dto.ExtractResponse{
		Success:           true,
		Expense:           result.Expense,
		LanguageDetected:  result.LanguageDetected,
		AmbiguousLanguage: result.AmbiguousLanguage,
	})
}

// ExtractMulti godoc
// @Summary Extract every expense from text
// @Description Extract all distinct expenses mentioned in one text
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body dto.ExtractRequest true "Extraction request"
// @Success 200 {object} dto.MultiExtractResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/expenses/extract/multi [post]
func (h *ExpenseHandler) ExtractMulti(c *fiber.Ctx) error {
	var req dto.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}

	result, err := h.extract.ExtractMulti(c.Context(), req.Text, fieldsOrDefault(req.Fields), req.ExpenseType, req.Language)
	if err != nil {
		h.logger.Warn("Multi extraction failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(multiResponse(result))
}

// ExtractBatch godoc
// @Summary Extract expenses from a batch of texts
// @Description Extract each text independently; one failing item does not abort the batch
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body dto.BatchExtractRequest true "Batch request"
// @Success 200 {object} dto.BatchExtractResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/expenses/extract/batch [post]
func (h *ExpenseHandler) ExtractBatch(c *fiber.Ctx) error {
	var req dto.BatchExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Texts) == 0 {
		return badRequest(c, "texts is required")
	}

	items := h.extract.ExtractBatch(c.Context(), req.Texts, fieldsOrDefault(req.Fields), req.ExpenseType)

	resp := dto.BatchExtractResponse{
		Success: true,
		Results: make([]dto.BatchItemResponse, len(items)),
	}
	for i, item := range items {
		entry := dto.BatchItemResponse{Index: item.Index}
		if item.Err != nil {
			resp.Failed++
			entry.Error = errorBody(item.Err)
		} else {
			resp.Succeeded++
			r := multiResponse(item.Result)
			entry.Result = &r
		}
		resp.Results[i] = entry
	}

	return c.JSON(resp)
}

// ExtractFromUpload godoc
// @Summary Extract expenses from an uploaded document
// @Description OCR an image or PDF and extract the expenses it mentions
// @Tags expenses
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Receipt image or PDF"
// @Success 200 {object} dto.UploadExtractResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/expenses/ocr/upload [post]
func (h *ExpenseHandler) ExtractFromUpload(c *fiber.Ctx) error {
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
		h.logger.Warn("Upload ingestion failed", zap.String("file", file.Filename), zap.Error(err))
		return respondError(c, err)
	}

	result, err := h.extract.ExtractSmart(c.Context(), text, schema.DefaultFields(), "", "")
	if err != nil {
		h.logger.Warn("Extraction from upload failed", zap.Error(err))
		return respondError(c, err)
	}

	r := multiResponse(result)
	return c.JSON(dto.UploadExtractResponse{
		Success:       true,
		ExtractedText: text,
		Extraction:    &r,
	})
}

// SchemaInfo godoc
// @Summary Describe the extraction vocabulary
// @Tags expenses
// @Produce json
// @Success 200 {object} dto.SchemaInfoResponse
// @Router /api/v1/expenses/schema [get]
func (h *ExpenseHandler) SchemaInfo(c *fiber.Ctx) error {
	categories := models.Categories()
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = string(cat)
	}

	return c.JSON(dto.SchemaInfoResponse{
		Fields:        schema.FieldNames(),
		DefaultFields: schema.DefaultFields(),
		Categories:    names,
	})
}

// fieldsOrDefault substitutes the default field set for requests that name
// none. Callers who genuinely want the bare success envelope can use the
// engine directly; over HTTP an empty list means "give me the usual".
func fieldsOrDefault(fields []string) []string {
	if len(fields) == 0 {
		return schema.DefaultFields()
	}
	return fields
}

func multiResponse(r *service.MultiExtractionResult) dto.MultiExtractResponse {
	resp := dto.MultiExtractResponse{
		Success:           true,
		Expenses:          r.Expenses,
		Count:             r.Count,
		LanguageDetected:  r.LanguageDetected,
		AmbiguousLanguage: r.AmbiguousLanguage,
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, dto.MultiItemFailure{Index: f.Index, Error: f.Error})
	}
	return resp
}
