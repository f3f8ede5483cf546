package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"masarif/internal/dto"
	"masarif/internal/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	export    *service.ExportService
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, export *service.ExportService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		export:    export,
		logger:    logger,
	}
}

// GroupBy godoc
// @Summary Group expenses by a chosen key
// @Description Per-currency sums, counts, and percentage shares grouped by category, payment_method, or date (month)
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body dto.AnalyticsRequest true "Expense records and group_by key"
// @Success 200 {object} service.GroupReport
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/analytics [post]
func (h *AnalyticsHandler) GroupBy(c *fiber.Ctx) error {
	var req dto.AnalyticsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Expenses) == 0 {
		return badRequest(c, "expenses is required")
	}

	report, err := h.analytics.GroupBy(h.analytics.FilterPeriod(req.Expenses, req.Period), req.GroupBy)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(report)
}

// Summary godoc
// @Summary Aggregate a set of expenses
// @Description Totals, averages, and category breakdowns per currency, optionally restricted to a period
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body dto.AnalyticsRequest true "Expense records and optional period"
// @Success 200 {object} service.Summary
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/analytics/summary [post]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	var req dto.AnalyticsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Expenses) == 0 {
		return badRequest(c, "expenses is required")
	}

	return c.JSON(h.analytics.Summarize(h.analytics.FilterPeriod(req.Expenses, req.Period)))
}

// Anomalies godoc
// @Summary Flag outlier expenses
// @Description Flag records whose amount stands out against their category mean
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body dto.AnomaliesRequest true "Expense records and optional factor"
// @Success 200 {array} service.Anomaly
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/analytics/anomalies [post]
func (h *AnalyticsHandler) Anomalies(c *fiber.Ctx) error {
	var req dto.AnomaliesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Expenses) == 0 {
		return badRequest(c, "expenses is required")
	}

	anomalies := h.analytics.Anomalies(req.Expenses, decimal.NewFromFloat(req.Factor))
	if anomalies == nil {
		anomalies = []service.Anomaly{}
	}
	return c.JSON(anomalies)
}

// ExportCSV godoc
// @Summary Export expenses as CSV
// @Tags export
// @Accept json
// @Produce text/csv
// @Param request body dto.ExportRequest true "Expense records"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/export/csv [post]
func (h *AnalyticsHandler) ExportCSV(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	data, err := h.export.CSV(req.Expenses)
	if err != nil {
		h.logger.Error("CSV export failed", zap.Error(err))
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="expenses.csv"`)
	return c.Send(data)
}

// ExportExcel godoc
// @Summary Export expenses as an Excel workbook
// @Description Expenses sheet plus a per-currency Summary sheet
// @Tags export
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body dto.ExportRequest true "Expense records"
// @Success 200 {string} string "XLSX workbook"
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/export/excel [post]
func (h *AnalyticsHandler) ExportExcel(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	opts := service.DefaultExcelOptions()
	if req.Title != "" {
		opts.Title = req.Title
	}
	if req.IncludeSummary != nil {
		opts.IncludeSummary = *req.IncludeSummary
	}

	data, err := h.export.Excel(req.Expenses, opts)
	if err != nil {
		h.logger.Error("Excel export failed", zap.Error(err))
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="expenses.xlsx"`)
	return c.Send(data)
}
