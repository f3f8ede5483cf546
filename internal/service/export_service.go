package service

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"masarif/internal/models"
)

// ExportService renders expense records to CSV and Excel.
type ExportService struct {
	analytics *AnalyticsService
	logger    *zap.Logger
}

func NewExportService(analytics *AnalyticsService, logger *zap.Logger) *ExportService {
	return &ExportService{analytics: analytics, logger: logger}
}

var exportHeader = []string{
	"amount", "currency", "category", "payment_method",
	"date", "description", "vendor", "tax_rate", "tax_amount",
}

// CSV renders the records as a comma-separated document with a header row.
func (s *ExportService) CSV(records []models.ExpenseRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(exportRow(rec)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	s.logger.Info("CSV export rendered", zap.Int("records", len(records)))
	return buf.Bytes(), nil
}

// ExcelOptions tunes the workbook layout.
type ExcelOptions struct {
	// Title names the expenses sheet; empty means "Expenses".
	Title string
	// IncludeSummary adds the per-currency Summary sheet.
	IncludeSummary bool
}

// DefaultExcelOptions returns the layout used when the caller specifies none.
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{Title: "Expenses", IncludeSummary: true}
}

// Excel renders the records as a workbook: a sheet with the raw rows and,
// when requested, a Summary sheet with per-currency aggregates.
func (s *ExportService) Excel(records []models.ExpenseRecord, opts ExcelOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	expensesSheet := opts.Title
	if expensesSheet == "" {
		expensesSheet = "Expenses"
	}
	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(expensesSheet, cell, name); err != nil {
			return nil, err
		}
	}
	for row, rec := range records {
		for col, value := range exportRow(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(expensesSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if opts.IncludeSummary {
		if err := s.writeSummarySheet(f, records); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Excel export rendered", zap.Int("records", len(records)))
	return buf.Bytes(), nil
}

func (s *ExportService) writeSummarySheet(f *excelize.File, records []models.ExpenseRecord) error {
	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summary := s.analytics.Summarize(records)

	header := []string{"currency", "count", "total", "average"}
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell, name); err != nil {
			return err
		}
	}

	row := 2
	for currency, cs := range summary.ByCurrency {
		values := []any{currency, cs.Count, cs.Total.InexactFloat64(), cs.Average.InexactFloat64()}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheet, cell, value); err != nil {
				return err
			}
		}
		row++
	}

	return nil
}

func exportRow(rec models.ExpenseRecord) []string {
	amount := ""
	if rec.Amount != nil {
		amount = rec.Amount.String()
	}
	taxRate := ""
	if rec.TaxRate != nil {
		taxRate = rec.TaxRate.String()
	}
	taxAmount := ""
	if rec.TaxAmount != nil {
		taxAmount = rec.TaxAmount.String()
	}
	return []string{
		amount,
		rec.Currency,
		string(rec.Category),
		string(rec.PaymentMethod),
		rec.Date,
		rec.Description,
		rec.Vendor,
		taxRate,
		taxAmount,
	}
}
