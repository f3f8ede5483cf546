package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"masarif/internal/models"
)

func exportFixture() []models.ExpenseRecord {
	return []models.ExpenseRecord{
		{
			Amount:        amt("50"),
			Currency:      "MAD",
			Category:      models.CategoryTransport,
			PaymentMethod: models.PaymentCash,
			Date:          "2025-12-28",
			Description:   "taxi",
		},
		{
			Amount:      amt("30.50"),
			Currency:    "MAD",
			Category:    models.CategoryFood,
			Description: "sandwich",
			Vendor:      "Snack Chez Ali",
		},
	}
}

func newTestExportService() *ExportService {
	return NewExportService(NewAnalyticsService(zap.NewNop()), zap.NewNop())
}

func TestCSVExport(t *testing.T) {
	svc := newTestExportService()

	data, err := svc.CSV(exportFixture())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "50", rows[1][0])
	assert.Equal(t, "MAD", rows[1][1])
	assert.Equal(t, "transport", rows[1][2])
	assert.Equal(t, "2025-12-28", rows[1][4])
	assert.Equal(t, "30.5", rows[2][0])
	assert.Equal(t, "Snack Chez Ali", rows[2][6])
}

func TestCSVExportEmptySet(t *testing.T) {
	svc := newTestExportService()

	data, err := svc.CSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestExcelExport(t *testing.T) {
	svc := newTestExportService()

	data, err := svc.Excel(exportFixture(), DefaultExcelOptions())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Expenses", "Summary"}, f.GetSheetList())

	amount, err := f.GetCellValue("Expenses", "A2")
	require.NoError(t, err)
	assert.Equal(t, "50", amount)

	currency, err := f.GetCellValue("Expenses", "B2")
	require.NoError(t, err)
	assert.Equal(t, "MAD", currency)

	summaryCurrency, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "MAD", summaryCurrency)

	summaryCount, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", summaryCount)
}

func TestExcelExportOptions(t *testing.T) {
	svc := newTestExportService()

	data, err := svc.Excel(exportFixture(), ExcelOptions{Title: "December", IncludeSummary: false})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"December"}, f.GetSheetList())
}
