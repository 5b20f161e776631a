package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ETFScreener/internal/model"
)

func sampleReport() *model.Report {
	return model.NewSuccessReport(&model.BatchResult{Records: []model.ETFRecord{
		{Ticker: "SPY", Name: "SPDR S&P 500, Trust", Asset: model.AssetEquity, Lwowski: 99999, Price: 451.23,
			CloseAbove52w: true, AUM: "500000", RSI: 61, Near52wPct: 98.1, Expense: 0.09},
		{Ticker: "GLD", Name: "SPDR Gold", Asset: model.AssetCommodity, Lwowski: 5000, Price: 185, AUM: "N/A", RSI: 50, Expense: 0.4},
	}})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)

	assert.Equal(t, FormatCSV, FormatFromPath("out/etfs.csv"))
	assert.Equal(t, FormatJSON, FormatFromPath("etfs"))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatJSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "success", got["status"])
	assert.Equal(t, 2.0, got["count"])
	assert.Len(t, got["data"], 2)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "SPY", rows[1][0])
	assert.Equal(t, "SPDR S&P 500, Trust", rows[1][1])
	assert.Equal(t, "99999", rows[1][3])
	assert.Equal(t, "451.23", rows[1][4])
	assert.Equal(t, "true", rows[1][5])
	assert.Equal(t, "N/A", rows[2][9])
}

func TestWriteCSV_ErrorReportHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.NewErrorReport(assert.AnError)))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(), FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ticker", rows[0][0])
	assert.Equal(t, "GLD", rows[2][0])
	assert.Equal(t, "Commodity", rows[2][2])
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, sampleReport(), Format("pdf")))
}
