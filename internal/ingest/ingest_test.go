package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"meditrack/internal/core/apperror"
)

const catalogCSV = `codigo,lote,produto,tipo,vencimento,necessita_receita
101,L-2024-01,Paracetamol 750mg,Analgesico,2026-12-31,false
102,L-2024-02,Amoxicilina 500mg,Antibiotico,2025-06-30,true
`

func TestParseCatalog_ValidFile(t *testing.T) {
	records, err := ParseCatalog(strings.NewReader(catalogCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 101, records[0].Code)
	assert.Equal(t, "L-2024-01", records[0].Batch)
	assert.Equal(t, "Paracetamol 750mg", records[0].Name)
	assert.Equal(t, "Analgesico", records[0].Type)
	assert.False(t, records[0].RequiresPrescription)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), records[0].Expiry)

	assert.True(t, records[1].RequiresPrescription)
}

func TestParseCatalog_FullIdentityDedup(t *testing.T) {
	file := catalogCSV +
		"101,L-2024-01,Paracetamol 750mg,Analgesico,2026-12-31,false\n" + // exact duplicate
		"101,L-2024-09,Paracetamol 750mg,Analgesico,2026-12-31,false\n" // differs in batch only

	records, err := ParseCatalog(strings.NewReader(file))
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestParseCatalog_BrazilianDateLayout(t *testing.T) {
	file := "codigo,lote,produto,tipo,vencimento,necessita_receita\n" +
		"7,L1,Dipirona,Analgesico,31/12/2026,true\n"

	records, err := ParseCatalog(strings.NewReader(file))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), records[0].Expiry)
}

func TestParseCatalog_MissingColumnRejectsFile(t *testing.T) {
	file := "codigo,lote,produto,vencimento,necessita_receita\n" +
		"101,L1,Paracetamol,2026-12-31,false\n"

	_, err := ParseCatalog(strings.NewReader(file))
	require.Error(t, err)
	assert.True(t, apperror.IsMalformedInput(err))
}

func TestParseCatalog_UnparsableRowRejectsWholeFile(t *testing.T) {
	file := catalogCSV + "abc,L1,Dipirona,Analgesico,2026-12-31,false\n"

	_, err := ParseCatalog(strings.NewReader(file))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMalformedInput, appErr.Code)
	assert.Equal(t, 4, appErr.Details["row"])
}

func TestParseCatalog_EmptyLinesIgnored(t *testing.T) {
	file := "codigo,lote,produto,tipo,vencimento,necessita_receita\n\n" +
		"101,L1,Paracetamol,Analgesico,2026-12-31,false\n\n"

	records, err := ParseCatalog(strings.NewReader(file))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseCatalog_HeaderOnly(t *testing.T) {
	records, err := ParseCatalog(strings.NewReader("codigo,lote,produto,tipo,vencimento,necessita_receita\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCatalog_GzipUpload(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(catalogCSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	records, err := ParseCatalog(&buf)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseCatalog_XLSXUpload(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"codigo", "lote", "produto", "tipo", "vencimento", "necessita_receita"},
		{"101", "L-2024-01", "Paracetamol 750mg", "Analgesico", "2026-12-31", "false"},
	}
	for i, row := range rows {
		startCell, err := excelize.JoinCellName("A", i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, startCell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	records, err := ParseCatalog(&buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 101, records[0].Code)
	assert.Equal(t, "Paracetamol 750mg", records[0].Name)
}

func TestParseStockDeltas_ValidFile(t *testing.T) {
	file := "codigo,quantidade\n101,50\n202,30\n"

	deltas, err := ParseStockDeltas(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, []StockDelta{{Code: 101, Quantity: 50}, {Code: 202, Quantity: 30}}, deltas)
}

func TestParseStockDeltas_DedupByValueIdentity(t *testing.T) {
	file := "codigo,quantidade\n101,50\n101,50\n101,70\n"

	deltas, err := ParseStockDeltas(strings.NewReader(file))
	require.NoError(t, err)
	// Identical pairs collapse; same code with a different quantity survives.
	assert.Equal(t, []StockDelta{{Code: 101, Quantity: 50}, {Code: 101, Quantity: 70}}, deltas)
}

func TestParseStockDeltas_UnparsableQuantityRejectsFile(t *testing.T) {
	file := "codigo,quantidade\n101,many\n"

	_, err := ParseStockDeltas(strings.NewReader(file))
	require.Error(t, err)
	assert.True(t, apperror.IsMalformedInput(err))
}

func TestParseStockDeltas_MissingHeader(t *testing.T) {
	_, err := ParseStockDeltas(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, apperror.IsMalformedInput(err))
}

func TestParseStockDeltas_BOMPrefixedHeader(t *testing.T) {
	file := "\ufeffcodigo,quantidade\n101,50\n"

	deltas, err := ParseStockDeltas(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, []StockDelta{{Code: 101, Quantity: 50}}, deltas)
}

func TestParseStockDeltas_EnglishHeaders(t *testing.T) {
	file := "code,quantity\n101,50\n202,30\n"

	deltas, err := ParseStockDeltas(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, []StockDelta{{Code: 101, Quantity: 50}, {Code: 202, Quantity: 30}}, deltas)
}
