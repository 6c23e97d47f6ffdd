// Package ingest parses uploaded catalog and stock files into validated
// in-memory records. Uploads are tabular files with a header row, delivered
// as CSV (optionally gzip-compressed) or XLSX workbooks. The whole file is
// rejected on any unparsable row; partial results are never returned.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/xuri/excelize/v2"

	"meditrack/internal/core/apperror"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zipMagic  = []byte("PK\x03\x04")
)

// readRows extracts raw rows (header included) from an upload, sniffing the
// container format from magic bytes: gzip-wrapped CSV, XLSX (zip), or plain
// CSV. Cell values are whitespace-trimmed; fully empty rows are dropped.
func readRows(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, apperror.NewMalformedInput("unreadable upload").WithCause(err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, apperror.NewMalformedInput("invalid gzip stream").WithCause(err)
		}
		defer gz.Close()
		return readCSVRows(gz)
	case bytes.HasPrefix(head, zipMagic):
		return readXLSXRows(br)
	default:
		return readCSVRows(br)
	}
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // column count validated against the header later
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperror.NewMalformedInput("invalid csv").WithCause(err)
		}
		if row, ok := trimRow(record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewMalformedInput("invalid xlsx workbook").WithCause(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewMalformedInput("xlsx workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewMalformedInput("unreadable xlsx sheet").WithCause(err)
	}

	var rows [][]string
	for _, record := range raw {
		if row, ok := trimRow(record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// trimRow trims each cell and reports whether the row has any content.
func trimRow(record []string) ([]string, bool) {
	row := make([]string, len(record))
	empty := true
	for i, cell := range record {
		cell = strings.TrimSpace(cell)
		row[i] = cell
		if cell != "" {
			empty = false
		}
	}
	return row, !empty
}

// English header spellings accepted alongside the supplier's Portuguese.
var headerAliases = map[string]string{
	"code":     colCode,
	"quantity": colQuantity,
}

// headerIndex maps recognized column names (case-insensitive, BOM-stripped)
// to their positions. Missing required columns reject the whole file.
func headerIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimPrefix(name, "\ufeff"))
		if canonical, ok := headerAliases[name]; ok {
			name = canonical
		}
		idx[name] = i
	}

	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, apperror.NewMalformedInput("missing required column").
				WithDetail("column", col)
		}
	}
	return idx, nil
}

// cell returns the value at column col for a data row, or "" when the row is
// shorter than the header.
func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
