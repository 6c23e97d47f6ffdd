package ingest

import (
	"io"
	"strconv"
	"time"

	"meditrack/internal/core/apperror"
)

// Catalog upload column names follow the supplier file layout.
const (
	colCode         = "codigo"
	colBatch        = "lote"
	colName         = "produto"
	colType         = "tipo"
	colExpiry       = "vencimento"
	colPrescription = "necessita_receita"
)

var catalogColumns = []string{colCode, colBatch, colName, colType, colExpiry, colPrescription}

// Supplier files carry expiry dates either ISO or Brazilian day-first.
var expiryLayouts = []string{"2006-01-02", "02/01/2006"}

// CatalogRecord is one validated row of a catalog upload.
type CatalogRecord struct {
	Code                 int
	Batch                string
	Name                 string
	Type                 string
	Expiry               time.Time
	RequiresPrescription bool
}

// catalogKey is the full-identity dedup key for catalog rows. Expiry is held
// as a formatted date so that two parses of the same value always collapse.
type catalogKey struct {
	code   int
	batch  string
	name   string
	typ    string
	expiry string
	rx     bool
}

// ParseCatalog parses a catalog upload into validated records.
// Rows identical in every field collapse to one; the first occurrence keeps
// its position. Any unparsable row rejects the whole file.
func ParseCatalog(r io.Reader) ([]CatalogRecord, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NewMalformedInput("upload has no header row")
	}

	idx, err := headerIndex(rows[0], catalogColumns)
	if err != nil {
		return nil, err
	}

	records := make([]CatalogRecord, 0, len(rows)-1)
	seen := make(map[catalogKey]struct{}, len(rows)-1)

	for n, row := range rows[1:] {
		rec, err := parseCatalogRow(row, idx)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return nil, appErr.WithDetail("row", n+2)
			}
			return nil, err
		}

		key := catalogKey{
			code:   rec.Code,
			batch:  rec.Batch,
			name:   rec.Name,
			typ:    rec.Type,
			expiry: rec.Expiry.Format("2006-01-02"),
			rx:     rec.RequiresPrescription,
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, rec)
	}

	return records, nil
}

func parseCatalogRow(row []string, idx map[string]int) (CatalogRecord, error) {
	var rec CatalogRecord

	code, err := strconv.Atoi(cell(row, idx, colCode))
	if err != nil {
		return rec, apperror.NewMalformedInput("invalid product code").WithDetail("column", colCode)
	}

	expiry, err := parseExpiry(cell(row, idx, colExpiry))
	if err != nil {
		return rec, apperror.NewMalformedInput("invalid expiry date").WithDetail("column", colExpiry)
	}

	rx, err := strconv.ParseBool(cell(row, idx, colPrescription))
	if err != nil {
		return rec, apperror.NewMalformedInput("invalid prescription flag").WithDetail("column", colPrescription)
	}

	rec = CatalogRecord{
		Code:                 code,
		Batch:                cell(row, idx, colBatch),
		Name:                 cell(row, idx, colName),
		Type:                 cell(row, idx, colType),
		Expiry:               expiry,
		RequiresPrescription: rx,
	}
	return rec, nil
}

func parseExpiry(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range expiryLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
