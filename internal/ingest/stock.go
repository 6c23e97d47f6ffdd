package ingest

import (
	"io"
	"strconv"

	"meditrack/internal/core/apperror"
)

const colQuantity = "quantidade"

var stockColumns = []string{colCode, colQuantity}

// StockDelta is one (product code, absolute quantity) pair from a stock upload.
type StockDelta struct {
	Code     int
	Quantity int
}

// ParseStockDeltas parses a stock upload into (code, quantity) pairs.
// Pairs identical in both fields collapse to one; the same code with two
// different quantities yields two pairs, and callers must not rely on which
// one is applied last. Any unparsable row rejects the whole file.
func ParseStockDeltas(r io.Reader) ([]StockDelta, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NewMalformedInput("upload has no header row")
	}

	idx, err := headerIndex(rows[0], stockColumns)
	if err != nil {
		return nil, err
	}

	deltas := make([]StockDelta, 0, len(rows)-1)
	seen := make(map[StockDelta]struct{}, len(rows)-1)

	for n, row := range rows[1:] {
		code, err := strconv.Atoi(cell(row, idx, colCode))
		if err != nil {
			return nil, apperror.NewMalformedInput("invalid product code").
				WithDetail("column", colCode).
				WithDetail("row", n+2)
		}

		quantity, err := strconv.Atoi(cell(row, idx, colQuantity))
		if err != nil {
			return nil, apperror.NewMalformedInput("invalid quantity").
				WithDetail("column", colQuantity).
				WithDetail("row", n+2)
		}

		delta := StockDelta{Code: code, Quantity: quantity}
		if _, dup := seen[delta]; dup {
			continue
		}
		seen[delta] = struct{}{}
		deltas = append(deltas, delta)
	}

	return deltas, nil
}
