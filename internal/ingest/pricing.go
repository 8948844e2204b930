package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cyrizon/tollroute/internal/domain"
)

// ParseOpenTollsCSV reads open_tolls.csv (header: name,c1,c2,c3,c4,c5) into
// a name -> flat-price-row map. CSV loading is explicitly out of the core's
// scope (spec.md §1); this is the thin glue the core's PricingGrid needs to
// exist at all, kept deliberately free of any ecosystem CSV library.
func ParseOpenTollsCSV(r io.Reader) (map[string]domain.PriceRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ','

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: open tolls csv: %w", err)
	}
	if len(rows) == 0 {
		return map[string]domain.PriceRow{}, nil
	}

	out := make(map[string]domain.PriceRow, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		if len(row) < 6 {
			continue
		}
		price, err := parsePriceRow(row[1:6])
		if err != nil {
			continue
		}
		out[row[0]] = price
	}

	return out, nil
}

// ParsePricePerKmCSV reads price_per_km.csv (header:
// operator;c1;c2;c3;c4;c5, semicolon-separated) into an operator code ->
// per-km-price-row map.
func ParsePricePerKmCSV(r io.Reader) (map[string]domain.PriceRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: price per km csv: %w", err)
	}
	if len(rows) == 0 {
		return map[string]domain.PriceRow{}, nil
	}

	out := make(map[string]domain.PriceRow, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 6 {
			continue
		}
		price, err := parsePriceRow(row[1:6])
		if err != nil {
			continue
		}
		out[row[0]] = price
	}

	return out, nil
}

func parsePriceRow(fields []string) (domain.PriceRow, error) {
	var row domain.PriceRow
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return row, fmt.Errorf("parse price field %q: %w", f, err)
		}
		row[i] = v
	}
	return row, nil
}
