package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"reponex/internal"
	"reponex/internal/util"
)

// SalesFromRecords reduces decoded sales/stock rows to SalesRecords. A row
// whose product name cannot be resolved still yields a record with an empty
// name; the restock builder filters those, keeping the degradation policy in
// one place.
func SalesFromRecords(records []*internal.GenericRecord) []internal.SalesRecord {
	out := make([]internal.SalesRecord, 0, len(records))
	for _, rec := range records {
		product := ""
		if v, ok := ResolveField(rec, SalesProductFields); ok {
			product = util.NormalizeName(fmt.Sprint(v))
		}
		stock := 0.0
		if v, ok := ResolveField(rec, SalesStockFields); ok {
			if parsed, ok := util.ParseNumber(v); ok && !math.IsNaN(parsed) {
				stock = parsed
			}
		}
		out = append(out, internal.SalesRecord{Product: product, Stock: stock, Raw: rec})
	}
	return out
}

// SalesFromPDFText recovers sales records from extracted report text. The
// strict report dialect runs first; when the layout deviates and it finds
// nothing, the anchor scan takes over.
func SalesFromPDFText(text string) []internal.SalesRecord {
	rows := TokenizeSalesReport(text)
	if len(rows) == 0 {
		rows = TokenizeProductRows(Tokens(text))
	}

	out := make([]internal.SalesRecord, 0, len(rows))
	for _, row := range rows {
		rec := &internal.GenericRecord{}
		rec.Set("producto", row.Description)
		rec.Set("vendidos", row.QuantitySold)
		rec.Set("existencia", row.Stock)
		out = append(out, internal.SalesRecord{
			Product: util.NormalizeName(row.Description),
			Stock:   row.Stock,
			Raw:     rec,
		})
	}
	return out
}

// LoadSalesFile decodes a sales/stock report from disk: csv, xls/xlsx, or a
// PDF sales report. Anything else is rejected before processing.
func LoadSalesFile(path string) ([]internal.SalesRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xls", ".xlsx":
		records, err := DecodeRecords(path, content)
		if err != nil {
			return nil, err
		}
		return SalesFromRecords(records), nil
	case ".pdf":
		text, err := ExtractPDFText(content)
		if err != nil {
			return nil, err
		}
		return SalesFromPDFText(text), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
