package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"reponex/internal"
	"reponex/internal/util"
)

// ErrUnsupportedFormat rejects a file before any processing starts. It is the
// only user-visible failure mode: everything past format dispatch degrades
// per-record instead of aborting.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// headerMarkers qualify a row as a plausible product-table header.
var headerMarkers = []string{"producto", "descripcion", "nombre", "precio", "usd", "$"}

// DetectHeaderRow scans a raw cell grid top-down for the first row that looks
// like a product-table header: at least one marker cell and at least three
// cells. Falls back to row 0 so decoding never fails outright.
func DetectHeaderRow(grid [][]string) int {
	for i, row := range grid {
		if len(row) < 3 {
			continue
		}
		for _, cell := range row {
			norm := util.NormalizeKey(cell)
			for _, marker := range headerMarkers {
				if strings.Contains(norm, marker) {
					return i
				}
			}
		}
	}
	return 0
}

// RecordsFromGrid re-slices a grid at the detected header row and maps the
// remaining rows onto it. Rows shorter than the header keep the cells they
// have; trailing header columns stay absent rather than empty.
func RecordsFromGrid(grid [][]string) []*internal.GenericRecord {
	start := DetectHeaderRow(grid)
	if start >= len(grid) {
		return nil
	}
	header := grid[start]
	out := make([]*internal.GenericRecord, 0, len(grid)-start-1)
	for _, row := range grid[start+1:] {
		if emptyRow(row) {
			continue
		}
		rec := &internal.GenericRecord{}
		for col, label := range header {
			label = strings.TrimSpace(label)
			if label == "" || col >= len(row) {
				continue
			}
			rec.Set(label, strings.TrimSpace(row[col]))
		}
		if len(rec.Labels) > 0 {
			out = append(out, rec)
		}
	}
	return out
}

func DecodeCSV(content []byte) ([]*internal.GenericRecord, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	return RecordsFromGrid(rows), nil
}

func DecodeXLSX(content []byte) ([]*internal.GenericRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return RecordsFromGrid(rows), nil
}

// DecodeHTMLTable maps the rows of the largest table in an HTML document.
// Suppliers that mail price lists inline tend to send a single table; the
// largest one is the price list, smaller ones are layout scaffolding.
func DecodeHTMLTable(content []byte) ([]*internal.GenericRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode html: %w", err)
	}

	var grid [][]string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := [][]string{}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		if len(rows) > len(grid) {
			grid = rows
		}
	})

	if len(grid) < 2 {
		return nil, nil
	}
	return RecordsFromGrid(grid), nil
}

// DecodeRecords dispatches on file extension. PDF is handled separately
// because it yields text, not records.
func DecodeRecords(name string, content []byte) ([]*internal.GenericRecord, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return DecodeCSV(content)
	case ".xls", ".xlsx":
		return DecodeXLSX(content)
	case ".html", ".htm":
		return DecodeHTMLTable(content)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// LoadCatalogFile decodes one supplier price list from disk.
func LoadCatalogFile(path string) (internal.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return internal.SourceFile{}, err
	}
	records, err := DecodeRecords(path, content)
	if err != nil {
		return internal.SourceFile{}, err
	}
	return internal.SourceFile{Name: filepath.Base(path), Records: records}, nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
