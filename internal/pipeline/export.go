package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"reponex/internal"
)

// ExportRestockToXLSX writes the restock list in its table column order:
// product, quantity, price, supplier. A nil price renders as "-" so unmatched
// products stay visible.
func ExportRestockToXLSX(items []internal.RestockRecord, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"producto", "cantidad_reponer", "precio_usd", "proveedor"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, item := range items {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, strings.ToUpper(item.Product))
		set(2, item.QuantityToReplace)
		if item.Price != nil {
			set(3, *item.Price)
		} else {
			set(3, "-")
		}
		set(4, item.Supplier)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
