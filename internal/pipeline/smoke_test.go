package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"reponex/internal"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSmokeCSVToRestockExport(t *testing.T) {
	dir := t.TempDir()

	drogaA := writeFixture(t, dir, "drogaA.csv",
		"Producto,Precio USD\nIBUPROFENO 400MG,4.50\nPARACETAMOL 500MG,2.10\n")
	drogaB := writeFixture(t, dir, "drogaB.csv",
		"Droguería B - oferta vigente,,\nNombre,Precio $,Laboratorio\nIBUPROFENO 400MG,3.90,Genfar\n")
	sales := writeFixture(t, dir, "ventas.csv",
		"Producto,Existencia\nIBUPROFENO 400MG,2\nPARACETAMOL 500MG,8\n")

	files := []internal.SourceFile{}
	for _, path := range []string{drogaA, drogaB} {
		file, err := LoadCatalogFile(path)
		if err != nil {
			t.Fatal(err)
		}
		files = append(files, file)
	}
	idx := BuildCatalogIndex(files)

	salesRecords, err := LoadSalesFile(sales)
	if err != nil {
		t.Fatal(err)
	}
	if len(salesRecords) != 2 {
		t.Fatalf("sales=%d", len(salesRecords))
	}

	list, err := BuildRestockList(context.Background(), salesRecords, idx, 0.7, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("list=%+v", list)
	}
	item := list[0]
	if item.Product != "ibuprofeno 400mg" || item.QuantityToReplace != 2 {
		t.Fatalf("item=%+v", item)
	}
	if item.Price == nil || *item.Price != 3.9 || item.Supplier != "drogaB" {
		t.Fatalf("item=%+v", item)
	}

	out := filepath.Join(dir, "out", "reposicion.xlsx")
	if err := ExportRestockToXLSX(list, out); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Fatalf("export missing: %v", err)
	}
}

func TestSmokeRebuildIndexIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "drogaA.csv",
		"Producto,Precio USD\nIBUPROFENO 400MG,4.50\nLORATADINA 10MG,1.20\n")

	first, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatal(err)
	}

	a := BuildCatalogIndex([]internal.SourceFile{first})
	b := BuildCatalogIndex([]internal.SourceFile{second})
	if len(a.Entries) != len(b.Entries) {
		t.Fatalf("len %d vs %d", len(a.Entries), len(b.Entries))
	}
	for i := range a.Entries {
		ea, eb := a.Entries[i], b.Entries[i]
		if ea.Product != eb.Product || ea.Supplier != eb.Supplier {
			t.Fatalf("entry %d: %+v vs %+v", i, ea, eb)
		}
		if (ea.PriceUSD == nil) != (eb.PriceUSD == nil) {
			t.Fatalf("entry %d price presence differs", i)
		}
		if ea.PriceUSD != nil && *ea.PriceUSD != *eb.PriceUSD {
			t.Fatalf("entry %d: %v vs %v", i, *ea.PriceUSD, *eb.PriceUSD)
		}
	}
}
