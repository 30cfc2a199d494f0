package catalog

import (
	"testing"

	"reponex/internal"
	"reponex/internal/util"
)

func entry(product string, price *float64, supplier string) internal.CatalogEntry {
	return internal.CatalogEntry{Product: product, PriceUSD: price, Supplier: supplier}
}

func TestBestPriceCheapestWins(t *testing.T) {
	idx := NewIndex([]internal.CatalogEntry{
		entry("ibuprofeno", util.FloatPtr(4.5), "DrogaA"),
		entry("ibuprofeno", util.FloatPtr(3.9), "DrogaB"),
		entry("paracetamol", util.FloatPtr(1.0), "DrogaC"),
	})

	match := idx.BestPrice("ibuprofeno", 0.7)
	if match == nil {
		t.Fatal("no match")
	}
	if match.Price != 3.9 || match.Supplier != "DrogaB" {
		t.Fatalf("match=%+v", match)
	}
}

func TestBestPriceEqualPricesFirstSupplierWins(t *testing.T) {
	idx := NewIndex([]internal.CatalogEntry{
		entry("ibuprofeno", util.FloatPtr(3.9), "DrogaA"),
		entry("ibuprofeno", util.FloatPtr(3.9), "DrogaB"),
	})

	match := idx.BestPrice("ibuprofeno", 0.7)
	if match == nil || match.Supplier != "DrogaA" {
		t.Fatalf("match=%+v", match)
	}
}

func TestBestPriceSkipsNilPriceAndEmptyName(t *testing.T) {
	idx := NewIndex([]internal.CatalogEntry{
		entry("ibuprofeno", nil, "DrogaA"),
		entry("", util.FloatPtr(0.1), "DrogaB"),
		entry("ibuprofeno", util.FloatPtr(4.5), "DrogaC"),
	})

	match := idx.BestPrice("ibuprofeno", 0.7)
	if match == nil || match.Price != 4.5 || match.Supplier != "DrogaC" {
		t.Fatalf("match=%+v", match)
	}
}

func TestBestPriceNoMatchBelowThreshold(t *testing.T) {
	idx := NewIndex([]internal.CatalogEntry{
		entry("ibuprofeno", util.FloatPtr(4.5), "DrogaA"),
	})

	if match := idx.BestPrice("loratadina", 0.7); match != nil {
		t.Fatalf("unexpected match %+v", match)
	}
}

func TestBestPriceThresholdStrict(t *testing.T) {
	// Similarity of an exact name is 1, which does not exceed threshold 1.
	idx := NewIndex([]internal.CatalogEntry{
		entry("ibuprofeno", util.FloatPtr(4.5), "DrogaA"),
	})

	if match := idx.BestPrice("ibuprofeno", 1); match != nil {
		t.Fatalf("unexpected match %+v", match)
	}
}

func TestBestPriceNormalizesQuery(t *testing.T) {
	idx := NewIndex([]internal.CatalogEntry{
		entry("ibuprofeno 400mg", util.FloatPtr(4.5), "DrogaA"),
	})

	match := idx.BestPrice("  IBUPROFENO 400MG ", 0.7)
	if match == nil || match.Price != 4.5 {
		t.Fatalf("match=%+v", match)
	}
}

func TestBestPriceEmptyIndex(t *testing.T) {
	if match := NewIndex(nil).BestPrice("ibuprofeno", 0.7); match != nil {
		t.Fatalf("unexpected match %+v", match)
	}
}
