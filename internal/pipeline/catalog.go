package pipeline

import (
	"fmt"
	"math"

	"reponex/internal"
	"reponex/internal/catalog"
	"reponex/internal/util"
)

// EntryFromRecord maps one decoded catalog row to an index entry for the
// given supplier. Unresolved names stay empty and unparseable prices stay
// nil; the entry is kept either way.
func EntryFromRecord(rec *internal.GenericRecord, supplier string) internal.CatalogEntry {
	entry := internal.CatalogEntry{Supplier: supplier}
	if v, ok := ResolveField(rec, CatalogNameFields); ok {
		entry.Product = util.NormalizeName(fmt.Sprint(v))
	}
	if v, ok := ResolvePriceUSD(rec); ok {
		if price, ok := util.ParseNumber(v); ok && !math.IsNaN(price) {
			entry.PriceUSD = util.FloatPtr(price)
		}
	}
	return entry
}

// EntriesFromFile maps a whole decoded supplier file.
func EntriesFromFile(file internal.SourceFile) []internal.CatalogEntry {
	supplier := file.Supplier()
	out := make([]internal.CatalogEntry, 0, len(file.Records))
	for _, rec := range file.Records {
		out = append(out, EntryFromRecord(rec, supplier))
	}
	return out
}

// BuildCatalogIndex folds the loaded catalog files into one flat index.
// Never dedups and never merges per supplier: duplicate products across
// suppliers are exactly what the best-price comparison runs on.
func BuildCatalogIndex(files []internal.SourceFile) *catalog.Index {
	entries := []internal.CatalogEntry{}
	for _, file := range files {
		entries = append(entries, EntriesFromFile(file)...)
	}
	return catalog.NewIndex(entries)
}
