package catalog

import (
	"math"

	"reponex/internal"
	"reponex/internal/util"
)

// Index is the flat price index built from every loaded supplier file.
// Duplicate product names across suppliers stay separate entries. Entries are
// append-only during a build and read-only while a restock computation runs;
// a changed file set means a full rebuild.
type Index struct {
	Entries []internal.CatalogEntry
}

func NewIndex(entries []internal.CatalogEntry) *Index {
	if entries == nil {
		entries = []internal.CatalogEntry{}
	}
	return &Index{Entries: entries}
}

// PriceMatch is the winning entry of a best-price scan.
type PriceMatch struct {
	Price    float64
	Supplier string
}

// BestPrice scans the whole index for the cheapest entry whose name is
// similar enough to the given product, or nil when nothing clears the
// threshold. Entries with an empty name or no price are skipped, and the
// strict `<` comparison makes the earliest-loaded supplier win price ties.
func (idx *Index) BestPrice(product string, threshold float64) *PriceMatch {
	normalized := util.NormalizeName(product)

	var best *PriceMatch
	bestPrice := math.Inf(1)
	for _, entry := range idx.Entries {
		if entry.Product == "" || entry.PriceUSD == nil {
			continue
		}
		if util.Similarity(normalized, entry.Product) <= threshold {
			continue
		}
		if *entry.PriceUSD < bestPrice {
			bestPrice = *entry.PriceUSD
			best = &PriceMatch{Price: *entry.PriceUSD, Supplier: entry.Supplier}
		}
	}
	return best
}
