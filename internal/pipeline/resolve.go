package pipeline

import (
	"strings"

	"reponex/internal"
	"reponex/internal/util"
)

// Candidate field names, in priority order. Supplier files disagree on header
// labels, so new layouts are handled by extending these lists, not the
// resolver.
var (
	SalesProductFields = []string{
		"producto",
		"nombre",
		"descripcion",
		"descripción",
		"medicamento",
		"principio activo",
		"lista",
		"lista ordenada por principio activo",
	}
	SalesStockFields   = []string{"existencia", "stock", "disponible"}
	CatalogNameFields  = []string{"producto", "nombre", "descripcion"}
)

// ResolveField locates the value for a semantic field in a loosely labeled
// record. First pass: the first candidate all of whose words appear in a key,
// walking candidates outer and keys inner. Relaxed pass: the first key that
// contains at least one word of any candidate, walking keys outer. Returns
// false only when neither pass matches.
func ResolveField(rec *internal.GenericRecord, candidates []string) (any, bool) {
	words := make([][]string, len(candidates))
	for i, candidate := range candidates {
		words[i] = candidateWords(candidate)
	}

	for i := range candidates {
		if len(words[i]) == 0 {
			continue
		}
		for _, label := range rec.Labels {
			key := util.NormalizeKey(label)
			all := true
			for _, w := range words[i] {
				if !strings.Contains(key, w) {
					all = false
					break
				}
			}
			if all {
				return rec.Values[label], true
			}
		}
	}

	for _, label := range rec.Labels {
		key := util.NormalizeKey(label)
		for i := range candidates {
			for _, w := range words[i] {
				if strings.Contains(key, w) {
					return rec.Values[label], true
				}
			}
		}
	}

	return nil, false
}

// ResolvePriceUSD returns the value of the first key that carries both a
// price marker and a currency marker. Price column labels vary too much
// across suppliers for the candidate-word algorithm to hold.
func ResolvePriceUSD(rec *internal.GenericRecord) (any, bool) {
	for _, label := range rec.Labels {
		key := util.NormalizeKey(label)
		if strings.Contains(key, "precio") && (strings.Contains(key, "usd") || strings.Contains(key, "$")) {
			return rec.Values[label], true
		}
	}
	return nil, false
}

func candidateWords(candidate string) []string {
	parts := strings.Split(strings.ToLower(candidate), " ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = util.StripDiacritics(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
