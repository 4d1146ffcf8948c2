// Package network links resolved promoters who promoted overlapping ticker
// symbols into a symmetric co-promoter graph.
package network

import (
	"sort"

	"pumpwatch/internal/domain"
)

// Build populates CoPromoters on every entry by comparing all pairs.
//
// Overlap is computed on ticker symbol, not schemeId: two different schemes
// on the same ticker still count as one shared stock. The relation is
// symmetric and self-references are never emitted. Any co-promoter links
// from a previous pass are discarded first; the graph is recomputed from
// scratch on every rebuild.
//
// Quadratic in promoter count, which is fine at catalog scale (hundreds to
// low thousands). BuildIndexed produces identical output for larger sets.
func Build(promoters []*domain.PromoterEntry) {
	symbols := make([]map[string]struct{}, len(promoters))
	for i, p := range promoters {
		symbols[i] = symbolSet(p)
		p.CoPromoters = []domain.CoPromoter{}
	}

	for i, p := range promoters {
		for j, q := range promoters {
			if i == j {
				continue
			}
			shared := intersect(symbols[i], symbols[j])
			if len(shared) == 0 {
				continue
			}
			p.CoPromoters = append(p.CoPromoters, domain.CoPromoter{
				PromoterID:   q.PromoterID,
				Identifier:   q.Identifier,
				Platform:     q.Platform,
				SharedStocks: shared,
			})
		}
		sortCoPromoters(p.CoPromoters)
	}
}

// BuildIndexed is the inverted-index variant of Build: an index from symbol
// to promoter set limits pair comparisons to promoters that share at least
// one symbol. Output is byte-for-byte identical to Build.
func BuildIndexed(promoters []*domain.PromoterEntry) {
	symbols := make([]map[string]struct{}, len(promoters))
	index := make(map[string][]int)
	for i, p := range promoters {
		symbols[i] = symbolSet(p)
		p.CoPromoters = []domain.CoPromoter{}
		for symbol := range symbols[i] {
			index[symbol] = append(index[symbol], i)
		}
	}

	for i, p := range promoters {
		candidates := make(map[int]struct{})
		for symbol := range symbols[i] {
			for _, j := range index[symbol] {
				if j != i {
					candidates[j] = struct{}{}
				}
			}
		}

		for j := range candidates {
			q := promoters[j]
			p.CoPromoters = append(p.CoPromoters, domain.CoPromoter{
				PromoterID:   q.PromoterID,
				Identifier:   q.Identifier,
				Platform:     q.Platform,
				SharedStocks: intersect(symbols[i], symbols[j]),
			})
		}
		sortCoPromoters(p.CoPromoters)
	}
}

// symbolSet collects the distinct ticker symbols a promoter was sighted on.
func symbolSet(p *domain.PromoterEntry) map[string]struct{} {
	set := make(map[string]struct{}, len(p.StocksPromoted))
	for i := range p.StocksPromoted {
		set[p.StocksPromoted[i].Symbol] = struct{}{}
	}
	return set
}

// intersect returns the sorted common symbols of two sets.
func intersect(a, b map[string]struct{}) []string {
	if len(b) < len(a) {
		a, b = b, a
	}
	shared := make([]string, 0)
	for symbol := range a {
		if _, ok := b[symbol]; ok {
			shared = append(shared, symbol)
		}
	}
	sort.Strings(shared)
	return shared
}

func sortCoPromoters(links []domain.CoPromoter) {
	sort.Slice(links, func(i, j int) bool {
		return links[i].PromoterID < links[j].PromoterID
	})
}
