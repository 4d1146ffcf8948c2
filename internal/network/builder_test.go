package network

import (
	"reflect"
	"testing"

	"pumpwatch/internal/domain"
)

func promoter(id string, symbols ...string) *domain.PromoterEntry {
	stocks := make([]domain.StockPromotion, 0, len(symbols))
	for i, s := range symbols {
		stocks = append(stocks, domain.StockPromotion{
			Symbol:   s,
			SchemeID: id + "-scheme-" + string(rune('A'+i)),
		})
	}
	return &domain.PromoterEntry{
		PromoterID:     "PROM-TEST-" + id,
		Identifier:     id,
		Platform:       "Reddit",
		StocksPromoted: stocks,
		CoPromoters:    []domain.CoPromoter{},
	}
}

func TestBuild_SharedSymbolLinksBothWays(t *testing.T) {
	a := promoter("AAA1", "XYZ", "ABC")
	b := promoter("BBB2", "XYZ", "QRS")
	c := promoter("CCC3", "TUV")

	Build([]*domain.PromoterEntry{a, b, c})

	if len(a.CoPromoters) != 1 || a.CoPromoters[0].PromoterID != b.PromoterID {
		t.Fatalf("a.CoPromoters: %+v", a.CoPromoters)
	}
	if len(b.CoPromoters) != 1 || b.CoPromoters[0].PromoterID != a.PromoterID {
		t.Fatalf("b.CoPromoters: %+v", b.CoPromoters)
	}
	if !reflect.DeepEqual(a.CoPromoters[0].SharedStocks, []string{"XYZ"}) {
		t.Errorf("shared stocks: %v", a.CoPromoters[0].SharedStocks)
	}
	if !reflect.DeepEqual(a.CoPromoters[0].SharedStocks, b.CoPromoters[0].SharedStocks) {
		t.Errorf("asymmetric shared sets: %v vs %v", a.CoPromoters[0].SharedStocks, b.CoPromoters[0].SharedStocks)
	}
	if len(c.CoPromoters) != 0 {
		t.Errorf("isolated promoter got links: %+v", c.CoPromoters)
	}
}

func TestBuild_IntersectsOnSymbolNotScheme(t *testing.T) {
	// Two promoters sighted on the same ticker in different schemes.
	a := promoter("AAA1", "XYZ")
	b := promoter("BBB2", "XYZ")
	a.StocksPromoted[0].SchemeID = "SCHEME-100"
	b.StocksPromoted[0].SchemeID = "SCHEME-200"

	Build([]*domain.PromoterEntry{a, b})

	if len(a.CoPromoters) != 1 {
		t.Fatalf("expected link across schemes, got %+v", a.CoPromoters)
	}
	if !reflect.DeepEqual(a.CoPromoters[0].SharedStocks, []string{"XYZ"}) {
		t.Errorf("shared stocks: %v", a.CoPromoters[0].SharedStocks)
	}
}

func TestBuild_NoSelfReference(t *testing.T) {
	a := promoter("AAA1", "XYZ", "ABC")

	Build([]*domain.PromoterEntry{a})

	if len(a.CoPromoters) != 0 {
		t.Errorf("self-reference emitted: %+v", a.CoPromoters)
	}
}

func TestBuild_DiscardsStaleLinks(t *testing.T) {
	a := promoter("AAA1", "XYZ")
	a.CoPromoters = []domain.CoPromoter{{PromoterID: "PROM-TEST-GONE"}}

	Build([]*domain.PromoterEntry{a})

	if len(a.CoPromoters) != 0 {
		t.Errorf("stale links survived rebuild: %+v", a.CoPromoters)
	}
}

func TestBuild_Symmetry(t *testing.T) {
	promoters := []*domain.PromoterEntry{
		promoter("AAA1", "XYZ", "ABC", "QRS"),
		promoter("BBB2", "XYZ", "QRS"),
		promoter("CCC3", "ABC", "TUV"),
		promoter("DDD4", "TUV"),
		promoter("EEE5", "ZZZ"),
	}

	Build(promoters)

	byID := make(map[string]*domain.PromoterEntry)
	for _, p := range promoters {
		byID[p.PromoterID] = p
	}
	for _, p := range promoters {
		for _, link := range p.CoPromoters {
			q := byID[link.PromoterID]
			var back *domain.CoPromoter
			for i := range q.CoPromoters {
				if q.CoPromoters[i].PromoterID == p.PromoterID {
					back = &q.CoPromoters[i]
					break
				}
			}
			if back == nil {
				t.Fatalf("%s lists %s but not vice versa", p.PromoterID, q.PromoterID)
			}
			if !reflect.DeepEqual(link.SharedStocks, back.SharedStocks) {
				t.Errorf("shared sets differ between %s and %s: %v vs %v",
					p.PromoterID, q.PromoterID, link.SharedStocks, back.SharedStocks)
			}
		}
	}
}

func TestBuildIndexed_MatchesNaive(t *testing.T) {
	build := func(f func([]*domain.PromoterEntry)) []*domain.PromoterEntry {
		promoters := []*domain.PromoterEntry{
			promoter("AAA1", "XYZ", "ABC", "QRS"),
			promoter("BBB2", "XYZ", "QRS"),
			promoter("CCC3", "ABC", "TUV"),
			promoter("DDD4", "TUV", "XYZ"),
			promoter("EEE5", "ZZZ"),
			promoter("FFF6"),
		}
		f(promoters)
		return promoters
	}

	naive := build(Build)
	indexed := build(BuildIndexed)

	if !reflect.DeepEqual(naive, indexed) {
		t.Errorf("indexed variant diverges from naive:\nnaive:   %+v\nindexed: %+v", naive, indexed)
	}
}
