// Package reporting builds the two durable catalog artifacts and renders
// human-readable summaries of the promoter network.
package reporting

import (
	"time"

	"pumpwatch/internal/domain"
)

// BuildSchemeCatalog assembles scheme-database.json from the scheme map.
// Counts are computed by filtering, never incremented: the catalog is a pure
// function of its schemes.
func BuildSchemeCatalog(schemes map[string]*domain.SchemeRecord, now time.Time) *domain.SchemeCatalog {
	catalog := &domain.SchemeCatalog{
		LastUpdated: now.UTC().Format(time.RFC3339),
		Schemes:     schemes,
	}
	if catalog.Schemes == nil {
		catalog.Schemes = map[string]*domain.SchemeRecord{}
	}

	for _, scheme := range catalog.Schemes {
		catalog.TotalSchemes++
		switch {
		case scheme.Status.IsActive():
			catalog.ActiveSchemes++
		case scheme.Status.IsResolved():
			catalog.ResolvedSchemes++
		}
		// CONFIRMED_FRAUD is neither active nor resolved; it gets its own count.
		if scheme.Status == domain.StatusConfirmedFraud {
			catalog.ConfirmedFrauds++
		}
	}

	return catalog
}

// BuildPromoterCatalog assembles promoter-database.json from classified entries.
func BuildPromoterCatalog(entries []*domain.PromoterEntry, now time.Time) *domain.PromoterCatalog {
	catalog := &domain.PromoterCatalog{
		LastUpdated: now.UTC().Format(time.RFC3339),
		Promoters:   make(map[string]*domain.PromoterEntry, len(entries)),
	}

	for _, entry := range entries {
		catalog.Promoters[entry.PromoterID] = entry
		catalog.TotalPromoters++
		if entry.IsActive {
			catalog.ActivePromoters++
		}
		if entry.RiskLevel == domain.RiskSerialOffender {
			catalog.SerialOffenders++
		}
	}

	return catalog
}
