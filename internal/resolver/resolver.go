// Package resolver deduplicates raw per-scheme promoter account sightings
// into canonical promoter entries.
package resolver

import (
	"sort"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/promoid"
)

// accountKey identifies a promoter account across schemes. A typed key
// avoids the delimiter-collision bugs of string concatenation.
type accountKey struct {
	Platform   string
	Identifier string
}

// confidenceRank orders confidence for escalate-only updates.
var confidenceRank = map[domain.Confidence]int{
	domain.ConfidenceLow:    1,
	domain.ConfidenceMedium: 2,
	domain.ConfidenceHigh:   3,
}

// Resolve consumes the full post-enrichment scheme set and produces exactly
// one PromoterEntry per distinct (platform, identifier) pair.
//
// The update rules (sum, lexical min/max on ISO-8601 dates, escalate-only
// confidence, first-sighting-wins per scheme) make every scalar field
// independent of scheme and account iteration order. Output slices are
// sorted so the whole result is deterministic for fixed input.
//
// Derived promoter ids can collide when distinct pairs truncate identically;
// every member of a collision group gets a deterministic discriminator
// suffix appended.
func Resolve(schemes map[string]*domain.SchemeRecord) []*domain.PromoterEntry {
	entries := make(map[accountKey]*domain.PromoterEntry)

	schemeIDs := make([]string, 0, len(schemes))
	for id := range schemes {
		schemeIDs = append(schemeIDs, id)
	}
	sort.Strings(schemeIDs)

	for _, schemeID := range schemeIDs {
		scheme := schemes[schemeID]
		for i := range scheme.PromoterAccounts {
			account := &scheme.PromoterAccounts[i]
			// Enrichment should have discarded legacy string entries already.
			if account.IsLegacy() {
				continue
			}
			key := accountKey{Platform: account.Platform, Identifier: account.Identifier}

			entry, ok := entries[key]
			if !ok {
				entry = &domain.PromoterEntry{
					PromoterID:     promoid.Derive(account.Platform, account.Identifier),
					Identifier:     account.Identifier,
					Platform:       account.Platform,
					Confidence:     account.Confidence,
					StocksPromoted: []domain.StockPromotion{},
					CoPromoters:    []domain.CoPromoter{},
					RiskLevel:      domain.RiskLow,
				}
				entries[key] = entry
			}

			applySighting(entry, account, scheme)
		}
	}

	disambiguateCollisions(entries)

	result := make([]*domain.PromoterEntry, 0, len(entries))
	for _, entry := range entries {
		sort.Slice(entry.StocksPromoted, func(i, j int) bool {
			a, b := entry.StocksPromoted[i], entry.StocksPromoted[j]
			if a.FirstSeen != b.FirstSeen {
				return a.FirstSeen < b.FirstSeen
			}
			return a.SchemeID < b.SchemeID
		})
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PromoterID < result[j].PromoterID
	})

	return result
}

// applySighting folds one account sighting into the canonical entry.
func applySighting(entry *domain.PromoterEntry, account *domain.PromoterAccount, scheme *domain.SchemeRecord) {
	entry.TotalPosts += account.PostCount

	// ISO-8601 strings compare lexicographically in chronological order.
	if account.FirstSeen != "" && (entry.FirstSeen == "" || account.FirstSeen < entry.FirstSeen) {
		entry.FirstSeen = account.FirstSeen
	}
	if account.LastSeen != "" && account.LastSeen > entry.LastSeen {
		entry.LastSeen = account.LastSeen
	}

	if confidenceRank[account.Confidence] > confidenceRank[entry.Confidence] {
		entry.Confidence = account.Confidence
	}

	if scheme.Status.IsActive() {
		entry.IsActive = true
	}

	// First sighting wins: a later duplicate account sighting on the same
	// scheme never overwrites the existing promotion entry.
	for i := range entry.StocksPromoted {
		if entry.StocksPromoted[i].SchemeID == scheme.SchemeID {
			return
		}
	}
	entry.StocksPromoted = append(entry.StocksPromoted, domain.StockPromotion{
		Symbol:       scheme.Symbol,
		SchemeID:     scheme.SchemeID,
		SchemeName:   scheme.Name,
		SchemeStatus: scheme.Status,
		FirstSeen:    account.FirstSeen,
		LastSeen:     account.LastSeen,
		PostCount:    account.PostCount,
	})
}

// disambiguateCollisions appends a discriminator suffix to every entry whose
// derived id collides with another distinct (platform, identifier) pair.
// Suffixing the whole collision group keeps ids independent of insert order.
func disambiguateCollisions(entries map[accountKey]*domain.PromoterEntry) {
	byDerived := make(map[string][]accountKey)
	for key, entry := range entries {
		byDerived[entry.PromoterID] = append(byDerived[entry.PromoterID], key)
	}

	for _, keys := range byDerived {
		if len(keys) < 2 {
			continue
		}
		for _, key := range keys {
			entry := entries[key]
			entry.PromoterID = entry.PromoterID + "-" + promoid.Discriminator(key.Platform, key.Identifier)
		}
	}
}
