// Package enrichment repairs scheme records loaded from the catalog and
// synthesizes placeholder promoter accounts for platforms that have none.
// It is a migration/repair step, not a scoring step: running it twice
// produces the same record, and it never overwrites a well-formed account.
package enrichment

import (
	"fmt"
	"strings"

	"pumpwatch/internal/domain"
)

// Enrich normalizes one scheme record in place:
//   - optional array fields default to empty rather than nil
//   - the legacy representation where promoterAccounts held plain strings is
//     detected and reset to empty, discarding the legacy values
//   - every platform in promotionPlatforms without a promoter account gets a
//     synthesized placeholder account
func Enrich(scheme *domain.SchemeRecord) {
	ensureArrays(scheme)

	// Legacy schema drift: promoterAccounts held bare strings. The type of
	// the first element decides; mixed content does not occur in practice.
	if len(scheme.PromoterAccounts) > 0 && scheme.PromoterAccounts[0].IsLegacy() {
		scheme.PromoterAccounts = []domain.PromoterAccount{}
	}

	for _, platform := range scheme.PromotionPlatforms {
		if hasAccountForPlatform(scheme.PromoterAccounts, platform) {
			continue
		}
		scheme.PromoterAccounts = append(scheme.PromoterAccounts, domain.PromoterAccount{
			Platform:   platform,
			Identifier: fmt.Sprintf("%s promoters", platform),
			FirstSeen:  scheme.FirstDetected,
			LastSeen:   scheme.LastSeen,
			PostCount:  1,
			Confidence: platformConfidence(scheme.CoordinationIndicators, platform),
		})
	}
}

// EnrichAll normalizes every scheme in the catalog map.
func EnrichAll(schemes map[string]*domain.SchemeRecord) {
	for _, scheme := range schemes {
		Enrich(scheme)
	}
}

// ensureArrays defaults absent optional arrays to empty.
func ensureArrays(scheme *domain.SchemeRecord) {
	if scheme.PromoterAccounts == nil {
		scheme.PromoterAccounts = []domain.PromoterAccount{}
	}
	if scheme.CoordinationIndicators == nil {
		scheme.CoordinationIndicators = []string{}
	}
	if scheme.SignalsDetected == nil {
		scheme.SignalsDetected = []string{}
	}
	if scheme.Notes == nil {
		scheme.Notes = []string{}
	}
	if scheme.InvestigationFlags == nil {
		scheme.InvestigationFlags = []string{}
	}
}

// hasAccountForPlatform reports whether a well-formed account already exists
// for the platform. Legacy string entries do not count.
func hasAccountForPlatform(accounts []domain.PromoterAccount, platform string) bool {
	for i := range accounts {
		if accounts[i].IsLegacy() {
			continue
		}
		if strings.EqualFold(accounts[i].Platform, platform) {
			return true
		}
	}
	return false
}

// platformConfidence derives the synthesized account's confidence from the
// coordination indicators: high when an indicator mentions both the platform
// name and "high", medium otherwise.
func platformConfidence(indicators []string, platform string) domain.Confidence {
	platformLower := strings.ToLower(platform)
	for _, indicator := range indicators {
		lower := strings.ToLower(indicator)
		if strings.Contains(lower, platformLower) && strings.Contains(lower, "high") {
			return domain.ConfidenceHigh
		}
	}
	return domain.ConfidenceMedium
}
