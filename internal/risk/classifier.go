// Package risk assigns repeat-offender tiers to resolved promoters.
package risk

import (
	"fmt"

	"pumpwatch/internal/domain"
)

// CriterionResult records one classification rule check for reporting.
type CriterionResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// Assessment is the tier plus the rule checklist that produced it.
type Assessment struct {
	Tier     domain.RiskLevel
	Criteria []CriterionResult
}

// Classifier assigns a risk tier from promotion count, confidence, and
// network connectivity.
type Classifier struct{}

// NewClassifier creates a new risk classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify evaluates the tier rules as an ordered decision list, first
// match wins:
//
//  1. n >= 3, or n >= 2 with high confidence and a co-promoter link -> SERIAL_OFFENDER
//  2. n >= 2, or high confidence with a co-promoter link            -> HIGH
//  3. high confidence, or a co-promoter link                        -> MEDIUM
//  4. otherwise                                                     -> LOW
//
// where n is the number of distinct schemes the promoter was sighted in.
// The classifier is monotone: raising n, confidence, or connectivity never
// lowers the tier. Tiers are recomputed from scratch on every rebuild.
func (c *Classifier) Classify(entry *domain.PromoterEntry) domain.RiskLevel {
	n := len(entry.StocksPromoted)
	highConf := entry.Confidence == domain.ConfidenceHigh
	hasCo := len(entry.CoPromoters) > 0

	switch {
	case n >= 3 || (n >= 2 && highConf && hasCo):
		return domain.RiskSerialOffender
	case n >= 2 || (highConf && hasCo):
		return domain.RiskHigh
	case highConf || hasCo:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// ClassifyAll assigns RiskLevel on every entry in place.
func (c *Classifier) ClassifyAll(entries []*domain.PromoterEntry) {
	for _, entry := range entries {
		entry.RiskLevel = c.Classify(entry)
	}
}

// Assess returns the tier together with the per-rule checklist, for the
// network report.
func (c *Classifier) Assess(entry *domain.PromoterEntry) *Assessment {
	n := len(entry.StocksPromoted)
	highConf := entry.Confidence == domain.ConfidenceHigh
	hasCo := len(entry.CoPromoters) > 0
	actual := fmt.Sprintf("n=%d, confidence=%s, coPromoters=%d", n, entry.Confidence, len(entry.CoPromoters))

	criteria := []CriterionResult{
		{
			Name:      "Serial offender",
			Threshold: "n >= 3 OR (n >= 2 AND high confidence AND co-promoters)",
			Actual:    actual,
			Pass:      n >= 3 || (n >= 2 && highConf && hasCo),
		},
		{
			Name:      "High risk",
			Threshold: "n >= 2 OR (high confidence AND co-promoters)",
			Actual:    actual,
			Pass:      n >= 2 || (highConf && hasCo),
		},
		{
			Name:      "Medium risk",
			Threshold: "high confidence OR co-promoters",
			Actual:    actual,
			Pass:      highConf || hasCo,
		},
	}

	return &Assessment{
		Tier:     c.Classify(entry),
		Criteria: criteria,
	}
}
