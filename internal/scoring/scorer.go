// Package scoring converts free-text social-media content into a 0-100
// promotion score with human-readable red flags.
package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"pumpwatch/internal/patterns"
)

// Score bounds and limits.
const (
	MaxScore = 100
	MaxFlags = 10

	// DefaultPromotionThreshold is the recommended policy cutoff for
	// classifying a mention as promotional. The scorer itself never
	// applies it; callers decide.
	DefaultPromotionThreshold = 30
)

// Context bonus weights.
const (
	bonusPromotionCommunity = 15
	bonusNewAccount         = 20
	bonusHighEngagement     = 20

	// engagementGate is the minimum running score required before high
	// engagement may escalate it. Engagement alone is not promotional.
	engagementGate = 10
)

// Structural detector weights.
const (
	weightManyTickers = 30 // 6+ distinct tickers
	weightSomeTickers = 20 // 4-5 distinct tickers
	weightPerPercent  = 10 // per large-percentage brag
	maxPercentWeight  = 30
)

var (
	// tickerPattern matches $TICKER-shaped tokens: one $ and 2-5 uppercase letters.
	tickerPattern = regexp.MustCompile(`\$[A-Z]{2,5}\b`)

	// percentPattern matches a 3-4 digit number immediately followed by %.
	percentPattern = regexp.MustCompile(`\b[0-9]{3,4}%`)
)

// Context carries optional posting-context signals for scoring.
type Context struct {
	IsPromotionSubreddit bool
	IsNewAccount         bool
	HasHighEngagement    bool
}

// Result is the scorer output: a clamped score and at most MaxFlags flags.
type Result struct {
	Score int      `json:"score"`
	Flags []string `json:"flags"`
}

// Scorer scores text against an immutable pattern catalog.
// Safe for concurrent use.
type Scorer struct {
	catalog *patterns.Catalog
}

// NewScorer creates a scorer using the given catalog.
// A nil catalog falls back to the built-in default.
func NewScorer(catalog *patterns.Catalog) *Scorer {
	if catalog == nil {
		catalog = patterns.Default()
	}
	return &Scorer{catalog: catalog}
}

// Score computes the promotion score for one piece of text.
// It never fails: worst case is a zero score with no flags.
//
// Phrase tables are matched on the lowercased text; structural detectors run
// on the original text (ticker casing is significant). Each matching phrase
// contributes its weight once. The flag list is truncated at MaxFlags in
// table order, but scoring keeps accumulating past the cap. Context bonuses
// apply after pattern scoring; high engagement only escalates a score that
// already reached the medium-confidence gate.
func (s *Scorer) Score(text string, ctx *Context) Result {
	result := Result{}
	if text == "" {
		return result
	}

	lower := strings.ToLower(text)

	// Phrase tables: HIGH, MEDIUM, LOW.
	for _, table := range s.catalog.Tables() {
		for _, phrase := range table.Phrases {
			if strings.Contains(lower, phrase) {
				result.Score += table.Weight
				addFlag(&result, fmt.Sprintf("Contains %q", phrase))
			}
		}
	}

	// Multi-ticker spam.
	if n := countDistinctTickers(text); n >= 4 {
		if n >= 6 {
			result.Score += weightManyTickers
		} else {
			result.Score += weightSomeTickers
		}
		addFlag(&result, fmt.Sprintf("Lists %d tickers (likely alert spam)", n))
	}

	// Large percentage-gain bragging.
	if n := len(percentPattern.FindAllString(text, -1)); n > 0 {
		weight := n * weightPerPercent
		if weight > maxPercentWeight {
			weight = maxPercentWeight
		}
		result.Score += weight
		addFlag(&result, fmt.Sprintf("Brags about %d large percentage gains", n))
	}

	// Bot/alert-service language.
	for _, rule := range s.catalog.BotRules() {
		if rule.Pattern.MatchString(text) {
			result.Score += rule.Weight
			addFlag(&result, rule.Flag)
		}
	}

	// Context bonuses, after pattern scoring.
	if ctx != nil {
		if ctx.IsPromotionSubreddit {
			result.Score += bonusPromotionCommunity
			addFlag(&result, "Posted in promotion-heavy community")
		}
		if ctx.IsNewAccount {
			result.Score += bonusNewAccount
			addFlag(&result, "Posted by new account")
		}
		if ctx.HasHighEngagement && result.Score >= engagementGate {
			result.Score += bonusHighEngagement
			addFlag(&result, "Unusually high engagement")
		}
	}

	if result.Score > MaxScore {
		result.Score = MaxScore
	}

	return result
}

// addFlag appends a flag unless the cap is reached.
func addFlag(r *Result, flag string) {
	if len(r.Flags) < MaxFlags {
		r.Flags = append(r.Flags, flag)
	}
}

// countDistinctTickers counts distinct $TICKER-shaped tokens in text.
func countDistinctTickers(text string) int {
	matches := tickerPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		seen[m] = struct{}{}
	}
	return len(seen)
}
