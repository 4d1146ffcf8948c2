// Package patterns holds the promotional-language catalog used by the
// promotion scorer: phrase tables in three severity tiers plus structural
// regex rules. A Catalog is immutable after construction so concurrent
// scorers can share one instance and tests can substitute their own tables
// without touching shared state.
package patterns

import "regexp"

// Phrase weights per severity tier.
const (
	WeightHigh   = 20
	WeightMedium = 15
	WeightLow    = 10

	// WeightBotLanguage is the fixed weight each matched bot-language rule adds.
	WeightBotLanguage = 15
)

// Table is one severity tier of promotional phrases.
type Table struct {
	Weight  int
	Phrases []string
}

// BotRule detects automated signal-service language via regex.
type BotRule struct {
	Pattern *regexp.Regexp
	Flag    string
	Weight  int
}

// Catalog is the full promotional-language catalog.
type Catalog struct {
	tables   []Table
	botRules []BotRule
}

// NewCatalog builds a catalog from phrase tiers and bot rules.
// Inputs are copied; the catalog never mutates after construction.
func NewCatalog(high, medium, low []string, botRules []BotRule) *Catalog {
	return &Catalog{
		tables: []Table{
			{Weight: WeightHigh, Phrases: append([]string(nil), high...)},
			{Weight: WeightMedium, Phrases: append([]string(nil), medium...)},
			{Weight: WeightLow, Phrases: append([]string(nil), low...)},
		},
		botRules: append([]BotRule(nil), botRules...),
	}
}

// Tables returns the phrase tiers in scoring order: HIGH, MEDIUM, LOW.
func (c *Catalog) Tables() []Table {
	return c.tables
}

// BotRules returns the bot-language regex rules.
func (c *Catalog) BotRules() []BotRule {
	return c.botRules
}

// highPhrases are near-certain scam formulations.
var highPhrases = []string{
	"guaranteed returns",
	"guaranteed profit",
	"guaranteed gains",
	"can't lose",
	"cant lose",
	"risk free investment",
	"insider info",
	"insider tip",
	"get in before",
	"next gamestop",
	"next gme",
	"next amc",
	"1000x",
	"100x gains",
	"about to pump",
	"pump incoming",
	"easy money",
}

// mediumPhrases are strong promotional tells.
var mediumPhrases = []string{
	"buy now",
	"\U0001F680", // rocket emoji
	"to the moon",
	"mooning",
	"don't miss out",
	"dont miss out",
	"last chance",
	"act fast",
	"huge gains",
	"massive gains",
	"about to explode",
	"explosive growth",
	"get in now",
	"load up",
	"before it's too late",
	"before its too late",
}

// lowPhrases are weak signals common in hype posts.
var lowPhrases = []string{
	"hidden gem",
	"undervalued",
	"breakout",
	"short squeeze",
	"low float",
	"penny stock",
	"hot stock",
	"big news coming",
	"trust me",
	"diamond hands",
	"price target",
}

var defaultBotRules = []BotRule{
	{
		Pattern: regexp.MustCompile(`(?i)\b[a-z0-9]*(?:alert|signal|pick|trading)s?[a-z0-9]*\.(?:com|net|io)\b`),
		Flag:    "Mentions alert-service domain (bot language)",
		Weight:  WeightBotLanguage,
	},
	{
		Pattern: regexp.MustCompile(`(?i)\b(?:rsi|macd)\s*:\s*-?[0-9]`),
		Flag:    "Automated technical-signal formatting",
		Weight:  WeightBotLanguage,
	},
}

var defaultCatalog = NewCatalog(highPhrases, mediumPhrases, lowPhrases, defaultBotRules)

// Default returns the built-in production catalog.
func Default() *Catalog {
	return defaultCatalog
}
