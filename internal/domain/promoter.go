package domain

// RiskLevel is the repeat-offender tier assigned to a promoter.
type RiskLevel string

const (
	RiskLow            RiskLevel = "LOW"
	RiskMedium         RiskLevel = "MEDIUM"
	RiskHigh           RiskLevel = "HIGH"
	RiskSerialOffender RiskLevel = "SERIAL_OFFENDER"
)

// riskRank orders tiers for monotonicity checks. Higher is worse.
var riskRank = map[RiskLevel]int{
	RiskLow:            0,
	RiskMedium:         1,
	RiskHigh:           2,
	RiskSerialOffender: 3,
}

// Rank returns the tier's position in the LOW < MEDIUM < HIGH < SERIAL_OFFENDER order.
func (r RiskLevel) Rank() int {
	return riskRank[r]
}

// StockPromotion records one scheme a promoter was sighted in.
// At most one entry exists per schemeId within a PromoterEntry.
type StockPromotion struct {
	Symbol       string       `json:"symbol"`
	SchemeID     string       `json:"schemeId"`
	SchemeName   string       `json:"schemeName"`
	SchemeStatus SchemeStatus `json:"schemeStatus"`
	FirstSeen    string       `json:"firstSeen"` // ISO-8601
	LastSeen     string       `json:"lastSeen"`  // ISO-8601
	PostCount    int          `json:"postCount"`
}

// CoPromoter links a promoter to another promoter with overlapping stocks.
// The relation is symmetric: if A lists B, B lists A with the same shared set.
type CoPromoter struct {
	PromoterID   string   `json:"promoterId"`
	Identifier   string   `json:"identifier"`
	Platform     string   `json:"platform"`
	SharedStocks []string `json:"sharedStocks"`
}

// PromoterEntry is the canonical, deduplicated view of one promoting account.
// Exactly one entry exists per distinct (platform, identifier) pair; the
// whole catalog is recomputed from scratch on every rebuild.
type PromoterEntry struct {
	PromoterID     string           `json:"promoterId"`
	Identifier     string           `json:"identifier"`
	Platform       string           `json:"platform"`
	FirstSeen      string           `json:"firstSeen"` // ISO-8601
	LastSeen       string           `json:"lastSeen"`  // ISO-8601
	TotalPosts     int              `json:"totalPosts"`
	Confidence     Confidence       `json:"confidence"`
	StocksPromoted []StockPromotion `json:"stocksPromoted"`
	CoPromoters    []CoPromoter     `json:"coPromoters"`
	RiskLevel      RiskLevel        `json:"riskLevel"`
	IsActive       bool             `json:"isActive"`
}
