package domain

// ScanTarget describes what a harvest scan is searching for.
// Immutable per scan.
type ScanTarget struct {
	Ticker    string   `json:"ticker"`
	Name      string   `json:"name"`
	RiskScore float64  `json:"riskScore"`
	RiskLevel string   `json:"riskLevel"`
	Signals   []string `json:"signals"`
}

// Engagement holds per-platform engagement counters for a mention.
// Zero values mean the platform does not report that counter.
type Engagement struct {
	Upvotes  int `json:"upvotes,omitempty"`
	Comments int `json:"comments,omitempty"`
	Views    int `json:"views,omitempty"`
	Likes    int `json:"likes,omitempty"`
	Shares   int `json:"shares,omitempty"`
}

// SocialMention is one harvested social-media post about a scan target.
// Platform harvesters produce it; the promotion scorer populates
// PromotionScore, IsPromotional and RedFlags. Immutable once scored.
type SocialMention struct {
	Symbol         string     `json:"symbol"`
	Platform       string     `json:"platform"`
	Source         string     `json:"source"`
	DiscoveredVia  string     `json:"discoveredVia"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	URL            string     `json:"url"`
	Author         string     `json:"author"`
	PostDate       string     `json:"postDate"` // ISO-8601
	Engagement     Engagement `json:"engagement"`
	Sentiment      string     `json:"sentiment"`
	IsPromotional  bool       `json:"isPromotional"`
	PromotionScore int        `json:"promotionScore"` // 0-100
	RedFlags       []string   `json:"redFlags"`
}
