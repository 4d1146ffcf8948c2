package domain

// SchemeCatalog is the durable scheme-database.json artifact.
type SchemeCatalog struct {
	LastUpdated     string                   `json:"lastUpdated"` // ISO-8601
	TotalSchemes    int                      `json:"totalSchemes"`
	ActiveSchemes   int                      `json:"activeSchemes"`
	ResolvedSchemes int                      `json:"resolvedSchemes"`
	ConfirmedFrauds int                      `json:"confirmedFrauds"`
	Schemes         map[string]*SchemeRecord `json:"schemes"`
}

// PromoterCatalog is the durable promoter-database.json artifact.
type PromoterCatalog struct {
	LastUpdated     string                    `json:"lastUpdated"` // ISO-8601
	TotalPromoters  int                       `json:"totalPromoters"`
	ActivePromoters int                       `json:"activePromoters"`
	SerialOffenders int                       `json:"serialOffenders"`
	Promoters       map[string]*PromoterEntry `json:"promoters"`
}
