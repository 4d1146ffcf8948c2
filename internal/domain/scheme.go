package domain

import "encoding/json"

// SchemeStatus is the lifecycle state of a tracked scheme.
type SchemeStatus string

const (
	StatusNew                    SchemeStatus = "NEW"
	StatusOngoing                SchemeStatus = "ONGOING"
	StatusCooling                SchemeStatus = "COOLING"
	StatusPumpAndDumpEnded       SchemeStatus = "PUMP_AND_DUMP_ENDED"
	StatusPumpAndDumpEndedNoProm SchemeStatus = "PUMP_AND_DUMP_ENDED_NO_PROMO"
	StatusNoScamDetected         SchemeStatus = "NO_SCAM_DETECTED"
	StatusResolved               SchemeStatus = "RESOLVED"
	StatusConfirmedFraud         SchemeStatus = "CONFIRMED_FRAUD"
)

// AllStatuses lists every valid scheme status.
var AllStatuses = []SchemeStatus{
	StatusNew,
	StatusOngoing,
	StatusCooling,
	StatusPumpAndDumpEnded,
	StatusPumpAndDumpEndedNoProm,
	StatusNoScamDetected,
	StatusResolved,
	StatusConfirmedFraud,
}

// IsActive reports whether the scheme is still being tracked as live.
// Active and resolved sets are disjoint; CONFIRMED_FRAUD belongs to neither
// and is counted separately in the scheme catalog.
func (s SchemeStatus) IsActive() bool {
	switch s {
	case StatusNew, StatusOngoing, StatusCooling:
		return true
	}
	return false
}

// IsResolved reports whether the scheme has reached a terminal non-fraud state.
func (s SchemeStatus) IsResolved() bool {
	switch s {
	case StatusPumpAndDumpEnded, StatusPumpAndDumpEndedNoProm, StatusNoScamDetected, StatusResolved:
		return true
	}
	return false
}

// Confidence is the attribution confidence for a promoter account sighting.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PromoterAccount is a raw, possibly duplicate, per-scheme sighting of a
// promoting account on one platform.
//
// A legacy catalog format stored these as plain strings. Decoding tolerates
// that drift: a bare string element decodes with LegacyText set and every
// other field zero, so enrichment can detect and discard it.
type PromoterAccount struct {
	Platform   string     `json:"platform"`
	Identifier string     `json:"identifier"`
	FirstSeen  string     `json:"firstSeen"` // ISO-8601
	LastSeen   string     `json:"lastSeen"`  // ISO-8601
	PostCount  int        `json:"postCount"`
	Confidence Confidence `json:"confidence"`

	// LegacyText holds the original value when the entry was a bare string.
	LegacyText string `json:"-"`
}

// UnmarshalJSON accepts both the object form and the legacy bare-string form.
func (a *PromoterAccount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.LegacyText)
	}
	type alias PromoterAccount
	return json.Unmarshal(data, (*alias)(a))
}

// IsLegacy reports whether this entry was decoded from the legacy string form.
func (a *PromoterAccount) IsLegacy() bool {
	return a.LegacyText != ""
}

// TimelineEvent is one dated annotation on a scheme's history.
type TimelineEvent struct {
	Date        string `json:"date"` // ISO-8601
	Event       string `json:"event"`
	Description string `json:"description,omitempty"`
}

// PricePoint is one snapshot entry of the scheme's price/volume history.
type PricePoint struct {
	Date   string  `json:"date"` // ISO-8601
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// SchemeRecord is a tracked suspected pump-and-dump episode keyed by schemeId.
// Records are created upstream when a stock first trips risk thresholds;
// enrichment repairs and extends them, and nothing in this codebase deletes them.
type SchemeRecord struct {
	SchemeID               string            `json:"schemeId"`
	Symbol                 string            `json:"symbol"`
	Name                   string            `json:"name"`
	Status                 SchemeStatus      `json:"status"`
	FirstDetected          string            `json:"firstDetected"` // ISO-8601
	LastSeen               string            `json:"lastSeen"`      // ISO-8601
	PeakRiskScore          float64           `json:"peakRiskScore"`
	CurrentRiskScore       float64           `json:"currentRiskScore"`
	PeakPromotionScore     float64           `json:"peakPromotionScore"`
	CurrentPromotionScore  float64           `json:"currentPromotionScore"`
	PriceHistory           []PricePoint      `json:"priceHistory,omitempty"`
	PromotionPlatforms     []string          `json:"promotionPlatforms"`
	PromoterAccounts       []PromoterAccount `json:"promoterAccounts"`
	SignalsDetected        []string          `json:"signalsDetected"`
	CoordinationIndicators []string          `json:"coordinationIndicators"`
	Timeline               []TimelineEvent   `json:"timeline"`
	Notes                  []string          `json:"notes"`
	InvestigationFlags     []string          `json:"investigationFlags"`
}
