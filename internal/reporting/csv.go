package reporting

import (
	"fmt"
	"strings"
	"time"

	"pumpwatch/internal/domain"
)

// RenderPromotersCSV renders one row per promoter for spreadsheet review.
// Callers pass entries already sorted by promoter id.
func RenderPromotersCSV(entries []*domain.PromoterEntry) string {
	var sb strings.Builder

	sb.WriteString("promoter_id,platform,identifier,first_seen,last_seen,total_posts,stocks_promoted,co_promoters,confidence,risk_level,is_active\n")

	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%d,%d,%d,%s,%s,%t\n",
			csvField(entry.PromoterID),
			csvField(entry.Platform),
			csvField(entry.Identifier),
			entry.FirstSeen,
			entry.LastSeen,
			entry.TotalPosts,
			len(entry.StocksPromoted),
			len(entry.CoPromoters),
			entry.Confidence,
			entry.RiskLevel,
			entry.IsActive,
		))
	}

	return sb.String()
}

// RenderSchemesCSV renders one row per scheme, ordered by the caller.
func RenderSchemesCSV(schemes []*domain.SchemeRecord, _ time.Time) string {
	var sb strings.Builder

	sb.WriteString("scheme_id,symbol,name,status,first_detected,last_seen,peak_risk_score,promoter_accounts\n")

	for _, scheme := range schemes {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%.2f,%d\n",
			csvField(scheme.SchemeID),
			csvField(scheme.Symbol),
			csvField(scheme.Name),
			scheme.Status,
			scheme.FirstDetected,
			scheme.LastSeen,
			scheme.PeakRiskScore,
			len(scheme.PromoterAccounts),
		))
	}

	return sb.String()
}

// csvField quotes a field when it contains a comma or quote.
func csvField(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
