package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/risk"
)

// RenderNetworkReport renders the promoter network as a Markdown report.
// Entries are rendered worst tier first, then by promoter id, so diffs
// between runs stay readable.
func RenderNetworkReport(catalog *domain.PromoterCatalog, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Promoter Network Report\n\n")
	sb.WriteString("Generated at: " + now.UTC().Format("2006-01-02 15:04:05 UTC") + "\n\n")

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- Total promoters: %d\n", catalog.TotalPromoters))
	sb.WriteString(fmt.Sprintf("- Active promoters: %d\n", catalog.ActivePromoters))
	sb.WriteString(fmt.Sprintf("- Serial offenders: %d\n\n", catalog.SerialOffenders))

	entries := sortedEntries(catalog)

	sb.WriteString("## Promoters by Risk Tier\n\n")
	sb.WriteString("| Promoter | Platform | Identifier | Stocks | Posts | Confidence | Co-promoters | Tier | Active |\n")
	sb.WriteString("|----------|----------|------------|--------|-------|------------|--------------|------|--------|\n")
	for _, entry := range entries {
		active := "no"
		if entry.IsActive {
			active = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %s | %d | %s | %s |\n",
			entry.PromoterID, entry.Platform, entry.Identifier,
			len(entry.StocksPromoted), entry.TotalPosts, entry.Confidence,
			len(entry.CoPromoters), entry.RiskLevel, active))
	}
	sb.WriteString("\n")

	renderSerialOffenders(&sb, entries)
	renderNetworkEdges(&sb, entries)

	return sb.String()
}

// renderSerialOffenders writes a per-offender section with the rule checklist.
func renderSerialOffenders(sb *strings.Builder, entries []*domain.PromoterEntry) {
	classifier := risk.NewClassifier()

	var offenders []*domain.PromoterEntry
	for _, entry := range entries {
		if entry.RiskLevel == domain.RiskSerialOffender {
			offenders = append(offenders, entry)
		}
	}
	if len(offenders) == 0 {
		return
	}

	sb.WriteString("## Serial Offenders\n\n")
	for _, entry := range offenders {
		sb.WriteString("### " + entry.PromoterID + "\n\n")

		var symbols []string
		for _, stock := range entry.StocksPromoted {
			symbols = append(symbols, stock.Symbol)
		}
		sb.WriteString("Promoted: " + strings.Join(symbols, ", ") + "\n\n")

		assessment := classifier.Assess(entry)
		sb.WriteString("| Rule | Condition | Actual | Match |\n")
		sb.WriteString("|------|-----------|--------|-------|\n")
		for _, c := range assessment.Criteria {
			match := "no"
			if c.Pass {
				match = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.Name, c.Threshold, c.Actual, match))
		}
		sb.WriteString("\n")
	}
}

// renderNetworkEdges writes each co-promoter link once (lower id first).
func renderNetworkEdges(sb *strings.Builder, entries []*domain.PromoterEntry) {
	var lines []string
	for _, entry := range entries {
		for _, link := range entry.CoPromoters {
			if entry.PromoterID < link.PromoterID {
				lines = append(lines, fmt.Sprintf("- %s <-> %s (shared: %s)",
					entry.PromoterID, link.PromoterID, strings.Join(link.SharedStocks, ", ")))
			}
		}
	}
	if len(lines) == 0 {
		return
	}
	sort.Strings(lines)

	sb.WriteString("## Co-Promoter Network\n\n")
	for _, line := range lines {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
}

// sortedEntries orders worst tier first, then by promoter id.
func sortedEntries(catalog *domain.PromoterCatalog) []*domain.PromoterEntry {
	entries := make([]*domain.PromoterEntry, 0, len(catalog.Promoters))
	for _, entry := range catalog.Promoters {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RiskLevel.Rank() != entries[j].RiskLevel.Rank() {
			return entries[i].RiskLevel.Rank() > entries[j].RiskLevel.Rank()
		}
		return entries[i].PromoterID < entries[j].PromoterID
	})
	return entries
}
