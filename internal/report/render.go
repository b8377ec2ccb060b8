package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/leasescan/leasescan/constants"
	"github.com/leasescan/leasescan/internal/clauses"
	"github.com/leasescan/leasescan/internal/risk"
)

// Meta is the report header metadata.
type Meta struct {
	GeneratedAt time.Time
	Generator   string // e.g. "leasescan v1"
}

const (
	placeholder = "n/a"

	lowRiskCutoff      = 8.0
	moderateRiskCutoff = 5.0
)

// ScoreLabel derives the qualitative label for a deal-impact score.
func ScoreLabel(score float64) string {
	switch {
	case score >= lowRiskCutoff:
		return "Low Risk"
	case score >= moderateRiskCutoff:
		return "Moderate Risk"
	default:
		return "High Risk"
	}
}

// Render assembles the lease analysis report. Pure function: no network or
// storage access, byte-identical output for identical inputs, and never
// panics on missing optional fields (every access defaults to a placeholder).
func Render(cs clauses.ClauseSet, rs risk.RiskSet, meta Meta) []byte {
	var b strings.Builder

	b.WriteString("LEASE ANALYSIS REPORT\n")
	b.WriteString("=====================\n")
	fmt.Fprintf(&b, "Generated: %s\n", meta.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Generator: %s\n", orPlaceholder(meta.Generator))
	fmt.Fprintf(&b, "Extraction trust score: %s\n", formatScore(cs.TrustScore))
	b.WriteString("\n")

	b.WriteString("KEY DETAILS\n")
	b.WriteString("-----------\n")
	if len(cs.Clauses) == 0 {
		b.WriteString("No clauses extracted.\n")
	}
	for _, c := range cs.Clauses {
		fmt.Fprintf(&b, "- %s: %s (page %s, confidence %s)\n",
			orPlaceholder(string(c.Type)),
			orPlaceholder(c.Description),
			orPlaceholder(c.Page),
			formatScore(c.Confidence),
		)
	}
	if len(cs.ConfirmedAbsent) > 0 {
		fmt.Fprintf(&b, "Confirmed absent: %s\n", strings.Join(cs.ConfirmedAbsent, ", "))
	}
	if len(cs.MissingChecklist) > 0 {
		fmt.Fprintf(&b, "Not accounted for: %s\n", strings.Join(cs.MissingChecklist, ", "))
	}
	b.WriteString("\n")

	b.WriteString("RISK FLAGS\n")
	b.WriteString("----------\n")
	buckets := rs.BySeverity()
	any := false
	for _, sev := range constants.SeverityOrder {
		flagged := buckets[sev]
		if len(flagged) == 0 {
			continue
		}
		any = true
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(string(sev)))
		for _, r := range flagged {
			fmt.Fprintf(&b, "- %s: %s (page %s)\n",
				orPlaceholder(r.Type), orPlaceholder(r.Reason), orPlaceholder(r.Page))
			if r.NOIImpact != "" {
				fmt.Fprintf(&b, "  NOI impact: %s\n", r.NOIImpact)
			}
			if r.Calculation != "" {
				fmt.Fprintf(&b, "  Calculation: %s\n", r.Calculation)
			}
		}
	}
	if !any {
		b.WriteString("No significant risks identified.\n")
	}
	b.WriteString("\n")

	if len(rs.ManualReviewItems) > 0 {
		b.WriteString("MANUAL REVIEW\n")
		b.WriteString("-------------\n")
		for _, item := range rs.ManualReviewItems {
			fmt.Fprintf(&b, "- %s (page %s): %s\n",
				orPlaceholder(item.Item), orPlaceholder(item.Page), orPlaceholder(item.Reason))
		}
		b.WriteString("\n")
	}

	if len(rs.PositiveHighlights) > 0 {
		b.WriteString("POSITIVE HIGHLIGHTS\n")
		b.WriteString("-------------------\n")
		for _, h := range rs.PositiveHighlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("\n")
	}

	b.WriteString("INVESTOR SUMMARY\n")
	b.WriteString("----------------\n")
	fmt.Fprintf(&b, "%s\n\n", orPlaceholder(rs.InvestorSummary))

	b.WriteString("DEAL IMPACT SCORE\n")
	b.WriteString("-----------------\n")
	if rs.Scored {
		fmt.Fprintf(&b, "%s/10 (%s)\n", formatScore(rs.DealScore), ScoreLabel(rs.DealScore))
	} else {
		b.WriteString("not scored\n")
	}
	if rs.ScoreExplanation != "" {
		fmt.Fprintf(&b, "%s\n", rs.ScoreExplanation)
	}

	return []byte(b.String())
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// formatScore drops trailing zeroes so 7.50 renders as 7.5 and 95.00 as 95.
func formatScore(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
