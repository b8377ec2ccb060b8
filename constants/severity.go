package constants

import "strings"

// Severity buckets risk flags by NOI impact.
// Thresholds: high > 25% of NOI, moderate 10-25%, low < 10%.
type Severity string

const (
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

// SeverityOrder lists severities in report order (worst first).
var SeverityOrder = []Severity{SeverityHigh, SeverityModerate, SeverityLow}

// ParseSeverity normalizes a model-emitted severity string. Unrecognized or
// qualitative values default to low with ok=false.
func ParseSeverity(input string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "high", "severe", "critical":
		return SeverityHigh, true
	case "moderate", "medium":
		return SeverityModerate, true
	case "low", "minor":
		return SeverityLow, true
	default:
		return SeverityLow, false
	}
}
