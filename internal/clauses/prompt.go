package clauses

import (
	"strings"

	"github.com/leasescan/leasescan/constants"
)

const systemPrompt = "You are a commercial lease analyst. Return ONLY a single JSON object matching the requested shape. No markdown, no explanation."

// buildPrompt enumerates the required clause checklist and the output
// contract, then appends the (already truncated) document text.
func buildPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Extract every clause from the lease text below.\n\n")
	b.WriteString("Required clause categories to account for (find each, or confirm it absent):\n")
	for _, ct := range constants.RequiredChecklist() {
		b.WriteString("- ")
		b.WriteString(string(ct))
		b.WriteString("\n")
	}

	b.WriteString(`
For every clause found, report:
- "type": the category tag (use the checklist names above; add new tags for clauses outside the checklist)
- "wording": the verbatim excerpt from the lease
- "page": page locator
- "section": section locator if identifiable
- "confidence": 0-100 extraction confidence
- "description": one-sentence plain-language summary
- "manual_review": true when the wording is ambiguous or the data is incomplete

Return a single JSON object:
{
  "clauses": [ { "type": "...", "wording": "...", "page": "...", "section": "...", "confidence": 95, "description": "...", "manual_review": false } ],
  "confirmed_absent": [ "checklist types you verified the lease does not contain" ],
  "trust_score": 0-100 overall extraction reliability
}

Lease text:
"""
`)
	b.WriteString(text)
	b.WriteString("\n\"\"\"\n")
	return b.String()
}
