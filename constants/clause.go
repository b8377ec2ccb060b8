package constants

import (
	"strings"
)

// ClauseType tags a lease clause category. The vocabulary below is the
// required checklist sent to the extraction model; the model may emit types
// outside it, which are kept verbatim after normalization.
type ClauseType string

const (
	OfferAcceptance ClauseType = "offer_acceptance"
	BaseRent        ClauseType = "base_rent"
	RentEscalation  ClauseType = "rent_escalation"
	PercentageRent  ClauseType = "percentage_rent"
	LeaseTerm       ClauseType = "lease_term"
	Termination     ClauseType = "termination"
	CoTenancy       ClauseType = "co_tenancy"
	CAM             ClauseType = "common_area_maintenance"
	Maintenance     ClauseType = "maintenance"
	Subleasing      ClauseType = "subleasing_assignment"
	Insurance       ClauseType = "insurance_indemnification"
	DefaultRemedy   ClauseType = "default_remedy"
	ForceMajeure    ClauseType = "force_majeure"
	OtherRisk       ClauseType = "other_risk"
)

var requiredChecklist = []ClauseType{
	OfferAcceptance,
	BaseRent,
	RentEscalation,
	PercentageRent,
	LeaseTerm,
	Termination,
	CoTenancy,
	CAM,
	Maintenance,
	Subleasing,
	Insurance,
	DefaultRemedy,
	ForceMajeure,
	OtherRisk,
}

// RequiredChecklist returns the clause types every extraction must account
// for, either as a found clause or as a confirmed-absent entry.
func RequiredChecklist() []ClauseType {
	out := make([]ClauseType, len(requiredChecklist))
	copy(out, requiredChecklist)
	return out
}

func ChecklistAsStrings() []string {
	result := make([]string, len(requiredChecklist))
	for i, ct := range requiredChecklist {
		result[i] = string(ct)
	}
	return result
}

// clauseSynonyms maps common model spellings onto checklist types.
var clauseSynonyms = map[string]ClauseType{
	"offer":                 OfferAcceptance,
	"acceptance":            OfferAcceptance,
	"offer/acceptance":      OfferAcceptance,
	"rent":                  BaseRent,
	"base rent":             BaseRent,
	"rent escalation":       RentEscalation,
	"escalation":            RentEscalation,
	"percentage rent":       PercentageRent,
	"term":                  LeaseTerm,
	"lease term":            LeaseTerm,
	"termination":           Termination,
	"early termination":     Termination,
	"co-tenancy":            CoTenancy,
	"cotenancy":             CoTenancy,
	"cam":                   CAM,
	"common area maintenance": CAM,
	"maintenance":           Maintenance,
	"repair":                Maintenance,
	"sublease":              Subleasing,
	"subleasing":            Subleasing,
	"assignment":            Subleasing,
	"subleasing/assignment": Subleasing,
	"insurance":             Insurance,
	"indemnification":       Insurance,
	"indemnity":             Insurance,
	"default":               DefaultRemedy,
	"remedy":                DefaultRemedy,
	"default/remedy":        DefaultRemedy,
	"force majeure":         ForceMajeure,
	"other":                 OtherRisk,
	"other risk":            OtherRisk,
}

// CanonicalizeClause maps a model-emitted type onto the checklist vocabulary.
// Unmatched types are returned normalized (lowercase, underscored) with
// ok=false so callers can keep the open vocabulary while the completeness
// check still recognizes checklist items under synonym spellings.
func CanonicalizeClause(input string) (ClauseType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return OtherRisk, false
	}

	underscored := strings.ReplaceAll(strings.ReplaceAll(normalized, " ", "_"), "-", "_")
	for _, ct := range requiredChecklist {
		if underscored == string(ct) {
			return ct, true
		}
	}
	if ct, ok := clauseSynonyms[normalized]; ok {
		return ct, true
	}
	return ClauseType(underscored), false
}
