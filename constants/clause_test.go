package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeClause(t *testing.T) {
	cases := []struct {
		in     string
		want   ClauseType
		wantOK bool
	}{
		{"base_rent", BaseRent, true},
		{"Base Rent", BaseRent, true},
		{"co-tenancy", CoTenancy, true},
		{"Common Area Maintenance", CAM, true},
		{"CAM", CAM, true},
		{"indemnity", Insurance, true},
		{"early termination", Termination, true},
		{"Force Majeure", ForceMajeure, true},
		{"exclusive use", ClauseType("exclusive_use"), false},
		{"  Radius Restriction ", ClauseType("radius_restriction"), false},
		{"", OtherRisk, false},
	}
	for _, tc := range cases {
		got, ok := CanonicalizeClause(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
	}
}

func TestRequiredChecklistIsACopy(t *testing.T) {
	a := RequiredChecklist()
	a[0] = ClauseType("mutated")
	b := RequiredChecklist()
	assert.NotEqual(t, a[0], b[0])
	assert.Len(t, b, 14)
}
