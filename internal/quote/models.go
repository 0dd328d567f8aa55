package quote

import (
	"regexp"
	"time"

	"covira/internal/census"
	"covira/internal/rating"
	dErrors "covira/pkg/domain-errors"
)

// zipPattern accepts 5-digit ZIPs with an optional +4 extension.
var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Request is a quote request for a group census.
type Request struct {
	ZIPCode       string
	EffectiveDate time.Time
	People        []census.Person
	CoverageTypes []rating.CoverageType
}

// Validate enforces the structural invariants of a quote request.
func (r Request) Validate() error {
	if len(r.CoverageTypes) == 0 {
		return dErrors.New(dErrors.CodeInvalidRequest, "at least one coverage type is required")
	}
	if !zipPattern.MatchString(r.ZIPCode) {
		return dErrors.New(dErrors.CodeInvalidRequest, "zip code must be 5 digits with optional +4")
	}
	if r.EffectiveDate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidRequest, "effective date is required")
	}
	return nil
}

// Offer is one priced quote. MonthlyPremium is in minor currency units.
// MetalTier is empty for non-medical coverage types.
type Offer struct {
	CarrierID      string              `json:"carrier_id"`
	PlanLabel      string              `json:"plan_label"`
	CoverageType   rating.CoverageType `json:"coverage_type"`
	MetalTier      MetalTier           `json:"metal_tier,omitempty"`
	MonthlyPremium rating.Money        `json:"monthly_premium"`
	Deductible     rating.Money        `json:"deductible"`
	OutOfPocketMax rating.Money        `json:"out_of_pocket_max"`
	Network        string              `json:"network"`
}
