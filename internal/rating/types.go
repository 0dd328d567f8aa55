// Package rating provides the static rating table: ZIP code to rating area,
// and (area, coverage type) to base monthly rate.
//
// The table is loaded once at startup and treated as immutable for the
// process lifetime, so lookups are pure and safe for concurrent use.
package rating

import dErrors "covira/pkg/domain-errors"

// AreaID is a geographic pricing zone identifier (1..19 in the reference
// deployment).
type AreaID int

// Money is an amount in minor currency units (cents).
type Money int64

// CoverageType is a line of coverage an employer can request quotes for.
type CoverageType string

const (
	CoverageMedical CoverageType = "medical"
	CoverageDental  CoverageType = "dental"
	CoverageVision  CoverageType = "vision"
	CoverageLife    CoverageType = "life"
)

// ParseCoverageType validates a coverage type string.
func ParseCoverageType(raw string) (CoverageType, error) {
	switch CoverageType(raw) {
	case CoverageMedical, CoverageDental, CoverageVision, CoverageLife:
		return CoverageType(raw), nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown coverage type: "+raw)
}

// IsMedical reports whether the coverage type prices across metal tiers.
func (c CoverageType) IsMedical() bool {
	return c == CoverageMedical
}
