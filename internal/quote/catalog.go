// Package quote combines the rating table and census aggregator with the
// carrier and tier catalogs to produce priced quote offers.
package quote

import "covira/internal/rating"

// MetalTier is a coverage-richness category for medical plans.
type MetalTier string

const (
	TierBronze MetalTier = "Bronze"
	TierSilver MetalTier = "Silver"
	TierGold   MetalTier = "Gold"
	// TierStandard is the single tier used for non-medical coverage types.
	TierStandard MetalTier = "Standard"
)

// Carrier is a configured insurance carrier.
type Carrier struct {
	ID      string
	Name    string
	Network string
}

// TierDesign holds the plan-design constants for one tier: the premium
// factor plus deductible and out-of-pocket maximum. Deductible and OOP max
// are fixed per tier, not computed.
type TierDesign struct {
	Factor         float64
	Deductible     rating.Money
	OutOfPocketMax rating.Money
}

// Catalog is the carrier/tier configuration, loaded once at startup and
// immutable for the process lifetime.
type Catalog struct {
	Carriers     []Carrier
	MedicalTiers map[MetalTier]TierDesign
	StandardTier TierDesign
	// ReferenceAge anchors the age factor: a census averaging this age
	// prices at factor 1.0.
	ReferenceAge float64
	AgeFactorMin float64
	AgeFactorMax float64
}

// DefaultCatalog returns the reference deployment's catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Carriers: []Carrier{
			{ID: "anthem", Name: "Anthem", Network: "PPO"},
			{ID: "kaiser", Name: "Kaiser Permanente", Network: "HMO"},
			{ID: "blueshield", Name: "Blue Shield", Network: "PPO"},
		},
		MedicalTiers: map[MetalTier]TierDesign{
			TierBronze: {Factor: 0.85, Deductible: 650000, OutOfPocketMax: 900000},
			TierSilver: {Factor: 1.00, Deductible: 400000, OutOfPocketMax: 750000},
			TierGold:   {Factor: 1.20, Deductible: 150000, OutOfPocketMax: 500000},
		},
		StandardTier: TierDesign{Factor: 1.0, Deductible: 5000, OutOfPocketMax: 0},
		ReferenceAge: 35,
		AgeFactorMin: 0.6,
		AgeFactorMax: 2.0,
	}
}

// medicalTierOrder fixes offer ordering so output is deterministic.
var medicalTierOrder = []MetalTier{TierBronze, TierSilver, TierGold}
