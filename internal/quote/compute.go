package quote

import (
	"fmt"
	"math"

	"covira/internal/census"
	"covira/internal/rating"
)

// This file is pure domain logic - no I/O, no side effects. For identical
// inputs and a fixed catalog the output is identical: pricing never reads
// the clock or any random source, so offers are reproducible and safe to
// compute concurrently.

// ageFactor scales the base rate by group composition, clamped so a single
// census outlier cannot produce runaway pricing.
func ageFactor(averageAge float64, catalog Catalog) float64 {
	factor := averageAge / catalog.ReferenceAge
	return math.Min(math.Max(factor, catalog.AgeFactorMin), catalog.AgeFactorMax)
}

// premium computes one offer's monthly premium in minor units. An empty
// census prices as a single-member group so quoting can proceed before
// employee data is entered.
func premium(base rating.Money, age, tier float64, members int) rating.Money {
	if members < 1 {
		members = 1
	}
	return rating.Money(math.Round(float64(base) * age * tier * float64(members)))
}

// buildOffers produces the full carrier x tier cross-product for one
// coverage type. Callers rank and display; this returns the flat list.
func buildOffers(coverage rating.CoverageType, base rating.Money, summary census.Summary, catalog Catalog) []Offer {
	age := ageFactor(summary.AverageAge, catalog)

	var offers []Offer
	for _, carrier := range catalog.Carriers {
		if coverage.IsMedical() {
			for _, tier := range medicalTierOrder {
				design := catalog.MedicalTiers[tier]
				offers = append(offers, Offer{
					CarrierID:      carrier.ID,
					PlanLabel:      fmt.Sprintf("%s %s %s", carrier.Name, tier, coverage),
					CoverageType:   coverage,
					MetalTier:      tier,
					MonthlyPremium: premium(base, age, design.Factor, summary.MemberCount),
					Deductible:     design.Deductible,
					OutOfPocketMax: design.OutOfPocketMax,
					Network:        carrier.Network,
				})
			}
			continue
		}

		design := catalog.StandardTier
		offers = append(offers, Offer{
			CarrierID:      carrier.ID,
			PlanLabel:      fmt.Sprintf("%s %s", carrier.Name, coverage),
			CoverageType:   coverage,
			MonthlyPremium: premium(base, age, design.Factor, summary.MemberCount),
			Deductible:     design.Deductible,
			OutOfPocketMax: design.OutOfPocketMax,
			Network:        carrier.Network,
		})
	}
	return offers
}
