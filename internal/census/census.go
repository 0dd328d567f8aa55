// Package census reduces a list of covered people into the age and
// head-count figures used for group pricing.
//
// Pure computation, no I/O; safe for concurrent use.
package census

import "time"

// Person is a covered individual (employee or dependent). Only the date of
// birth matters here; identity and address handling is a collaborator
// concern.
type Person struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
}

// Summary is the aggregate used by the quote generator.
type Summary struct {
	AverageAge  float64
	MemberCount int
}

// DefaultAverageAge is used for groups whose census has not been entered
// yet, so quoting can proceed before employee data exists.
const DefaultAverageAge = 38.0

// Aggregator computes census summaries. The zero value uses
// DefaultAverageAge for empty groups.
type Aggregator struct {
	// EmptyCensusAverageAge overrides DefaultAverageAge when positive.
	EmptyCensusAverageAge float64
}

// Aggregate computes the average whole-year age of people as of asOf, and
// the member head count. An empty census is valid and yields the configured
// default average age with a count of zero.
func (a Aggregator) Aggregate(people []Person, asOf time.Time) Summary {
	if len(people) == 0 {
		avg := a.EmptyCensusAverageAge
		if avg <= 0 {
			avg = DefaultAverageAge
		}
		return Summary{AverageAge: avg, MemberCount: 0}
	}

	total := 0
	for _, p := range people {
		total += AgeAt(p.DateOfBirth, asOf)
	}
	return Summary{
		AverageAge:  float64(total) / float64(len(people)),
		MemberCount: len(people),
	}
}

// AgeAt returns the whole-year age at asOf. When asOf falls on or before the
// anniversary date in its year, that year's birthday has not yet been had.
func AgeAt(dateOfBirth, asOf time.Time) int {
	years := asOf.Year() - dateOfBirth.Year()
	anniversary := time.Date(asOf.Year(), dateOfBirth.Month(), dateOfBirth.Day(), 0, 0, 0, 0, asOf.Location())
	if !asOf.After(anniversary) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
