package handler

import (
	"time"

	"covira/internal/census"
	"covira/internal/quote"
	"covira/internal/rating"
	dErrors "covira/pkg/domain-errors"
	platformstrings "covira/pkg/platform/strings"
)

// GenerateRequest is the body of a quote request.
type GenerateRequest struct {
	ZIPCode       string          `json:"zipCode"`
	EffectiveDate string          `json:"effectiveDate"`
	People        []PersonPayload `json:"people"`
	CoverageTypes []string        `json:"coverageTypes"`

	parsed quote.Request
}

// PersonPayload is one covered person in a quote request.
type PersonPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
// Dates use YYYY-MM-DD; duplicate coverage types collapse to one.
func (r *GenerateRequest) Validate() error {
	effectiveDate, err := time.Parse(time.DateOnly, r.EffectiveDate)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidRequest, "effectiveDate must be YYYY-MM-DD")
	}

	people := make([]census.Person, 0, len(r.People))
	for _, p := range r.People {
		dob, err := time.Parse(time.DateOnly, p.DateOfBirth)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidRequest, "dateOfBirth must be YYYY-MM-DD")
		}
		people = append(people, census.Person{
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			DateOfBirth: dob,
		})
	}

	coverageTypes := make([]rating.CoverageType, 0, len(r.CoverageTypes))
	for _, raw := range platformstrings.DedupeAndTrim(r.CoverageTypes) {
		coverage, err := rating.ParseCoverageType(raw)
		if err != nil {
			return err
		}
		coverageTypes = append(coverageTypes, coverage)
	}

	r.parsed = quote.Request{
		ZIPCode:       r.ZIPCode,
		EffectiveDate: effectiveDate,
		People:        people,
		CoverageTypes: coverageTypes,
	}
	return r.parsed.Validate()
}

// Parsed returns the domain request built during validation.
func (r *GenerateRequest) Parsed() quote.Request {
	return r.parsed
}

// GenerateResponse is the wire shape of a quote result.
type GenerateResponse struct {
	Offers []quote.Offer `json:"offers"`
}
