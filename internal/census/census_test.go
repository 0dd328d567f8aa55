package census

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		asOf time.Time
		want int
	}{
		{"birthday already passed this year", date(1990, time.March, 10), date(2025, time.June, 1), 35},
		{"birthday later this year", date(1990, time.September, 10), date(2025, time.June, 1), 34},
		{"on the anniversary date, not yet had", date(1990, time.June, 1), date(2025, time.June, 1), 34},
		{"day after anniversary", date(1990, time.June, 1), date(2025, time.June, 2), 35},
		{"newborn", date(2025, time.January, 15), date(2025, time.June, 1), 0},
		{"born after as-of date clamps to zero", date(2026, time.January, 15), date(2025, time.June, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAt(tt.dob, tt.asOf))
		})
	}
}

func TestAggregate(t *testing.T) {
	var agg Aggregator
	asOf := date(2025, time.July, 1)

	t.Run("averages whole-year ages", func(t *testing.T) {
		summary := agg.Aggregate([]Person{
			{DateOfBirth: date(1990, time.March, 10)}, // 35
			{DateOfBirth: date(1980, time.March, 10)}, // 45
		}, asOf)
		assert.Equal(t, 40.0, summary.AverageAge)
		assert.Equal(t, 2, summary.MemberCount)
	})

	t.Run("empty census yields default average age, zero count", func(t *testing.T) {
		summary := agg.Aggregate(nil, asOf)
		assert.Equal(t, DefaultAverageAge, summary.AverageAge)
		assert.Equal(t, 0, summary.MemberCount)
	})

	t.Run("configured empty-census age wins", func(t *testing.T) {
		custom := Aggregator{EmptyCensusAverageAge: 42}
		summary := custom.Aggregate(nil, asOf)
		assert.Equal(t, 42.0, summary.AverageAge)
	})

	t.Run("dependents count as members", func(t *testing.T) {
		summary := agg.Aggregate([]Person{
			{DateOfBirth: date(1988, time.January, 2)},
			{DateOfBirth: date(2015, time.May, 20)},
			{DateOfBirth: date(2018, time.October, 3)},
		}, asOf)
		assert.Equal(t, 3, summary.MemberCount)
	})
}
