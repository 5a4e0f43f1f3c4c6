package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestNextDueDaily(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		ref      time.Time
		want     time.Time
	}{
		{"every day", 1, date(2025, time.January, 10), date(2025, time.January, 11)},
		{"every third day", 3, date(2025, time.January, 10), date(2025, time.January, 13)},
		{"across month boundary", 1, date(2025, time.January, 31), date(2025, time.February, 1)},
		{"missing interval defaults to 1", 0, date(2025, time.January, 10), date(2025, time.January, 11)},
		{"negative interval defaults to 1", -4, date(2025, time.January, 10), date(2025, time.January, 11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDue(Rule{Enabled: true, Pattern: PatternDaily, Interval: tt.interval}, tt.ref)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestNextDueWeeklyWithoutDays(t *testing.T) {
	ref := date(2025, time.January, 10)

	got := NextDue(Rule{Enabled: true, Pattern: PatternWeekly, Interval: 2}, ref)
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.January, 24), *got)
}

func TestNextDueWeeklyWithDays(t *testing.T) {
	// Mon/Wed/Fri selection
	rule := Rule{Enabled: true, Pattern: PatternWeekly, Interval: 1, DaysOfWeek: []int{1, 3, 5}}

	tests := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{"Tuesday advances to Wednesday", date(2025, time.January, 14), date(2025, time.January, 15)},
		{"Friday wraps to next Monday", date(2025, time.January, 17), date(2025, time.January, 20)},
		{"Saturday wraps to next Monday", date(2025, time.January, 18), date(2025, time.January, 20)},
		{"Monday advances to Wednesday same week", date(2025, time.January, 13), date(2025, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDue(rule, tt.ref)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestNextDueWeeklyWithDaysIgnoresInterval(t *testing.T) {
	// The weekday set overrides the interval cadence: every week qualifies.
	// Observed behavior, intentionally preserved.
	rule := Rule{Enabled: true, Pattern: PatternWeekly, Interval: 3, DaysOfWeek: []int{1}}

	got := NextDue(rule, date(2025, time.January, 17)) // Friday
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.January, 20), *got, "next Monday, not three weeks out")
}

func TestNextDueWeeklyFiltersInvalidDays(t *testing.T) {
	rule := Rule{Enabled: true, Pattern: PatternWeekly, Interval: 1, DaysOfWeek: []int{-1, 3, 9}}

	got := NextDue(rule, date(2025, time.January, 14)) // Tuesday
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.January, 15), *got)
}

func TestNextDueMonthlyWithoutDayOfMonth(t *testing.T) {
	ref := date(2025, time.March, 15)

	got := NextDue(Rule{Enabled: true, Pattern: PatternMonthly, Interval: 1}, ref)
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.April, 15), *got)

	// Overflow follows time.AddDate normalization: Jan 31 + 1 month = Mar 3.
	got = NextDue(Rule{Enabled: true, Pattern: PatternMonthly, Interval: 1}, date(2025, time.January, 31))
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.March, 3), *got)
}

func TestNextDueMonthlyClampsDayOfMonth(t *testing.T) {
	rule := Rule{Enabled: true, Pattern: PatternMonthly, Interval: 1, DayOfMonth: 31}

	got := NextDue(rule, date(2025, time.January, 31))
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.February, 28), *got)

	// Leap year keeps the 29th.
	got = NextDue(rule, date(2024, time.January, 31))
	require.NotNil(t, got)
	assert.Equal(t, date(2024, time.February, 29), *got)

	// 30-day month clamps 31 to 30.
	got = NextDue(rule, date(2025, time.March, 31))
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.April, 30), *got)
}

func TestNextDueMonthlyKeepsClockTime(t *testing.T) {
	ref := time.Date(2025, time.January, 31, 9, 30, 0, 0, time.UTC)
	rule := Rule{Enabled: true, Pattern: PatternMonthly, Interval: 1, DayOfMonth: 31}

	got := NextDue(rule, ref)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, time.February, 28, 9, 30, 0, 0, time.UTC), *got)
}

func TestNextDueYearly(t *testing.T) {
	got := NextDue(Rule{Enabled: true, Pattern: PatternYearly, Interval: 2}, date(2025, time.June, 1))
	require.NotNil(t, got)
	assert.Equal(t, date(2027, time.June, 1), *got)
}

func TestNextDueEndDateBoundary(t *testing.T) {
	rule := Rule{
		Enabled:  true,
		Pattern:  PatternDaily,
		Interval: 1,
		EndDate:  datePtr(2025, time.January, 15),
	}

	// Candidate landing exactly on the end date still occurs.
	got := NextDue(rule, date(2025, time.January, 14))
	require.NotNil(t, got)
	assert.Equal(t, date(2025, time.January, 15), *got)

	// One past the end date terminates the series.
	assert.Nil(t, NextDue(rule, date(2025, time.January, 15)))
}

func TestNextDueTerminalStates(t *testing.T) {
	ref := date(2025, time.January, 10)

	assert.Nil(t, NextDue(Rule{Enabled: false, Pattern: PatternDaily, Interval: 1}, ref), "disabled rule")
	assert.Nil(t, NextDue(Rule{Enabled: true, Pattern: "fortnightly", Interval: 1}, ref), "unknown pattern")
	assert.Nil(t, NextDue(Rule{Enabled: true}, ref), "empty pattern")
}

func TestNextDueDoesNotMutateRule(t *testing.T) {
	days := []int{5, 1, 3}
	rule := Rule{Enabled: true, Pattern: PatternWeekly, Interval: 1, DaysOfWeek: days}

	NextDue(rule, date(2025, time.January, 14))

	assert.Equal(t, []int{5, 1, 3}, days, "caller's weekday slice must stay untouched")
}
