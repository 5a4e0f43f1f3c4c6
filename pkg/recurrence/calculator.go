package recurrence

import (
	"sort"
	"time"
)

// Pattern is the cadence of a recurring task.
type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
	PatternYearly  Pattern = "yearly"
)

// Rule is a recurrence configuration detached from any stored task, so the
// calculator stays free of persistence concerns.
type Rule struct {
	Enabled    bool
	Pattern    Pattern
	Interval   int        // every N periods, minimum 1
	DaysOfWeek []int      // weekly only, 0=Sunday..6=Saturday
	DayOfMonth int        // monthly only, 1..31, clamped to month length
	EndDate    *time.Time // inclusive last allowed occurrence
}

// NextDue computes the occurrence following ref, or nil when the rule is
// disabled, has an unknown pattern, or the candidate falls past EndDate.
// It never mutates the rule and never fails: a missing interval counts as 1
// and an out-of-range day-of-month clamps instead of erroring.
func NextDue(rule Rule, ref time.Time) *time.Time {
	if !rule.Enabled {
		return nil
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var candidate time.Time

	switch rule.Pattern {
	case PatternDaily:
		candidate = ref.AddDate(0, 0, interval)

	case PatternWeekly:
		days := validWeekdays(rule.DaysOfWeek)
		if len(days) == 0 {
			candidate = ref.AddDate(0, 0, 7*interval)
			break
		}
		// With an explicit weekday set every week qualifies and the interval
		// is not applied. Longstanding behavior, kept as-is.
		weekday := int(ref.Weekday())
		next := -1
		for _, d := range days {
			if d > weekday {
				next = d
				break
			}
		}
		if next >= 0 {
			candidate = ref.AddDate(0, 0, next-weekday)
		} else {
			candidate = ref.AddDate(0, 0, 7-weekday+days[0])
		}

	case PatternMonthly:
		if rule.DayOfMonth == 0 {
			// Calendar rollover semantics follow time.AddDate.
			candidate = ref.AddDate(0, interval, 0)
			break
		}
		year, month, _ := ref.Date()
		anchor := time.Date(year, month, 1, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
		target := anchor.AddDate(0, interval, 0)
		day := rule.DayOfMonth
		if day < 1 {
			day = 1
		}
		if max := daysInMonth(target.Year(), target.Month()); day > max {
			day = max
		}
		candidate = time.Date(target.Year(), target.Month(), day, ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())

	case PatternYearly:
		candidate = ref.AddDate(interval, 0, 0)

	default:
		return nil
	}

	// EndDate is inclusive: a candidate landing exactly on it still occurs.
	if rule.EndDate != nil && candidate.After(*rule.EndDate) {
		return nil
	}

	return &candidate
}

// validWeekdays filters out-of-range entries and returns a sorted copy.
func validWeekdays(days []int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
