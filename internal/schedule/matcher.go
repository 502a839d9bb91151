package schedule

import (
	"sort"
	"time"
)

// DefaultLookahead bounds how far NextMatch scans when the caller passes a
// non-positive limit.
const DefaultLookahead = 90

// DateSet holds the unique matched calendar dates of a range scan.
type DateSet map[string]struct{}

// Contains reports whether dateStr is in the set.
func (s DateSet) Contains(dateStr string) bool {
	_, ok := s[dateStr]
	return ok
}

// Sorted returns the dates in chronological order.
func (s DateSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Matches reports whether the rule covers the given date. The weekday for
// dateStr is supplied by the caller, which keeps weekday/timezone policy out
// of this package. A rule that is neither cleanly dated nor cleanly recurring
// matches nothing.
func (r Rule) Matches(dateStr string, weekday time.Weekday) bool {
	switch {
	case r.Dated():
		if r.ScheduledDate != dateStr {
			return false
		}
	case r.Recurring():
		if *r.DayOfWeek != weekday {
			return false
		}
	default:
		return false
	}
	return r.withinBounds(dateStr)
}

// withinBounds applies the inclusive effective/expiry window. Empty bounds are
// open. Plain string comparison is correct for DateLayout values.
func (r Rule) withinBounds(dateStr string) bool {
	if r.EffectiveDate != "" && dateStr < r.EffectiveDate {
		return false
	}
	if r.ExpiryDate != "" && dateStr > r.ExpiryDate {
		return false
	}
	return true
}

// ExpandRange scans every day from start to end inclusive and returns the set
// of dates on which at least one rule matches. An empty rule slice or an end
// before start yields an empty set. Days are stepped as UTC calendar dates, so
// the scan is immune to DST shifts in the host timezone.
func ExpandRange(rules []Rule, start, end time.Time) DateSet {
	matched := make(DateSet)
	if len(rules) == 0 {
		return matched
	}
	last := midnightUTC(end)
	for day := midnightUTC(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		dateStr := day.Format(DateLayout)
		for _, r := range rules {
			if r.Matches(dateStr, day.Weekday()) {
				matched[dateStr] = struct{}{}
				break
			}
		}
	}
	return matched
}

// NextMatch finds the nearest scheduled date strictly after from, scanning at
// most maxDays days (DefaultLookahead when maxDays <= 0). The boolean is false
// when no rule matches inside the window.
func NextMatch(rules []Rule, from time.Time, maxDays int) (string, bool) {
	if len(rules) == 0 {
		return "", false
	}
	if maxDays <= 0 {
		maxDays = DefaultLookahead
	}
	day := midnightUTC(from)
	for offset := 1; offset <= maxDays; offset++ {
		day = day.AddDate(0, 0, 1)
		dateStr := day.Format(DateLayout)
		for _, r := range rules {
			if r.Matches(dateStr, day.Weekday()) {
				return dateStr, true
			}
		}
	}
	return "", false
}

// FormatDisplay renders a DateLayout string as a long human-readable label,
// e.g. "Tuesday, January 14, 2025".
func FormatDisplay(dateStr string) (string, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return "", err
	}
	return t.Format("Monday, January 2, 2006"), nil
}

// midnightUTC drops the time-of-day and timezone, keeping the calendar date.
func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
