// Package schedule decides which calendar days a worker is rostered on.
//
// A rule is either dated (one exact day) or recurring (one weekday, every
// week), optionally bounded by an inclusive effective/expiry window. All
// functions are pure; callers load rules from the store and hand them in.
package schedule

import (
	"fmt"
	"time"

	"github.com/torchlight-safety/warden/internal/model"
)

// DateLayout is the wire and comparison format for calendar dates. Zero-padded
// ISO dates sort lexicographically in chronological order, which the bound
// checks rely on.
const DateLayout = "2006-01-02"

// Rule is one roster entry. Exactly one of ScheduledDate / DayOfWeek should be
// set; DayOfWeek is a pointer so that Sunday (0) still counts as present.
type Rule struct {
	ScheduledDate string
	DayOfWeek     *time.Weekday
	EffectiveDate string
	ExpiryDate    string
}

// Dated reports whether the rule targets one exact calendar date.
func (r Rule) Dated() bool {
	return r.ScheduledDate != "" && r.DayOfWeek == nil
}

// Recurring reports whether the rule repeats weekly on a fixed weekday.
func (r Rule) Recurring() bool {
	return r.ScheduledDate == "" && r.DayOfWeek != nil
}

// FromModel converts a persisted schedule_rules row into a Rule. Rows that set
// both or neither of scheduled_date/day_of_week are rejected here so they never
// reach the matcher as silent always-false rules.
func FromModel(m model.ScheduleRule) (Rule, error) {
	r := Rule{}
	if m.ScheduledDate != nil {
		r.ScheduledDate = m.ScheduledDate.Format(DateLayout)
	}
	if m.DayOfWeek != nil {
		if *m.DayOfWeek < 0 || *m.DayOfWeek > 6 {
			return Rule{}, fmt.Errorf("schedule rule %d: day_of_week %d out of range", m.ID, *m.DayOfWeek)
		}
		wd := time.Weekday(*m.DayOfWeek)
		r.DayOfWeek = &wd
	}
	if m.EffectiveDate != nil {
		r.EffectiveDate = m.EffectiveDate.Format(DateLayout)
	}
	if m.ExpiryDate != nil {
		r.ExpiryDate = m.ExpiryDate.Format(DateLayout)
	}
	if !r.Dated() && !r.Recurring() {
		return Rule{}, fmt.Errorf("schedule rule %d: exactly one of scheduled_date or day_of_week must be set", m.ID)
	}
	return r, nil
}

// FromModels converts rows in bulk, skipping malformed ones. The boolean is
// false when at least one row was dropped so callers can log it.
func FromModels(rows []model.ScheduleRule) ([]Rule, bool) {
	rules := make([]Rule, 0, len(rows))
	clean := true
	for _, row := range rows {
		r, err := FromModel(row)
		if err != nil {
			clean = false
			continue
		}
		rules = append(rules, r)
	}
	return rules, clean
}
