package schedule

import (
	"testing"
	"time"

	"github.com/torchlight-safety/warden/internal/model"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(i int) *int { return &i }

func TestFromModelDated(t *testing.T) {
	r, err := FromModel(model.ScheduleRule{
		ID:            1,
		ScheduledDate: datePtr(2025, time.January, 15),
		EffectiveDate: datePtr(2025, time.January, 1),
	})
	if err != nil {
		t.Fatalf("FromModel: %v", err)
	}
	if !r.Dated() || r.ScheduledDate != "2025-01-15" || r.EffectiveDate != "2025-01-01" {
		t.Fatalf("unexpected rule %+v", r)
	}
}

func TestFromModelRecurringSunday(t *testing.T) {
	r, err := FromModel(model.ScheduleRule{ID: 2, DayOfWeek: intPtr(0)})
	if err != nil {
		t.Fatalf("FromModel: %v", err)
	}
	if !r.Recurring() || *r.DayOfWeek != time.Sunday {
		t.Fatalf("Sunday (0) must convert to a recurring rule, got %+v", r)
	}
}

func TestFromModelRejectsAmbiguousRows(t *testing.T) {
	tests := []struct {
		name string
		row  model.ScheduleRule
	}{
		{"both set", model.ScheduleRule{ID: 3, ScheduledDate: datePtr(2025, time.January, 15), DayOfWeek: intPtr(3)}},
		{"neither set", model.ScheduleRule{ID: 4}},
		{"weekday out of range", model.ScheduleRule{ID: 5, DayOfWeek: intPtr(7)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromModel(tt.row); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFromModelsSkipsBadRows(t *testing.T) {
	rows := []model.ScheduleRule{
		{ID: 1, DayOfWeek: intPtr(1)},
		{ID: 2}, // ambiguous, dropped
		{ID: 3, ScheduledDate: datePtr(2025, time.March, 1)},
	}
	rules, clean := FromModels(rows)
	if clean {
		t.Fatal("expected clean=false when a row is dropped")
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
}
