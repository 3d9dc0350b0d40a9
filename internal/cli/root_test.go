package cli

import (
	"testing"
	"time"

	"ritual/internal/models"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []time.Weekday
		wantErr bool
	}{
		{"short names", "mon,wed,fri", []time.Weekday{time.Monday, time.Wednesday, time.Friday}, false},
		{"full names", "monday,thursday", []time.Weekday{time.Monday, time.Thursday}, false},
		{"mixed case with spaces", " Mon , SATURDAY ", []time.Weekday{time.Monday, time.Saturday}, false},
		{"numeric", "0,6", []time.Weekday{time.Sunday, time.Saturday}, false},
		{"mixed names and numbers", "sun,3", []time.Weekday{time.Sunday, time.Wednesday}, false},
		{"invalid name", "mon,blursday", nil, true},
		{"out of range number", "7", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeekdays(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseWeekdays(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeekdays(%q) failed: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseWeekdays(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseWeekdays(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScheduledOn(t *testing.T) {
	daily, err := models.NewDailyRule(1, nil)
	if err != nil {
		t.Fatalf("NewDailyRule failed: %v", err)
	}
	weekly, err := models.NewWeeklyRule(1, []time.Weekday{time.Monday, time.Thursday})
	if err != nil {
		t.Fatalf("NewWeeklyRule failed: %v", err)
	}
	custom, err := models.NewCustomRule(1, "07:30", []time.Weekday{time.Tuesday})
	if err != nil {
		t.Fatalf("NewCustomRule failed: %v", err)
	}

	if !ScheduledOn(daily, time.Sunday) {
		t.Error("daily rules should schedule every weekday")
	}
	if !ScheduledOn(weekly, time.Monday) || ScheduledOn(weekly, time.Tuesday) {
		t.Error("weekly rule should schedule exactly its listed days")
	}
	if !ScheduledOn(custom, time.Tuesday) || ScheduledOn(custom, time.Wednesday) {
		t.Error("custom rule should schedule exactly its listed days")
	}
}

func TestCompletionInstant(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 4, 15, 30, 0, 0, loc) // Wednesday afternoon

	daily, err := models.NewDailyRule(1, nil)
	if err != nil {
		t.Fatalf("NewDailyRule failed: %v", err)
	}

	got, err := CompletionInstant(daily, "2025-06-04", now, loc)
	if err != nil {
		t.Fatalf("CompletionInstant failed: %v", err)
	}
	if !got.Equal(now) {
		t.Errorf("marking today should score the current moment, got %v", got)
	}

	got, err = CompletionInstant(daily, "2025-06-01", now, loc)
	if err != nil {
		t.Fatalf("CompletionInstant failed: %v", err)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("backdated day should score its midnight, got %v, want %v", got, want)
	}

	custom, err := models.NewCustomRule(1, "07:30", []time.Weekday{time.Wednesday})
	if err != nil {
		t.Fatalf("NewCustomRule failed: %v", err)
	}
	got, err = CompletionInstant(custom, "2025-06-04", now, loc)
	if err != nil {
		t.Fatalf("CompletionInstant failed: %v", err)
	}
	want = time.Date(2025, 6, 4, 7, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("custom rule should score the schedule's clock time, got %v, want %v", got, want)
	}
}
