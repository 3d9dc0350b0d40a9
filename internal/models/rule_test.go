package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewDailyRule(t *testing.T) {
	t.Run("empty days default to all seven", func(t *testing.T) {
		r, err := NewDailyRule(1, nil)
		if err != nil {
			t.Fatalf("NewDailyRule() error: %v", err)
		}
		if len(r.Days) != 7 {
			t.Errorf("expected 7 days, got %d", len(r.Days))
		}
		if r.Kind != KindDaily {
			t.Errorf("kind = %q, want %q", r.Kind, KindDaily)
		}
	})

	t.Run("explicit days are kept and sorted", func(t *testing.T) {
		r, err := NewDailyRule(1, []time.Weekday{time.Friday, time.Monday})
		if err != nil {
			t.Fatalf("NewDailyRule() error: %v", err)
		}
		if len(r.Days) != 2 || r.Days[0] != time.Monday || r.Days[1] != time.Friday {
			t.Errorf("days = %v, want [Monday Friday]", r.Days)
		}
	})

	t.Run("value below one rejected", func(t *testing.T) {
		if _, err := NewDailyRule(0, nil); !errors.Is(err, ErrInvalidRule) {
			t.Errorf("expected ErrInvalidRule, got %v", err)
		}
	})
}

func TestNewWeeklyRule(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		days    []time.Weekday
		wantErr bool
	}{
		{
			name:  "mon wed fri",
			value: 1,
			days:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		},
		{
			name:  "single day",
			value: 1,
			days:  []time.Weekday{time.Sunday},
		},
		{
			name:    "empty days rejected",
			value:   1,
			days:    nil,
			wantErr: true,
		},
		{
			name:    "duplicate days rejected",
			value:   1,
			days:    []time.Weekday{time.Monday, time.Monday},
			wantErr: true,
		},
		{
			name:    "day out of range rejected",
			value:   1,
			days:    []time.Weekday{time.Weekday(7)},
			wantErr: true,
		},
		{
			name:    "zero value rejected",
			value:   0,
			days:    []time.Weekday{time.Monday},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWeeklyRule(tt.value, tt.days)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewWeeklyRule() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("NewWeeklyRule() error = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestNewCustomRule(t *testing.T) {
	tests := []struct {
		name      string
		timeOfDay string
		days      []time.Weekday
		wantErr   bool
	}{
		{
			name:      "valid schedule",
			timeOfDay: "07:30",
			days:      []time.Weekday{time.Tuesday, time.Thursday},
		},
		{
			name:      "midnight",
			timeOfDay: "00:00",
			days:      []time.Weekday{time.Saturday},
		},
		{
			name:      "hour out of range rejected",
			timeOfDay: "25:00",
			days:      []time.Weekday{time.Monday},
			wantErr:   true,
		},
		{
			name:      "minute out of range rejected",
			timeOfDay: "09:60",
			days:      []time.Weekday{time.Monday},
			wantErr:   true,
		},
		{
			name:      "not a clock time rejected",
			timeOfDay: "noon",
			days:      []time.Weekday{time.Monday},
			wantErr:   true,
		},
		{
			name:      "empty days rejected",
			timeOfDay: "07:30",
			days:      nil,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCustomRule(1, tt.timeOfDay, tt.days)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCustomRule() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("NewCustomRule() error = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{
			name:    "custom kind without schedule rejected",
			rule:    Rule{Kind: KindCustom, Value: 1},
			wantErr: true,
		},
		{
			name: "schedule on daily rule rejected",
			rule: Rule{
				Kind:   KindDaily,
				Value:  1,
				Days:   []time.Weekday{time.Monday},
				Custom: &CustomSchedule{Time: "08:00", Days: []time.Weekday{time.Monday}},
			},
			wantErr: true,
		},
		{
			name:    "unknown kind rejected",
			rule:    Rule{Kind: RuleKind("biweekly"), Value: 1},
			wantErr: true,
		},
		{
			name: "stored weekly rule passes",
			rule: Rule{Kind: KindWeekly, Value: 1, Days: []time.Weekday{time.Monday}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("Validate() error = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestRuleJSONRoundTrip(t *testing.T) {
	rule, err := NewCustomRule(1, "07:30", []time.Weekday{time.Tuesday, time.Thursday})
	if err != nil {
		t.Fatalf("NewCustomRule() error: %v", err)
	}

	data, err := json.Marshal(rule)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `"customSchedule"`) {
		t.Errorf("serialized rule missing customSchedule field: %s", data)
	}

	var back Rule
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if err := back.Validate(); err != nil {
		t.Errorf("round-tripped rule failed validation: %v", err)
	}
	if back.Kind != rule.Kind || back.Custom == nil || back.Custom.Time != "07:30" {
		t.Errorf("round-tripped rule = %+v, want %+v", back, rule)
	}
}

func TestRuleDescribe(t *testing.T) {
	daily, _ := NewDailyRule(1, nil)
	if got := daily.Describe(); got != "daily" {
		t.Errorf("Describe() = %q, want %q", got, "daily")
	}

	weekly, _ := NewWeeklyRule(1, []time.Weekday{time.Monday, time.Wednesday, time.Friday})
	if got := weekly.Describe(); got != "weekly on Mon,Wed,Fri" {
		t.Errorf("Describe() = %q, want %q", got, "weekly on Mon,Wed,Fri")
	}

	custom, _ := NewCustomRule(1, "07:30", []time.Weekday{time.Tuesday})
	if got := custom.Describe(); got != "07:30 on Tue" {
		t.Errorf("Describe() = %q, want %q", got, "07:30 on Tue")
	}
}
