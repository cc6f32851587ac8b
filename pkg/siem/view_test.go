package siem

import (
	"testing"
	"time"

	"github.com/josz009/folio/pkg/errors"
)

func TestViewByName(t *testing.T) {
	tests := []struct {
		name     string
		wantCap  int
		wantSeed int
		interval time.Duration
	}{
		{"dashboard", 6, 4, 5 * time.Second},
		{"TOOLS", 5, 3, 6 * time.Second},
		{" tools ", 5, 3, 6 * time.Second},
	}
	for _, tt := range tests {
		v, err := ViewByName(tt.name)
		if err != nil {
			t.Fatalf("ViewByName(%q): %v", tt.name, err)
		}
		if v.Capacity != tt.wantCap || v.SeedCount != tt.wantSeed || v.Interval != tt.interval {
			t.Errorf("%q: %+v", tt.name, v)
		}
		if v.SeedSpacing != 200*time.Millisecond || v.ClockInterval != time.Second {
			t.Errorf("%q: spacing=%v clock=%v", tt.name, v.SeedSpacing, v.ClockInterval)
		}
	}

	if _, err := ViewByName("matrix"); !errors.Is(err, errors.ErrCodeInvalidView) {
		t.Errorf("unknown view err = %v", err)
	}
}

func TestView_Validate(t *testing.T) {
	bad := []View{
		{Name: "a", Capacity: 0, Interval: time.Second, Templates: ToolsTemplates},
		{Name: "b", Capacity: 1, SeedCount: -1, Interval: time.Second, Templates: ToolsTemplates},
		{Name: "c", Capacity: 1, Interval: 0, Templates: ToolsTemplates},
		{Name: "d", Capacity: 1, Interval: time.Second},
	}
	for _, v := range bad {
		if err := v.Validate(); err == nil {
			t.Errorf("view %s validated", v.Name)
		}
	}
	for _, v := range Views {
		if err := v.Validate(); err != nil {
			t.Errorf("built-in view %s: %v", v.Name, err)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Event{
		{Template: Template{Severity: SeverityHigh, Status: StatusBlocked}},
		{Template: Template{Severity: SeverityHigh, Status: StatusBlocked}},
		{Template: Template{Severity: SeverityInfo, Status: StatusAllowed}},
	})
	if s.BySeverity[SeverityHigh] != 2 || s.BySeverity[SeverityInfo] != 1 || s.ByStatus[StatusBlocked] != 2 {
		t.Errorf("summary = %+v", s)
	}
	if s.Metrics != BaselineMetrics {
		t.Errorf("metrics = %+v", s.Metrics)
	}
	if BaselineMetrics.BlockedRate() != 87 {
		t.Errorf("BlockedRate = %d", BaselineMetrics.BlockedRate())
	}
}
