package siem

import (
	"strings"
	"time"

	"github.com/josz009/folio/pkg/errors"
)

// View describes one console: its catalog, buffer size and schedule.
type View struct {
	Name          string
	Title         string
	Capacity      int
	SeedCount     int
	SeedSpacing   time.Duration
	Interval      time.Duration
	ClockInterval time.Duration
	Templates     []Template
}

// DashboardView is the full SOC console.
var DashboardView = View{
	Name:          "dashboard",
	Title:         "SIEM Console",
	Capacity:      6,
	SeedCount:     4,
	SeedSpacing:   200 * time.Millisecond,
	Interval:      5 * time.Second,
	ClockInterval: time.Second,
	Templates:     DashboardTemplates,
}

// ToolsView is the compact feed shown next to the tools list.
var ToolsView = View{
	Name:          "tools",
	Title:         "Live Security Feed",
	Capacity:      5,
	SeedCount:     3,
	SeedSpacing:   200 * time.Millisecond,
	Interval:      6 * time.Second,
	ClockInterval: time.Second,
	Templates:     ToolsTemplates,
}

// Views lists the built-in views.
var Views = []View{DashboardView, ToolsView}

// ViewByName returns the built-in view called name (case-insensitive).
func ViewByName(name string) (View, error) {
	for _, v := range Views {
		if strings.EqualFold(v.Name, strings.TrimSpace(name)) {
			return v, nil
		}
	}
	return View{}, errors.New(errors.ErrCodeInvalidView, "unknown view %q (want dashboard or tools)", name)
}

// Validate checks that v can drive a simulator.
func (v View) Validate() error {
	switch {
	case v.Capacity <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "view %s: capacity must be positive", v.Name)
	case v.SeedCount < 0:
		return errors.New(errors.ErrCodeInvalidInput, "view %s: seed count cannot be negative", v.Name)
	case v.Interval <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "view %s: interval must be positive", v.Name)
	case len(v.Templates) == 0:
		return errors.New(errors.ErrCodeInvalidInput, "view %s: no templates", v.Name)
	}
	return nil
}
