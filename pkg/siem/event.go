package siem

import "time"

// Severity ranks an event.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// Status is the disposition of an event.
type Status string

const (
	StatusBlocked   Status = "BLOCKED"
	StatusMonitored Status = "MONITORED"
	StatusAllowed   Status = "ALLOWED"
	StatusLogged    Status = "LOGGED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusBlocked, StatusMonitored, StatusAllowed, StatusLogged:
		return true
	}
	return false
}

// Template is an event without identity or time.
type Template struct {
	Severity    Severity `json:"severity"`
	Type        string   `json:"type"`
	Source      string   `json:"source"`
	Status      Status   `json:"status"`
	Description string   `json:"description"`
}

// Event is one generated security event.
type Event struct {
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"` // HH:MM:SS, UTC
	At        time.Time `json:"at"`
	Template
}
