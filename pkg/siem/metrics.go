package siem

// Metrics are the headline counters of a console. They are fixed display
// values, not derived from generated events.
type Metrics struct {
	TotalEvents      int    `json:"totalEvents"`
	BlockedThreats   int    `json:"blockedThreats"`
	ActiveMonitoring int    `json:"activeMonitoring"`
	SystemUptime     string `json:"systemUptime"`
}

// BaselineMetrics is shown by every view.
var BaselineMetrics = Metrics{
	TotalEvents:      1247,
	BlockedThreats:   1089,
	ActiveMonitoring: 24,
	SystemUptime:     "99.97%",
}

// BlockedRate is BlockedThreats as a whole percentage of TotalEvents.
func (m Metrics) BlockedRate() int {
	if m.TotalEvents == 0 {
		return 0
	}
	return m.BlockedThreats * 100 / m.TotalEvents
}

// Summary describes the events currently buffered.
type Summary struct {
	Metrics    Metrics          `json:"metrics"`
	BySeverity map[Severity]int `json:"bySeverity"`
	ByStatus   map[Status]int   `json:"byStatus"`
}

// Summarize counts events by severity and status.
func Summarize(events []Event) Summary {
	s := Summary{
		Metrics:    BaselineMetrics,
		BySeverity: make(map[Severity]int, len(Severities)),
		ByStatus:   make(map[Status]int, 4),
	}
	for _, ev := range events {
		s.BySeverity[ev.Severity]++
		s.ByStatus[ev.Status]++
	}
	return s
}
