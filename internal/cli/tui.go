package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/josz009/folio/pkg/siem"
	"github.com/josz009/folio/pkg/terminal"
)

var (
	consoleDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	consoleLiveStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	promptStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	noteStyle        = lipgloss.NewStyle().Foreground(colorBlue)

	severityStyles = map[siem.Severity]lipgloss.Style{
		siem.SeverityHigh:   lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		siem.SeverityMedium: lipgloss.NewStyle().Foreground(colorYellow),
		siem.SeverityLow:    lipgloss.NewStyle().Foreground(colorBlue),
		siem.SeverityInfo:   lipgloss.NewStyle().Foreground(colorGray),
	}
	statusStyles = map[siem.Status]lipgloss.Style{
		siem.StatusBlocked:   lipgloss.NewStyle().Foreground(colorGreen),
		siem.StatusMonitored: lipgloss.NewStyle().Foreground(colorYellow),
		siem.StatusAllowed:   lipgloss.NewStyle().Foreground(colorBlue),
		siem.StatusLogged:    lipgloss.NewStyle().Foreground(colorGray),
	}
)

// =============================================================================
// ConsoleModel - live security event console
// =============================================================================

type (
	eventMsg     siem.Event
	clockMsg     time.Time
	feedEndedMsg struct{}
)

// ConsoleModel is the bubbletea model for the event console. It renders
// whatever the simulator has buffered; events arriving on the subscription
// only trigger a redraw.
type ConsoleModel struct {
	Console siem.View
	Events  []siem.Event
	Now     time.Time
	Ended   bool

	sim  *siem.Simulator
	feed <-chan siem.Event
}

// NewConsoleModel creates a console over an active simulator subscription.
func NewConsoleModel(sim *siem.Simulator, feed <-chan siem.Event) ConsoleModel {
	return ConsoleModel{
		Console: sim.View(),
		Events:  sim.Events(),
		Now:     time.Now(),
		sim:     sim,
		feed:    feed,
	}
}

func (m ConsoleModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.feed), clockTick(m.Console.ClockInterval))
}

func waitForEvent(feed <-chan siem.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-feed
		if !ok {
			return feedEndedMsg{}
		}
		return eventMsg(ev)
	}
}

func clockTick(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = time.Second
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case eventMsg:
		m.Events = m.sim.Events()
		return m, waitForEvent(m.feed)
	case feedEndedMsg:
		m.Ended = true
		m.Events = m.sim.Events()
	case clockMsg:
		m.Now = time.Time(msg)
		return m, clockTick(m.Console.ClockInterval)
	}
	return m, nil
}

func (m ConsoleModel) View() string {
	var b strings.Builder

	status := consoleLiveStyle.Render("● LIVE")
	if m.Ended {
		status = consoleDimStyle.Render("○ STOPPED")
	}
	b.WriteString(StyleTitle.Render(m.Console.Title))
	b.WriteString("  " + status + "  ")
	b.WriteString(StyleValue.Render(m.Now.UTC().Format(siem.TimestampLayout) + " UTC"))
	b.WriteString("\n")

	met := siem.BaselineMetrics
	b.WriteString(consoleDimStyle.Render(fmt.Sprintf("events %s · blocked %s (%d%%) · monitoring %s · uptime %s",
		StyleNumber.Render(fmt.Sprint(met.TotalEvents)),
		StyleNumber.Render(fmt.Sprint(met.BlockedThreats)),
		met.BlockedRate(),
		StyleNumber.Render(fmt.Sprint(met.ActiveMonitoring)),
		StyleNumber.Render(met.SystemUptime))))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Events))
	for _, ev := range m.Events {
		rows = append(rows, []string{ev.Timestamp, string(ev.Severity), ev.Type, ev.Source, string(ev.Status)})
	}
	events := m.Events
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(consoleDimStyle).
		Headers("Time", "Severity", "Event", "Source", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return tableHeaderStyle
			}
			if row < 0 || row >= len(events) {
				return lipgloss.NewStyle()
			}
			switch col {
			case 1:
				return severityStyles[events[row].Severity]
			case 4:
				return statusStyles[events[row].Status]
			case 0:
				return consoleDimStyle
			}
			return StyleValue
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(m.Events) > 0 {
		b.WriteString(consoleDimStyle.Render("latest: " + m.Events[0].Description))
		b.WriteString("\n")
	}
	b.WriteString(consoleDimStyle.Render(fmt.Sprintf("[%d/%d] q quit", len(m.Events), m.Console.Capacity)))
	return b.String()
}

// =============================================================================
// TerminalModel - interactive portfolio shell
// =============================================================================

// TerminalModel is the bubbletea model for the portfolio terminal.
type TerminalModel struct {
	Session *terminal.Session
	Input   string
	Notes   []string
	Height  int

	open func(string) error
}

// NewTerminalModel creates a terminal over session. open handles link
// effects; nil only records them as notes.
func NewTerminalModel(session *terminal.Session, open func(string) error) TerminalModel {
	return TerminalModel{Session: session, Height: 24, open: open}
}

func (m TerminalModel) Init() tea.Cmd {
	return nil
}

func (m TerminalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			res := m.Session.Submit(m.Input)
			m.Input = ""
			m.applyEffect(res.Effect)
		case tea.KeyUp:
			if cmd, ok := m.Session.Prev(); ok {
				m.Input = cmd
			}
		case tea.KeyDown:
			if cmd, ok := m.Session.Next(); ok {
				m.Input = cmd
			}
		case tea.KeyBackspace:
			if r := []rune(m.Input); len(r) > 0 {
				m.Input = string(r[:len(r)-1])
			}
		case tea.KeySpace:
			m.Input += " "
		case tea.KeyRunes:
			m.Input += string(msg.Runes)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height
	}
	return m, nil
}

func (m *TerminalModel) applyEffect(e terminal.Effect) {
	switch e := e.(type) {
	case terminal.OpenLink:
		m.note("opening "+e.URL, e.URL)
	case terminal.Download:
		text := fmt.Sprintf("download %s from %s", e.Filename, e.URL)
		if e.Open {
			m.note(text, e.URL)
		} else {
			m.note(text, "")
		}
	case terminal.ScrollTo:
		m.Notes = append(m.Notes, "jump to the "+e.Section+" section with `folio "+e.Section+"`")
	case terminal.Clear:
		m.Notes = nil
	}
}

func (m *TerminalModel) note(text, url string) {
	if url != "" && m.open != nil {
		if err := m.open(url); err != nil {
			text += " (" + err.Error() + ")"
		}
	}
	m.Notes = append(m.Notes, text)
}

func (m TerminalModel) View() string {
	lines := m.Session.Scrollback()
	for _, n := range m.Notes {
		lines = append(lines, noteStyle.Render(iconArrow+" "+n))
	}
	lines = append(lines, promptStyle.Render(terminal.Prompt)+m.Input+"█")

	// Keep the prompt visible: show only the most recent lines.
	if visible := m.Height - 2; visible > 0 && len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	return strings.Join(lines, "\n") + "\n" + consoleDimStyle.Render("↑/↓ history  esc quit")
}
