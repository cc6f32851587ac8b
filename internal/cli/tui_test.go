package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/josz009/folio/pkg/content"
	"github.com/josz009/folio/pkg/siem"
	"github.com/josz009/folio/pkg/terminal"
)

func newTestTerminal(t *testing.T, open func(string) error) TerminalModel {
	t.Helper()
	cat, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	return NewTerminalModel(terminal.NewSession(terminal.New(cat)), open)
}

func typeLine(m TerminalModel, line string) TerminalModel {
	for _, r := range line {
		var msg tea.KeyMsg
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		next, _ := m.Update(msg)
		m = next.(TerminalModel)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(TerminalModel)
}

func TestTerminalModel_SubmitAndHistory(t *testing.T) {
	m := newTestTerminal(t, nil)

	m = typeLine(m, "help")
	m = typeLine(m, "cd projects")
	if m.Input != "" {
		t.Errorf("input not cleared: %q", m.Input)
	}
	if got := m.Session.History(); len(got) != 2 || got[1] != "cd projects" {
		t.Fatalf("history = %v", got)
	}
	if len(m.Notes) != 1 || !strings.Contains(m.Notes[0], "projects") {
		t.Errorf("notes = %v", m.Notes)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(TerminalModel)
	if m.Input != "cd projects" {
		t.Errorf("after up: %q", m.Input)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(TerminalModel)
	if m.Input != "help" {
		t.Errorf("after second up: %q", m.Input)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(TerminalModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(TerminalModel)
	if m.Input != "" {
		t.Errorf("down past newest should clear input, got %q", m.Input)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	m = next.(TerminalModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(TerminalModel)
	if m.Input != "a" {
		t.Errorf("after backspace: %q", m.Input)
	}
}

func TestTerminalModel_OpenLink(t *testing.T) {
	var opened []string
	m := newTestTerminal(t, func(u string) error {
		opened = append(opened, u)
		return nil
	})

	m = typeLine(m, "github")
	if len(opened) != 1 || !strings.HasPrefix(opened[0], "https://github.com/") {
		t.Errorf("opened = %v", opened)
	}

	m = typeLine(m, "clear")
	if len(m.Notes) != 0 {
		t.Errorf("clear left notes: %v", m.Notes)
	}
	if sb := m.Session.Scrollback(); len(sb) != 1 || sb[0] != terminal.Prompt {
		t.Errorf("scrollback after clear = %q", sb)
	}
	if !strings.Contains(m.View(), terminal.Prompt) {
		t.Error("view missing prompt")
	}
}

func TestTerminalModel_Download(t *testing.T) {
	var opened []string
	m := newTestTerminal(t, func(u string) error {
		opened = append(opened, u)
		return nil
	})

	m = typeLine(m, "resume")
	if len(opened) != 1 || !strings.HasSuffix(opened[0], ".pdf") {
		t.Fatalf("opened = %v", opened)
	}
	if len(m.Notes) != 1 || !strings.Contains(m.Notes[0], "download ") {
		t.Errorf("notes = %v", m.Notes)
	}

	m.applyEffect(terminal.Download{URL: "/cv.pdf", Filename: "cv.pdf"})
	if len(opened) != 1 {
		t.Errorf("download without Open should not open: %v", opened)
	}
	if len(m.Notes) != 2 || m.Notes[1] != "download cv.pdf from /cv.pdf" {
		t.Errorf("notes = %v", m.Notes)
	}
}

func TestTerminalModel_Quit(t *testing.T) {
	m := newTestTerminal(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc did not quit")
	}
}

func TestConsoleModel(t *testing.T) {
	view := siem.View{
		Name:          "test",
		Title:         "Test Console",
		Capacity:      3,
		SeedCount:     2,
		SeedSpacing:   5 * time.Millisecond,
		Interval:      10 * time.Millisecond,
		ClockInterval: 5 * time.Millisecond,
		Templates:     siem.DashboardTemplates,
	}
	sim := siem.NewSimulator(view, log.New(io.Discard))
	feed, cancel := sim.Subscribe(8)
	defer cancel()
	if err := sim.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}

	m := NewConsoleModel(sim, feed)
	ev := <-feed
	next, cmd := m.Update(eventMsg(ev))
	m = next.(ConsoleModel)
	if cmd == nil {
		t.Error("event should re-arm the feed")
	}
	if len(m.Events) == 0 {
		t.Fatal("no events after eventMsg")
	}
	if !strings.Contains(m.View(), "Test Console") || !strings.Contains(m.View(), "LIVE") {
		t.Errorf("unexpected view:\n%s", m.View())
	}

	at := time.Date(2025, 6, 1, 8, 30, 15, 0, time.UTC)
	next, _ = m.Update(clockMsg(at))
	m = next.(ConsoleModel)
	if !strings.Contains(m.View(), "08:30:15 UTC") {
		t.Errorf("clock not rendered:\n%s", m.View())
	}

	sim.Deactivate()
	next, _ = m.Update(feedEndedMsg{})
	m = next.(ConsoleModel)
	if !m.Ended || !strings.Contains(m.View(), "STOPPED") {
		t.Error("console did not mark the feed as ended")
	}
}
