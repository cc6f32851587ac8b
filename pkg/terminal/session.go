package terminal

import "sync"

// Welcome is the initial scrollback of a new session.
var Welcome = []string{
	Prompt + "Welcome to my interactive terminal!",
	`Type "help" to see available commands.`,
	"",
}

// History records submitted commands, oldest first, and tracks a browsing
// position the way shell arrow keys do.
type History struct {
	entries []string
	pos     int // -1 when not browsing; otherwise steps back from the newest
}

// NewHistory returns an empty history.
func NewHistory() *History { return &History{pos: -1} }

// Add records a submitted command and ends browsing. Blank commands are
// not recorded.
func (h *History) Add(cmd string) {
	if cmd == "" {
		return
	}
	h.entries = append(h.entries, cmd)
	h.pos = -1
}

// Prev moves to the next older entry and returns it. At the oldest entry it
// stays put; with no history it returns "" and false.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos < len(h.entries)-1 {
		h.pos++
	}
	return h.entries[len(h.entries)-1-h.pos], true
}

// Next moves to the next newer entry and returns it. Moving past the newest
// entry ends browsing and returns "" so the input line is cleared.
func (h *History) Next() (string, bool) {
	switch {
	case h.pos > 0:
		h.pos--
		return h.entries[len(h.entries)-1-h.pos], true
	case h.pos == 0:
		h.pos = -1
		return "", true
	}
	return "", false
}

// Entries returns a copy of the recorded commands, oldest first.
func (h *History) Entries() []string { return append([]string(nil), h.entries...) }

// Session is one interactive terminal: scrollback plus history. It is safe
// for concurrent use.
type Session struct {
	interp *Interpreter

	mu         sync.Mutex
	scrollback []string
	history    *History
}

// NewSession starts a session showing [Welcome].
func NewSession(interp *Interpreter) *Session {
	return &Session{
		interp:     interp,
		scrollback: append([]string(nil), Welcome...),
		history:    NewHistory(),
	}
}

// Submit executes input, records it and appends the echo and output to the
// scrollback. clear replaces the scrollback with a bare prompt line.
func (s *Session) Submit(input string) Result {
	res := s.interp.Execute(input)
	if res.Echo == "" {
		return res
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Add(input)
	if _, ok := res.Effect.(Clear); ok {
		s.scrollback = []string{Prompt}
		return res
	}
	s.scrollback = append(s.scrollback, res.Echo)
	s.scrollback = append(s.scrollback, res.Lines...)
	return res
}

// Scrollback returns a copy of the visible lines.
func (s *Session) Scrollback() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scrollback...)
}

// Prev recalls an older command.
func (s *Session) Prev() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Prev()
}

// Next recalls a newer command.
func (s *Session) Next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Next()
}

// History returns the submitted commands, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}
