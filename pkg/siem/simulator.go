package siem

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/josz009/folio/pkg/errors"
	"github.com/josz009/folio/pkg/observability"
)

// State is the lifecycle state of a [Simulator].
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Simulator generates events for one [View] while active.
type Simulator struct {
	view   View
	gen    *Generator
	buf    *Buffer
	logger *log.Logger

	// OnTick, if set before Activate, receives the time on every clock tick.
	OnTick func(time.Time)

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	stopped chan struct{}

	subsMu sync.RWMutex
	subs   map[chan Event]struct{}
	closed bool
}

// NewSimulator creates an idle simulator for view. A nil logger falls back
// to log.Default(). It panics if view is invalid; use [View.Validate] for
// views built from user input.
func NewSimulator(view View, logger *log.Logger) *Simulator {
	if err := view.Validate(); err != nil {
		panic(err)
	}
	if view.ClockInterval <= 0 {
		view.ClockInterval = time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Simulator{
		view:   view,
		gen:    NewGenerator(view.Templates, nil),
		buf:    NewBuffer(view.Capacity),
		logger: logger,
		subs:   make(map[chan Event]struct{}),
	}
}

// View returns the simulator's view.
func (s *Simulator) View() View { return s.view }

// Generator exposes the generator, mainly to pin its clock in tests.
func (s *Simulator) Generator() *Generator { return s.gen }

// State returns the current lifecycle state.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Events returns the buffered events, newest first.
func (s *Simulator) Events() []Event { return s.buf.Snapshot() }

// Summary returns the display counters for the buffered events.
func (s *Simulator) Summary() Summary { return Summarize(s.buf.Snapshot()) }

// Activate starts generating events. It fails if the simulator is already
// running. Cancelling ctx has the same effect as [Simulator.Deactivate]
// except that it does not wait.
func (s *Simulator) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeInvalidInput, "simulator %s is already running", s.view.Name)
	}
	prev := s.stopped
	s.mu.Unlock()

	// A previous run may still be closing its subscribers.
	if prev != nil {
		<-prev
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		return errors.New(errors.ErrCodeInvalidInput, "simulator %s is already running", s.view.Name)
	}
	if s.state == StateStopped {
		s.buf.Reset()
		s.subsMu.Lock()
		s.subs = make(map[chan Event]struct{})
		s.closed = false
		s.subsMu.Unlock()
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})
	s.state = StateRunning

	observability.Simulator().OnActivate(s.view.Name)
	s.logger.Debug("simulator activated", "view", s.view.Name, "interval", s.view.Interval)

	go s.run(runCtx, s.stopped)
	return nil
}

// Deactivate stops the simulator and waits for it to finish. No event is
// generated after Deactivate returns. Safe to call repeatedly and on an idle
// simulator.
func (s *Simulator) Deactivate() {
	s.mu.Lock()
	cancel, stopped := s.cancel, s.stopped
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

// Subscribe returns a channel receiving every event generated from now on,
// and a function that cancels the subscription. A subscriber that falls more
// than size events behind misses events rather than stalling the simulator.
// The channel is closed on cancel or when the simulator stops.
func (s *Simulator) Subscribe(size int) (<-chan Event, func()) {
	ch := make(chan Event, max(size, 1))

	s.subsMu.Lock()
	if s.closed {
		s.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	subs := s.subs
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
		})
	}
}

func (s *Simulator) run(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)
	defer s.markStopped()
	defer s.closeSubscribers()

	interval := time.NewTicker(s.view.Interval)
	defer interval.Stop()
	clock := time.NewTicker(s.view.ClockInterval)
	defer clock.Stop()

	var seedC <-chan time.Time
	seeded := 0
	if s.view.SeedCount > 0 {
		s.emit(ctx)
		seeded++
	}
	if seeded < s.view.SeedCount {
		seed := time.NewTicker(max(s.view.SeedSpacing, time.Millisecond))
		defer seed.Stop()
		seedC = seed.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-seedC:
			s.emit(ctx)
			if seeded++; seeded >= s.view.SeedCount {
				seedC = nil
			}
		case <-interval.C:
			s.emit(ctx)
		case t := <-clock.C:
			if s.OnTick != nil {
				s.OnTick(t)
			}
		}
	}
}

func (s *Simulator) emit(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ev := s.gen.Next()
	s.buf.Push(ev)
	observability.Simulator().OnEvent(s.view.Name, string(ev.Severity))

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Simulator) markStopped() {
	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()

	observability.Simulator().OnDeactivate(s.view.Name)
	s.logger.Debug("simulator deactivated", "view", s.view.Name)
}

func (s *Simulator) closeSubscribers() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
	s.closed = true
}
