package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on w while a fetch runs and replaces it
// with a one-line outcome when stopped. Its output never touches stdout so
// tables and JSON stay clean.
type Spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	mu        sync.Mutex
	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
}

// newSpinner creates a spinner that stops animating when ctx is done.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. Later calls do nothing.
func (s *Spinner) Start() {
	s.startOnce.Do(func() {
		s.mu.Lock()
		s.started = true
		s.mu.Unlock()
		go s.run()
	})
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and clears the line. It is safe on a spinner that
// was never started and on repeated calls.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if !started {
			return
		}
		<-s.stopped
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
		s.mu.Unlock()
	})
}

// StopWithSuccess stops the spinner and reports success.
func (s *Spinner) StopWithSuccess(format string, args ...any) {
	s.finish(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// StopWithWarning stops the spinner and reports a partial result.
func (s *Spinner) StopWithWarning(format string, args ...any) {
	s.finish(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// StopWithError stops the spinner and reports a failure. Nothing is printed
// when the parent context was cancelled.
func (s *Spinner) StopWithError(format string, args ...any) {
	if s.Interrupted() {
		s.Stop()
		return
	}
	s.finish(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// Interrupted reports whether the parent context ended, as opposed to the
// spinner being stopped normally.
func (s *Spinner) Interrupted() bool {
	return s.parent.Err() != nil
}

func (s *Spinner) finish(line string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}
