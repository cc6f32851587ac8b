package siem

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// TimestampLayout formats [Event.Timestamp].
const TimestampLayout = "15:04:05"

// Generator produces events from a fixed template catalog. It is safe for
// concurrent use.
type Generator struct {
	templates []Template

	mu  sync.Mutex
	rng *rand.Rand
	seq uint64
	now func() time.Time
}

// NewGenerator creates a generator over templates, which must not be empty.
// A nil src seeds from the runtime's random source.
func NewGenerator(templates []Template, src rand.Source) *Generator {
	if len(templates) == 0 {
		panic("siem: generator needs at least one template")
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{
		templates: templates,
		rng:       rand.New(src),
		now:       time.Now,
	}
}

// SetClock replaces the time source, mainly for tests.
func (g *Generator) SetClock(now func() time.Time) {
	g.mu.Lock()
	g.now = now
	g.mu.Unlock()
}

// Next samples a template uniformly and stamps it. IDs are
// "<unix-millis>-<seq>", where seq increases by one per call, so two events
// from the same generator never share an ID.
func (g *Generator) Next() Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	at := g.now()
	tpl := g.templates[g.rng.IntN(len(g.templates))]
	return Event{
		ID:        fmt.Sprintf("%d-%d", at.UnixMilli(), g.seq),
		Timestamp: at.UTC().Format(TimestampLayout),
		At:        at,
		Template:  tpl,
	}
}
