package siem

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/josz009/folio/pkg/observability"
)

func fastView() View {
	return View{
		Name:          "test",
		Capacity:      3,
		SeedCount:     2,
		SeedSpacing:   5 * time.Millisecond,
		Interval:      10 * time.Millisecond,
		ClockInterval: 5 * time.Millisecond,
		Templates:     ToolsTemplates,
	}
}

func quiet() *log.Logger { return log.New(io.Discard) }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestSimulator_Lifecycle(t *testing.T) {
	sim := NewSimulator(fastView(), quiet())
	if sim.State() != StateIdle {
		t.Fatalf("initial state = %v", sim.State())
	}

	if err := sim.Activate(context.Background()); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := sim.Activate(context.Background()); err == nil {
		t.Error("second Activate succeeded")
	}

	waitFor(t, func() bool { return len(sim.Events()) == 3 })

	sim.Deactivate()
	if sim.State() != StateStopped {
		t.Errorf("state after Deactivate = %v", sim.State())
	}

	frozen := sim.Events()
	time.Sleep(40 * time.Millisecond)
	if got := sim.Events(); got[0].ID != frozen[0].ID {
		t.Error("events generated after Deactivate")
	}

	sim.Deactivate()
}

func TestSimulator_DeactivateIdle(t *testing.T) {
	sim := NewSimulator(fastView(), quiet())
	sim.Deactivate()
	sim.Deactivate()
	if sim.State() != StateIdle {
		t.Errorf("state = %v", sim.State())
	}
}

func TestSimulator_SeedsBeforeInterval(t *testing.T) {
	v := fastView()
	v.Capacity = 10
	v.SeedCount = 4
	v.Interval = time.Hour
	sim := NewSimulator(v, quiet())
	if err := sim.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer sim.Deactivate()

	waitFor(t, func() bool { return len(sim.Events()) == 4 })
	time.Sleep(30 * time.Millisecond)
	if n := len(sim.Events()); n != 4 {
		t.Errorf("got %d events, want exactly the 4 seeds", n)
	}
}

func TestSimulator_Subscribe(t *testing.T) {
	sim := NewSimulator(fastView(), quiet())
	events, cancel := sim.Subscribe(16)
	defer cancel()

	if err := sim.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.ID == "" {
			t.Error("empty event id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}

	sim.Deactivate()
	for range events {
	}
}

func TestSimulator_UnsubscribeClosesChannel(t *testing.T) {
	sim := NewSimulator(fastView(), quiet())
	events, cancel := sim.Subscribe(1)
	cancel()
	cancel()
	if _, ok := <-events; ok {
		t.Error("channel still open after cancel")
	}
}

func TestSimulator_SubscribeAfterStop(t *testing.T) {
	sim := NewSimulator(fastView(), quiet())
	if err := sim.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	sim.Deactivate()

	events, cancel := sim.Subscribe(1)
	defer cancel()
	if _, ok := <-events; ok {
		t.Error("subscription on stopped simulator is open")
	}
}

func TestSimulator_SlowSubscriberDoesNotBlock(t *testing.T) {
	v := fastView()
	v.Interval = time.Millisecond
	sim := NewSimulator(v, quiet())
	_, cancel := sim.Subscribe(1)
	defer cancel()

	if err := sim.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		sim.Deactivate()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Deactivate blocked on a full subscriber")
	}
}

func TestSimulator_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sim := NewSimulator(fastView(), quiet())
	if err := sim.Activate(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	waitFor(t, func() bool { return sim.State() == StateStopped })
	sim.Deactivate()
}

func TestSimulator_Reactivate(t *testing.T) {
	sim := NewSimulator(fastView(), quiet())
	if err := sim.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(sim.Events()) > 0 })
	first := sim.Events()[0].ID
	sim.Deactivate()

	if err := sim.Activate(context.Background()); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	defer sim.Deactivate()
	waitFor(t, func() bool {
		evs := sim.Events()
		return len(evs) > 0 && evs[len(evs)-1].ID != first
	})
}

func TestSimulator_OnTick(t *testing.T) {
	var ticks atomic.Int32
	sim := NewSimulator(fastView(), quiet())
	sim.OnTick = func(time.Time) { ticks.Add(1) }

	if err := sim.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return ticks.Load() >= 2 })
	sim.Deactivate()
}

type countingHooks struct {
	observability.NoopSimulatorHooks
	activated, deactivated, events atomic.Int32
}

func (c *countingHooks) OnActivate(string)      { c.activated.Add(1) }
func (c *countingHooks) OnDeactivate(string)    { c.deactivated.Add(1) }
func (c *countingHooks) OnEvent(string, string) { c.events.Add(1) }

func TestSimulator_Hooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetSimulatorHooks(hooks)
	t.Cleanup(observability.Reset)

	sim := NewSimulator(fastView(), quiet())
	if err := sim.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return hooks.events.Load() >= 2 })
	sim.Deactivate()
	sim.Deactivate()

	if hooks.activated.Load() != 1 || hooks.deactivated.Load() != 1 {
		t.Errorf("activate=%d deactivate=%d", hooks.activated.Load(), hooks.deactivated.Load())
	}
}
