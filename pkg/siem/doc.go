// Package siem simulates the live security event feed shown on the
// portfolio's SIEM consoles. All events are synthetic.
//
// # Overview
//
// A [Generator] stamps randomly chosen [Template] entries into [Event]
// values. A [Simulator] drives a generator on a schedule described by a
// [View] and keeps the most recent events in a bounded, most-recent-first
// [Buffer]:
//
//	sim := siem.NewSimulator(siem.DashboardView, nil)
//	if err := sim.Activate(ctx); err != nil {
//	    return err
//	}
//	defer sim.Deactivate()
//
//	events, cancel := sim.Subscribe(8)
//	defer cancel()
//	for ev := range events {
//	    fmt.Println(ev.Timestamp, ev.Severity, ev.Description)
//	}
//
// # Lifecycle
//
// A simulator starts idle. [Simulator.Activate] emits SeedCount events spaced
// SeedSpacing apart, then one event per Interval, alongside a clock tick every
// ClockInterval delivered to the OnTick callback. [Simulator.Deactivate]
// stops all timers, waits for the background goroutine and closes every
// subscription. It may be called any number of times, including on a
// simulator that was never activated. A stopped simulator can be activated
// again and starts from an empty buffer.
package siem
