// Package engine runs the logistics and defense controllers against a host
// galaxy: a one-second authoritative tick and a slower planning pass whose
// decisions are queued as intents.
package engine

import (
	"context"
	"log/slog"
	"time"
)

// Default cadences, in ticks.
const (
	DefaultPlanEvery    = 5
	DefaultSummaryEvery = 60
	DefaultSaveEvery    = 300
)

// pausePoll is how often a paused engine checks whether it was resumed.
const pausePoll = 100 * time.Millisecond

// Engine owns the clock. One Step is one simulated second; the slower
// cadences are multiples of it.
type Engine struct {
	Tick     uint64        // last tick stepped, survives restarts
	Speed    float64       // 1.0 = real time, 0 = paused
	Interval time.Duration // wall time of one tick at speed 1

	PlanEvery    uint64
	SummaryEvery uint64
	SaveEvery    uint64

	OnTick    func(tick uint64)
	OnPlan    func(tick uint64)
	OnSummary func(tick uint64)
	OnSave    func(tick uint64)
}

// NewEngine returns an engine at real-time speed with the default cadences.
func NewEngine() *Engine {
	return &Engine{
		Speed:        1.0,
		Interval:     time.Second,
		PlanEvery:    DefaultPlanEvery,
		SummaryEvery: DefaultSummaryEvery,
		SaveEvery:    DefaultSaveEvery,
	}
}

// Run steps the engine until ctx is done. Callbacks run on the calling
// goroutine, so they never overlap.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("engine started", "tick", e.Tick, "speed", e.Speed, "interval", e.Interval)
	defer func() { slog.Info("engine stopped", "tick", e.Tick) }()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return
		}

		if e.Speed <= 0 {
			timer.Reset(pausePoll)
			continue
		}

		start := time.Now()
		e.Step()
		wait := e.period() - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}

func (e *Engine) period() time.Duration {
	return time.Duration(float64(e.Interval) / e.Speed)
}

// Step advances one tick and fires whichever cadences fall on it, fastest
// first, so a save always sees the plan made on the same tick.
func (e *Engine) Step() {
	e.Tick++
	fire(e.OnTick, e.Tick, 1)
	fire(e.OnPlan, e.Tick, e.PlanEvery)
	fire(e.OnSummary, e.Tick, e.SummaryEvery)
	fire(e.OnSave, e.Tick, e.SaveEvery)
}

func fire(fn func(uint64), tick, every uint64) {
	if fn != nil && every > 0 && tick%every == 0 {
		fn(tick)
	}
}
