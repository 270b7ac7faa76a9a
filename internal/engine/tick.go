// Tick-based loop driving the real-time simulation mode.
package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// TickSchedule defines when each system runs relative to the tick counter.
const (
	TicksPerSimHour = 60  // 60 ticks = 1 sim-minute each
	TicksPerSimDay  = 600 // Operating day: ~10 sim-hours of lift service
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 1 second)
	Running  bool

	// Callbacks for each tick layer, populated during setup.
	OnTick func(tick uint64) // Every tick (sim-minute)
	OnHour func(tick uint64) // Every 60 ticks
	OnDay  func(tick uint64) // Every operating day
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Tick:     0,
		Speed:    1.0,
		Interval: time.Second,
		Running:  false,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused. Sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}

// step advances the simulation by one tick.
func (e *Engine) step() {
	e.Tick++

	// Every tick: skier state machines and traffic events.
	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}

	// Every sim-hour: arrival waves, hourly summaries.
	if e.Tick%TicksPerSimHour == 0 && e.OnHour != nil {
		e.OnHour(e.Tick)
	}

	// Every operating day: daily report, population compaction, persistence.
	if e.Tick%TicksPerSimDay == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}
}

// SimTime returns a human-readable simulation time string from a tick number.
func SimTime(tick uint64) string {
	minuteOfDay := tick % TicksPerSimDay
	day := tick/TicksPerSimDay + 1
	// The lifts open at 09:00.
	hours := 9 + minuteOfDay/60
	minutes := minuteOfDay % 60
	return fmt.Sprintf("Day %d, %d:%02d", day, hours, minutes)
}
