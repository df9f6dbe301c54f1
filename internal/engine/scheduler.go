package engine

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler drives the two background timers: the movement tick and the
// daily cycle. The daily cycle also runs once at start so a restarted game
// does not drift a full epoch.
type Scheduler struct {
	engine       *Engine
	moveInterval time.Duration
	dayInterval  time.Duration
}

// NewScheduler wires the background timers to an engine.
func NewScheduler(e *Engine, moveInterval, dayInterval time.Duration) *Scheduler {
	if moveInterval <= 0 {
		moveInterval = time.Minute
	}
	if dayInterval <= 0 {
		dayInterval = 24 * time.Hour
	}
	return &Scheduler{engine: e, moveInterval: moveInterval, dayInterval: dayInterval}
}

// Run blocks until ctx is canceled. A panicking tick is logged and the loop
// keeps going; the game must outlive a bad tick.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("scheduler started",
		"movement_interval", s.moveInterval, "daily_interval", s.dayInterval)

	s.safeTick("daily", s.engine.DailyTick)

	move := time.NewTicker(s.moveInterval)
	defer move.Stop()
	day := time.NewTicker(s.dayInterval)
	defer day.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-move.C:
			s.safeTick("movement", s.engine.MovementTick)
		case <-day.C:
			s.safeTick("daily", s.engine.DailyTick)
		}
	}
}

func (s *Scheduler) safeTick(name string, tick func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tick panicked", "tick", name, "panic", r)
		}
	}()
	tick()
}
