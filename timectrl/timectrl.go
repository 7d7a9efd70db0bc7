package timectrl

import (
	"sync"
	"time"

	"github.com/signalsfoundry/orbitviz/core"
	"github.com/signalsfoundry/orbitviz/model"
)

// Clock is an interface for reading the current mission time. Consumers
// (interpolation queries, frame composition) depend on this abstraction
// rather than the concrete controller, which keeps them testable.
type Clock interface {
	// Now returns the current mission time.
	Now() model.MissionTime
}

// MissionClock advances mission time on a fixed-interval timer and
// notifies registered listeners each tick. It is the only writer of the
// current mission time; engine queries just read it.
type MissionClock struct {
	mu        sync.RWMutex
	StartTime model.MissionTime
	Tick      time.Duration
	// Rate is the number of mission seconds that elapse per wall-clock
	// second. 1 plays back in real time; larger values accelerate.
	Rate float64

	currentTime model.MissionTime

	listeners []func(model.MissionTime)
}

// NewMissionClock constructs a clock starting at the given mission time.
func NewMissionClock(start model.MissionTime, tick time.Duration, rate float64) *MissionClock {
	if rate <= 0 {
		rate = 1
	}
	return &MissionClock{
		StartTime:   start,
		Tick:        tick,
		Rate:        rate,
		currentTime: start,
	}
}

// Now returns the current mission time. Implements Clock.
func (mc *MissionClock) Now() model.MissionTime {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.currentTime
}

// AddListener registers a callback invoked on every tick.
func (mc *MissionClock) AddListener(fn func(model.MissionTime)) {
	mc.listeners = append(mc.listeners, fn)
}

// Advance moves mission time forward by one tick's worth of mission
// seconds and notifies listeners. Exposed for deterministic stepping in
// tests and batch exports.
func (mc *MissionClock) Advance() model.MissionTime {
	mc.mu.Lock()
	step := time.Duration(float64(mc.Tick) * mc.Rate)
	mc.currentTime = core.MissionTimeAdd(mc.currentTime, step)
	now := mc.currentTime
	mc.mu.Unlock()

	for _, fn := range mc.listeners {
		fn(now)
	}
	return now
}

// Start runs the clock for the specified wall-clock duration in a separate
// goroutine. It returns a channel that is closed when the clock finishes.
// A non-positive duration runs until the process exits.
func (mc *MissionClock) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		mc.mu.Lock()
		mc.currentTime = mc.StartTime
		mc.mu.Unlock()

		elapsed := time.Duration(0)

		ticker := time.NewTicker(mc.Tick)
		defer ticker.Stop()

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			<-ticker.C
			elapsed += mc.Tick
			mc.Advance()
		}
	}()
	return done
}
