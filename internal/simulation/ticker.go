// Package simulation drives the per-cultivator update loop and the game-day
// boundary clock for the standalone simulation server.
package simulation

import (
	"context"
	"sync"
	"time"
)

// TickFunc is invoked once per simulation step with the measured elapsed
// time since the previous step, in seconds. dtSeconds is always >= 0.
type TickFunc func(dtSeconds float64)

// TickDriver runs a periodic simulation step for each registered cultivator.
// Callbacks for one step run sequentially, so no cultivator sees interleaved
// mutations within a tick.
//
// Invariant: each callback is invoked at most once per tick interval.
type TickDriver struct {
	interval time.Duration
	mu       sync.Mutex
	ticks    map[string]TickFunc
}

// NewTickDriver returns a driver that fires steps every interval.
//
// Precondition: interval must be > 0.
func NewTickDriver(interval time.Duration) *TickDriver {
	if interval <= 0 {
		panic("simulation.NewTickDriver: interval must be > 0")
	}
	return &TickDriver{
		interval: interval,
		ticks:    make(map[string]TickFunc),
	}
}

// Register adds a tick callback for the given cultivator ID, replacing any
// existing callback.
func (d *TickDriver) Register(id string, fn TickFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ticks[id] = fn
}

// Unregister removes the tick callback for the given cultivator ID.
func (d *TickDriver) Unregister(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.ticks, id)
}

// Start begins the step loop. Runs until ctx is cancelled.
//
// Postcondition: every registered callback receives the measured elapsed
// seconds once per interval.
func (d *TickDriver) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				dt := now.Sub(last).Seconds()
				if dt < 0 {
					dt = 0
				}
				last = now

				d.mu.Lock()
				callbacks := make([]TickFunc, 0, len(d.ticks))
				for _, fn := range d.ticks {
					callbacks = append(callbacks, fn)
				}
				d.mu.Unlock()
				for _, fn := range callbacks {
					fn(dt)
				}
			}
		}
	}()
}
