package simulation

import (
	"sync"
	"time"
)

// GameDay is a monotonically increasing game-day counter.
type GameDay int64

// DayClock advances game time in hours and broadcasts a GameDay value to
// subscribers whenever the clock crosses the daily reset hour. The
// cultivation host uses the broadcast to zero daily rest time.
type DayClock struct {
	hour         int32
	day          int64
	resetHour    int32
	tickInterval time.Duration
	mu           sync.Mutex
	subscribers  map[chan<- GameDay]struct{}
}

// NewDayClock creates a stopped DayClock starting at startHour.
//
// Precondition: startHour and resetHour in [0, 23]; tickInterval > 0.
// Postcondition: Returns a non-nil *DayClock ready to Start().
func NewDayClock(startHour, resetHour int32, tickInterval time.Duration) *DayClock {
	return &DayClock{
		hour:         startHour % 24,
		resetHour:    resetHour % 24,
		tickInterval: tickInterval,
		subscribers:  make(map[chan<- GameDay]struct{}),
	}
}

// CurrentHour returns the current game-clock hour in [0, 23].
func (c *DayClock) CurrentHour() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hour
}

// CurrentDay returns the number of daily resets broadcast so far.
func (c *DayClock) CurrentDay() GameDay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GameDay(c.day)
}

// Subscribe registers ch to receive a GameDay value on each daily reset.
// If ch is full, the broadcast is dropped for that subscriber (non-blocking).
//
// Precondition: ch must not be nil.
func (c *DayClock) Subscribe(ch chan<- GameDay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers[ch] = struct{}{}
}

// Unsubscribe removes ch from the subscriber list.
func (c *DayClock) Unsubscribe(ch chan<- GameDay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscribers, ch)
}

// Start launches the clock goroutine and returns a stop function.
// Calling stop() is idempotent.
//
// Postcondition: The clock advances 1 hour per tickInterval; each time the
// hour lands on resetHour, all subscribers are offered the new GameDay.
func (c *DayClock) Start() (stop func()) {
	done := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(c.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.mu.Lock()
				c.hour = (c.hour + 1) % 24
				var (
					rollover bool
					day      GameDay
					subs     []chan<- GameDay
				)
				if c.hour == c.resetHour {
					c.day++
					rollover = true
					day = GameDay(c.day)
					subs = make([]chan<- GameDay, 0, len(c.subscribers))
					for ch := range c.subscribers {
						subs = append(subs, ch)
					}
				}
				c.mu.Unlock()
				if rollover {
					for _, ch := range subs {
						select {
						case ch <- day:
						default:
						}
					}
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		once.Do(func() { close(done) })
	}
}
