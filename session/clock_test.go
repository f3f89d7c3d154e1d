package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// trackingClock is a clockwork fake that remembers the tickers it hands out,
// so tests can see when the session cancels one.
type trackingClock struct {
	*clockwork.FakeClock

	mu      sync.Mutex
	tickers []*trackedTicker
}

func newTrackingClock(start time.Time) *trackingClock {
	return &trackingClock{FakeClock: clockwork.NewFakeClockAt(start)}
}

func (c *trackingClock) NewTicker(d time.Duration) clockwork.Ticker {
	t := &trackedTicker{Ticker: c.FakeClock.NewTicker(d), period: d}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()
	return t
}

// Current returns the most recently created ticker, or nil.
func (c *trackingClock) Current() *trackedTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}

// Created returns how many tickers were handed out.
func (c *trackingClock) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// Fire advances the clock by one period of the current ticker and waits for
// the tick to be taken off the channel. Once it is, the loop goroutine is
// busy with that tick and handles any later command after it. Fire reports
// false when there is no live ticker.
func (c *trackingClock) Fire() bool {
	t := c.Current()
	if t == nil || t.Stopped() {
		return false
	}
	c.Advance(t.period)

	deadline := time.Now().Add(5 * time.Second)
	for len(t.Chan()) > 0 {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
	return true
}

type trackedTicker struct {
	clockwork.Ticker
	period  time.Duration
	stopped atomic.Bool
}

func (t *trackedTicker) Stop() {
	t.stopped.Store(true)
	t.Ticker.Stop()
}

// Stopped reports whether Stop was called.
func (t *trackedTicker) Stopped() bool { return t.stopped.Load() }
