package render

import (
	"sync"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

// Latest remembers the newest frame and pushes it to subscribers. A slow
// subscriber only ever sees the most recent frame it has not read yet.
type Latest struct {
	mu   sync.Mutex
	snap structs.Snapshot
	has  bool
	subs map[chan structs.Snapshot]struct{}
}

func NewLatest() *Latest {
	return &Latest{subs: make(map[chan structs.Snapshot]struct{})}
}

func (l *Latest) Render(s structs.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap, l.has = s, true
	for ch := range l.subs {
		offer(ch, s)
	}
}

// Get returns the newest frame, if any was rendered.
func (l *Latest) Get() (structs.Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap, l.has
}

// Subscribe returns a channel receiving frames and a cancel func. The current
// frame, if any, is delivered first.
func (l *Latest) Subscribe() (<-chan structs.Snapshot, func()) {
	ch := make(chan structs.Snapshot, 1)

	l.mu.Lock()
	l.subs[ch] = struct{}{}
	if l.has {
		ch <- l.snap
	}
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			l.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (l *Latest) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// offer replaces any unread frame in ch with s.
func offer(ch chan structs.Snapshot, s structs.Snapshot) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
