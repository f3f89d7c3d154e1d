package session

import (
	"context"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

// Loop runs a Session on a single goroutine. Ticks, key presses, restarts and
// queries from other goroutines are queued and applied one at a time, so the
// Session never needs locking.
type Loop struct {
	s    *Session
	cmds chan func(*Session)
	done chan struct{}
}

func NewLoop(s *Session) *Loop {
	return &Loop{
		s:    s,
		cmds: make(chan func(*Session)),
		done: make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled. It stops the session's
// ticker on return.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.s.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.s.Ticks():
			l.s.Tick()
		case fn := <-l.cmds:
			fn(l.s)
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) do(ctx context.Context, fn func(*Session)) error {
	select {
	case l.cmds <- fn:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Press forwards a heading request and reports whether it was accepted.
func (l *Loop) Press(ctx context.Context, h structs.Heading) (bool, error) {
	reply := make(chan bool, 1)
	if err := l.do(ctx, func(s *Session) { reply <- s.Press(h) }); err != nil {
		return false, err
	}
	return <-reply, nil
}

// Restart resets the game to a fresh Idle state.
func (l *Loop) Restart(ctx context.Context) error {
	reply := make(chan struct{})
	if err := l.do(ctx, func(s *Session) {
		s.Restart()
		close(reply)
	}); err != nil {
		return err
	}
	<-reply
	return nil
}

// Snapshot returns the state as seen between two events.
func (l *Loop) Snapshot(ctx context.Context) (structs.Snapshot, error) {
	reply := make(chan structs.Snapshot, 1)
	if err := l.do(ctx, func(s *Session) { reply <- s.Snapshot() }); err != nil {
		return structs.Snapshot{}, err
	}
	return <-reply, nil
}
