// Package session owns one game of snake: the body, the pending heading, the
// food and the tick source that drives them.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/hoshinonyaruko/snake-grid/render"
	"github.com/hoshinonyaruko/snake-grid/snake"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

// Journal stores finished games.
type Journal interface {
	Record(ctx context.Context, o structs.Outcome) error
}

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Rows   int
	Cols   int
	Period time.Duration

	Clock   clockwork.Clock // real clock when nil
	Rand    *rand.Rand      // time-seeded when nil
	Journal Journal         // nothing is recorded when nil
	Logger  *zerolog.Logger
}

// Session is a single-threaded state machine: Idle -> Running -> GameOver,
// and back to Idle on Restart. None of its methods may be called
// concurrently; Loop serialises access when several goroutines are involved.
type Session struct {
	grid    snake.Grid
	period  time.Duration
	clock   clockwork.Clock
	rng     *rand.Rand
	journal Journal
	log     zerolog.Logger
	view    render.View

	body       []structs.Position
	food       *structs.Position
	heading    structs.Heading
	phase      structs.Phase
	won        bool
	moves      uint64
	generation uint64
	startedAt  time.Time
	ticker     clockwork.Ticker
}

// New builds a session in the Idle state with its ticker already running.
func New(opts Options, view render.View) (*Session, error) {
	grid, err := snake.NewGrid(opts.Rows, opts.Cols)
	if err != nil {
		return nil, err
	}
	if opts.Period <= 0 {
		return nil, fmt.Errorf("tick period must be positive, got %v", opts.Period)
	}

	s := &Session{
		grid:    grid,
		period:  opts.Period,
		clock:   opts.Clock,
		rng:     opts.Rand,
		journal: opts.Journal,
		view:    view,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	} else {
		s.log = zerolog.Nop()
	}

	s.init()
	return s, nil
}

func (s *Session) init() {
	s.log.Debug().Int("rows", s.grid.Rows).Int("cols", s.grid.Cols).Msg("creating board")

	start := snake.RandomCell(s.grid, s.rng)
	s.body = []structs.Position{start}
	s.heading = structs.HeadingNone
	s.phase = structs.PhaseIdle
	s.won = false
	s.moves = 0
	s.food = nil
	s.startedAt = s.clock.Now()
	s.log.Debug().Int("x", start.X).Int("y", start.Y).Msg("creating player")

	s.placeFood()
	s.ticker = s.clock.NewTicker(s.period)
	s.render()
}

// Press requests a new heading. It reports whether the heading changed.
// Requests along the current axis and any request after game over are
// ignored. The first accepted heading moves the session from Idle to Running;
// the snake itself only moves on the next tick.
func (s *Session) Press(h structs.Heading) bool {
	if s.phase == structs.PhaseGameOver {
		return false
	}
	next := snake.SetHeading(s.heading, h)
	if next == s.heading {
		return false
	}
	s.heading = next
	if s.phase == structs.PhaseIdle {
		s.phase = structs.PhaseRunning
	}
	s.log.Debug().Stringer("heading", next).Msg("heading changed")
	return true
}

// Tick advances the snake one cell along the current heading.
func (s *Session) Tick() {
	switch s.phase {
	case structs.PhaseGameOver:
		return
	case structs.PhaseIdle:
		s.render()
		return
	}

	m, err := snake.Advance(s.grid, s.body, s.heading, s.food)
	if err != nil {
		s.finish(false, causeOf(err))
		return
	}
	if !m.Moved {
		s.render()
		return
	}

	s.body = m.Body
	s.moves++
	s.log.Debug().Uint64("tick", s.moves).Int("length", len(s.body)).Msg("tick")

	if m.Ate {
		s.food = nil
	}
	// 棋盘已满时必须先判胜，否则放食物会得到 ErrNoFreeCells
	if m.Won {
		s.finish(true, "win")
		return
	}
	if s.food == nil {
		s.placeFood()
	}
	s.render()
}

// Restart cancels the ticker and reinitialises everything to a fresh Idle
// game. It may be called in any phase.
func (s *Session) Restart() {
	s.log.Info().Uint64("generation", s.generation+1).Msg("restarting game")
	s.stopTicker()
	s.generation++
	s.init()
}

// Close stops the ticker. The session is unusable afterwards except for
// Restart.
func (s *Session) Close() {
	s.stopTicker()
}

// Ticks returns the channel of the active ticker, or nil once the game is
// over. Receiving from a nil channel blocks forever, which is what Loop
// relies on.
func (s *Session) Ticks() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.Chan()
}

func (s *Session) Phase() structs.Phase     { return s.phase }
func (s *Session) Heading() structs.Heading { return s.heading }
func (s *Session) Grid() snake.Grid         { return s.grid }

// Snapshot copies the current state.
func (s *Session) Snapshot() structs.Snapshot {
	snap := structs.Snapshot{
		Rows:       s.grid.Rows,
		Cols:       s.grid.Cols,
		Body:       append([]structs.Position(nil), s.body...),
		Heading:    s.heading,
		Phase:      s.phase,
		Won:        s.won,
		Tick:       s.moves,
		Generation: s.generation,
	}
	if s.food != nil {
		f := *s.food
		snap.Food = &f
	}
	return snap
}

func (s *Session) placeFood() {
	p, err := snake.PlaceFood(s.grid, s.body, s.rng)
	if errors.Is(err, snake.ErrNoFreeCells) {
		// 只有 1×1 的棋盘会走到这里，胜利路径在调用前已经返回
		s.food = nil
		return
	}
	s.food = &p
	s.log.Debug().Int("x", p.X).Int("y", p.Y).Msg("creating food")
}

func (s *Session) finish(won bool, cause string) {
	s.phase = structs.PhaseGameOver
	s.won = won
	s.stopTicker()
	s.log.Info().Bool("won", won).Str("cause", cause).Int("length", len(s.body)).Uint64("ticks", s.moves).Msg("game over")

	if s.journal != nil {
		o := structs.Outcome{
			Won:       won,
			Length:    len(s.body),
			Ticks:     s.moves,
			Cause:     cause,
			Rows:      s.grid.Rows,
			Cols:      s.grid.Cols,
			StartedAt: s.startedAt,
			EndedAt:   s.clock.Now(),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := s.journal.Record(ctx, o); err != nil {
			s.log.Error().Err(err).Msg("failed to record outcome")
		}
		cancel()
	}
	s.render()
}

func (s *Session) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

func (s *Session) render() {
	if s.view != nil {
		s.view.Render(s.Snapshot())
	}
}

func causeOf(err error) string {
	switch {
	case errors.Is(err, snake.ErrWallCollision):
		return "wall"
	case errors.Is(err, snake.ErrSelfCollision):
		return "self"
	}
	return err.Error()
}
