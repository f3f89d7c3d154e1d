// 关于蛇的移动与碰撞
package snake

import (
	"errors"
	"fmt"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

var (
	ErrWallCollision = errors.New("wall collision")
	ErrSelfCollision = errors.New("self collision")
)

// CollisionError records where the head would have landed.
type CollisionError struct {
	Kind error // ErrWallCollision or ErrSelfCollision
	At   structs.Position
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%v at (%d,%d)", e.Kind, e.At.X, e.At.Y)
}

func (e *CollisionError) Unwrap() error { return e.Kind }

// Move is the result of a successful Advance.
type Move struct {
	Body  []structs.Position
	Moved bool // false only when the heading is unset
	Ate   bool // the head landed on the food
	Won   bool // the body now covers every cell
}

// Advance moves the body one cell along h. The input slice is not modified.
//
// An unset heading is a no-op. A head leaving the grid fails with
// ErrWallCollision and a head landing on any current body cell, the tail
// included, fails with ErrSelfCollision.
func Advance(g Grid, body []structs.Position, h structs.Heading, food *structs.Position) (Move, error) {
	if h == structs.HeadingNone || len(body) == 0 {
		return Move{Body: body}, nil
	}

	dx, dy := h.Delta()
	next := body[0].Add(dx, dy)

	if !g.IsInside(next) {
		return Move{}, &CollisionError{Kind: ErrWallCollision, At: next}
	}
	if contains(body, next) {
		return Move{}, &CollisionError{Kind: ErrSelfCollision, At: next}
	}

	ate := food != nil && *food == next

	// 吃到食物时整条蛇保留，否则丢掉尾巴
	keep := len(body)
	if !ate {
		keep--
	}
	newBody := make([]structs.Position, 0, keep+1)
	newBody = append(newBody, next)
	newBody = append(newBody, body[:keep]...)

	return Move{
		Body:  newBody,
		Moved: true,
		Ate:   ate,
		Won:   len(newBody) == g.Cells(),
	}, nil
}

func contains(body []structs.Position, p structs.Position) bool {
	for _, b := range body {
		if b == p {
			return true
		}
	}
	return false
}
