package snake

import (
	"errors"
	"math/rand"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

// ErrNoFreeCells 网格已被蛇占满，调用方应先按胜利处理。
var ErrNoFreeCells = errors.New("no free cells left for food")

// PlaceFood picks a cell uniformly among those not covered by body.
func PlaceFood(g Grid, body []structs.Position, rng *rand.Rand) (structs.Position, error) {
	free := g.FreeCells(body)
	if len(free) == 0 {
		return structs.Position{}, ErrNoFreeCells
	}
	return free[rng.Intn(len(free))], nil
}

// RandomCell picks any cell of the grid, used for the snake's start.
func RandomCell(g Grid, rng *rand.Rand) structs.Position {
	return structs.Position{
		X: rng.Intn(g.Cols),
		Y: rng.Intn(g.Rows),
	}
}
