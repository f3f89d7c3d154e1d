package snake

import (
	"errors"
	"fmt"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

// ErrBadDimensions 网格尺寸必须至少为 1×1。
var ErrBadDimensions = errors.New("grid dimensions must be at least 1x1")

// Grid 固定尺寸的矩形网格，创建后不可变。
type Grid struct {
	Rows int
	Cols int
}

// NewGrid validates the dimensions and returns the grid.
func NewGrid(rows, cols int) (Grid, error) {
	if rows < 1 || cols < 1 {
		return Grid{}, fmt.Errorf("%w: got %dx%d", ErrBadDimensions, rows, cols)
	}
	return Grid{Rows: rows, Cols: cols}, nil
}

// Cells returns ROWS×COLS.
func (g Grid) Cells() int {
	return g.Rows * g.Cols
}

// IsInside reports whether p lies on the grid.
func (g Grid) IsInside(p structs.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Cols && p.Y < g.Rows
}

// FreeCells returns every cell not in occupied, in row-major order.
func (g Grid) FreeCells(occupied []structs.Position) []structs.Position {
	taken := make(map[structs.Position]struct{}, len(occupied))
	for _, p := range occupied {
		taken[p] = struct{}{}
	}
	n := g.Cells() - len(taken)
	if n < 0 {
		n = 0
	}
	free := make([]structs.Position, 0, n)
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			p := structs.Position{X: x, Y: y}
			if _, ok := taken[p]; !ok {
				free = append(free, p)
			}
		}
	}
	return free
}
