package render

import (
	"io"
	"strings"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

// Cell glyphs of the text view.
const (
	GlyphEmpty = '.'
	GlyphHead  = '@'
	GlyphBody  = 'o'
	GlyphFood  = '*'
)

const clearScreen = "\033[H\033[2J"

// Text writes frames to a terminal.
type Text struct {
	w     io.Writer
	clear bool
}

// NewText returns a view writing to w. With clear set every frame starts by
// wiping the screen.
func NewText(w io.Writer, clear bool) *Text {
	return &Text{w: w, clear: clear}
}

func (t *Text) Render(s structs.Snapshot) {
	var b strings.Builder
	if t.clear {
		b.WriteString(clearScreen)
	}
	b.WriteString(TextFrame(s))
	io.WriteString(t.w, b.String())
}

// TextFrame draws s as rows of glyphs followed by a status line.
func TextFrame(s structs.Snapshot) string {
	grid := make([][]byte, s.Rows)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(string(GlyphEmpty), s.Cols))
	}
	set := func(p structs.Position, g byte) {
		if p.Y >= 0 && p.Y < s.Rows && p.X >= 0 && p.X < s.Cols {
			grid[p.Y][p.X] = g
		}
	}
	if s.Food != nil {
		set(*s.Food, GlyphFood)
	}
	for i, p := range s.Body {
		if i == 0 {
			set(p, GlyphHead)
		} else {
			set(p, GlyphBody)
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for x, c := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(c)
		}
		b.WriteString("\r\n")
	}
	b.WriteString(status(s))
	b.WriteString("\r\n")
	return b.String()
}

func status(s structs.Snapshot) string {
	switch s.Phase {
	case structs.PhaseIdle:
		return "press an arrow key to start, q to quit"
	case structs.PhaseGameOver:
		return Banner(s) + " - press r to restart, q to quit"
	}
	return "heading " + s.Heading.String()
}
