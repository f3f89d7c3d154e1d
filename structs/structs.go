package structs

import (
	"encoding/json"
	"fmt"
	"time"
)

// Position 描述网格上的一个格子，X为列，Y为行，均从0开始。
type Position struct {
	X int `json:"x"` // 列
	Y int `json:"y"` // 行
}

// Add returns p moved by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Heading 蛇的移动方向，HeadingNone 表示尚未选择方向（空闲状态）。
type Heading int

const (
	HeadingNone Heading = iota
	HeadingUp
	HeadingDown
	HeadingLeft
	HeadingRight
)

// Delta returns the unit vector of the heading. Up decreases Y.
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingUp:
		return 0, -1
	case HeadingDown:
		return 0, 1
	case HeadingLeft:
		return -1, 0
	case HeadingRight:
		return 1, 0
	}
	return 0, 0
}

// Axis reports 1 for the vertical pair, 2 for the horizontal pair and 0 for
// HeadingNone.
func (h Heading) Axis() int {
	switch h {
	case HeadingUp, HeadingDown:
		return 1
	case HeadingLeft, HeadingRight:
		return 2
	}
	return 0
}

func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingDown:
		return "down"
	case HeadingLeft:
		return "left"
	case HeadingRight:
		return "right"
	}
	return ""
}

// ParseHeading accepts "up", "down", "left" and "right".
func ParseHeading(s string) (Heading, error) {
	switch s {
	case "up":
		return HeadingUp, nil
	case "down":
		return HeadingDown, nil
	case "left":
		return HeadingLeft, nil
	case "right":
		return HeadingRight, nil
	}
	return HeadingNone, fmt.Errorf("invalid direction '%s' provided", s)
}

func (h Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Heading) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*h = HeadingNone
		return nil
	}
	v, err := ParseHeading(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Phase 游戏所处阶段。
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "gameover"
	}
	return "unknown"
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "idle":
		*p = PhaseIdle
	case "running":
		*p = PhaseRunning
	case "gameover":
		*p = PhaseGameOver
	default:
		return fmt.Errorf("unknown phase %q", s)
	}
	return nil
}

// Snapshot 每个tick交给视图的完整画面，视图应整体重绘而不是增量更新。
type Snapshot struct {
	Rows       int        `json:"rows"`       // 网格行数
	Cols       int        `json:"cols"`       // 网格列数
	Body       []Position `json:"body"`       // 蛇身，下标0为蛇头
	Food       *Position  `json:"food"`       // 食物位置，可能为空
	Heading    Heading    `json:"heading"`    // 当前方向
	Phase      Phase      `json:"phase"`      // 游戏阶段
	Won        bool       `json:"won"`        // 仅在 gameover 时有意义
	Tick       uint64     `json:"tick"`       // 本局蛇已移动的步数
	Generation uint64     `json:"generation"` // 每次重开加一
}

// Outcome 一局结束后的记录。
type Outcome struct {
	Won       bool      `json:"won"`
	Length    int       `json:"length"`
	Ticks     uint64    `json:"ticks"`
	Cause     string    `json:"cause"` // "win", "wall", "self"
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}
