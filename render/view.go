// Package render projects snapshots onto visual surfaces. Views never feed
// anything back into the game.
package render

import "github.com/hoshinonyaruko/snake-grid/structs"

// View draws a complete frame; each call replaces the previous one.
type View interface {
	Render(structs.Snapshot)
}

// Multi fans a frame out to several views in order.
type Multi []View

func (m Multi) Render(s structs.Snapshot) {
	for _, v := range m {
		v.Render(s)
	}
}

// Banner is the game-over caption for a finished snapshot, or "" while the
// game is still going.
func Banner(s structs.Snapshot) string {
	if s.Phase != structs.PhaseGameOver {
		return ""
	}
	if s.Won {
		return "You won!"
	}
	return "Try again"
}
