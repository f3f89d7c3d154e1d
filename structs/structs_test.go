package structs

import (
	"encoding/json"
	"testing"
)

func TestHeadingDeltaAndAxis(t *testing.T) {
	tests := []struct {
		h      Heading
		dx, dy int
		axis   int
	}{
		{HeadingUp, 0, -1, 1},
		{HeadingDown, 0, 1, 1},
		{HeadingLeft, -1, 0, 2},
		{HeadingRight, 1, 0, 2},
		{HeadingNone, 0, 0, 0},
	}
	for _, tt := range tests {
		dx, dy := tt.h.Delta()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%v.Delta() = (%d,%d), want (%d,%d)", tt.h, dx, dy, tt.dx, tt.dy)
		}
		if got := tt.h.Axis(); got != tt.axis {
			t.Errorf("%v.Axis() = %d, want %d", tt.h, got, tt.axis)
		}
	}
}

func TestParseHeading(t *testing.T) {
	for _, h := range []Heading{HeadingUp, HeadingDown, HeadingLeft, HeadingRight} {
		got, err := ParseHeading(h.String())
		if err != nil || got != h {
			t.Errorf("ParseHeading(%q) = %v, %v", h.String(), got, err)
		}
	}
	if _, err := ParseHeading("north"); err == nil {
		t.Error("ParseHeading accepted north")
	}
}

func TestSnapshotJSON(t *testing.T) {
	food := Position{X: 2, Y: 0}
	in := Snapshot{
		Rows: 3, Cols: 3,
		Body:    []Position{{X: 1, Y: 1}},
		Food:    &food,
		Heading: HeadingLeft,
		Phase:   PhaseGameOver,
		Won:     true,
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["heading"] != "left" || raw["phase"] != "gameover" {
		t.Errorf("enums not encoded as strings: %s", data)
	}

	var out Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Heading != HeadingLeft || out.Phase != PhaseGameOver || out.Food == nil || *out.Food != food {
		t.Errorf("decoded %+v", out)
	}

	var idle Snapshot
	if err := json.Unmarshal([]byte(`{"heading":"","phase":"idle"}`), &idle); err != nil {
		t.Fatal(err)
	}
	if idle.Heading != HeadingNone || idle.Phase != PhaseIdle {
		t.Errorf("decoded %+v", idle)
	}
}
