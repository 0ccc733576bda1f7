package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/tilemapping"
)

type TargetKind uint8

const (
	// TargetNone is a release outside of every drop zone.
	TargetNone TargetKind = iota
	TargetCell
	TargetRack
	TargetDump
)

// A Target is where a dragged tile was released.
type Target struct {
	Kind TargetKind
	Row  int
	Col  int
}

func GridCell(row, col int) Target {
	return Target{Kind: TargetCell, Row: row, Col: col}
}

func Rack() Target     { return Target{Kind: TargetRack} }
func Dump() Target     { return Target{Kind: TargetDump} }
func NoTarget() Target { return Target{} }

// String returns the droppable id of the target, the inverse of
// ParseTarget.
func (t Target) String() string {
	switch t.Kind {
	case TargetCell:
		return fmt.Sprintf("cell-%d-%d", t.Row, t.Col)
	case TargetRack:
		return "rack"
	case TargetDump:
		return "dump"
	}
	return ""
}

// ParseTarget classifies the id of the droppable a tile was released over:
// "cell-<row>-<col>", "rack" or "dump". Anything else, including the empty
// string, is TargetNone.
func ParseTarget(id string) Target {
	switch id = strings.TrimSpace(id); {
	case id == "rack":
		return Rack()
	case id == "dump":
		return Dump()
	case strings.HasPrefix(id, "cell-"):
		parts := strings.Split(id, "-")
		if len(parts) != 3 {
			return NoTarget()
		}
		row, err := strconv.Atoi(parts[1])
		if err != nil {
			return NoTarget()
		}
		col, err := strconv.Atoi(parts[2])
		if err != nil {
			return NoTarget()
		}
		return GridCell(row, col)
	}
	return NoTarget()
}

// An Event is a discrete player input. Only completed gestures become
// events; hovering never reaches the resolver.
type Event interface {
	fmt.Stringer
	event()
}

// StartEvent deals a new game.
type StartEvent struct{}

// DropEvent is the end of a drag of tile TileID over Target.
type DropEvent struct {
	TileID tilemapping.UnitID
	Target Target
}

// ExpandEvent asks for room on one side of the grid.
type ExpandEvent struct {
	Direction board.Direction
}

// RevealEvent draws a single tile onto the rack.
type RevealEvent struct{}

func (StartEvent) event()  {}
func (DropEvent) event()   {}
func (ExpandEvent) event() {}
func (RevealEvent) event() {}

func (StartEvent) String() string { return "start" }
func (e DropEvent) String() string {
	if e.Target.Kind == TargetNone {
		return fmt.Sprintf("drop %v nowhere", e.TileID)
	}
	return fmt.Sprintf("drop %v on %v", e.TileID, e.Target)
}
func (e ExpandEvent) String() string { return "expand " + e.Direction.String() }
func (RevealEvent) String() string   { return "reveal" }

// Outcome tells the presentation layer what happened to an event.
type Outcome uint8

const (
	// Applied means the state changed.
	Applied Outcome = iota
	// Rejected means the event was refused; a dragged tile snaps back.
	Rejected
	// Ignored means there was nothing to do, such as a release outside
	// every drop zone.
	Ignored
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case Ignored:
		return "ignored"
	}
	return "?"
}
