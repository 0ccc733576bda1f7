package board

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// DefaultMaxDim is the largest number of rows or columns a grid may grow to.
const DefaultMaxDim = 144

type Direction uint8

const (
	Top Direction = iota
	Bottom
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ParseDirection accepts top/bottom/left/right, and up/down as synonyms.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "up":
		return Top, nil
	case "bottom", "down":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// A Position is a cell of the grid.
type Position struct {
	Row int
	Col int
}

// Shift is how far every placed tile moves after an expansion.
type Shift struct {
	Rows int
	Cols int
}

func (s Shift) IsZero() bool {
	return s.Rows == 0 && s.Cols == 0
}

// Grid is the playing area [0, Rows) x [0, Cols). It only knows its
// dimensions; which tile sits where is tracked by the tile registry.
type Grid struct {
	Rows   int
	Cols   int
	MaxDim int
}

// NewGrid returns a rows x cols grid. maxDim is clamped to
// [1, DefaultMaxDim], with 0 or less meaning DefaultMaxDim, and the
// dimensions are then clamped to [1, maxDim].
func NewGrid(rows, cols, maxDim int) Grid {
	if maxDim <= 0 || maxDim > DefaultMaxDim {
		maxDim = DefaultMaxDim
	}
	clamp := func(n int) int { return lo.Clamp(n, 1, maxDim) }
	return Grid{Rows: clamp(rows), Cols: clamp(cols), MaxDim: maxDim}
}

// IsValidCell reports whether (row, col) is inside the grid.
func (g Grid) IsValidCell(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// Expand makes room on one side of the grid. occupied holds the positions
// of the placed tiles.
//
// If the edge opposite dir holds a tile, the grid grows by one line (not
// past MaxDim). Otherwise the grid keeps its size and the tiles slide one
// line away from dir, into the free line on the opposite edge. Expanding
// towards the top or left always moves the tiles by +1 so that they stay
// where they were relative to the new space.
//
// The returned Shift must be applied to every placed tile.
func (g Grid) Expand(dir Direction, occupied []Position) (Grid, Shift) {
	inRow := func(r int) bool {
		return lo.ContainsBy(occupied, func(p Position) bool { return p.Row == r })
	}
	inCol := func(c int) bool {
		return lo.ContainsBy(occupied, func(p Position) bool { return p.Col == c })
	}

	switch dir {
	case Top:
		if inRow(g.Rows - 1) {
			if g.Rows >= g.MaxDim {
				return g, Shift{}
			}
			g.Rows++
		}
		return g, Shift{Rows: 1}
	case Bottom:
		if inRow(0) {
			if g.Rows >= g.MaxDim {
				return g, Shift{}
			}
			g.Rows++
			return g, Shift{}
		}
		return g, Shift{Rows: -1}
	case Left:
		if inCol(g.Cols - 1) {
			if g.Cols >= g.MaxDim {
				return g, Shift{}
			}
			g.Cols++
		}
		return g, Shift{Cols: 1}
	case Right:
		if inCol(0) {
			if g.Cols >= g.MaxDim {
				return g, Shift{}
			}
			g.Cols++
			return g, Shift{}
		}
		return g, Shift{Cols: -1}
	}
	return g, Shift{}
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}
