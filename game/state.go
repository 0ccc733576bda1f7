package game

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/cespare/xxhash"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/tilemapping"
	"github.com/ennecoded/enneagrams/tiles"
)

var ErrNotStarted = errors.New("game has not been started")

// State is an immutable snapshot of a game: the supply, the tiles in play,
// and the grid dimensions. The resolver never modifies a State it was given;
// it copies whatever it needs to change.
type State struct {
	bag      *tilemapping.Bag
	registry *tiles.Registry
	grid     board.Grid
}

func (s State) Started() bool {
	return s.bag != nil && s.registry != nil
}

func (s State) Grid() board.Grid {
	return s.grid
}

// Tiles returns the tiles in play, in draw order.
func (s State) Tiles() []tiles.Tile {
	if s.registry == nil {
		return nil
	}
	return s.registry.Tiles()
}

func (s State) Tile(id tilemapping.UnitID) (tiles.Tile, bool) {
	if s.registry == nil {
		return tiles.Tile{}, false
	}
	return s.registry.Get(id)
}

// TileAt returns the tile on cell (row, col), if any.
func (s State) TileAt(row, col int) (tiles.Tile, bool) {
	if s.registry == nil {
		return tiles.Tile{}, false
	}
	return s.registry.At(row, col)
}

func (s State) TilesInPlay() int {
	if s.registry == nil {
		return 0
	}
	return s.registry.Len()
}

func (s State) TilesRemaining() int {
	if s.bag == nil {
		return 0
	}
	return s.bag.TilesRemaining()
}

// SupplyCounts returns the remaining count of every letter.
func (s State) SupplyCounts() map[tilemapping.Letter]int {
	if s.bag == nil {
		return nil
	}
	return s.bag.Counts()
}

// Fingerprint hashes everything observable about the state. Two states
// with the same fingerprint hold the same tiles in the same places with the
// same supply.
func (s State) Fingerprint() uint64 {
	d := xxhash.New()
	io.WriteString(d, s.grid.String())
	if s.bag != nil {
		ids := make([]string, 0, s.bag.TilesRemaining())
		for _, u := range s.bag.Peek() {
			ids = append(ids, string(u.ID))
		}
		slices.Sort(ids)
		for _, id := range ids {
			io.WriteString(d, "|"+id)
		}
	}
	io.WriteString(d, "#")
	for _, t := range s.Tiles() {
		io.WriteString(d, "|"+string(t.ID)+"@"+t.Location.String())
	}
	return d.Sum64()
}

// CheckInvariants verifies tile conservation per letter, that no cell holds
// two tiles, that every placed tile is inside the grid, and that no unit is
// both in the supply and in play.
func (s State) CheckInvariants() error {
	if !s.Started() {
		return ErrNotStarted
	}
	dist := s.bag.LetterDistribution()
	inPlay := s.registry.LetterCounts()
	for _, l := range dist.Letters() {
		if got := s.bag.CountOf(l) + inPlay[l]; got != dist.Count(l) {
			return fmt.Errorf("letter %v: %d in supply + %d in play != %d",
				l, s.bag.CountOf(l), inPlay[l], dist.Count(l))
		}
	}
	if total := s.bag.TilesRemaining() + s.registry.Len(); total != dist.NumTotalTiles() {
		return fmt.Errorf("%d tiles accounted for, expected %d", total, dist.NumTotalTiles())
	}
	seen := map[board.Position]tilemapping.UnitID{}
	for _, t := range s.registry.OnGrid() {
		if !s.grid.IsValidCell(t.Row, t.Col) {
			return fmt.Errorf("tile %v is outside the %v grid", t, s.grid)
		}
		p := board.Position{Row: t.Row, Col: t.Col}
		if other, ok := seen[p]; ok {
			return fmt.Errorf("tiles %v and %v share cell %v", other, t.ID, t.Location)
		}
		seen[p] = t.ID
	}
	for _, t := range s.registry.Tiles() {
		if s.bag.Has(t.ID) {
			return fmt.Errorf("tile %v is both in play and in the supply", t.ID)
		}
	}
	return nil
}

func (s State) String() string {
	return "grid " + s.grid.String() + ", " + strconv.Itoa(s.TilesInPlay()) +
		" in play, " + strconv.Itoa(s.TilesRemaining()) + " remaining"
}
