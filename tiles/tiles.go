// Package tiles keeps track of every tile in play: the ones on the
// player's rack and the ones placed on the grid.
package tiles

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/ennecoded/enneagrams/tilemapping"
)

var (
	ErrUnknownTile   = errors.New("unknown tile")
	ErrDuplicateTile = errors.New("tile is already in play")
)

// Location is where a tile sits. The zero value is the rack.
type Location struct {
	OnGrid bool
	Row    int
	Col    int
}

// RackLocation is the off-grid location.
var RackLocation = Location{}

// GridLocation returns the location of cell (row, col).
func GridLocation(row, col int) Location {
	return Location{OnGrid: true, Row: row, Col: col}
}

func (l Location) String() string {
	if !l.OnGrid {
		return "rack"
	}
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}

// A Tile is a unit drawn from the supply. Only its location ever changes.
type Tile struct {
	ID     tilemapping.UnitID
	Letter tilemapping.Letter
	Location
}

// Unit returns the supply unit this tile was drawn from.
func (t Tile) Unit() tilemapping.Unit {
	return tilemapping.Unit{ID: t.ID, Letter: t.Letter}
}

func (t Tile) String() string {
	return fmt.Sprintf("%v@%v", t.ID, t.Location)
}

// Registry holds the tiles in play, in the order they were drawn. The
// order is what the rack shows.
type Registry struct {
	tiles []Tile
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Copy returns a deep copy of the registry.
func (r *Registry) Copy() *Registry {
	return &Registry{tiles: slices.Clone(r.tiles)}
}

func (r *Registry) index(id tilemapping.UnitID) int {
	return slices.IndexFunc(r.tiles, func(t Tile) bool { return t.ID == id })
}

func (r *Registry) occupant(row, col int) int {
	return slices.IndexFunc(r.tiles, func(t Tile) bool {
		return t.OnGrid && t.Row == row && t.Col == col
	})
}

// Add puts a freshly drawn unit on the rack.
func (r *Registry) Add(u tilemapping.Unit) error {
	if r.index(u.ID) != -1 {
		return fmt.Errorf("%v: %w", u.ID, ErrDuplicateTile)
	}
	r.tiles = append(r.tiles, Tile{ID: u.ID, Letter: u.Letter})
	return nil
}

// Place moves tile id onto cell (row, col). A different tile already on
// that cell is moved to the rack, and its id is returned. Bounds are the
// caller's business.
func (r *Registry) Place(id tilemapping.UnitID, row, col int) (tilemapping.UnitID, error) {
	idx := r.index(id)
	if idx == -1 {
		return "", fmt.Errorf("%v: %w", id, ErrUnknownTile)
	}
	var evicted tilemapping.UnitID
	if occ := r.occupant(row, col); occ != -1 && occ != idx {
		evicted = r.tiles[occ].ID
		r.tiles[occ].Location = RackLocation
	}
	r.tiles[idx].Location = GridLocation(row, col)
	return evicted, nil
}

// Unplace moves tile id to the rack.
func (r *Registry) Unplace(id tilemapping.UnitID) error {
	idx := r.index(id)
	if idx == -1 {
		return fmt.Errorf("%v: %w", id, ErrUnknownTile)
	}
	r.tiles[idx].Location = RackLocation
	return nil
}

// Remove takes tile id out of play and returns it.
func (r *Registry) Remove(id tilemapping.UnitID) (Tile, error) {
	idx := r.index(id)
	if idx == -1 {
		return Tile{}, fmt.Errorf("%v: %w", id, ErrUnknownTile)
	}
	t := r.tiles[idx]
	r.tiles = slices.Delete(r.tiles, idx, idx+1)
	return t, nil
}

// Shift moves every grid tile by (dRow, dCol). Rack tiles are untouched.
func (r *Registry) Shift(dRow, dCol int) {
	for i := range r.tiles {
		if r.tiles[i].OnGrid {
			r.tiles[i].Row += dRow
			r.tiles[i].Col += dCol
		}
	}
}

// Get returns the tile with the given id.
func (r *Registry) Get(id tilemapping.UnitID) (Tile, bool) {
	idx := r.index(id)
	if idx == -1 {
		return Tile{}, false
	}
	return r.tiles[idx], true
}

// At returns the tile on cell (row, col), if any.
func (r *Registry) At(row, col int) (Tile, bool) {
	idx := r.occupant(row, col)
	if idx == -1 {
		return Tile{}, false
	}
	return r.tiles[idx], true
}

// Tiles returns a copy of every tile in play.
func (r *Registry) Tiles() []Tile {
	return slices.Clone(r.tiles)
}

// OnRack returns the off-grid tiles in rack order.
func (r *Registry) OnRack() []Tile {
	return lo.Filter(r.tiles, func(t Tile, _ int) bool { return !t.OnGrid })
}

// OnGrid returns the placed tiles.
func (r *Registry) OnGrid() []Tile {
	return lo.Filter(r.tiles, func(t Tile, _ int) bool { return t.OnGrid })
}

func (r *Registry) Len() int {
	return len(r.tiles)
}

// LetterCounts returns how many tiles of each letter are in play.
func (r *Registry) LetterCounts() map[tilemapping.Letter]int {
	return lo.CountValuesBy(r.tiles, func(t Tile) tilemapping.Letter { return t.Letter })
}
