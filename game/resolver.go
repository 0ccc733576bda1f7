package game

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/tilemapping"
	"github.com/ennecoded/enneagrams/tiles"
)

// Resolver turns (state, event) into the next state. It holds the rules
// and the randomizer, nothing else; the state is always passed in.
type Resolver struct {
	rules      *GameRules
	randomizer tilemapping.Randomizer
}

func NewResolver(rules *GameRules, r tilemapping.Randomizer) *Resolver {
	return &Resolver{rules: rules, randomizer: r}
}

func (r *Resolver) Rules() *GameRules {
	return r.rules
}

// Resolve applies ev to st. A Rejected or Ignored outcome always comes with
// st itself. An error means the event broke the contract with the caller
// (for example, it names a tile that is not in play); st is returned
// unchanged in that case too.
func (r *Resolver) Resolve(st State, ev Event) (State, Outcome, error) {
	if _, ok := ev.(StartEvent); !ok && !st.Started() {
		return st, Rejected, ErrNotStarted
	}
	switch e := ev.(type) {
	case StartEvent:
		return r.start()
	case DropEvent:
		return r.drop(st, e)
	case ExpandEvent:
		return r.expand(st, e.Direction)
	case RevealEvent:
		return r.reveal(st)
	}
	return st, Rejected, fmt.Errorf("unhandled event %T", ev)
}

// CanDump reports whether the dump zone accepts tiles in st.
func (r *Resolver) CanDump(st State) bool {
	return st.Started() && st.bag.TilesRemaining() >= r.rules.DumpDraw()
}

func (r *Resolver) start() (State, Outcome, error) {
	bag := r.rules.LetterDistribution().MakeBag(r.randomizer)
	reg := tiles.NewRegistry()
	for _, u := range bag.DrawAtMost(r.rules.DealSize()) {
		if err := reg.Add(u); err != nil {
			return State{}, Rejected, err
		}
	}
	return State{bag: bag, registry: reg, grid: r.rules.InitialGrid()}, Applied, nil
}

func (r *Resolver) drop(st State, e DropEvent) (State, Outcome, error) {
	tile, ok := st.registry.Get(e.TileID)
	if !ok {
		return st, Rejected, fmt.Errorf("drop %v: %w", e.TileID, tiles.ErrUnknownTile)
	}

	switch e.Target.Kind {
	case TargetCell:
		row, col := e.Target.Row, e.Target.Col
		if !st.grid.IsValidCell(row, col) {
			return st, Rejected, nil
		}
		if tile.OnGrid && tile.Row == row && tile.Col == col {
			return st, Ignored, nil
		}
		reg := st.registry.Copy()
		if _, err := reg.Place(tile.ID, row, col); err != nil {
			return st, Rejected, err
		}
		next := st
		next.registry = reg
		return next, Applied, nil

	case TargetRack:
		if !tile.OnGrid {
			return st, Ignored, nil
		}
		reg := st.registry.Copy()
		if err := reg.Unplace(tile.ID); err != nil {
			return st, Rejected, err
		}
		next := st
		next.registry = reg
		return next, Applied, nil

	case TargetDump:
		return r.dump(st, tile)
	}
	return st, Ignored, nil
}

// dump exchanges tile for up to DumpDraw new ones. The guard looks at the
// supply as it is before the tile goes back in.
func (r *Resolver) dump(st State, tile tiles.Tile) (State, Outcome, error) {
	if !r.CanDump(st) {
		return st, Rejected, nil
	}
	bag := st.bag.Copy()
	reg := st.registry.Copy()
	removed, err := reg.Remove(tile.ID)
	if err != nil {
		return st, Rejected, err
	}
	if err := bag.Return(removed.Unit()); err != nil {
		return st, Rejected, fmt.Errorf("dump %v: %w", tile.ID, err)
	}
	for _, u := range bag.DrawAtMost(r.rules.DumpDraw()) {
		if err := reg.Add(u); err != nil {
			return st, Rejected, fmt.Errorf("dump %v: %w", tile.ID, err)
		}
	}
	return State{bag: bag, registry: reg, grid: st.grid}, Applied, nil
}

func (r *Resolver) expand(st State, dir board.Direction) (State, Outcome, error) {
	placed := st.registry.OnGrid()
	occupied := lo.Map(placed, func(t tiles.Tile, _ int) board.Position {
		return board.Position{Row: t.Row, Col: t.Col}
	})
	grid, shift := st.grid.Expand(dir, occupied)
	moved := !shift.IsZero() && len(placed) > 0
	if grid == st.grid && !moved {
		return st, Ignored, nil
	}
	next := st
	next.grid = grid
	if moved {
		reg := st.registry.Copy()
		reg.Shift(shift.Rows, shift.Cols)
		next.registry = reg
	}
	return next, Applied, nil
}

func (r *Resolver) reveal(st State) (State, Outcome, error) {
	if st.bag.TilesRemaining() == 0 {
		return st, Rejected, nil
	}
	bag := st.bag.Copy()
	reg := st.registry.Copy()
	for _, u := range bag.DrawAtMost(1) {
		if err := reg.Add(u); err != nil {
			return st, Rejected, fmt.Errorf("reveal: %w", err)
		}
	}
	return State{bag: bag, registry: reg, grid: st.grid}, Applied, nil
}
