package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/matryer/is"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/tilemapping"
	"github.com/ennecoded/enneagrams/tiles"
)

// avoidLast always picks the second-to-last unit. Since a returned unit is
// appended to the end of the bag and each draw swaps the last unit into the
// hole, a unit that was just returned is never drawn again.
type avoidLast struct{}

func (avoidLast) Intn(n int) int {
	if n < 2 {
		return 0
	}
	return n - 2
}

func englishRules(t *testing.T) *GameRules {
	rules, err := DefaultGameRules()
	if err != nil {
		t.Fatal(err)
	}
	return rules
}

func tinyRules(t *testing.T, counts map[tilemapping.Letter]int, deal int) *GameRules {
	ld, err := tilemapping.NewLetterDistribution("tiny", counts)
	if err != nil {
		t.Fatal(err)
	}
	rules, err := NewGameRules(ld, deal, DefaultDumpDraw, board.NewGrid(5, 5, 144))
	if err != nil {
		t.Fatal(err)
	}
	return rules
}

// stateWith sets up a game whose rack holds exactly the given units.
func stateWith(t *testing.T, rules *GameRules, r tilemapping.Randomizer, ids ...tilemapping.UnitID) State {
	bag := rules.LetterDistribution().MakeBag(r)
	if err := bag.RemoveUnits(ids...); err != nil {
		t.Fatal(err)
	}
	reg := tiles.NewRegistry()
	for _, id := range ids {
		l, _, err := id.Parse()
		if err != nil {
			t.Fatal(err)
		}
		if err := reg.Add(tilemapping.Unit{ID: id, Letter: l}); err != nil {
			t.Fatal(err)
		}
	}
	return State{bag: bag, registry: reg, grid: rules.InitialGrid()}
}

func mustResolve(t *testing.T, r *Resolver, st State, ev Event) (State, Outcome) {
	t.Helper()
	next, outcome, err := r.Resolve(st, ev)
	if err != nil {
		t.Fatalf("%v: %v", ev, err)
	}
	if err := next.CheckInvariants(); err != nil {
		t.Fatalf("after %v: %v", ev, err)
	}
	return next, outcome
}

func place(t *testing.T, r *Resolver, st State, id tilemapping.UnitID, row, col int) State {
	t.Helper()
	next, outcome := mustResolve(t, r, st, DropEvent{TileID: id, Target: GridCell(row, col)})
	if outcome != Applied {
		t.Fatalf("placing %v on (%d,%d) was %v", id, row, col, outcome)
	}
	return next
}

func TestStart(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, tilemapping.NewRandomizer("start"))
	st, outcome := mustResolve(t, r, State{}, StartEvent{})
	is.Equal(outcome, Applied)
	is.Equal(st.TilesInPlay(), 21)
	is.Equal(st.TilesRemaining(), rules.LetterDistribution().NumTotalTiles()-21)
	is.Equal(len(st.registry.OnRack()), 21)
	is.Equal(st.Grid(), board.NewGrid(10, 10, 144))
}

func TestEventsBeforeStart(t *testing.T) {
	is := is.New(t)
	r := NewResolver(englishRules(t), avoidLast{})
	for _, ev := range []Event{RevealEvent{}, ExpandEvent{board.Top},
		DropEvent{TileID: "A-0", Target: Rack()}} {
		st, outcome, err := r.Resolve(State{}, ev)
		is.True(errors.Is(err, ErrNotStarted))
		is.Equal(outcome, Rejected)
		is.Equal(st, State{})
	}
}

func TestDropOnCell(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0", "A-0", "T-0")
	next := place(t, r, st, "C-0", 4, 4)

	tile, ok := next.TileAt(4, 4)
	is.True(ok)
	is.Equal(tile.ID, tilemapping.UnitID("C-0"))
	// the input state is untouched
	_, ok = st.TileAt(4, 4)
	is.True(!ok)

	// moving along the grid
	moved := place(t, r, next, "C-0", 4, 5)
	_, ok = moved.TileAt(4, 4)
	is.True(!ok)
	tile, _ = moved.Tile("C-0")
	is.Equal(tile.Location, tiles.GridLocation(4, 5))
}

func TestEvictionOnOverwrite(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0", "A-0", "T-0")
	st = place(t, r, st, "A-0", 2, 2)
	st = place(t, r, st, "T-0", 2, 3)
	before := st.Tiles()

	next := place(t, r, st, "C-0", 2, 2)
	a, _ := next.Tile("A-0")
	c, _ := next.Tile("C-0")
	tt, _ := next.Tile("T-0")
	is.Equal(c.Location, tiles.GridLocation(2, 2))
	is.Equal(a.Location, tiles.RackLocation)
	is.Equal(tt, before[2]) // third tile untouched
	is.Equal(next.TilesRemaining(), st.TilesRemaining())
}

func TestSwapBetweenCells(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0", "A-0")
	st = place(t, r, st, "A-0", 0, 0)
	st = place(t, r, st, "C-0", 0, 1)
	// dragging C onto A's cell sends A to the rack, it does not swap cells
	st = place(t, r, st, "C-0", 0, 0)
	a, _ := st.Tile("A-0")
	is.True(!a.OnGrid)
	_, ok := st.TileAt(0, 1)
	is.True(!ok)
}

func TestDropRejectedOutOfBounds(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0")
	for _, tgt := range []Target{GridCell(10, 0), GridCell(0, 10), GridCell(-1, 3)} {
		next, outcome := mustResolve(t, r, st, DropEvent{TileID: "C-0", Target: tgt})
		is.Equal(outcome, Rejected)
		is.True(reflect.DeepEqual(next, st))
	}
}

func TestDropOnOwnCellIsIgnored(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := place(t, r, stateWith(t, rules, avoidLast{}, "C-0"), "C-0", 1, 1)
	next, outcome := mustResolve(t, r, st, DropEvent{TileID: "C-0", Target: GridCell(1, 1)})
	is.Equal(outcome, Ignored)
	is.True(reflect.DeepEqual(next, st))
}

func TestDropOnRack(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0", "A-0")

	// already on the rack
	next, outcome := mustResolve(t, r, st, DropEvent{TileID: "C-0", Target: Rack()})
	is.Equal(outcome, Ignored)
	is.True(reflect.DeepEqual(next, st))

	st = place(t, r, st, "C-0", 3, 3)
	next, outcome = mustResolve(t, r, st, DropEvent{TileID: "C-0", Target: Rack()})
	is.Equal(outcome, Applied)
	c, _ := next.Tile("C-0")
	is.Equal(c.Location, tiles.RackLocation)
	_, ok := next.TileAt(3, 3)
	is.True(!ok)
}

func TestNoDropIsIdempotent(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, tilemapping.NewRandomizer("nodrop"))
	st, _ := mustResolve(t, r, State{}, StartEvent{})
	id := st.Tiles()[0].ID
	st = place(t, r, st, id, 5, 5)
	fp := st.Fingerprint()

	cur := st
	for range 3 {
		next, outcome := mustResolve(t, r, cur, DropEvent{TileID: id, Target: NoTarget()})
		is.Equal(outcome, Ignored)
		is.True(reflect.DeepEqual(next, st))
		is.Equal(next.Fingerprint(), fp)
		cur = next
	}
}

func TestUnknownTile(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0")
	for _, tgt := range []Target{GridCell(0, 0), Rack(), Dump(), NoTarget()} {
		next, _, err := r.Resolve(st, DropEvent{TileID: "Z-0", Target: tgt})
		is.True(errors.Is(err, tiles.ErrUnknownTile))
		is.True(reflect.DeepEqual(next, st))
	}
}

func TestDumpScenario(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	dealt := []tilemapping.UnitID{
		"E-3", "A-0", "A-1", "B-0", "C-0", "D-0", "E-0", "F-0", "G-0", "H-0",
		"I-0", "J-0", "K-0", "L-0", "M-0", "N-0", "O-0", "P-0", "R-0", "S-0", "T-0",
	}
	st := stateWith(t, rules, avoidLast{}, dealt...)
	is.Equal(st.TilesInPlay(), 21)
	is.Equal(st.TilesRemaining(), 123)
	eInBag := st.SupplyCounts()['E']
	// drop it from the grid to make sure grid tiles dump too
	st = place(t, r, st, "E-3", 0, 0)

	next, outcome := mustResolve(t, r, st, DropEvent{TileID: "E-3", Target: Dump()})
	is.Equal(outcome, Applied)
	is.Equal(next.TilesInPlay(), 23)
	is.Equal(next.TilesRemaining(), 121)
	is.Equal(next.TilesInPlay()+next.TilesRemaining(), rules.LetterDistribution().NumTotalTiles())

	_, ok := next.Tile("E-3")
	is.True(!ok)
	is.True(next.bag.Has("E-3"))
	_, ok = next.TileAt(0, 0)
	is.True(!ok)

	newTiles := next.Tiles()[20:]
	drawnE := 0
	for _, tile := range newTiles {
		is.True(!tile.OnGrid)
		if tile.Letter == 'E' {
			drawnE++
		}
	}
	is.Equal(next.SupplyCounts()['E'], eInBag+1-drawnE)
}

func TestDumpGuard(t *testing.T) {
	is := is.New(t)
	// 5 tiles in all; dealing 3 leaves 2 in the supply.
	rules := tinyRules(t, map[tilemapping.Letter]int{'A': 3, 'B': 2}, 3)
	r := NewResolver(rules, tilemapping.NewRandomizer("guard"))
	st, _ := mustResolve(t, r, State{}, StartEvent{})
	is.Equal(st.TilesRemaining(), 2)
	is.True(!r.CanDump(st))
	fp := st.Fingerprint()

	id := st.Tiles()[0].ID
	next, outcome := mustResolve(t, r, st, DropEvent{TileID: id, Target: Dump()})
	is.Equal(outcome, Rejected)
	is.True(reflect.DeepEqual(next, st))
	is.Equal(next.Fingerprint(), fp)
}

func TestDumpWithExactlyEnough(t *testing.T) {
	is := is.New(t)
	rules := tinyRules(t, map[tilemapping.Letter]int{'A': 3, 'B': 2, 'C': 1}, 3)
	r := NewResolver(rules, tilemapping.NewRandomizer("exact"))
	st, _ := mustResolve(t, r, State{}, StartEvent{})
	is.Equal(st.TilesRemaining(), 3)
	is.True(r.CanDump(st))

	next, outcome := mustResolve(t, r, st, DropEvent{TileID: st.Tiles()[1].ID, Target: Dump()})
	is.Equal(outcome, Applied)
	is.Equal(next.TilesInPlay(), 5)
	is.Equal(next.TilesRemaining(), 1)
	is.True(!r.CanDump(next))
}

func TestReveal(t *testing.T) {
	is := is.New(t)
	rules := tinyRules(t, map[tilemapping.Letter]int{'A': 2, 'B': 1}, 1)
	r := NewResolver(rules, tilemapping.NewRandomizer("reveal"))
	st, _ := mustResolve(t, r, State{}, StartEvent{})
	is.Equal(st.TilesInPlay(), 1)

	var outcome Outcome
	for i := 2; i <= 3; i++ {
		st, outcome = mustResolve(t, r, st, RevealEvent{})
		is.Equal(outcome, Applied)
		is.Equal(st.TilesInPlay(), i)
		is.True(!st.Tiles()[i-1].OnGrid)
	}
	is.Equal(st.TilesRemaining(), 0)

	next, outcome := mustResolve(t, r, st, RevealEvent{})
	is.Equal(outcome, Rejected)
	is.True(reflect.DeepEqual(next, st))
}

func TestStartDealsWhatIsLeft(t *testing.T) {
	is := is.New(t)
	rules := tinyRules(t, map[tilemapping.Letter]int{'A': 2, 'B': 1}, 21)
	r := NewResolver(rules, tilemapping.NewRandomizer("short"))
	st, _ := mustResolve(t, r, State{}, StartEvent{})
	is.Equal(st.TilesInPlay(), 3)
	is.Equal(st.TilesRemaining(), 0)
}

// relative returns the offset of every placed tile from the first one.
func relative(st State) map[tilemapping.UnitID]board.Position {
	placed := st.registry.OnGrid()
	rel := map[tilemapping.UnitID]board.Position{}
	for _, t := range placed {
		rel[t.ID] = board.Position{Row: t.Row - placed[0].Row, Col: t.Col - placed[0].Col}
	}
	return rel
}

func TestExpandTopWithBottomRowContent(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0", "A-0", "T-0")
	st = place(t, r, st, "C-0", 9, 0)
	st = place(t, r, st, "A-0", 9, 1)
	st = place(t, r, st, "T-0", 8, 1)

	next, outcome := mustResolve(t, r, st, ExpandEvent{board.Top})
	is.Equal(outcome, Applied)
	is.Equal(next.Grid().Rows, st.Grid().Rows+1)
	is.Equal(next.Grid().Cols, st.Grid().Cols)
	is.Equal(relative(next), relative(st))
	c, _ := next.Tile("C-0")
	is.Equal(c.Location, tiles.GridLocation(10, 0))
}

func TestExpandTopShiftsWhenBottomIsFree(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0", "A-0", "T-0")
	st = place(t, r, st, "C-0", 0, 0)
	st = place(t, r, st, "A-0", 0, 1)
	st = place(t, r, st, "T-0", 1, 1)

	next, outcome := mustResolve(t, r, st, ExpandEvent{board.Top})
	is.Equal(outcome, Applied)
	is.Equal(next.Grid(), st.Grid())
	for _, tile := range st.registry.OnGrid() {
		moved, _ := next.Tile(tile.ID)
		is.Equal(moved.Row, tile.Row+1)
		is.Equal(moved.Col, tile.Col)
	}
	is.Equal(relative(next), relative(st))
}

func TestExpandRightAndLeft(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0", "A-0")
	st = place(t, r, st, "C-0", 3, 0)
	st = place(t, r, st, "A-0", 3, 1)

	// left column is occupied: right grows the grid without moving anything
	next, _ := mustResolve(t, r, st, ExpandEvent{board.Right})
	is.Equal(next.Grid().Cols, 11)
	is.Equal(next.Tiles(), st.Tiles())

	// right column is free: left slides everything one column over
	next, _ = mustResolve(t, r, next, ExpandEvent{board.Left})
	is.Equal(next.Grid().Cols, 11)
	c, _ := next.Tile("C-0")
	is.Equal(c.Location, tiles.GridLocation(3, 1))
}

func TestExpandIgnored(t *testing.T) {
	is := is.New(t)
	rules := englishRules(t)
	r := NewResolver(rules, avoidLast{})
	// nothing on the grid: a shift has nothing to move
	st := stateWith(t, rules, avoidLast{}, "C-0")
	for _, dir := range []board.Direction{board.Top, board.Bottom, board.Left, board.Right} {
		next, outcome := mustResolve(t, r, st, ExpandEvent{dir})
		is.Equal(outcome, Ignored)
		is.True(reflect.DeepEqual(next, st))
	}
}

func TestExpandStopsAtCap(t *testing.T) {
	is := is.New(t)
	ld, err := tilemapping.EnglishLetterDistribution()
	is.NoErr(err)
	rules, err := NewGameRules(ld, 21, 3, board.NewGrid(3, 3, 3))
	is.NoErr(err)
	r := NewResolver(rules, avoidLast{})
	st := stateWith(t, rules, avoidLast{}, "C-0", "A-0")
	st = place(t, r, st, "C-0", 0, 0)
	st = place(t, r, st, "A-0", 2, 2)

	for _, dir := range []board.Direction{board.Top, board.Bottom, board.Left, board.Right} {
		next, outcome := mustResolve(t, r, st, ExpandEvent{dir})
		is.Equal(outcome, Ignored)
		is.True(reflect.DeepEqual(next, st))
	}
}
