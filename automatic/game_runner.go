// Package automatic plays games by itself. It throws random player events
// at a session and checks after every one that no tile was lost, duplicated
// or stacked, and that refused events left the state alone.
package automatic

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/config"
	"github.com/ennecoded/enneagrams/game"
	"github.com/ennecoded/enneagrams/tilemapping"
)

const DefaultMovesPerGame = 200

// GameRunner is the master struct here for the automatic game logic.
type GameRunner struct {
	rules   *game.GameRules
	session *game.Session
	// picks events; separate from the bag's randomizer
	rng     *frand.RNG
	config  *config.Config
	logchan chan string
}

// GameResult sums up one automatic game.
type GameResult struct {
	ID        int
	Events    int
	Outcomes  [3]int // indexed by game.Outcome
	InPlay    int
	Remaining int
	Placed    int
	Rows      int
	Cols      int
}

const csvHeader = "gameID,events,applied,rejected,ignored,inplay,remaining,placed,rows,cols\n"

func (g GameResult) csvRecord() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n", g.ID, g.Events,
		g.Outcomes[game.Applied], g.Outcomes[game.Rejected], g.Outcomes[game.Ignored],
		g.InPlay, g.Remaining, g.Placed, g.Rows, g.Cols)
}

// NewGameRunner builds a runner with the rules from cfg. Results are sent
// to logchan as CSV records if it is not nil.
func NewGameRunner(logchan chan string, cfg *config.Config) (*GameRunner, error) {
	rules, err := game.NewBasicGameRules(cfg)
	if err != nil {
		return nil, err
	}
	return &GameRunner{rules: rules, config: cfg, logchan: logchan}, nil
}

// Init sets up a fresh session. A nil seed gives an unpredictable game;
// otherwise the seed fixes both the tiles and the events.
func (r *GameRunner) Init(seed *[32]byte) {
	if seed == nil {
		r.session = game.NewSessionWithRules(r.rules, frand.New())
		r.rng = frand.New()
		return
	}
	evKey := *seed
	for i := range evKey {
		evKey[i] ^= 0x5c
	}
	r.session = game.NewSessionWithRules(r.rules, tilemapping.NewRandomizerFromKey(*seed))
	r.rng = tilemapping.NewRandomizerFromKey(evKey)
}

func (r *GameRunner) Session() *game.Session {
	return r.session
}

// randomEvent picks a plausible player input for st. Drops sometimes
// miss the grid on purpose.
func (r *GameRunner) randomEvent(st game.State) game.Event {
	ts := st.Tiles()
	if len(ts) == 0 {
		return game.RevealEvent{}
	}
	tile := ts[r.rng.Intn(len(ts))]
	grid := st.Grid()
	switch n := r.rng.Intn(100); {
	case n < 50:
		row := r.rng.Intn(grid.Rows+2) - 1
		col := r.rng.Intn(grid.Cols+2) - 1
		return game.DropEvent{TileID: tile.ID, Target: game.GridCell(row, col)}
	case n < 56:
		if tile.OnGrid {
			return game.DropEvent{TileID: tile.ID, Target: game.GridCell(tile.Row, tile.Col)}
		}
		return game.DropEvent{TileID: tile.ID, Target: game.Rack()}
	case n < 66:
		return game.DropEvent{TileID: tile.ID, Target: game.Rack()}
	case n < 72:
		return game.DropEvent{TileID: tile.ID, Target: game.Dump()}
	case n < 78:
		return game.DropEvent{TileID: tile.ID, Target: game.NoTarget()}
	case n < 92:
		return game.ExpandEvent{Direction: board.Direction(r.rng.Intn(4))}
	}
	return game.RevealEvent{}
}

func (r *GameRunner) play(ev game.Event) (game.Outcome, error) {
	switch e := ev.(type) {
	case game.DropEvent:
		return r.session.OnDrop(e.TileID, e.Target)
	case game.ExpandEvent:
		return r.session.Expand(e.Direction)
	case game.RevealEvent:
		return r.session.Reveal()
	}
	return game.Rejected, fmt.Errorf("cannot play %v", ev)
}

// PlayEvent plays one random event and verifies the state afterwards.
func (r *GameRunner) PlayEvent() (game.Outcome, error) {
	before := r.session.State()
	ev := r.randomEvent(before)
	outcome, err := r.play(ev)
	if err != nil {
		return outcome, err
	}
	after := r.session.State()
	if err := after.CheckInvariants(); err != nil {
		return outcome, fmt.Errorf("after %v: %w", ev, err)
	}
	changed := after.Fingerprint() != before.Fingerprint()
	if outcome != game.Applied && changed {
		return outcome, fmt.Errorf("%v was %v but changed the state", ev, outcome)
	}
	if outcome == game.Applied && !changed {
		return outcome, fmt.Errorf("%v was applied but nothing changed", ev)
	}
	if _, ok := ev.(game.ExpandEvent); ok && outcome == game.Applied {
		if err := checkRigidShift(before, after); err != nil {
			return outcome, fmt.Errorf("after %v: %w", ev, err)
		}
	}
	return outcome, nil
}

// checkRigidShift makes sure every placed tile moved by the same amount and
// that nothing moved between the rack and the grid.
func checkRigidShift(before, after game.State) error {
	var shift *board.Shift
	for _, t := range before.Tiles() {
		a, ok := after.Tile(t.ID)
		if !ok {
			return fmt.Errorf("tile %v disappeared", t.ID)
		}
		if a.OnGrid != t.OnGrid {
			return fmt.Errorf("tile %v moved from %v to %v", t.ID, t.Location, a.Location)
		}
		if !t.OnGrid {
			continue
		}
		s := board.Shift{Rows: a.Row - t.Row, Cols: a.Col - t.Col}
		if shift == nil {
			shift = &s
		} else if s != *shift {
			return fmt.Errorf("tile %v shifted by %v, others by %v", t.ID, s, *shift)
		}
	}
	if after.Grid().Rows < before.Grid().Rows || after.Grid().Cols < before.Grid().Cols {
		return fmt.Errorf("grid shrank from %v to %v", before.Grid(), after.Grid())
	}
	return nil
}

// PlayGame deals a new game and plays moves random events on it.
func (r *GameRunner) PlayGame(id int, moves int) (GameResult, error) {
	res := GameResult{ID: id}
	if err := r.session.StartGame(); err != nil {
		return res, err
	}
	if err := r.session.State().CheckInvariants(); err != nil {
		return res, fmt.Errorf("after deal: %w", err)
	}
	for range moves {
		outcome, err := r.PlayEvent()
		if err != nil {
			log.Error().Err(err).Int("game", id).Int("event", res.Events).Msg("invariant-broken")
			return res, err
		}
		res.Events++
		res.Outcomes[outcome]++
	}
	st := r.session.State()
	res.InPlay = st.TilesInPlay()
	res.Remaining = st.TilesRemaining()
	res.Rows = st.Grid().Rows
	res.Cols = st.Grid().Cols
	for _, t := range st.Tiles() {
		if t.OnGrid {
			res.Placed++
		}
	}
	if r.logchan != nil {
		r.logchan <- res.csvRecord()
	}
	log.Debug().Int("game", id).Int("in-play", res.InPlay).Int("placed", res.Placed).
		Str("grid", st.Grid().String()).Msg("game-over")
	return res, nil
}
