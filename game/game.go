// Package game holds the placement state machine of a solitaire anagram
// game: the resolver that turns player events into new states, and the
// Session that a front end drives.
package game

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/config"
	"github.com/ennecoded/enneagrams/tilemapping"
	"github.com/ennecoded/enneagrams/tiles"
)

// Session is one game being played. It owns the current State and replaces
// it wholesale after every event. A Session is not safe for concurrent use;
// events are expected one at a time, each running to completion.
type Session struct {
	resolver *Resolver
	state    State
}

// NewSession builds a session from the config. The game is not dealt until
// StartGame is called.
func NewSession(cfg *config.Config) (*Session, error) {
	rules, err := NewBasicGameRules(cfg)
	if err != nil {
		return nil, err
	}
	seed := cfg.GetString(config.ConfigSeed)
	if seed != "" {
		log.Debug().Str("seed", seed).Msg("using fixed seed")
	}
	return NewSessionWithRules(rules, tilemapping.NewRandomizer(seed)), nil
}

func NewSessionWithRules(rules *GameRules, r tilemapping.Randomizer) *Session {
	return &Session{resolver: NewResolver(rules, r)}
}

func (s *Session) apply(ev Event) (Outcome, error) {
	next, outcome, err := s.resolver.Resolve(s.state, ev)
	if err != nil {
		log.Error().Err(err).Str("event", ev.String()).Msg("event-failed")
		return outcome, err
	}
	s.state = next
	log.Debug().Str("event", ev.String()).Stringer("outcome", outcome).
		Int("in-play", s.state.TilesInPlay()).
		Int("remaining", s.state.TilesRemaining()).
		Msg("event")
	return outcome, nil
}

// StartGame deals a fresh game, discarding any game in progress.
func (s *Session) StartGame() error {
	_, err := s.apply(StartEvent{})
	return err
}

// OnDrop resolves the end of a drag of tile id over target.
func (s *Session) OnDrop(id tilemapping.UnitID, target Target) (Outcome, error) {
	return s.apply(DropEvent{TileID: id, Target: target})
}

// Expand makes room on one side of the grid.
func (s *Session) Expand(dir board.Direction) (Outcome, error) {
	return s.apply(ExpandEvent{Direction: dir})
}

// Reveal draws one tile onto the rack.
func (s *Session) Reveal() (Outcome, error) {
	return s.apply(RevealEvent{})
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

func (s *Session) Rules() *GameRules {
	return s.resolver.Rules()
}

// TileView is a tile as the presentation layer sees it. Row and Col are -1
// for tiles on the rack.
type TileView struct {
	ID     tilemapping.UnitID
	Letter tilemapping.Letter
	Row    int
	Col    int
	Placed bool
}

// Snapshot is a read-only copy of everything a front end displays.
type Snapshot struct {
	Supply         map[tilemapping.Letter]int
	Tiles          []TileView
	Rows           int
	Cols           int
	TilesRemaining int
	CanDump        bool
}

// Snapshot returns the current board state for display.
func (s *Session) Snapshot() Snapshot {
	st := s.state
	views := lo.Map(st.Tiles(), func(t tiles.Tile, _ int) TileView {
		v := TileView{ID: t.ID, Letter: t.Letter, Row: -1, Col: -1}
		if t.OnGrid {
			v.Row, v.Col, v.Placed = t.Row, t.Col, true
		}
		return v
	})
	return Snapshot{
		Supply:         st.SupplyCounts(),
		Tiles:          views,
		Rows:           st.grid.Rows,
		Cols:           st.grid.Cols,
		TilesRemaining: st.TilesRemaining(),
		CanDump:        s.resolver.CanDump(st),
	}
}
