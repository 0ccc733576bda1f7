package game

import (
	"errors"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/config"
	"github.com/ennecoded/enneagrams/tilemapping"
)

const (
	DefaultDealSize = 21
	DefaultDumpDraw = 3
	DefaultGridDim  = 10
)

// GameRules encapsulates the objects and numbers needed to actually play a
// game.
type GameRules struct {
	dist     *tilemapping.LetterDistribution
	dealSize int
	dumpDraw int
	grid     board.Grid
}

func (g GameRules) LetterDistribution() *tilemapping.LetterDistribution {
	return g.dist
}

// DealSize is the number of tiles dealt at the start of a game.
func (g GameRules) DealSize() int {
	return g.dealSize
}

// DumpDraw is the number of tiles drawn when a tile is dumped. It is also
// the minimum supply needed before a dump is allowed.
func (g GameRules) DumpDraw() int {
	return g.dumpDraw
}

// InitialGrid is the grid a new game starts on.
func (g GameRules) InitialGrid() board.Grid {
	return g.grid
}

// NewGameRules builds rules from explicit values.
func NewGameRules(dist *tilemapping.LetterDistribution, dealSize, dumpDraw int,
	grid board.Grid) (*GameRules, error) {

	if dist == nil {
		return nil, errors.New("no letter distribution")
	}
	if dealSize < 0 {
		return nil, errors.New("deal size must not be negative")
	}
	if dumpDraw < 1 {
		return nil, errors.New("dump draw must be at least 1")
	}
	return &GameRules{dist: dist, dealSize: dealSize, dumpDraw: dumpDraw, grid: grid}, nil
}

// DefaultGameRules are the standard rules: English tiles, a deal of 21,
// dumps that draw 3, and a 10x10 grid that grows to 144x144.
func DefaultGameRules() (*GameRules, error) {
	dist, err := tilemapping.EnglishLetterDistribution()
	if err != nil {
		return nil, err
	}
	return NewGameRules(dist, DefaultDealSize, DefaultDumpDraw,
		board.NewGrid(DefaultGridDim, DefaultGridDim, board.DefaultMaxDim))
}

// NewBasicGameRules reads the rules from the config.
func NewBasicGameRules(cfg *config.Config) (*GameRules, error) {
	dist, err := tilemapping.Get(cfg, cfg.GetString(config.ConfigLetterDistribution))
	if err != nil {
		return nil, err
	}
	grid := board.NewGrid(cfg.GetInt(config.ConfigGridRows), cfg.GetInt(config.ConfigGridCols),
		cfg.GetInt(config.ConfigGridMax))
	return NewGameRules(dist, cfg.GetInt(config.ConfigDealSize), cfg.GetInt(config.ConfigDumpDraw), grid)
}
