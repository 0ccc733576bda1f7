package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/config"
	"github.com/ennecoded/enneagrams/tilemapping"
)

var DefaultConfig = config.DefaultConfig()

func seededSession(t *testing.T, seed string) *Session {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSeed, seed)
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseTarget(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		id   string
		want Target
	}{
		{"cell-0-0", GridCell(0, 0)},
		{"cell-12-3", GridCell(12, 3)},
		{" rack ", Rack()},
		{"dump", Dump()},
		{"", NoTarget()},
		{"cell-1", NoTarget()},
		{"cell-a-1", NoTarget()},
		{"cell-1-2-3", NoTarget()},
		{"tile-E-3", NoTarget()},
		{"Rack", NoTarget()},
	}
	for _, tc := range cases {
		is.Equal(ParseTarget(tc.id), tc.want) // ParseTarget(tc.id)
	}
	for _, tgt := range []Target{GridCell(4, 7), Rack(), Dump()} {
		is.Equal(ParseTarget(tgt.String()), tgt)
	}
}

func TestEventStrings(t *testing.T) {
	is := is.New(t)
	is.Equal(DropEvent{TileID: "E-3", Target: GridCell(1, 2)}.String(), "drop E-3 on cell-1-2")
	is.Equal(DropEvent{TileID: "E-3"}.String(), "drop E-3 nowhere")
	is.Equal(ExpandEvent{Direction: board.Left}.String(), "expand left")
	is.Equal(Rejected.String(), "rejected")
}

func TestNewSessionFromConfig(t *testing.T) {
	is := is.New(t)
	s, err := NewSession(DefaultConfig)
	is.NoErr(err)
	is.True(!s.State().Started())
	is.Equal(s.Rules().DealSize(), 21)
	is.Equal(s.Rules().DumpDraw(), 3)
	is.Equal(s.Rules().LetterDistribution().NumTotalTiles(), 144)

	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigLetterDistribution, "klingon")
	cfg.Set(config.ConfigDistributionPath, t.TempDir())
	_, err = NewSession(cfg)
	is.True(err != nil)
}

func TestSessionLifecycle(t *testing.T) {
	is := is.New(t)
	s := seededSession(t, "lifecycle")
	_, err := s.Reveal()
	is.True(errors.Is(err, ErrNotStarted))

	is.NoErr(s.StartGame())
	st := s.State()
	is.NoErr(st.CheckInvariants())
	is.Equal(st.TilesInPlay(), 21)

	id := st.Tiles()[0].ID
	outcome, err := s.OnDrop(id, GridCell(0, 0))
	is.NoErr(err)
	is.Equal(outcome, Applied)
	// the earlier state was not modified
	_, ok := st.TileAt(0, 0)
	is.True(!ok)

	outcome, err = s.OnDrop(id, NoTarget())
	is.NoErr(err)
	is.Equal(outcome, Ignored)

	outcome, err = s.Expand(board.Top)
	is.NoErr(err)
	is.Equal(outcome, Applied)
	tile, _ := s.State().Tile(id)
	is.Equal(tile.Row, 1)

	outcome, err = s.Reveal()
	is.NoErr(err)
	is.Equal(outcome, Applied)
	is.Equal(s.State().TilesInPlay(), 22)

	outcome, err = s.OnDrop(id, Dump())
	is.NoErr(err)
	is.Equal(outcome, Applied)
	is.Equal(s.State().TilesInPlay(), 24)
	is.Equal(s.State().TilesRemaining(), s.Rules().LetterDistribution().NumTotalTiles()-24)
	is.NoErr(s.State().CheckInvariants())

	_, err = s.OnDrop(id, Rack())
	is.True(err != nil) // dumped tile is no longer in play

	// starting again throws the old game away
	is.NoErr(s.StartGame())
	is.Equal(s.State().TilesInPlay(), 21)
	is.Equal(s.State().Grid(), board.NewGrid(10, 10, 144))
}

func TestSeededSessionsMatch(t *testing.T) {
	is := is.New(t)
	s1 := seededSession(t, "twins")
	s2 := seededSession(t, "twins")
	is.NoErr(s1.StartGame())
	is.NoErr(s2.StartGame())
	is.Equal(s1.State().Fingerprint(), s2.State().Fingerprint())

	s3 := seededSession(t, "not twins")
	is.NoErr(s3.StartGame())
	is.True(s1.State().Fingerprint() != s3.State().Fingerprint())
}

func TestSnapshot(t *testing.T) {
	is := is.New(t)
	s := seededSession(t, "snapshot")
	is.Equal(s.Snapshot().CanDump, false)
	is.NoErr(s.StartGame())

	id := s.State().Tiles()[3].ID
	_, err := s.OnDrop(id, GridCell(2, 5))
	is.NoErr(err)

	remaining := s.Rules().LetterDistribution().NumTotalTiles() - 21
	snap := s.Snapshot()
	is.Equal(len(snap.Tiles), 21)
	is.Equal(snap.Rows, 10)
	is.Equal(snap.Cols, 10)
	is.Equal(snap.TilesRemaining, remaining)
	is.True(snap.CanDump)
	total := 0
	for _, n := range snap.Supply {
		total += n
	}
	is.Equal(total, remaining)

	placed := 0
	for _, v := range snap.Tiles {
		if v.Placed {
			placed++
			is.Equal(v.ID, id)
			is.Equal([2]int{v.Row, v.Col}, [2]int{2, 5})
		} else {
			is.Equal([2]int{v.Row, v.Col}, [2]int{-1, -1})
		}
	}
	is.Equal(placed, 1)

	// the snapshot is a copy
	snap.Supply['E'] = 1000
	is.True(s.Snapshot().Supply['E'] != 1000)
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	s := seededSession(t, "display")
	is.Equal(s.ToDisplayText(), "no game in progress")
	is.NoErr(s.StartGame())
	id := s.State().Tiles()[0].ID
	_, err := s.OnDrop(id, GridCell(0, 0))
	is.NoErr(err)

	txt := s.ToDisplayText()
	is.True(strings.Contains(txt, "Rack (20):"))
	is.True(strings.Contains(txt, "Supply (123 remaining):"))
	is.True(strings.Contains(txt, "Dump: open"))
	l, _, _ := id.Parse()
	is.True(strings.Contains(txt, "  0|"+l.String()))
}

func TestDumpClosedDisplay(t *testing.T) {
	is := is.New(t)
	ld, err := tilemapping.NewLetterDistribution("tiny", map[tilemapping.Letter]int{'A': 2})
	is.NoErr(err)
	rules, err := NewGameRules(ld, 1, 3, board.NewGrid(3, 3, 10))
	is.NoErr(err)
	s := NewSessionWithRules(rules, tilemapping.NewRandomizer("closed"))
	is.NoErr(s.StartGame())
	is.True(strings.Contains(s.ToDisplayText(), "Dump: closed (needs 3 in supply)"))
	outcome, err := s.OnDrop(s.State().Tiles()[0].ID, Dump())
	is.NoErr(err)
	is.Equal(outcome, Rejected)
}
