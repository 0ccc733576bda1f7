package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/ennecoded/enneagrams/automatic"
	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/config"
	"github.com/ennecoded/enneagrams/game"
	"github.com/ennecoded/enneagrams/tilemapping"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

// settable lists the config keys the set command may change, and whether
// each one holds an integer.
var settable = map[string]bool{
	config.ConfigDebug:              false,
	config.ConfigLetterDistribution: false,
	config.ConfigDistributionPath:   false,
	config.ConfigDealSize:           true,
	config.ConfigDumpDraw:           true,
	config.ConfigGridRows:           true,
	config.ConfigGridCols:           true,
	config.ConfigGridMax:            true,
	config.ConfigSeed:               false,
}

func (sc *ShellController) settingsText() string {
	keys := lo.Keys(settable)
	slices.Sort(keys)
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s: %v\n", k, sc.config.Get(k))
	}
	return sb.String()
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	key := cmd.args[0]
	isInt, ok := settable[key]
	if !ok {
		return nil, fmt.Errorf("no such setting: %v", key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.config.Get(key))), nil
	}
	value := strings.Join(cmd.args[1:], " ")
	switch {
	case isInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%v must be a number: %w", key, err)
		}
		sc.config.Set(key, n)
	case key == config.ConfigDebug:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		sc.config.Set(key, b)
		if b {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		sc.config.Set(key, value)
	}
	log.Debug().Str("key", key).Str("value", value).Msg("setting-changed")
	return msg("set " + key + " to " + value + " (takes effect on the next `new`)"), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	s, err := game.NewSession(sc.config)
	if err != nil {
		return nil, err
	}
	if err := s.StartGame(); err != nil {
		return nil, err
	}
	sc.session = s
	return msg(s.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	return msg(sc.session.ToDisplayText()), nil
}

func (sc *ShellController) pool(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	snap := sc.session.Snapshot()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tiles in the pool\n", snap.TilesRemaining)
	for i, l := range sc.session.Rules().LetterDistribution().Letters() {
		fmt.Fprintf(&sb, "%v: %-3d", l, snap.Supply[l])
		if i%9 == 8 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	if snap.CanDump {
		sb.WriteString("Dumping is allowed\n")
	} else {
		fmt.Fprintf(&sb, "Dumping needs at least %d tiles in the pool\n",
			sc.session.Rules().DumpDraw())
	}
	return msg(sb.String()), nil
}

func parseTileID(s string) (tilemapping.UnitID, error) {
	id := tilemapping.UnitID(strings.ToUpper(s))
	if _, _, err := id.Parse(); err != nil {
		return "", err
	}
	return id, nil
}

// dropTile sends a drop to the session and describes what happened.
func (sc *ShellController) dropTile(arg string, target game.Target, rejected string) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	id, err := parseTileID(arg)
	if err != nil {
		return nil, err
	}
	outcome, err := sc.session.OnDrop(id, target)
	if err != nil {
		return nil, err
	}
	if rejected == "" {
		rejected = fmt.Sprintf("%v could not be dropped on %v", id, target)
	}
	return sc.outcomeResponse(outcome, rejected)
}

func (sc *ShellController) outcomeResponse(outcome game.Outcome, rejected string) (*Response, error) {
	switch outcome {
	case game.Rejected:
		return msg(rejected), nil
	case game.Ignored:
		return msg("nothing to do"), nil
	}
	return msg(sc.session.ToDisplayText()), nil
}

func (sc *ShellController) place(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 3 {
		return nil, errors.New("usage: place <tile> <row> <col>")
	}
	row, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	col, err := strconv.Atoi(cmd.args[2])
	if err != nil {
		return nil, err
	}
	return sc.dropTile(cmd.args[0], game.GridCell(row, col), "")
}

func (sc *ShellController) rack(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: rack <tile>")
	}
	return sc.dropTile(cmd.args[0], game.Rack(), "")
}

func (sc *ShellController) dump(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: dump <tile>")
	}
	if sc.session == nil {
		return nil, errNoGame
	}
	return sc.dropTile(cmd.args[0], game.Dump(),
		fmt.Sprintf("the pool needs at least %d tiles to dump", sc.session.Rules().DumpDraw()))
}

// drop releases a tile over a droppable id, as a drag and drop front end
// would. With no droppable the tile was released over nothing.
func (sc *ShellController) drop(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 1 || len(cmd.args) > 2 {
		return nil, errors.New("usage: drop <tile> [cell-<row>-<col> | rack | dump]")
	}
	target := game.NoTarget()
	if len(cmd.args) == 2 {
		target = game.ParseTarget(cmd.args[1])
	}
	return sc.dropTile(cmd.args[0], target, "")
}

func (sc *ShellController) expand(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: expand <top|bottom|left|right>")
	}
	if sc.session == nil {
		return nil, errNoGame
	}
	dir, err := board.ParseDirection(cmd.args[0])
	if err != nil {
		return nil, err
	}
	outcome, err := sc.session.Expand(dir)
	if err != nil {
		return nil, err
	}
	if outcome == game.Ignored {
		return msg("the grid cannot make room on the " + dir.String()), nil
	}
	return sc.outcomeResponse(outcome, "")
}

func (sc *ShellController) reveal(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	outcome, err := sc.session.Reveal()
	if err != nil {
		return nil, err
	}
	return sc.outcomeResponse(outcome, "the pool is empty")
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 2 && cmd.args[0] == "log" {
		report, err := automatic.AnalyzeLogFile(cmd.args[1])
		if err != nil {
			return nil, err
		}
		return msg(report), nil
	}
	games, err := cmd.options.IntDefault("games", 100)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", 4)
	if err != nil {
		return nil, err
	}
	moves, err := cmd.options.IntDefault("moves", automatic.DefaultMovesPerGame)
	if err != nil {
		return nil, err
	}
	opts := automatic.Options{
		NumGames:       games,
		Threads:        threads,
		Moves:          moves,
		OutputFilename: cmd.options.String("file"),
	}
	if seedfile := cmd.options.String("seedfile"); seedfile != "" {
		opts.Seeds, err = automatic.LoadSeeds(seedfile)
		if err != nil {
			return nil, err
		}
	}
	if savefile := cmd.options.String("saveseeds"); savefile != "" {
		if opts.Seeds == nil {
			opts.Seeds = automatic.GenerateSeeds(games)
		}
		if err := automatic.SaveSeeds(opts.Seeds, savefile); err != nil {
			return nil, err
		}
	}
	log.Info().Int("games", games).Int("threads", threads).Int("moves", moves).Msg("autoplay-starting")
	report, err := automatic.PlayGames(context.Background(), sc.config, opts)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := report.Fprint(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb)
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(sb.String()), nil
}
