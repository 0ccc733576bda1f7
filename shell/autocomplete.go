package shell

import (
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/ennecoded/enneagrams/tiles"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g. "-games")
	Args    []string // Possible argument values (for non-option arguments)
	// TileArg is set for commands whose first argument is a tile id.
	TileArg bool
}

var commandMetadata = map[string]CommandMetadata{
	"autoplay": {
		Options: []string{"-games", "-threads", "-moves", "-file", "-seedfile", "-saveseeds"},
		Args:    []string{"log"},
	},
	"set":    {Args: lo.Keys(settable)},
	"expand": {Args: []string{"top", "bottom", "left", "right"}},
	"help": {
		Args: []string{"place", "dump", "drop", "expand", "autoplay", "script", "set"},
	},
	"place": {TileArg: true},
	"rack":  {TileArg: true},
	"dump":  {TileArg: true},
	"drop":  {TileArg: true, Args: []string{"rack", "dump", "cell-"}},
}

// Common command names for command completion
var commandNames = []string{
	"new", "show", "pool", "place", "rack", "dump", "drop", "expand",
	"reveal", "autoplay", "set", "script", "help", "exit",
}

// tileIDs returns the ids of the tiles in play, or nothing if there is no
// game.
func (c *ShellCompleter) tileIDs() []string {
	if c.sc.session == nil {
		return nil
	}
	return lo.Map(c.sc.session.State().Tiles(), func(t tiles.Tile, _ int) string {
		return string(t.ID)
	})
}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		// index of the argument being completed, not counting the command
		argIdx := len(fields) - 1
		if !endsWithSpace {
			argIdx--
		}

		metadata := commandMetadata[cmdName]
		switch {
		case strings.HasPrefix(prefix, "-"):
			completions = metadata.Options
		case metadata.TileArg && argIdx == 0:
			completions = c.tileIDs()
		case cmdName == "drop" && argIdx == 1:
			completions = metadata.Args
		case cmdName == "set" && argIdx == 0:
			completions = slices.Sorted(slices.Values(metadata.Args))
		case !metadata.TileArg && argIdx == 0 && len(metadata.Args) > 0:
			completions = metadata.Args
		case !metadata.TileArg && argIdx == 0:
			completions = metadata.Options
		}
	}

	// Filter completions based on prefix
	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(strings.ToUpper(completion), strings.ToUpper(prefix)) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len(prefix)
}
