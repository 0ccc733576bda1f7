package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/ennecoded/enneagrams/config"
	"github.com/ennecoded/enneagrams/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with `new`")
)

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	session *game.Session
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{config: cfg, out: out}
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32menneagrams>\033[0m ",
		HistoryFile:     "/tmp/enneagrams_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

// extractFields splits a line into a command, its positional arguments, and
// its -options. Every option takes exactly one value; repeating an option
// collects all of its values.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}

	lastWasOption := false
	lastOption := ""
	for _, f := range fields[1:] {
		if lastWasOption {
			lastWasOption = false
			options[lastOption] = append(options[lastOption], f)
			continue
		}
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			lastWasOption = true
			lastOption = f[1:]
			continue
		}
		args = append(args, f)
	}
	if lastWasOption {
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "pool":
		return sc.pool(cmd)
	case "place", "p":
		return sc.place(cmd)
	case "rack", "r":
		return sc.rack(cmd)
	case "dump", "d":
		return sc.dump(cmd)
	case "drop":
		return sc.drop(cmd)
	case "expand", "x":
		return sc.expand(cmd)
	case "reveal", "peel":
		return sc.reveal(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "set":
		return sc.set(cmd)
	case "script":
		return sc.script(cmd)
	case "help", "h", "?":
		return sc.help(cmd)
	}
	msg := fmt.Sprintf("command %q not found", cmd.cmd)
	log.Info().Msg(msg)
	return nil, errors.New(msg)
}

func (sc *ShellController) run(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if errors.Is(err, errNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sc.dispatch(cmd)
}

// Execute runs a single line. It returns true if the line asked the shell
// to exit.
func (sc *ShellController) Execute(sig chan os.Signal, line string) bool {
	line = strings.TrimSpace(line)
	if line == "exit" || line == "quit" {
		sig <- syscall.SIGINT
		return true
	}
	resp, err := sc.run(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
	return false
}

// Loop reads lines until exit, EOF or an interrupt on an empty line. The
// readline instance is closed by Cleanup.
func (sc *ShellController) Loop(sig chan os.Signal) {
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if sc.Execute(sig, line) {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	if sc.l != nil {
		sc.l.Close()
	}
}
