package shell

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/ennecoded/enneagrams/game"
)

type tileJSON struct {
	ID     string `json:"id"`
	Letter string `json:"letter"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Placed bool   `json:"placed"`
}

type snapshotJSON struct {
	Supply         map[string]int `json:"supply"`
	Tiles          []tileJSON     `json:"tiles"`
	Rows           int            `json:"rows"`
	Cols           int            `json:"cols"`
	TilesRemaining int            `json:"tiles_remaining"`
	CanDump        bool           `json:"can_dump"`
}

func marshalSnapshot(snap game.Snapshot) ([]byte, error) {
	out := snapshotJSON{
		Supply:         map[string]int{},
		Tiles:          make([]tileJSON, 0, len(snap.Tiles)),
		Rows:           snap.Rows,
		Cols:           snap.Cols,
		TilesRemaining: snap.TilesRemaining,
		CanDump:        snap.CanDump,
	}
	for l, n := range snap.Supply {
		out.Supply[l.String()] = n
	}
	for _, t := range snap.Tiles {
		out.Tiles = append(out.Tiles, tileJSON{
			ID: string(t.ID), Letter: t.Letter.String(),
			Row: t.Row, Col: t.Col, Placed: t.Placed,
		})
	}
	return json.Marshal(out)
}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("enneagrams_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// Run executes a shell command line and pushes its output.
func Run(L *lua.LState) int {
	line := L.CheckString(1)
	sc := getShell(L)
	r, err := sc.run(line)
	if err != nil {
		log.Err(err).Str("line", line).Msg("error-executing-script-line")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	if r == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

// Snapshot pushes the current game as a table, or nil with no game.
func Snapshot(L *lua.LState) int {
	sc := getShell(L)
	if sc.session == nil {
		L.Push(lua.LNil)
		return 1
	}
	data, err := marshalSnapshot(sc.session.Snapshot())
	if err != nil {
		L.RaiseError("snapshot: %v", err)
		return 0
	}
	val, err := luajson.Decode(L, data)
	if err != nil {
		L.RaiseError("snapshot: %v", err)
		return 0
	}
	L.Push(val)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("enneagrams_shell", lsc)
	L.SetGlobal("enneagrams_run", L.NewFunction(Run))
	L.SetGlobal("enneagrams_snapshot", L.NewFunction(Snapshot))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
