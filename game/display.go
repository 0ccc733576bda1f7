package game

import (
	"fmt"
	"strings"

	"github.com/ennecoded/enneagrams/board"
	"github.com/ennecoded/enneagrams/tilemapping"
)

// ToDisplayText turns the state into a displayable string: the grid, the
// rack with tile ids, and the supply.
func (s State) ToDisplayText() string {
	if !s.Started() {
		return "no game in progress"
	}
	letters := map[board.Position]tilemapping.Letter{}
	for _, t := range s.registry.OnGrid() {
		letters[board.Position{Row: t.Row, Col: t.Col}] = t.Letter
	}
	var sb strings.Builder
	sb.WriteString(s.grid.ToDisplayText(letters))

	rack := s.registry.OnRack()
	fmt.Fprintf(&sb, "Rack (%d):", len(rack))
	for i, t := range rack {
		if i%8 == 0 {
			sb.WriteString("\n  ")
		}
		fmt.Fprintf(&sb, "%-6s", t.ID)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Supply (%d remaining): %v\n", s.bag.TilesRemaining(), s.bag)
	return sb.String()
}

// ToDisplayText shows the session state, and whether dumping is allowed.
func (s *Session) ToDisplayText() string {
	txt := s.state.ToDisplayText()
	if !s.state.Started() {
		return txt
	}
	if s.resolver.CanDump(s.state) {
		return txt + "Dump: open\n"
	}
	return txt + fmt.Sprintf("Dump: closed (needs %d in supply)\n", s.Rules().DumpDraw())
}
