package board

import (
	"fmt"
	"strings"

	"github.com/ennecoded/enneagrams/tilemapping"
)

// ToDisplayText renders the grid with the given letters on it. Columns are
// labelled with their index modulo 10, rows with their full index.
func (g Grid) ToDisplayText(letters map[Position]tilemapping.Letter) string {
	var sb strings.Builder
	sb.WriteString("    ")
	for c := 0; c < g.Cols; c++ {
		fmt.Fprintf(&sb, "%d ", c%10)
	}
	sb.WriteString("\n")
	sb.WriteString("    " + strings.Repeat("-", g.Cols*2) + "\n")
	for r := 0; r < g.Rows; r++ {
		fmt.Fprintf(&sb, "%3d|", r)
		for c := 0; c < g.Cols; c++ {
			if l, ok := letters[Position{Row: r, Col: c}]; ok {
				sb.WriteString(l.String())
			} else {
				sb.WriteString(".")
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("    " + strings.Repeat("-", g.Cols*2) + "\n")
	return "\n" + sb.String()
}
