package tilemapping

import (
	"fmt"
	"strconv"
	"strings"
)

// A Letter is one of the 26 upper-case English letters. Tiles carry no
// score and there are no blanks, so the byte value is the ASCII code.
type Letter byte

const (
	FirstLetter Letter = 'A'
	LastLetter  Letter = 'Z'
	// NumLetters is the size of the alphabet.
	NumLetters = int(LastLetter-FirstLetter) + 1
)

// Valid reports whether l is in the A-Z range.
func (l Letter) Valid() bool {
	return l >= FirstLetter && l <= LastLetter
}

func (l Letter) String() string {
	return string(rune(l))
}

// ToLetter converts a user-supplied string such as "e" or "E" into a
// Letter.
func ToLetter(s string) (Letter, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return 0, fmt.Errorf("%q is not a single letter", s)
	}
	l := Letter(strings.ToUpper(s)[0])
	if !l.Valid() {
		return 0, fmt.Errorf("%q is not in the range A-Z", s)
	}
	return l, nil
}

// UnitID identifies one physical tile of a distribution, for example the
// fourth E is "E-3". A tile keeps the id of the unit it was drawn from, so
// a returned tile goes back into the bag as the same unit.
type UnitID string

// NewUnitID builds the id of the idx'th unit of letter l.
func NewUnitID(l Letter, idx int) UnitID {
	return UnitID(l.String() + "-" + strconv.Itoa(idx))
}

// Parse splits the id back into its letter and index. Only the form built
// by NewUnitID is accepted, so every unit has exactly one id.
func (id UnitID) Parse() (Letter, int, error) {
	ls, idxs, ok := strings.Cut(string(id), "-")
	if !ok {
		return 0, 0, fmt.Errorf("malformed unit id %q", string(id))
	}
	l, err := ToLetter(ls)
	if err != nil {
		return 0, 0, err
	}
	idx, err := strconv.Atoi(idxs)
	if err != nil || idx < 0 || NewUnitID(l, idx) != id {
		return 0, 0, fmt.Errorf("malformed unit id %q", string(id))
	}
	return l, idx, nil
}

// A Unit is a single drawable tile: an identity and its letter.
type Unit struct {
	ID     UnitID
	Letter Letter
}

func (u Unit) String() string {
	return string(u.ID)
}
