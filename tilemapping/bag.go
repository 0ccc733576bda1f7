package tilemapping

import (
	"errors"
	"fmt"
	"slices"

	"lukechampine.com/frand"
)

var (
	ErrUnitInBag      = errors.New("unit is already in the bag")
	ErrUnknownUnit    = errors.New("unit does not belong to this letter distribution")
	ErrLetterOverflow = errors.New("returning unit would exceed the letter's starting count")
	ErrUnitNotInBag   = errors.New("unit is not in the bag")
)

// Randomizer picks indexes for the bag. *frand.RNG and *math/rand.Rand
// both satisfy it.
type Randomizer interface {
	Intn(n int) int
}

// NewRandomizer returns a randomizer seeded from the OS entropy source, or a
// deterministic one when seed is not empty.
func NewRandomizer(seed string) *frand.RNG {
	if seed == "" {
		return frand.New()
	}
	var key [32]byte
	copy(key[:], seed)
	for i := len(seed); i < len(key); i++ {
		key[i] = byte(i)
	}
	return NewRandomizerFromKey(key)
}

// NewRandomizerFromKey returns a deterministic randomizer for a 32-byte key.
func NewRandomizerFromKey(key [32]byte) *frand.RNG {
	return frand.NewCustom(key[:], 1024, 12)
}

// A Bag is the supply of undrawn units. Units are kept in no particular
// order; a draw picks a uniformly random index each time.
type Bag struct {
	dist       *LetterDistribution
	units      []Unit
	counts     [NumLetters]int
	randomizer Randomizer
}

// NewBag returns a full bag for ld.
func NewBag(ld *LetterDistribution, r Randomizer) *Bag {
	b := &Bag{
		dist:       ld,
		units:      ld.Units(),
		counts:     ld.counts,
		randomizer: r,
	}
	return b
}

func (b *Bag) LetterDistribution() *LetterDistribution {
	return b.dist
}

// DrawAtMost draws at most n units from the bag. It draws fewer if there are
// fewer than n left, and nothing at all if the bag is empty or n <= 0.
func (b *Bag) DrawAtMost(n int) []Unit {
	if n > len(b.units) {
		n = len(b.units)
	}
	if n <= 0 {
		return nil
	}
	drawn := make([]Unit, n)
	for i := range n {
		last := len(b.units) - 1
		j := b.randomizer.Intn(last + 1)
		drawn[i] = b.units[j]
		b.units[j] = b.units[last]
		b.units = b.units[:last]
		b.counts[drawn[i].Letter-FirstLetter]--
	}
	return drawn
}

// Draw is DrawAtMost; drawing from the supply is best-effort.
func (b *Bag) Draw(n int) []Unit {
	return b.DrawAtMost(n)
}

// Return puts a previously drawn unit back in the bag.
func (b *Bag) Return(u Unit) error {
	if !b.dist.Contains(u) {
		return fmt.Errorf("%v: %w", u, ErrUnknownUnit)
	}
	if b.Has(u.ID) {
		return fmt.Errorf("%v: %w", u, ErrUnitInBag)
	}
	if b.counts[u.Letter-FirstLetter] >= b.dist.Count(u.Letter) {
		return fmt.Errorf("%v: %w", u, ErrLetterOverflow)
	}
	b.units = append(b.units, u)
	b.counts[u.Letter-FirstLetter]++
	return nil
}

// RemoveUnits takes specific units out of the bag, for setting up a known
// position. Nothing is removed unless every id is in the bag.
func (b *Bag) RemoveUnits(ids ...UnitID) error {
	for i, id := range ids {
		if !b.Has(id) || slices.Contains(ids[:i], id) {
			return fmt.Errorf("%v: %w", id, ErrUnitNotInBag)
		}
	}
	for _, id := range ids {
		idx := slices.IndexFunc(b.units, func(u Unit) bool { return u.ID == id })
		b.counts[b.units[idx].Letter-FirstLetter]--
		b.units = slices.Delete(b.units, idx, idx+1)
	}
	return nil
}

// Has reports whether the unit with the given id is in the bag.
func (b *Bag) Has(id UnitID) bool {
	return slices.ContainsFunc(b.units, func(u Unit) bool { return u.ID == id })
}

func (b *Bag) TilesRemaining() int {
	return len(b.units)
}

// CountOf returns how many units of l remain.
func (b *Bag) CountOf(l Letter) int {
	if !l.Valid() {
		return 0
	}
	return b.counts[l-FirstLetter]
}

// Counts returns the remaining count of every letter in the distribution,
// including letters that have run out.
func (b *Bag) Counts() map[Letter]int {
	m := make(map[Letter]int, NumLetters)
	for _, l := range b.dist.Letters() {
		m[l] = b.CountOf(l)
	}
	return m
}

// Peek returns a copy of the units in the bag.
func (b *Bag) Peek() []Unit {
	return slices.Clone(b.units)
}

// Copy returns a deep copy of the bag. The copy shares the randomizer.
func (b *Bag) Copy() *Bag {
	return &Bag{
		dist:       b.dist,
		units:      slices.Clone(b.units),
		counts:     b.counts,
		randomizer: b.randomizer,
	}
}

func (b *Bag) String() string {
	return countsString(b.Counts())
}
