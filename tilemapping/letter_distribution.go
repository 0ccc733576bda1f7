package tilemapping

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ennecoded/enneagrams/config"
)

//go:embed data/english.yaml
var englishYAML []byte

// LetterDistribution encodes how many of each letter a fresh supply holds.
type LetterDistribution struct {
	Name       string
	counts     [NumLetters]int
	numLetters int
}

// distributionFile is the on-disk yaml shape:
//
//	name: english
//	letters:
//	  A: 13
//	  B: 3
type distributionFile struct {
	Name    string         `yaml:"name"`
	Letters map[string]int `yaml:"letters"`
}

// ScanLetterDistribution parses a yaml letter distribution.
func ScanLetterDistribution(data io.Reader) (*LetterDistribution, error) {
	var df distributionFile
	dec := yaml.NewDecoder(data)
	dec.KnownFields(true)
	if err := dec.Decode(&df); err != nil {
		return nil, fmt.Errorf("decoding letter distribution: %w", err)
	}
	counts := map[Letter]int{}
	for k, n := range df.Letters {
		l, err := ToLetter(k)
		if err != nil {
			return nil, err
		}
		if _, dup := counts[l]; dup {
			return nil, fmt.Errorf("letter %v listed twice", l)
		}
		counts[l] = n
	}
	return NewLetterDistribution(df.Name, counts)
}

// NewLetterDistribution builds a distribution from letter counts. Letters
// that are not mentioned have a count of zero.
func NewLetterDistribution(name string, counts map[Letter]int) (*LetterDistribution, error) {
	ld := &LetterDistribution{Name: strings.ToLower(name)}
	for l, n := range counts {
		if !l.Valid() {
			return nil, fmt.Errorf("letter %q is not in the range A-Z", rune(l))
		}
		if n < 0 {
			return nil, fmt.Errorf("letter %v has a negative count", l)
		}
		ld.counts[l-FirstLetter] = n
		ld.numLetters += n
	}
	if ld.numLetters == 0 {
		return nil, errors.New("letter distribution is empty")
	}
	return ld, nil
}

// Count returns the starting count of l.
func (ld *LetterDistribution) Count(l Letter) int {
	if !l.Valid() {
		return 0
	}
	return ld.counts[l-FirstLetter]
}

// Letters returns the letters with a non-zero count, in alphabetical order.
func (ld *LetterDistribution) Letters() []Letter {
	ls := make([]Letter, 0, NumLetters)
	for i, n := range ld.counts {
		if n > 0 {
			ls = append(ls, FirstLetter+Letter(i))
		}
	}
	return ls
}

// Distribution returns the starting count of every letter with a non-zero
// count.
func (ld *LetterDistribution) Distribution() map[Letter]int {
	m := make(map[Letter]int, NumLetters)
	for _, l := range ld.Letters() {
		m[l] = ld.Count(l)
	}
	return m
}

func (ld *LetterDistribution) NumTotalTiles() int {
	return ld.numLetters
}

// Units expands the distribution into every unit it contains, in letter
// order: A-0 ... A-12, B-0, ...
func (ld *LetterDistribution) Units() []Unit {
	units := make([]Unit, 0, ld.numLetters)
	for _, l := range ld.Letters() {
		for i := 0; i < ld.Count(l); i++ {
			units = append(units, Unit{ID: NewUnitID(l, i), Letter: l})
		}
	}
	return units
}

// Contains reports whether u is one of the units of this distribution.
func (ld *LetterDistribution) Contains(u Unit) bool {
	l, idx, err := u.ID.Parse()
	if err != nil || l != u.Letter {
		return false
	}
	return idx < ld.Count(l)
}

// MakeBag returns a full bag of tiles that draws with r.
func (ld *LetterDistribution) MakeBag(r Randomizer) *Bag {
	return NewBag(ld, r)
}

// EnglishLetterDistribution returns the standard 144-tile distribution.
func EnglishLetterDistribution() (*LetterDistribution, error) {
	return ScanLetterDistribution(bytes.NewReader(englishYAML))
}

// NamedLetterDistribution loads a letter distribution by name. "english" is
// built in; anything else is read from <distribution-path>/<name>.yaml.
func NamedLetterDistribution(cfg *config.Config, name string) (*LetterDistribution, error) {
	name = strings.ToLower(name)
	if name == "english" {
		return EnglishLetterDistribution()
	}
	filename := filepath.Join(cfg.GetString(config.ConfigDistributionPath), name+".yaml")
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	ld, err := ScanLetterDistribution(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if ld.Name == "" {
		ld.Name = name
	}
	return ld, nil
}

// String shows the distribution as "A:13 B:3 ...".
func (ld *LetterDistribution) String() string {
	return countsString(ld.Distribution())
}

func countsString(counts map[Letter]int) string {
	ls := make([]Letter, 0, len(counts))
	for l := range counts {
		ls = append(ls, l)
	}
	sort.Slice(ls, func(i, j int) bool { return ls[i] < ls[j] })
	var sb strings.Builder
	for i, l := range ls {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%d", l, counts[l])
	}
	return sb.String()
}
