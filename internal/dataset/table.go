package dataset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Table is the in-memory dataset: the ordered roll records plus the
// categorical universes the dashboard controls are built from. It is
// loaded once and never mutated; filters produce derived slices, not
// new tables.
type Table struct {
	Records    []Record
	Characters []string // distinct, cast order first, then guests alphabetically
	RollTypes  []string // distinct, sorted
	Episodes   []int    // distinct, ascending
	MinEpisode int
	MaxEpisode int
}

// newTable indexes the record sequence.
func newTable(records []Record) *Table {
	t := &Table{Records: records}

	chars := make(map[string]bool)
	types := make(map[string]bool)
	episodes := make(map[int]bool)
	for _, r := range records {
		chars[r.Character] = true
		types[r.RollType] = true
		episodes[r.Episode] = true
	}

	for c := range chars {
		t.Characters = append(t.Characters, c)
	}
	sort.Slice(t.Characters, func(i, j int) bool {
		ci, cj := CastIndex(t.Characters[i]), CastIndex(t.Characters[j])
		if ci != cj {
			return ci < cj
		}
		return t.Characters[i] < t.Characters[j]
	})

	for rt := range types {
		t.RollTypes = append(t.RollTypes, rt)
	}
	sort.Strings(t.RollTypes)

	for ep := range episodes {
		t.Episodes = append(t.Episodes, ep)
	}
	sort.Ints(t.Episodes)

	if len(t.Episodes) > 0 {
		t.MinEpisode = t.Episodes[0]
		t.MaxEpisode = t.Episodes[len(t.Episodes)-1]
	}
	return t
}

// HasCharacter reports whether the character appears in the dataset or the
// main cast. Cast members are always selectable, even with no rolls on file.
func (t *Table) HasCharacter(name string) bool {
	if InCast(name) {
		return true
	}
	for _, c := range t.Characters {
		if c == name {
			return true
		}
	}
	return false
}

// EpisodesIn returns the dataset's distinct episodes inside [min, max],
// ascending.
func (t *Table) EpisodesIn(min, max int) []int {
	var out []int
	for _, ep := range t.Episodes {
		if ep >= min && ep <= max {
			out = append(out, ep)
		}
	}
	return out
}

// Load reads a dataset from disk. SQLite snapshots (.db, .sqlite) come from
// the importer; anything else is parsed as a headered CSV.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSnapshot(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("dataset: unsupported file type %q", filepath.Ext(path))
	}
}
