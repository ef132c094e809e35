// Package filter turns dashboard control state into a derived view of the
// roll table. Filtering is pure: same config and table, same output.
package filter

import (
	"errors"
	"fmt"

	"dice-analyzer/internal/dataset"
)

var (
	// ErrInvalidRange is returned when the episode range is inverted.
	ErrInvalidRange = errors.New("episode range start exceeds end")
	// ErrUnknownCharacter is returned when a selected character is neither
	// in the main cast nor anywhere in the dataset.
	ErrUnknownCharacter = errors.New("unknown character")
)

// Config is one dashboard filter state.
type Config struct {
	EpisodeMin int
	EpisodeMax int
	// Characters restricts the view to the named characters. Empty means
	// everyone.
	Characters []string
	// IncludeGuests keeps guest and NPC rolls in the view. Ignored when
	// Characters is non-empty (an explicit selection wins).
	IncludeGuests bool
}

// Everything returns the widest filter for a table: full episode range,
// all characters, guests included.
func Everything(t *dataset.Table) Config {
	return Config{
		EpisodeMin:    t.MinEpisode,
		EpisodeMax:    t.MaxEpisode,
		IncludeGuests: true,
	}
}

// Validate rejects impossible configurations before any filtering runs.
func (c Config) Validate(t *dataset.Table) error {
	if c.EpisodeMin > c.EpisodeMax {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, c.EpisodeMin, c.EpisodeMax)
	}
	for _, name := range c.Characters {
		if !t.HasCharacter(name) {
			return fmt.Errorf("%w: %q", ErrUnknownCharacter, name)
		}
	}
	return nil
}

// Apply returns the subsequence of the table's records matching the config,
// in the table's order. A zero-match result is an empty slice, not an error.
func Apply(t *dataset.Table, c Config) []dataset.Record {
	selected := make(map[string]bool, len(c.Characters))
	for _, name := range c.Characters {
		selected[name] = true
	}

	out := []dataset.Record{}
	for _, r := range t.Records {
		if r.Episode < c.EpisodeMin || r.Episode > c.EpisodeMax {
			continue
		}
		if len(selected) > 0 {
			if !selected[r.Character] {
				continue
			}
		} else if !c.IncludeGuests && !dataset.InCast(r.Character) {
			continue
		}
		out = append(out, r)
	}
	return out
}
