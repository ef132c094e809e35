// Package stats computes the grouped summaries behind the dashboard widgets:
// per-character roll counts, nat-1/nat-20 tallies, roll-type distributions,
// damage sums, and kill counts.
package stats

import (
	"math"
	"sort"

	"dice-analyzer/internal/dataset"
	"dice-analyzer/internal/filter"
)

// CharacterSummary is one row of the summary table.
type CharacterSummary struct {
	Character   string         `json:"character"`
	TotalRolls  int            `json:"totalRolls"`
	AvgRoll     float64        `json:"avgRoll"`
	Nat1s       int            `json:"nat1s"`
	Nat20s      int            `json:"nat20s"`
	D20Rolls    int            `json:"d20Rolls"`
	RollTypes   map[string]int `json:"rollTypes"`
	TotalDamage int            `json:"totalDamage"`
	Kills       int            `json:"kills"`
}

// Overview holds the headline metrics. TopKiller is empty when the filtered
// view has no kills at all.
type Overview struct {
	TotalRolls  int    `json:"totalRolls"`
	TotalDamage int    `json:"totalDamage"`
	TopKiller   string `json:"topKiller"`
}

// Report is the full aggregate output for one filter state.
type Report struct {
	Characters []CharacterSummary `json:"characters"`
	Overview   Overview           `json:"overview"`
}

// Aggregate computes a Report over an already-filtered record sequence.
//
// The report universe is the config's character selection when one is set;
// otherwise the main cast plus any guest with rolls in the view. Characters
// with zero matching records get an all-zero row rather than being omitted.
func Aggregate(cfg filter.Config, filtered []dataset.Record) Report {
	universe := reportUniverse(cfg, filtered)

	byChar := make(map[string]*CharacterSummary, len(universe))
	order := make([]string, 0, len(universe))
	for _, name := range universe {
		if _, ok := byChar[name]; ok {
			continue
		}
		byChar[name] = &CharacterSummary{Character: name, RollTypes: map[string]int{}}
		order = append(order, name)
	}

	totals := make(map[string]int, len(universe))
	for _, r := range filtered {
		s, ok := byChar[r.Character]
		if !ok {
			// Record outside the report universe; an explicit selection
			// already excluded it during filtering.
			continue
		}
		s.TotalRolls++
		totals[r.Character] += r.Total
		s.RollTypes[r.RollType]++
		s.TotalDamage += r.Damage
		if r.Die == "d20" {
			s.D20Rolls++
		}
		if r.Nat1 {
			s.Nat1s++
		}
		if r.Nat20 {
			s.Nat20s++
		}
		if r.Kill {
			s.Kills++
		}
	}

	// Cast order first, guests after, alphabetical within each group.
	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := dataset.CastIndex(order[i]), dataset.CastIndex(order[j])
		if ci != cj {
			return ci < cj
		}
		return order[i] < order[j]
	})

	report := Report{Characters: make([]CharacterSummary, 0, len(order))}
	for _, name := range order {
		s := byChar[name]
		if s.TotalRolls > 0 {
			s.AvgRoll = math.Round(float64(totals[name])/float64(s.TotalRolls)*100) / 100
		}
		report.Characters = append(report.Characters, *s)
		report.Overview.TotalRolls += s.TotalRolls
		report.Overview.TotalDamage += s.TotalDamage
	}
	report.Overview.TopKiller = topKiller(report.Characters)
	return report
}

// topKiller picks the character with the most kills. Rows arrive in cast
// order, so a strict comparison makes ties fall to the earliest cast member.
func topKiller(rows []CharacterSummary) string {
	best := ""
	bestKills := 0
	for _, s := range rows {
		if s.Kills > bestKills {
			best = s.Character
			bestKills = s.Kills
		}
	}
	return best
}

func reportUniverse(cfg filter.Config, filtered []dataset.Record) []string {
	if len(cfg.Characters) > 0 {
		return cfg.Characters
	}
	universe := append([]string{}, dataset.MainCast...)
	seen := make(map[string]bool, len(universe))
	for _, name := range universe {
		seen[name] = true
	}
	for _, r := range filtered {
		if !seen[r.Character] {
			seen[r.Character] = true
			universe = append(universe, r.Character)
		}
	}
	return universe
}
