package stats

import (
	"reflect"
	"strings"
	"testing"

	"dice-analyzer/internal/dataset"
	"dice-analyzer/internal/filter"
)

func loadTable(t *testing.T, data string) *dataset.Table {
	t.Helper()
	table, err := dataset.ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	return table
}

func find(t *testing.T, report Report, name string) CharacterSummary {
	t.Helper()
	for _, c := range report.Characters {
		if c.Character == name {
			return c
		}
	}
	t.Fatalf("Character %q missing from report", name)
	return CharacterSummary{}
}

const threeRecordCSV = `episode,character,roll_type,total,damage,kill
1,Beau,d20,20,0,false
1,Beau,d20,1,0,false
2,Fjord,damage,15,15,true
`

func TestAggregate_ThreeRecordExample(t *testing.T) {
	table := loadTable(t, threeRecordCSV)
	cfg := filter.Config{EpisodeMin: 1, EpisodeMax: 1, Characters: []string{"Beau", "Fjord"}}

	report := Aggregate(cfg, filter.Apply(table, cfg))

	beau := find(t, report, "Beau")
	if beau.TotalRolls != 2 || beau.Nat20s != 1 || beau.Nat1s != 1 || beau.TotalDamage != 0 || beau.Kills != 0 {
		t.Errorf("Beau summary wrong: %+v", beau)
	}

	// Fjord has no rolls in [1,1] but was selected: all-zero row, not omitted.
	fjord := find(t, report, "Fjord")
	if fjord.TotalRolls != 0 || fjord.TotalDamage != 0 || fjord.Kills != 0 || fjord.AvgRoll != 0 {
		t.Errorf("Fjord should be all-zero: %+v", fjord)
	}
}

func TestAggregate_NoMatchingSelection(t *testing.T) {
	table := loadTable(t, threeRecordCSV)
	cfg := filter.Config{EpisodeMin: 1, EpisodeMax: 2, Characters: []string{"Caduceus"}}

	report := Aggregate(cfg, filter.Apply(table, cfg))
	if len(report.Characters) != 1 {
		t.Fatalf("Expected only Caduceus, got %d rows", len(report.Characters))
	}
	cad := report.Characters[0]
	if cad.Character != "Caduceus" || cad.TotalRolls != 0 {
		t.Errorf("Expected all-zero Caduceus row, got %+v", cad)
	}
	if report.Overview.TotalRolls != 0 || report.Overview.TopKiller != "" {
		t.Errorf("Overview should be empty: %+v", report.Overview)
	}
}

func TestAggregate_CountsSumToFilteredLength(t *testing.T) {
	table := loadTable(t, threeRecordCSV)
	cfg := filter.Everything(table)
	filtered := filter.Apply(table, cfg)

	report := Aggregate(cfg, filtered)
	sum := 0
	for _, c := range report.Characters {
		sum += c.TotalRolls
	}
	if sum != len(filtered) {
		t.Errorf("Per-character totals sum to %d, filtered length is %d", sum, len(filtered))
	}
	if report.Overview.TotalRolls != len(filtered) {
		t.Errorf("Overview total %d != %d", report.Overview.TotalRolls, len(filtered))
	}
}

func TestAggregate_NatsNeverExceedD20Rolls(t *testing.T) {
	table := loadTable(t, `episode,character,roll_type,die,total,damage,kill
1,Jester,attack,d20,20,0,false
1,Jester,attack,d20,20,0,false
2,Jester,damage,d6,6,6,false
3,Jester,save,d20,1,0,false
`)
	cfg := filter.Everything(table)
	report := Aggregate(cfg, filter.Apply(table, cfg))

	jester := find(t, report, "Jester")
	if jester.D20Rolls != 3 {
		t.Errorf("Expected 3 d20 rolls, got %d", jester.D20Rolls)
	}
	if jester.Nat20s > jester.D20Rolls || jester.Nat1s > jester.D20Rolls {
		t.Errorf("Nat counts exceed d20 rolls: %+v", jester)
	}
}

func TestAggregate_TopKillerTieBreaksByCastOrder(t *testing.T) {
	// Veth and Caleb tie on kills; Veth comes first in the cast ordering.
	table := loadTable(t, `episode,character,roll_type,total,damage,kill
1,Caleb,attack,18,20,true
2,Veth,attack,19,12,true
3,Beau,attack,5,3,false
`)
	cfg := filter.Everything(table)
	report := Aggregate(cfg, filter.Apply(table, cfg))

	if report.Overview.TopKiller != "Veth" {
		t.Errorf("Tie should break to Veth (cast order), got %q", report.Overview.TopKiller)
	}
}

func TestAggregate_RowOrderAndGuests(t *testing.T) {
	table := loadTable(t, `episode,character,roll_type,total,damage,kill
1,Nott the Brave,attack,10,0,false
1,Beau,attack,12,0,false
`)
	cfg := filter.Everything(table)
	report := Aggregate(cfg, filter.Apply(table, cfg))

	// Full cast reported even with no rolls, guests appended after.
	if len(report.Characters) != len(dataset.MainCast)+1 {
		t.Fatalf("Expected %d rows, got %d", len(dataset.MainCast)+1, len(report.Characters))
	}
	for i, name := range dataset.MainCast {
		if report.Characters[i].Character != name {
			t.Errorf("Row %d = %q, want cast member %q", i, report.Characters[i].Character, name)
		}
	}
	if last := report.Characters[len(report.Characters)-1]; last.Character != "Nott the Brave" {
		t.Errorf("Guest should be last, got %q", last.Character)
	}
}

func TestAggregate_AvgRollRounding(t *testing.T) {
	table := loadTable(t, `episode,character,roll_type,total,damage,kill
1,Beau,d20,20,0,false
1,Beau,d20,1,0,false
2,Beau,d20,1,0,false
`)
	cfg := filter.Everything(table)
	report := Aggregate(cfg, filter.Apply(table, cfg))

	beau := find(t, report, "Beau")
	if beau.AvgRoll != 7.33 {
		t.Errorf("AvgRoll = %v, want 7.33", beau.AvgRoll)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	table := loadTable(t, threeRecordCSV)
	cfg := filter.Everything(table)

	first := Aggregate(cfg, filter.Apply(table, cfg))
	second := Aggregate(cfg, filter.Apply(table, cfg))
	if !reflect.DeepEqual(first, second) {
		t.Error("Same config must produce identical aggregates")
	}
}
