package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MainCast is the fixed cast ordering. Summary rows and tie-breaks follow
// this order; anyone not listed here is a guest or NPC.
var MainCast = []string{"Beau", "Fjord", "Jester", "Veth", "Caleb", "Yasha", "Caduceus", "Molly"}

// Record is one logged dice roll.
type Record struct {
	Episode   int    `json:"episode"`
	Character string `json:"character"`
	RollType  string `json:"rollType"`
	Die       string `json:"die,omitempty"`
	Total     int    `json:"total"`
	Damage    int    `json:"damage"`
	Kill      bool   `json:"kill"`
	Nat1      bool   `json:"isNat1"`
	Nat20     bool   `json:"isNat20"`
}

// CastIndex returns the character's position in the main cast, or
// len(MainCast) for guests so that guests sort after the cast.
func CastIndex(name string) int {
	for i, c := range MainCast {
		if c == name {
			return i
		}
	}
	return len(MainCast)
}

// InCast reports whether the character is part of the main cast.
func InCast(name string) bool {
	return CastIndex(name) < len(MainCast)
}

var dieName = regexp.MustCompile(`^d\d+$`)

// deriveDie resolves the die kind for a row. Cleaned exports carry an
// explicit die column; older ones encode the die as the roll type itself
// ("d20" for a generic check).
func deriveDie(die, rollType string) string {
	if die != "" {
		return die
	}
	if dieName.MatchString(strings.ToLower(rollType)) {
		return strings.ToLower(rollType)
	}
	return ""
}

// ParseRecord builds a typed Record from a header-keyed row. Line is the
// 1-based position in the source file and is only used in error messages.
func ParseRecord(row map[string]string, line int) (Record, error) {
	episode, err := strconv.Atoi(strings.TrimSpace(row["episode"]))
	if err != nil {
		return Record{}, &ParseError{Line: line, Column: "episode", Msg: fmt.Sprintf("not an integer: %q", row["episode"])}
	}

	total, err := strconv.Atoi(strings.TrimSpace(row["total"]))
	if err != nil {
		return Record{}, &ParseError{Line: line, Column: "total", Msg: fmt.Sprintf("not an integer: %q", row["total"])}
	}

	damage := 0
	if raw := strings.TrimSpace(row["damage"]); raw != "" {
		damage, err = strconv.Atoi(raw)
		if err != nil {
			return Record{}, &ParseError{Line: line, Column: "damage", Msg: fmt.Sprintf("not an integer: %q", raw)}
		}
		if damage < 0 {
			return Record{}, &ParseError{Line: line, Column: "damage", Msg: fmt.Sprintf("negative damage: %d", damage)}
		}
	}

	kill, err := parseBool(row["kill"])
	if err != nil {
		return Record{}, &ParseError{Line: line, Column: "kill", Msg: err.Error()}
	}

	r := Record{
		Episode:   episode,
		Character: strings.TrimSpace(row["character"]),
		RollType:  strings.TrimSpace(row["roll_type"]),
		Die:       deriveDie(strings.ToLower(strings.TrimSpace(row["die"])), strings.TrimSpace(row["roll_type"])),
		Total:     total,
		Damage:    damage,
		Kill:      kill,
	}
	if r.Character == "" {
		return Record{}, &ParseError{Line: line, Column: "character", Msg: "empty character name"}
	}
	if r.RollType == "" {
		return Record{}, &ParseError{Line: line, Column: "roll_type", Msg: "empty roll type"}
	}

	// Nat flags only make sense for d20 rolls.
	if r.Die == "d20" {
		r.Nat1 = r.Total == 1
		r.Nat20 = r.Total == 20
	}
	return r, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("not a boolean: %q", raw)
}
