package jobs

import (
	"strings"

	"github.com/agentic-research/gmextract/internal/tree"
)

// Rarity is the legendary classification of a record.
type Rarity int

const (
	// Unknown means the record carries no legendary flag at all.
	Unknown Rarity = iota
	// Ordinary means a legendary flag is present and false.
	Ordinary
	// Legendary means at least one spelling of the flag is set.
	Legendary
)

func (r Rarity) String() string {
	switch r {
	case Ordinary:
		return "ordinary"
	case Legendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// The game database spells the legendary flag three ways.
const (
	keyIsLegendary      = "IsLegendary"
	keyIsLegendaryLower = "isLegendary"
	keyRarity           = "Rarity"
	rarityLegendary     = "LEGENDARY"
)

// Classify folds the equivalent legendary spellings into one Rarity.
// A Rarity other than LEGENDARY is not treated as a flag.
func Classify(n tree.Node) Rarity {
	if n.Kind() != tree.Mapping {
		return Unknown
	}
	if n.Get(keyIsLegendary).Truthy() || n.Get(keyIsLegendaryLower).Truthy() {
		return Legendary
	}
	if s, ok := n.Get(keyRarity).Str(); ok && s == rarityLegendary {
		return Legendary
	}
	if n.Has(keyIsLegendary) || n.Has(keyIsLegendaryLower) {
		return Ordinary
	}
	return Unknown
}

// description returns a record's Description when it is a string with
// visible content.
func description(n tree.Node) (string, bool) {
	s, ok := n.Get("Description").Str()
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// name returns a record's Name rendered as text; empty names do not count.
func name(n tree.Node) (string, bool) {
	s := n.Get("Name").Text()
	return s, s != ""
}
