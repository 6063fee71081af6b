// Package jobs holds the extraction jobs run over the game database.
// Each job pairs one record predicate with a projection and a dedupe
// policy, and reports its result between a pair of sentinel lines.
package jobs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agentic-research/gmextract/internal/tree"
)

// ErrUnknownJob is returned by Lookup for names that are not registered.
var ErrUnknownJob = errors.New("unknown job")

// highTierLevel is the lowest MODIFIER_LEVEL counted as high tier.
const highTierLevel = 4

// Job is one named extraction over a document tree.
type Job struct {
	Name     string
	Sentinel string
	Summary  string
	// Unscoped jobs address top-level sections by name and always see the
	// whole document, whatever the runner's Scope.
	Unscoped bool
	Extract  func(root tree.Node) Result
}

// Registry returns the report jobs in their default run order.
func Registry() []Job {
	return []Job{
		{
			Name:     "descriptions",
			Sentinel: "FOUND_DESCRIPTIONS",
			Summary:  "every non-empty Description",
			Extract:  descriptionsWhere(func(tree.Node) bool { return true }),
		},
		{
			Name:     "legendary-descriptions",
			Sentinel: "LEGENDARY_DESCRIPTIONS",
			Summary:  "Descriptions of legendary records",
			Extract: descriptionsWhere(func(n tree.Node) bool {
				return Classify(n) == Legendary
			}),
		},
		{
			Name:     "high-tier-descriptions",
			Sentinel: "HIGH_TIER_DESCRIPTIONS",
			Summary:  fmt.Sprintf("Descriptions of records with MODIFIER_LEVEL >= %d", highTierLevel),
			Extract: descriptionsWhere(func(n tree.Node) bool {
				lvl, ok := n.Get("MODIFIER_LEVEL").Int()
				return ok && lvl >= highTierLevel
			}),
		},
		{
			Name:     "modifier-names",
			Sentinel: "MODIFIER_NAMES",
			Summary:  "Names of records typed as modifiers or flagged legendary",
			Extract:  modifierNames,
		},
		{
			Name:     "legendary-info",
			Sentinel: "LEGENDARY_INFO",
			Summary:  "Name and Description of legendary records, first per name",
			Extract:  legendaryInfo,
		},
		{
			Name:     "special-mods",
			Sentinel: "SPECIAL_MODS",
			Summary:  "modifier definitions carrying Constant, Name, Description and Id",
			Extract:  specialMods,
		},
		{
			Name:     "modifier-stats",
			Sentinel: "MODIFIER_STATS",
			Summary:  "counts of unique modifier names and types",
			Unscoped: true,
			Extract:  modifierStats,
		},
		{
			Name:     "schema",
			Sentinel: "SCHEMA_SAMPLE",
			Summary:  "first record and field coverage of the Hero and WeaponItem sections",
			Unscoped: true,
			Extract:  schemaSample,
		},
	}
}

// Names lists the registered job names, sorted.
func Names() []string {
	var names []string
	for _, j := range Registry() {
		names = append(names, j.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a registered job by name.
func Lookup(name string) (Job, error) {
	for _, j := range Registry() {
		if j.Name == name {
			return j, nil
		}
	}
	return Job{}, fmt.Errorf("%w: %q", ErrUnknownJob, name)
}

func descriptionsWhere(pred func(tree.Node) bool) func(tree.Node) Result {
	return func(root tree.Node) Result {
		set := tree.Collect(root, func(n tree.Node) (string, bool) {
			if !pred(n) {
				return "", false
			}
			return description(n)
		}, tree.NewTextSet())
		return Result{Layout: Lines, Lines: set.Sorted()}
	}
}

func modifierNames(root tree.Node) Result {
	set := tree.Collect(root, func(n tree.Node) (string, bool) {
		// Presence is enough here; an empty Name is still a modifier name.
		if !n.Has("Name") {
			return "", false
		}
		if !n.Has("MODIFIER_TYPE") && Classify(n) == Unknown {
			return "", false
		}
		return n.Get("Name").Text(), true
	}, tree.NewTextSet())
	return Result{Layout: Lines, Lines: set.Sorted()}
}

func legendaryInfo(root tree.Node) Result {
	list := tree.Collect(root, func(n tree.Node) (tree.Entry, bool) {
		if Classify(n) != Legendary {
			return tree.Entry{}, false
		}
		nm, ok := name(n)
		if !ok {
			return tree.Entry{}, false
		}
		return tree.Entry{Name: nm, Description: n.Get("Description").Text()}, true
	}, tree.NewEntryList())
	return Result{Layout: Pairs, Entries: list.FirstByName()}
}

func specialMods(root tree.Node) Result {
	index := tree.Collect(root, func(n tree.Node) (tree.Entry, bool) {
		for _, k := range []string{"Constant", "Name", "Description", "Id"} {
			if !n.Has(k) {
				return tree.Entry{}, false
			}
		}
		return tree.Entry{Name: n.Get("Name").Text(), Description: n.Get("Description").Text()}, true
	}, tree.NewEntryIndex())
	return Result{Layout: Pairs, Entries: index.Sorted()}
}
