package jobs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentic-research/gmextract/internal/tree"
)

const sampleTypeLimit = 10

// schemaSections are the sections sampled by the schema job.
var schemaSections = []string{"Hero", "WeaponItem"}

// Search builds a job reporting every string field containing one of terms,
// compared case-insensitively. Matches for each term are grouped under a
// "--- SEARCHING <TERM> ---" header.
func Search(terms ...string) Job {
	return Job{
		Name:     "search",
		Sentinel: "SEARCH_RESULTS",
		Summary:  "string fields containing the given terms",
		Extract: func(root tree.Node) Result {
			var lines []string
			for _, term := range terms {
				lines = append(lines, fmt.Sprintf("--- SEARCHING %s ---", strings.ToUpper(term)))
				lines = append(lines, searchTerm(root, term)...)
			}
			return Result{Layout: Lines, Lines: lines}
		},
	}
}

// searchTerm visits mapping keys in sorted order and descends into each
// value before moving on to the next key, so a match nested under "a" is
// reported ahead of a match on sibling key "b".
func searchTerm(root tree.Node, term string) []string {
	needle := strings.ToLower(term)
	var lines []string
	var walk func(n tree.Node)
	walk = func(n tree.Node) {
		switch n.Kind() {
		case tree.Mapping:
			for _, k := range n.Keys() {
				v := n.Get(k)
				if s, ok := v.Str(); ok && strings.Contains(strings.ToLower(s), needle) {
					lines = append(lines,
						fmt.Sprintf("FOUND in key '%s': %s", k, s),
						"OBJECT: "+tree.JSON(n, 0),
					)
				}
				walk(v)
			}
		case tree.Sequence:
			for _, e := range n.Elems() {
				walk(e)
			}
		}
	}
	walk(root)
	return lines
}

func modifierStats(root tree.Node) Result {
	names := tree.NewTextSet()
	types := tree.NewTextSet()

	for _, m := range tree.MustSelect(root, "$.Modifiers[*]").Elems() {
		names.Add(m.Get("Name").Text())
		types.Add(m.Get("MODIFIER_TYPE").Text())
	}
	for _, m := range tree.MustSelect(root, "$.LegendaryModifiers[*]").Elems() {
		nm := m.Get("Name").Text()
		names.Add(nm)
		types.Add("LEGENDARY: " + nm)
	}

	sample := types.Sorted()
	if len(sample) > sampleTypeLimit {
		sample = sample[:sampleTypeLimit]
	}
	return Result{Layout: Lines, Lines: []string{
		fmt.Sprintf("Unique Modifier Names: %d", names.Len()),
		fmt.Sprintf("Unique Modifier Types: %d", types.Len()),
		"Sample Types: " + strings.Join(sample, ", "),
	}}
}

func schemaSample(root tree.Node) Result {
	var lines []string
	for _, section := range schemaSections {
		records := tree.MustSelect(root, fmt.Sprintf("$.%s[*]", section)).Elems()
		lines = append(lines, fmt.Sprintf("--- %s SAMPLE ---", strings.ToUpper(section)))
		if len(records) == 0 {
			lines = append(lines, fmt.Sprintf("No %s data found", section))
			continue
		}
		lines = append(lines, strings.Split(tree.JSON(records[0], 2), "\n")...)
		lines = append(lines, fieldCoverage(records)...)
	}
	return Result{Layout: Lines, Lines: lines}
}

// fieldCoverage counts, per top-level field, how many records carry it.
func fieldCoverage(records []tree.Node) []string {
	counts := make(map[string]int)
	for _, rec := range records {
		for _, k := range rec.Keys() {
			counts[k]++
		}
	}
	fields := make([]string, 0, len(counts))
	for f := range counts {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = fmt.Sprintf("%s: %d/%d", f, counts[f], len(records))
	}
	return lines
}
