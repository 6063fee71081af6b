package jobs

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/agentic-research/gmextract/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) tree.Node {
	t.Helper()
	n, err := tree.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return n
}

// run executes one registered job and returns the printed lines.
func run(t *testing.T, jobName, doc string) []string {
	t.Helper()
	job, err := Lookup(jobName)
	require.NoError(t, err)
	return runJob(t, job, doc)
}

func runJob(t *testing.T, job Job, doc string) []string {
	t.Helper()
	var out bytes.Buffer
	r := &Runner{
		Source: func() (tree.Node, error) { return decode(t, doc), nil },
		Out:    &out,
	}
	_, ok := r.Run(job)
	require.True(t, ok, out.String())
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

func TestEndToEnd(t *testing.T) {
	doc := `{"Modifiers":[{"Name":"Power Surge","MODIFIER_TYPE":"DAMAGE","Description":"Deals 10% more damage."}]}`

	assert.Equal(t, []string{"MODIFIER_NAMES_START", "Power Surge", "MODIFIER_NAMES_END"},
		run(t, "modifier-names", doc))
	assert.Equal(t, []string{"FOUND_DESCRIPTIONS_START", "Deals 10% more damage.", "FOUND_DESCRIPTIONS_END"},
		run(t, "descriptions", doc))
}

func TestDescriptions(t *testing.T) {
	doc := `{
  "Hero": [{"Description": "b"}, {"Description": "   "}, {"Description": 12}],
  "WeaponItem": [{"Nested": {"Description": "a"}}, {"Description": "b"}]
}`
	assert.Equal(t, []string{"FOUND_DESCRIPTIONS_START", "a", "b", "FOUND_DESCRIPTIONS_END"},
		run(t, "descriptions", doc))
}

func TestHighTierThreshold(t *testing.T) {
	doc := `{"Modifiers": [
  {"MODIFIER_LEVEL": "4", "Description": "four"},
  {"MODIFIER_LEVEL": "3", "Description": "three"},
  {"MODIFIER_LEVEL": "abc", "Description": "letters"},
  {"MODIFIER_LEVEL": 5, "Description": "five"},
  {"Description": "no level"}
]}`
	assert.Equal(t,
		[]string{"HIGH_TIER_DESCRIPTIONS_START", "five", "four", "HIGH_TIER_DESCRIPTIONS_END"},
		run(t, "high-tier-descriptions", doc))
}

func TestLegendaryFlagEquivalence(t *testing.T) {
	spellings := []string{`"IsLegendary": true`, `"isLegendary": true`, `"Rarity": "LEGENDARY"`}

	for _, flag := range spellings {
		t.Run(flag, func(t *testing.T) {
			doc := `{"Items": [{"Name": "Crown", "Description": "Shiny.", ` + flag + `}]}`

			assert.Equal(t, Legendary, Classify(decode(t, doc).Get("Items").Elems()[0]))
			assert.Equal(t, []string{"LEGENDARY_DESCRIPTIONS_START", "Shiny.", "LEGENDARY_DESCRIPTIONS_END"},
				run(t, "legendary-descriptions", doc))
			assert.Equal(t, []string{"LEGENDARY_INFO_START", "NAME: Crown", "DESC: Shiny.", "---", "LEGENDARY_INFO_END"},
				run(t, "legendary-info", doc))
			assert.Equal(t, []string{"MODIFIER_NAMES_START", "Crown", "MODIFIER_NAMES_END"},
				run(t, "modifier-names", doc))
		})
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]Rarity{
		`{"IsLegendary": false}`:        Ordinary,
		`{"isLegendary": 0}`:            Ordinary,
		`{"Rarity": "COMMON"}`:          Unknown,
		`{"Name": "x"}`:                 Unknown,
		`{"IsLegendary": 1}`:            Legendary,
		`{"Rarity": "legendary"}`:       Unknown,
		`{"isLegendary": "true"}`:       Legendary,
		`{"IsLegendary": null, "a": 1}`: Ordinary,
		`{"IsLegendary": "false"}`:      Ordinary,
		`{"IsLegendary": "yes"}`:        Legendary,
	}
	for doc, want := range cases {
		assert.Equal(t, want, Classify(decode(t, doc)), doc)
	}
	assert.Equal(t, Unknown, Classify(tree.Wrap([]any{})))
}

func TestModifierNames(t *testing.T) {
	doc := `[
  {"Name": "Typed", "MODIFIER_TYPE": "SPEED"},
  {"Name": "Plain", "IsLegendary": false},
  {"Name": "Rare", "Rarity": "RARE"},
  {"Name": "Untyped"},
  {"MODIFIER_TYPE": "NAMELESS"},
  {"Name": "Typed", "MODIFIER_TYPE": "SPEED"}
]`
	assert.Equal(t, []string{"MODIFIER_NAMES_START", "Plain", "Typed", "MODIFIER_NAMES_END"},
		run(t, "modifier-names", doc))

	t.Run("empty name counts as present", func(t *testing.T) {
		doc := `[{"Name": "", "MODIFIER_TYPE": "X"}, {"Name": "Bolt", "MODIFIER_TYPE": "X"}]`
		assert.Equal(t, []string{"MODIFIER_NAMES_START", "", "Bolt", "MODIFIER_NAMES_END"},
			run(t, "modifier-names", doc))
	})
}

func TestDedupeByName(t *testing.T) {
	doc := `{
  "LegendaryModifiers": [
    {"Name": "Zeal", "IsLegendary": true, "Description": "first", "Constant": "Z", "Id": 1},
    {"Name": "Anger", "IsLegendary": true, "Constant": "A", "Id": 2, "Description": "only"}
  ],
  "Modifiers": [
    {"Name": "Zeal", "IsLegendary": true, "Description": "second", "Constant": "Z2", "Id": 3}
  ]
}`

	t.Run("legendary info keeps first", func(t *testing.T) {
		assert.Equal(t, []string{
			"LEGENDARY_INFO_START",
			"NAME: Anger", "DESC: only", "---",
			"NAME: Zeal", "DESC: first", "---",
			"LEGENDARY_INFO_END",
		}, run(t, "legendary-info", doc))
	})

	t.Run("special mods keeps last", func(t *testing.T) {
		assert.Equal(t, []string{
			"SPECIAL_MODS_START",
			"NAME: Anger", "DESC: only", "---",
			"NAME: Zeal", "DESC: second", "---",
			"SPECIAL_MODS_END",
		}, run(t, "special-mods", doc))
	})
}

func TestSpecialModsRequiresAllFields(t *testing.T) {
	doc := `[
  {"Constant": "A", "Name": "A", "Description": "", "Id": 1},
  {"Constant": "B", "Name": "B", "Description": "b"}
]`
	assert.Equal(t, []string{"SPECIAL_MODS_START", "NAME: A", "DESC: ", "---", "SPECIAL_MODS_END"},
		run(t, "special-mods", doc))
}

func TestIdempotence(t *testing.T) {
	doc := `{"Modifiers": [
  {"Name": "b", "MODIFIER_TYPE": "X", "Description": "d2", "isLegendary": true, "Constant": "b", "Id": 2},
  {"Name": "a", "MODIFIER_TYPE": "Y", "Description": "d1", "Rarity": "LEGENDARY", "Constant": "a", "Id": 1}
]}`
	for _, job := range Registry() {
		first := runJob(t, job, doc)
		second := runJob(t, job, doc)
		assert.Equal(t, first, second, job.Name)
	}
}

func TestRunnerFailures(t *testing.T) {
	job, err := Lookup("descriptions")
	require.NoError(t, err)

	t.Run("unreadable source", func(t *testing.T) {
		var out bytes.Buffer
		r := &Runner{Source: func() (tree.Node, error) { return tree.Node{}, errors.New("open document: missing") }, Out: &out}
		_, ok := r.Run(job)
		assert.False(t, ok)
		assert.Equal(t, "Error: open document: missing\n", out.String())
	})

	t.Run("malformed source", func(t *testing.T) {
		var out bytes.Buffer
		r := &Runner{Source: func() (tree.Node, error) { return tree.Decode(strings.NewReader(`{"a": [`)) }, Out: &out}
		_, ok := r.Run(job)
		assert.False(t, ok)
		assert.True(t, strings.HasPrefix(out.String(), "Error: "))
		assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	})

	t.Run("panic inside job", func(t *testing.T) {
		var out bytes.Buffer
		boom := Job{Name: "boom", Sentinel: "BOOM", Extract: func(tree.Node) Result { panic("kaboom") }}
		r := &Runner{Source: func() (tree.Node, error) { return tree.Node{}, nil }, Out: &out}
		_, ok := r.Run(boom)
		assert.False(t, ok)
		assert.Equal(t, "Error: kaboom\n", out.String())
	})

	t.Run("bad scope", func(t *testing.T) {
		var out bytes.Buffer
		r := &Runner{Source: func() (tree.Node, error) { return decode(t, `{}`), nil }, Scope: "$.Modifiers[", Out: &out}
		_, ok := r.Run(job)
		assert.False(t, ok)
		assert.Contains(t, out.String(), "invalid jsonpath")
	})
}

type memorySink struct{ results []Result }

func (m *memorySink) WriteResult(r Result) error {
	m.results = append(m.results, r)
	return nil
}

func TestRunnerScopeAndSink(t *testing.T) {
	doc := `{"Hero": [{"Description": "hero"}], "Modifiers": [{"Description": "mod"}]}`
	job, err := Lookup("descriptions")
	require.NoError(t, err)

	var out bytes.Buffer
	sink := &memorySink{}
	r := &Runner{
		Source: func() (tree.Node, error) { return decode(t, doc), nil },
		Scope:  "$.Modifiers[*]",
		Out:    &out,
		Sink:   sink,
	}
	res, ok := r.Run(job)
	require.True(t, ok)
	assert.Equal(t, "FOUND_DESCRIPTIONS_START\nmod\nFOUND_DESCRIPTIONS_END\n", out.String())
	require.Len(t, sink.results, 1)
	assert.Equal(t, res, sink.results[0])
	assert.Equal(t, "descriptions", res.Job)

	t.Run("section jobs ignore scope", func(t *testing.T) {
		doc := `{"Modifiers": [{"Name": "A", "MODIFIER_TYPE": "DAMAGE"}], "Hero": [{"Name": "Rex"}]}`
		for _, name := range []string{"modifier-stats", "schema"} {
			job, err := Lookup(name)
			require.NoError(t, err)
			assert.True(t, job.Unscoped, name)

			var out bytes.Buffer
			r := &Runner{
				Source: func() (tree.Node, error) { return decode(t, doc), nil },
				Scope:  "$.Modifiers[*]",
				Out:    &out,
			}
			_, ok := r.Run(job)
			require.True(t, ok, out.String())
			assert.NotContains(t, out.String(), "No Hero data found", name)
			if name == "modifier-stats" {
				assert.Contains(t, out.String(), "Unique Modifier Names: 1")
			}
		}
	})
}

func TestSearch(t *testing.T) {
	doc := `{"Modifiers": [{"Name": "Acceleration", "Id": 1}, {"Description": "Boosts aptitude"}]}`
	lines := runJob(t, Search("acceleration", "APTITUDE"), doc)
	assert.Equal(t, []string{
		"SEARCH_RESULTS_START",
		"--- SEARCHING ACCELERATION ---",
		"FOUND in key 'Name': Acceleration",
		`OBJECT: {"Id":1,"Name":"Acceleration"}`,
		"--- SEARCHING APTITUDE ---",
		"FOUND in key 'Description': Boosts aptitude",
		`OBJECT: {"Description":"Boosts aptitude"}`,
		"SEARCH_RESULTS_END",
	}, lines)

	t.Run("nested match precedes later sibling key", func(t *testing.T) {
		lines := runJob(t, Search("x"), `{"a": {"k": "x1"}, "b": "x2"}`)
		assert.Equal(t, []string{
			"SEARCH_RESULTS_START",
			"--- SEARCHING X ---",
			"FOUND in key 'k': x1",
			`OBJECT: {"k":"x1"}`,
			"FOUND in key 'b': x2",
			`OBJECT: {"a":{"k":"x1"},"b":"x2"}`,
			"SEARCH_RESULTS_END",
		}, lines)
	})
}

func TestModifierStats(t *testing.T) {
	doc := `{
  "Modifiers": [{"Name": "A", "MODIFIER_TYPE": "DAMAGE"}, {"Name": "B", "MODIFIER_TYPE": "DAMAGE"}],
  "LegendaryModifiers": [{"Name": "L"}, {"Name": "A"}]
}`
	assert.Equal(t, []string{
		"MODIFIER_STATS_START",
		"Unique Modifier Names: 3",
		"Unique Modifier Types: 3",
		"Sample Types: DAMAGE, LEGENDARY: A, LEGENDARY: L",
		"MODIFIER_STATS_END",
	}, run(t, "modifier-stats", doc))
}

func TestSchemaSample(t *testing.T) {
	doc := `{"Hero": [{"Name": "Rex", "Hp": 10}, {"Name": "Ivy"}]}`
	lines := run(t, "schema", doc)

	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "SCHEMA_SAMPLE_START", lines[0])
	assert.Equal(t, "--- HERO SAMPLE ---", lines[1])
	assert.Equal(t, "{", lines[2])
	assert.Equal(t, "SCHEMA_SAMPLE_END", lines[len(lines)-1])

	body := strings.Join(lines, "\n")
	assert.Contains(t, body, `"Rex"`)
	assert.NotContains(t, body, `"Ivy"`)
	assert.Contains(t, lines, "Hp: 1/2")
	assert.Contains(t, lines, "Name: 2/2")
	assert.Contains(t, lines, "--- WEAPONITEM SAMPLE ---")
	assert.Contains(t, lines, "No WeaponItem data found")
}

func TestLookup(t *testing.T) {
	_, err := Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
	assert.Contains(t, Names(), "special-mods")
	assert.Len(t, Names(), len(Registry()))
}
