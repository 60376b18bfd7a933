package scenario_test

import (
	"testing"

	"github.com/delaneyj/depwatch/instance"
	"github.com/delaneyj/depwatch/observer"
	"github.com/delaneyj/depwatch/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCounter(t *testing.T) {
	s, err := scenario.Load("testdata/counter.yaml")
	require.NoError(t, err)
	assert.Equal(t, "counter", s.Name)

	res, err := scenario.Run(s)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Errors)

	assert.Equal(t, []string{
		"count: nil -> 0",
		"total: 0 -> 10",
		"count: 0 -> 5",
		"items: [1, 2] -> [1, 2]",
		"total: 10 -> 12",
		"count: 5 -> 6",
		`user.name: "ada" -> "grace"`,
		`label: "clicks" -> "taps"`,
		`user.name: "grace" -> nil`,
	}, res.Lines())

	steps := make([]int, len(res.Log))
	for i, e := range res.Log {
		steps[i] = e.Step
	}
	assert.Equal(t, []int{0, 1, 1, 3, 4, 4, 4, 5, 6}, steps)
	assert.Equal(t, 12, res.Instance.Get("total"))
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":          "data: [",
		"computed no path":  "computed: [{name: x}]",
		"watch no path":     "watch: [{immediate: true}]",
		"prop no name":      "props: [{type: String}]",
		"unknown prop type": "props: [{name: p, type: Date}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}

	_, err := scenario.Parse([]byte("computed: [{name: x}]"))
	assert.ErrorIs(t, err, scenario.ErrInvalidScenario)

	_, err = scenario.Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	s, err := scenario.Parse([]byte(`
computed:
  - {name: x, path: "a[0]"}
`))
	require.NoError(t, err)
	_, err = scenario.Run(s)
	assert.ErrorIs(t, err, observer.ErrInvalidPath)

	s, err = scenario.Parse([]byte(`
data: {count: 0}
steps:
  - push: {count: [1]}
`))
	require.NoError(t, err)
	_, err = scenario.Run(s)
	assert.ErrorIs(t, err, scenario.ErrInvalidStep)
	assert.EqualError(t, err, `scenario: step 1: scenario: invalid step: "count" is not a list`)
}

func TestRunNestedWrites(t *testing.T) {
	s, err := scenario.Parse([]byte(`
data:
  matrix: [[1, 2], [3]]
  cfg: {}
watch:
  - {path: matrix, deep: true}
  - {path: cfg, deep: true}
steps:
  - set: {matrix.0.1: 20}
  - set: {cfg.theme: dark}
  - set: {undeclared: 1}
`))
	require.NoError(t, err)

	res, err := scenario.Run(s)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"matrix: [[1, 20], [3]] -> [[1, 20], [3]]",
		`cfg: {theme: "dark"} -> {theme: "dark"}`,
	}, res.Lines())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "root level keys")
}

func TestParsePropType(t *testing.T) {
	pt, err := scenario.ParsePropType("String | Number")
	require.NoError(t, err)
	assert.Equal(t, instance.String|instance.Number, pt)

	pt, err = scenario.ParsePropType("")
	require.NoError(t, err)
	assert.Equal(t, instance.Any, pt)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "nil", scenario.Format(nil))
	assert.Equal(t, `"a"`, scenario.Format("a"))
	assert.Equal(t, "1.5", scenario.Format(1.5))
	assert.Equal(t, `{a: 1, b: [true]}`, scenario.Format(map[string]any{"b": []any{true}, "a": 1}))
}
