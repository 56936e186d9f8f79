package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParametersMixed(t *testing.T) {
	params := ParseParameters("(a: number, b = {x:1,y:2}, {c,d}: Props)")
	require.Len(t, params, 3)

	assert.Equal(t, Parameter{Name: "a", Type: "number"}, params[0])
	assert.Equal(t, Parameter{Name: "b", Default: "{x:1,y:2}"}, params[1])
	assert.Equal(t, Parameter{Name: "{c,d}", Type: "Props", Destructured: true}, params[2])
}

func TestParseParametersCombined(t *testing.T) {
	tests := []struct {
		in   string
		want Parameter
	}{
		{"count: number = 0", Parameter{Name: "count", Type: "number", Default: "0"}},
		{"label?: string", Parameter{Name: "label", Type: "string", Optional: true}},
		{"...rest: string[]", Parameter{Name: "rest", Type: "string[]", Rest: true}},
		{"{ a, b } = {}", Parameter{Name: "{ a, b }", Default: "{}", Destructured: true}},
		{"[first, second]: [A, B]", Parameter{Name: "[first, second]", Type: "[A, B]", Destructured: true}},
		{"private readonly http: HttpClient", Parameter{Name: "http", Type: "HttpClient"}},
		{"cb: (err: Error) => void", Parameter{Name: "cb", Type: "(err: Error) => void"}},
		{"x", Parameter{Name: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			params := ParseParameters(tt.in)
			require.Len(t, params, 1)
			assert.Equal(t, tt.want, params[0])
		})
	}
}

func TestSplitParametersNesting(t *testing.T) {
	parts := SplitParameters("m: Map<string, number>, fn: (a, b) => void, [x, y], { p: { q, r } }")
	assert.Equal(t, []string{
		"m: Map<string, number>",
		"fn: (a, b) => void",
		"[x, y]",
		"{ p: { q, r } }",
	}, parts)
}

func TestParseParametersEmpty(t *testing.T) {
	assert.Empty(t, ParseParameters(""))
	assert.Empty(t, ParseParameters("()"))
	assert.Empty(t, ParseParameters("  "))
}

func TestParseParametersStringDefaults(t *testing.T) {
	params := ParseParameters("sep = ', ', b")
	require.Len(t, params, 2)
	assert.Equal(t, Parameter{Name: "sep", Default: "', '"}, params[0])
	assert.Equal(t, Parameter{Name: "b"}, params[1])

	params = ParseParameters(`(label = "a = b", { x } = {}, tpl = ` + "`${a}, ${b}`" + `)`)
	require.Len(t, params, 3)
	assert.Equal(t, `"a = b"`, params[0].Default)
	assert.Equal(t, "label", params[0].Name)
	assert.Equal(t, "`${a}, ${b}`", params[2].Default)
}

func TestParseParametersComparisonDefault(t *testing.T) {
	params := ParseParameters("a = x < y, b")
	require.Len(t, params, 2)
	assert.Equal(t, Parameter{Name: "a", Default: "x < y"}, params[0])
	assert.Equal(t, Parameter{Name: "b"}, params[1])
}
