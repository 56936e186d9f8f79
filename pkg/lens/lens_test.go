package lens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/jsgraph/pkg/graph"
	"github.com/ritzau/jsgraph/pkg/model"
)

// a.ts -> b.ts -> c.ts -> d.ts, b.ts uses hook useB
func chain(t *testing.T) *graph.KnowledgeGraph {
	t.Helper()
	g := graph.New()
	for _, f := range []string{"a.ts", "b.ts", "c.ts", "d.ts"} {
		g.AddNode(model.FileID(f), model.KindFile, map[string]interface{}{model.AttrPath: f})
	}
	g.AddNode(model.HookID("useB"), model.KindHook, nil)
	require.NoError(t, g.AddEdge(model.FileID("a.ts"), model.FileID("b.ts"), model.RelImports))
	require.NoError(t, g.AddEdge(model.FileID("b.ts"), model.FileID("c.ts"), model.RelImports))
	require.NoError(t, g.AddEdge(model.FileID("c.ts"), model.FileID("d.ts"), model.RelImports))
	require.NoError(t, g.AddEdge(model.FileID("b.ts"), model.HookID("useB"), model.RelUsesHook))
	return g
}

func TestComputeDistancesFollowsBothDirections(t *testing.T) {
	g := chain(t)
	d := ComputeDistances(g, &Config{Selected: []string{model.FileID("b.ts"), "ghost"}}, 2)

	assert.Equal(t, map[string]int{
		model.FileID("b.ts"): 0,
		model.FileID("a.ts"): 1,
		model.FileID("c.ts"): 1,
		model.HookID("useB"): 1,
		model.FileID("d.ts"): 2,
	}, d)
}

func TestRenderFiltersRelationsAndKinds(t *testing.T) {
	g := chain(t)

	view := Render(g, &Config{
		Selected:  []string{model.FileID("b.ts")},
		Depth:     1,
		Relations: []model.Relation{model.RelImports},
	})
	assert.Len(t, view.Graph.Nodes, 3)
	assert.Len(t, view.Graph.Links, 2)
	assert.Equal(t, model.FileID("b.ts"), view.Graph.Nodes[0].ID)

	view = Render(g, &Config{
		Selected: []string{model.FileID("b.ts")},
		Depth:    1,
		Kinds:    []model.NodeKind{model.KindHook},
	})
	require.Len(t, view.Graph.Nodes, 2)
	assert.Equal(t, model.HookID("useB"), view.Graph.Nodes[1].ID)
	require.Len(t, view.Graph.Links, 1)
	assert.Equal(t, model.RelUsesHook, view.Graph.Links[0].Relation)
}

func TestParseQuery(t *testing.T) {
	cfg, err := ParseQuery([]string{"File: a.ts"}, "3", "imports, uses_hook", "File")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Depth)
	assert.Equal(t, []model.Relation{model.RelImports, model.RelUsesHook}, cfg.Relations)
	assert.Equal(t, []model.NodeKind{model.KindFile}, cfg.Kinds)

	cfg, err = ParseQuery(nil, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultDepth, cfg.Depth)

	cfg, err = ParseQuery(nil, "99", "", "")
	require.NoError(t, err)
	assert.Equal(t, MaxDepth, cfg.Depth)

	_, err = ParseQuery(nil, "-1", "", "")
	assert.Error(t, err)
}
