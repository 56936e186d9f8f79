package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/jsgraph/pkg/deps"
	"github.com/ritzau/jsgraph/pkg/extract"
	"github.com/ritzau/jsgraph/pkg/model"
	"github.com/ritzau/jsgraph/pkg/resolve"
)

func mustExtract(t *testing.T, path, code string) *extract.FileFacts {
	t.Helper()
	facts, err := extract.Extract(path, []byte(code))
	require.NoError(t, err)
	return facts
}

func local(p string) resolve.Result {
	return resolve.Result{Kind: resolve.Local, Path: p}
}

func external(s string) resolve.Result {
	return resolve.Result{Kind: resolve.External, Path: s, Specifier: s}
}

func TestAddNodeFirstWriteWins(t *testing.T) {
	g := New()

	g.AddNode("Hook: useX", model.KindHook, map[string]interface{}{"name": "useX"})
	node := g.AddNode("Hook: useX", model.KindHook, map[string]interface{}{"name": "other", "extra": 1})

	assert.Equal(t, "useX", node.Attributes["name"])
	assert.Equal(t, 1, node.Attributes["extra"])
	assert.Equal(t, 1, g.NodeCount())
}

func TestEdgeUniqueness(t *testing.T) {
	g := New()
	g.AddNode("a", model.KindFile, nil)
	g.AddNode("b", model.KindFile, nil)

	require.NoError(t, g.AddEdge("a", "b", model.RelImports))
	require.NoError(t, g.AddEdge("a", "b", model.RelImports))
	require.NoError(t, g.AddEdge("a", "b", model.RelReExports))

	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasEdge("a", "b", model.RelImports))
	assert.False(t, g.HasEdge("b", "a", model.RelImports))
}

func TestAddEdgeUnknownNode(t *testing.T) {
	g := New()
	g.AddNode("a", model.KindFile, nil)

	err := g.AddEdge("a", "ghost", model.RelImports)
	assert.True(t, errors.Is(err, ErrUnknownNode))

	_, _, err = g.EdgesOf("ghost")
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestMergeFileIsIdempotent(t *testing.T) {
	g := New()
	facts := mustExtract(t, "src/a.tsx", `import React from 'react';
export const Button = () => <Icon />;
`)
	in := FileInput{Path: "src/a.tsx", Facts: facts, Resolved: []resolve.Result{external("react")}}

	first := g.MergeFile(in)
	nodes, edges := g.NodeCount(), g.EdgeCount()

	second := g.MergeFile(in)
	assert.Equal(t, nodes, g.NodeCount())
	assert.Equal(t, edges, g.EdgeCount())
	assert.Equal(t, Contribution{}, second)
	assert.Equal(t, 1, first.Imports)
	assert.True(t, g.Merged(model.FileID("src/a.tsx")))
}

func TestExportPropagation(t *testing.T) {
	exporter := FileInput{Path: "a.ts", Facts: mustExtract(t, "a.ts", "export class Foo {}\n")}
	importer := FileInput{
		Path:     "b.ts",
		Facts:    mustExtract(t, "b.ts", "import { Foo } from './a';\n"),
		Resolved: []resolve.Result{local("a.ts")},
	}

	check := func(t *testing.T, g *KnowledgeGraph) {
		assert.Equal(t, []string{"Foo"}, g.ExportSet(model.FileID("a.ts")))
		assert.True(t, g.HasEdge(model.FileID("a.ts"), model.ClassID("Foo", model.FileID("a.ts")), model.RelDefines))
		assert.True(t, g.HasEdge(model.EntityID("Foo"), model.FileID("a.ts"), model.RelDefinedIn))
		assert.True(t, g.HasEdge(model.FileID("b.ts"), model.EntityID("Foo"), model.RelUsesEntity))
		assert.True(t, g.HasEdge(model.FileID("b.ts"), model.FileID("a.ts"), model.RelImports))
	}

	t.Run("exporter first", func(t *testing.T) {
		g := New()
		g.MergeFile(exporter)
		g.MergeFile(importer)
		check(t, g)
	})

	t.Run("importer first", func(t *testing.T) {
		g := New()
		g.MergeFile(importer)
		assert.False(t, g.HasEdge(model.EntityID("Foo"), model.FileID("a.ts"), model.RelDefinedIn))
		g.MergeFile(exporter)
		check(t, g)
	})
}

func TestNoDefinedInWithoutExport(t *testing.T) {
	g := New()
	g.MergeFile(FileInput{Path: "a.ts", Facts: mustExtract(t, "a.ts", "class Hidden {}\n")})
	g.MergeFile(FileInput{
		Path:     "b.ts",
		Facts:    mustExtract(t, "b.ts", "import { Hidden } from './a';\n"),
		Resolved: []resolve.Result{local("a.ts")},
	})

	assert.True(t, g.HasEdge(model.FileID("b.ts"), model.EntityID("Hidden"), model.RelUsesEntity))
	assert.False(t, g.HasEdge(model.EntityID("Hidden"), model.FileID("a.ts"), model.RelDefinedIn))
}

func TestMergeImportsOutcomes(t *testing.T) {
	g := New()
	facts := mustExtract(t, "index.ts", `import x from './missing';
import React from 'react';
export * from './lib';
export { a } from 'pkg';
`)
	c := g.MergeFile(FileInput{
		Path:  "index.ts",
		Facts: facts,
		Resolved: []resolve.Result{
			{Kind: resolve.Unresolved, Specifier: "./missing"},
			external("react"),
			local("lib/index.ts"),
			external("pkg"),
		},
	})

	assert.Equal(t, 3, c.Imports)
	assert.Equal(t, 1, c.Unresolved)
	assert.Equal(t, []string{"react", "pkg"}, c.Dependencies)

	file := model.FileID("index.ts")
	assert.True(t, g.HasEdge(file, model.ExternalID("react"), model.RelImports))
	assert.True(t, g.HasEdge(file, model.FileID("lib/index.ts"), model.RelImports))
	assert.True(t, g.HasEdge(file, model.FileID("lib/index.ts"), model.RelReExports))
	assert.True(t, g.HasEdge(file, model.ExternalID("pkg"), model.RelReExports))
	assert.True(t, g.HasEdge(file, model.EntityID("React"), model.RelUsesEntity))

	_, ok := g.Node(model.EntityID("x"))
	assert.False(t, ok, "unresolved imports bind no entities")
	assert.Equal(t, []string{"lib/index.ts"}, g.Imports().Imports("index.ts"))
}

func TestMergeClassesAndFunctions(t *testing.T) {
	g := New()
	c := g.MergeFile(FileInput{Path: "view.tsx", Facts: mustExtract(t, "view.tsx", `export class ProfileView extends React.Component {
  componentDidMount() {}
  render(): JSX.Element {
    return <Avatar />;
  }
}

export function formatName(first: string, last: string): string {
  return first + last;
}

export const useProfile = () => useContext(Ctx);
const MainLayout = () => null;
`)})

	assert.Equal(t, 1, c.Classes)
	assert.Equal(t, 3, c.Functions) // two methods and formatName
	assert.Equal(t, 1, c.Hooks)
	assert.Equal(t, 1, c.Components)

	fileID := model.FileID("view.tsx")
	classID := model.ClassID("ProfileView", fileID)
	renderID := model.FunctionID("render", classID)

	assert.True(t, g.HasEdge(classID, renderID, model.RelHasFunction))
	assert.Equal(t, []string{"componentDidMount", "render"}, g.ClassMethods()[classID])
	assert.Equal(t, "JSX.Element", g.FunctionReturns()[renderID])

	class, _ := g.Node(classID)
	assert.Equal(t, true, class.Attributes[model.AttrIsReactComponent])

	render, _ := g.Node(renderID)
	assert.Equal(t, true, render.Attributes[model.AttrIsLifecycleMethod])

	formatID := model.FunctionID("formatName", fileID)
	assert.Len(t, g.FunctionParams()[formatID], 2)
	assert.Equal(t, "string", g.FunctionReturns()[formatID])

	assert.True(t, g.HasEdge(fileID, model.ComponentID("Avatar"), model.RelUsesComponent))
	assert.True(t, g.HasEdge(fileID, model.HookID("useContext"), model.RelUsesHook))
	assert.Equal(t, []string{"ProfileView", "formatName", "useProfile"}, g.ExportSet(fileID))
}

func TestMergeManifest(t *testing.T) {
	g := New()
	c := g.MergeManifest("package.json", &deps.Manifest{
		Path:       "package.json",
		Format:     deps.FormatPackageJSON,
		Declared:   []string{"react"},
		Decomposed: true,
	})
	g.MergeManifest("package-lock.json", &deps.Manifest{
		Path:   "package-lock.json",
		Format: deps.FormatPackageLock,
		Locked: []string{"react", "scheduler"},
	})
	g.MergeManifest("yarn.lock", nil)

	assert.Equal(t, []string{"react"}, c.Dependencies)
	assert.True(t, g.HasEdge(model.DependencyFileID("package.json"), model.DependencyID("react"), model.RelHasDependency))
	assert.True(t, g.HasEdge(model.DependencyFileID("package-lock.json"), model.DependencyID("scheduler"), model.RelHasLockedDependency))

	_, ok := g.Node(model.DependencyFileID("yarn.lock"))
	assert.True(t, ok)
	assert.Equal(t, 2, g.CountByKind()[model.KindDependency])
}

func TestNodeLinkPreservesOrder(t *testing.T) {
	g := New()
	g.AddNode("b", model.KindFile, nil)
	g.AddNode("a", model.KindFile, nil)
	require.NoError(t, g.AddEdge("b", "a", model.RelImports))

	nl := g.NodeLink()
	require.Len(t, nl.Nodes, 2)
	assert.Equal(t, "b", nl.Nodes[0].ID)
	require.Len(t, nl.Links, 1)
	assert.Equal(t, model.Edge{Source: "b", Target: "a", Relation: model.RelImports}, *nl.Links[0])
	assert.True(t, nl.Directed)

	in, out, err := g.EdgesOf("a")
	require.NoError(t, err)
	assert.Len(t, in, 1)
	assert.Empty(t, out)
	assert.Equal(t, []string{"a", "b"}, g.NodeIDs(model.KindFile))
}
