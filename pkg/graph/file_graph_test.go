package graph

import (
	"reflect"
	"testing"
)

func TestNewImportGraph(t *testing.T) {
	ig := NewImportGraph()
	if ig == nil {
		t.Fatal("NewImportGraph() returned nil")
	}

	if len(ig.Files()) != 0 {
		t.Errorf("New graph should have 0 files, got %d", len(ig.Files()))
	}
}

func TestImportGraphAddFile(t *testing.T) {
	ig := NewImportGraph()

	ig.AddFile("src/a.ts")
	ig.AddFile("src/a.ts")

	if got := ig.Files(); !reflect.DeepEqual(got, []string{"src/a.ts"}) {
		t.Errorf("Expected [src/a.ts], got %v", got)
	}
}

func TestImportGraphAddImport(t *testing.T) {
	ig := NewImportGraph()

	ig.AddImport("src/app.tsx", "src/b.ts")
	ig.AddImport("src/app.tsx", "src/a.ts")
	ig.AddImport("src/app.tsx", "src/a.ts")

	if got := ig.Imports("src/app.tsx"); !reflect.DeepEqual(got, []string{"src/a.ts", "src/b.ts"}) {
		t.Errorf("Unexpected imports: %v", got)
	}

	if got := ig.ImportedBy("src/a.ts"); !reflect.DeepEqual(got, []string{"src/app.tsx"}) {
		t.Errorf("Unexpected importers: %v", got)
	}

	if n := ig.Graph().Edges().Len(); n != 2 {
		t.Errorf("Expected 2 edges, got %d", n)
	}
}

func TestImportGraphSelfImport(t *testing.T) {
	ig := NewImportGraph()

	ig.AddImport("loop.ts", "loop.ts")

	if len(ig.Files()) != 1 {
		t.Errorf("Expected 1 file, got %d", len(ig.Files()))
	}
	if len(ig.Imports("loop.ts")) != 0 {
		t.Error("Self-import should not create an edge")
	}
}

func TestImportGraphPathOf(t *testing.T) {
	ig := NewImportGraph()
	ig.AddFile("x.js")

	nodes := ig.Graph().Nodes()
	if !nodes.Next() {
		t.Fatal("Expected one node")
	}

	path, ok := ig.PathOf(nodes.Node().ID())
	if !ok || path != "x.js" {
		t.Errorf("Expected x.js, got %q (%v)", path, ok)
	}

	if _, ok := ig.PathOf(99); ok {
		t.Error("Unknown ID should not resolve")
	}

	if ig.Imports("missing.js") != nil {
		t.Error("Unknown file should have no imports")
	}
}
