package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

// ImportGraph mirrors the IMPORTS edges between local files into a gonum
// directed graph for topology queries
type ImportGraph struct {
	graph  *simple.DirectedGraph
	ids    map[string]int64 // file path -> graph ID
	paths  map[int64]string // graph ID -> file path
	nextID int64
}

// NewImportGraph creates an empty import topology
func NewImportGraph() *ImportGraph {
	return &ImportGraph{
		graph: simple.NewDirectedGraph(),
		ids:   make(map[string]int64),
		paths: make(map[int64]string),
	}
}

// AddFile adds a file to the graph
func (ig *ImportGraph) AddFile(path string) {
	if _, exists := ig.ids[path]; exists {
		return
	}

	ig.ids[path] = ig.nextID
	ig.paths[ig.nextID] = path
	ig.graph.AddNode(simple.Node(ig.nextID))
	ig.nextID++
}

// AddImport adds an edge from the importing file to the imported one.
// Self-imports are recorded as nodes only; gonum simple graphs have no loops.
func (ig *ImportGraph) AddImport(source, target string) {
	ig.AddFile(source)
	ig.AddFile(target)

	sourceID := ig.ids[source]
	targetID := ig.ids[target]
	if sourceID == targetID {
		return
	}

	if !ig.graph.HasEdgeFromTo(sourceID, targetID) {
		ig.graph.SetEdge(ig.graph.NewEdge(ig.graph.Node(sourceID), ig.graph.Node(targetID)))
	}
}

// Graph returns the underlying directed graph
func (ig *ImportGraph) Graph() *simple.DirectedGraph {
	return ig.graph
}

// PathOf returns the file path of a graph node ID
func (ig *ImportGraph) PathOf(id int64) (string, bool) {
	path, ok := ig.paths[id]
	return path, ok
}

// Files returns every file in the topology, sorted
func (ig *ImportGraph) Files() []string {
	files := make([]string, 0, len(ig.ids))
	for path := range ig.ids {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Imports returns the files that path imports, sorted
func (ig *ImportGraph) Imports(path string) []string {
	id, exists := ig.ids[path]
	if !exists {
		return nil
	}

	var out []string
	iter := ig.graph.From(id)
	for iter.Next() {
		out = append(out, ig.paths[iter.Node().ID()])
	}
	sort.Strings(out)
	return out
}

// ImportedBy returns the files that import path, sorted
func (ig *ImportGraph) ImportedBy(path string) []string {
	id, exists := ig.ids[path]
	if !exists {
		return nil
	}

	var out []string
	iter := ig.graph.To(id)
	for iter.Next() {
		out = append(out, ig.paths[iter.Node().ID()])
	}
	sort.Strings(out)
	return out
}
