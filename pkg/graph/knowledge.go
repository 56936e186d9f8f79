// Package graph holds the knowledge graph: typed nodes keyed by identity,
// unique (source, target, relation) edges and the auxiliary indices that are
// written next to the graph.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ritzau/jsgraph/pkg/extract"
	"github.com/ritzau/jsgraph/pkg/model"
)

// ErrUnknownNode is returned when an edge names an endpoint that was never added
var ErrUnknownNode = errors.New("unknown node")

type edgeKey struct {
	source   string
	target   string
	relation model.Relation
}

// KnowledgeGraph is not safe for concurrent mutation. Callers serialize merges.
type KnowledgeGraph struct {
	nodes map[string]*model.Node
	order []string

	edges     map[edgeKey]int
	edgeOrder []model.Edge
	out       map[string][]int
	in        map[string][]int

	exports         map[string]map[string]struct{} // file node -> exported names
	functionParams  map[string][]extract.Parameter
	functionReturns map[string]string
	classMethods    map[string]map[string]struct{}

	// entity names imported from a file before its export set was known
	pending map[string]map[string]struct{}

	merged  map[string]bool
	imports *ImportGraph
}

// New creates an empty knowledge graph
func New() *KnowledgeGraph {
	return &KnowledgeGraph{
		nodes:           make(map[string]*model.Node),
		edges:           make(map[edgeKey]int),
		out:             make(map[string][]int),
		in:              make(map[string][]int),
		exports:         make(map[string]map[string]struct{}),
		functionParams:  make(map[string][]extract.Parameter),
		functionReturns: make(map[string]string),
		classMethods:    make(map[string]map[string]struct{}),
		pending:         make(map[string]map[string]struct{}),
		merged:          make(map[string]bool),
		imports:         NewImportGraph(),
	}
}

// AddNode returns the node with id, creating it when absent. Attributes are
// merged first-write-wins.
func (g *KnowledgeGraph) AddNode(id string, kind model.NodeKind, attrs map[string]interface{}) *model.Node {
	node, exists := g.nodes[id]
	if !exists {
		node = model.NewNode(id, kind)
		g.nodes[id] = node
		g.order = append(g.order, id)
	}
	node.Merge(attrs)
	return node
}

// Node looks up a node by identity key
func (g *KnowledgeGraph) Node(id string) (*model.Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// AddEdge inserts a directed edge. Inserting an existing (source, target,
// relation) triple is a no-op. Both endpoints must already exist.
func (g *KnowledgeGraph) AddEdge(source, target string, relation model.Relation) error {
	if _, ok := g.nodes[source]; !ok {
		return fmt.Errorf("edge %s -> %s: %w: %s", source, target, ErrUnknownNode, source)
	}
	if _, ok := g.nodes[target]; !ok {
		return fmt.Errorf("edge %s -> %s: %w: %s", source, target, ErrUnknownNode, target)
	}

	key := edgeKey{source, target, relation}
	if _, exists := g.edges[key]; exists {
		return nil
	}

	idx := len(g.edgeOrder)
	g.edges[key] = idx
	g.edgeOrder = append(g.edgeOrder, model.Edge{Source: source, Target: target, Relation: relation})
	g.out[source] = append(g.out[source], idx)
	g.in[target] = append(g.in[target], idx)
	return nil
}

// HasEdge reports whether the edge exists
func (g *KnowledgeGraph) HasEdge(source, target string, relation model.Relation) bool {
	_, ok := g.edges[edgeKey{source, target, relation}]
	return ok
}

// Nodes returns all nodes in insertion order
func (g *KnowledgeGraph) Nodes() []*model.Node {
	nodes := make([]*model.Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order
func (g *KnowledgeGraph) Edges() []model.Edge {
	edges := make([]model.Edge, len(g.edgeOrder))
	copy(edges, g.edgeOrder)
	return edges
}

// NodeCount returns the number of nodes
func (g *KnowledgeGraph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges
func (g *KnowledgeGraph) EdgeCount() int {
	return len(g.edgeOrder)
}

// EdgesOf returns the incoming and outgoing edges of a node
func (g *KnowledgeGraph) EdgesOf(id string) (incoming, outgoing []model.Edge, err error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	for _, idx := range g.in[id] {
		incoming = append(incoming, g.edgeOrder[idx])
	}
	for _, idx := range g.out[id] {
		outgoing = append(outgoing, g.edgeOrder[idx])
	}
	return incoming, outgoing, nil
}

// CountByKind returns the number of nodes per kind
func (g *KnowledgeGraph) CountByKind() map[model.NodeKind]int {
	counts := make(map[model.NodeKind]int)
	for _, node := range g.nodes {
		counts[node.Kind]++
	}
	return counts
}

// Imports returns the file-to-file import topology
func (g *KnowledgeGraph) Imports() *ImportGraph {
	return g.imports
}

// RecordExport adds name to the export set of a file node and completes any
// DEFINED_IN edge that was waiting for it. It reports whether the name is new.
func (g *KnowledgeGraph) RecordExport(fileID, name string) bool {
	set, ok := g.exports[fileID]
	if !ok {
		set = make(map[string]struct{})
		g.exports[fileID] = set
	}
	if _, exists := set[name]; exists {
		return false
	}
	set[name] = struct{}{}

	if waiting, ok := g.pending[fileID]; ok {
		if _, ok := waiting[name]; ok {
			delete(waiting, name)
			entityID := model.EntityID(name)
			if _, ok := g.nodes[entityID]; ok {
				_ = g.AddEdge(entityID, fileID, model.RelDefinedIn)
			}
		}
	}
	return true
}

// IsExported reports whether name is in the export set of a file node
func (g *KnowledgeGraph) IsExported(fileID, name string) bool {
	_, ok := g.exports[fileID][name]
	return ok
}

// linkEntity adds the DEFINED_IN edge now when the target already exports
// name, or remembers it until the target's export is recorded
func (g *KnowledgeGraph) linkEntity(entityID, name, targetID string) {
	if g.IsExported(targetID, name) {
		_ = g.AddEdge(entityID, targetID, model.RelDefinedIn)
		return
	}
	waiting, ok := g.pending[targetID]
	if !ok {
		waiting = make(map[string]struct{})
		g.pending[targetID] = waiting
	}
	waiting[name] = struct{}{}
}

// ExportSet returns the sorted export set of a file node
func (g *KnowledgeGraph) ExportSet(fileID string) []string {
	return model.SortedSet(g.exports[fileID])
}

// Exports returns every file's export set as sorted slices
func (g *KnowledgeGraph) Exports() map[string][]string {
	out := make(map[string][]string, len(g.exports))
	for id, set := range g.exports {
		out[id] = model.SortedSet(set)
	}
	return out
}

// FunctionParams returns the parameter index keyed by function node
func (g *KnowledgeGraph) FunctionParams() map[string][]extract.Parameter {
	out := make(map[string][]extract.Parameter, len(g.functionParams))
	for id, params := range g.functionParams {
		out[id] = params
	}
	return out
}

// FunctionReturns returns the return-type index keyed by function node
func (g *KnowledgeGraph) FunctionReturns() map[string]string {
	out := make(map[string]string, len(g.functionReturns))
	for id, ret := range g.functionReturns {
		out[id] = ret
	}
	return out
}

// ClassMethods returns each class node's method names, sorted
func (g *KnowledgeGraph) ClassMethods() map[string][]string {
	out := make(map[string][]string, len(g.classMethods))
	for id, set := range g.classMethods {
		out[id] = model.SortedSet(set)
	}
	return out
}

// NodeLink converts the graph to its node-link serialization
func (g *KnowledgeGraph) NodeLink() *model.NodeLinkGraph {
	nl := model.NewNodeLinkGraph()
	nl.Nodes = g.Nodes()
	for i := range g.edgeOrder {
		e := g.edgeOrder[i]
		nl.Links = append(nl.Links, &e)
	}
	return nl
}

// NodeIDs returns the identity keys of all nodes of one kind, sorted
func (g *KnowledgeGraph) NodeIDs(kind model.NodeKind) []string {
	var ids []string
	for id, node := range g.nodes {
		if node.Kind == kind {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
