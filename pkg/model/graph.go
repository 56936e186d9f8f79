package model

import (
	"encoding/json"
	"sort"
)

// Node represents a vertex in the knowledge graph.
// Attributes hold the kind-specific values (path, name, parameters, ...).
type Node struct {
	ID         string
	Kind       NodeKind
	Attributes map[string]interface{}
}

// NewNode creates a node with an empty attribute set
func NewNode(id string, kind NodeKind) *Node {
	return &Node{
		ID:         id,
		Kind:       kind,
		Attributes: make(map[string]interface{}),
	}
}

// Merge copies attributes that are not yet present on the node.
// Existing values are never overwritten (first write wins).
func (n *Node) Merge(attrs map[string]interface{}) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]interface{})
	}
	for k, v := range attrs {
		if _, exists := n.Attributes[k]; !exists {
			n.Attributes[k] = v
		}
	}
}

// MarshalJSON flattens the node into the node-link shape:
// {"id": ..., "type": ..., <attributes>}
func (n *Node) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(n.Attributes)+2)
	for k, v := range n.Attributes {
		flat[k] = v
	}
	flat["id"] = n.ID
	flat["type"] = n.Kind
	return json.Marshal(flat)
}

// Edge represents a directed, typed connection between two nodes.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
}

// NodeLinkGraph is the serialized graph: parallel arrays of nodes and links.
type NodeLinkGraph struct {
	Directed   bool                   `json:"directed"`
	Multigraph bool                   `json:"multigraph"`
	Graph      map[string]interface{} `json:"graph"`
	Nodes      []*Node                `json:"nodes"`
	Links      []*Edge                `json:"links"`
}

// NewNodeLinkGraph creates an empty directed node-link graph
func NewNodeLinkGraph() *NodeLinkGraph {
	return &NodeLinkGraph{
		Directed: true,
		Graph:    make(map[string]interface{}),
		Nodes:    make([]*Node, 0),
		Links:    make([]*Edge, 0),
	}
}

// CountByKind returns the number of nodes per kind
func (g *NodeLinkGraph) CountByKind() map[NodeKind]int {
	counts := make(map[NodeKind]int)
	for _, n := range g.Nodes {
		counts[n.Kind]++
	}
	return counts
}

// SortedSet converts a string set into a sorted slice
func SortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
