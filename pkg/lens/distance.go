package lens

import (
	"github.com/ritzau/jsgraph/pkg/model"
)

// Graph is the read side of the knowledge graph that a lens needs
type Graph interface {
	Node(id string) (*model.Node, bool)
	EdgesOf(id string) (incoming, outgoing []model.Edge, err error)
}

type queued struct {
	id       string
	distance int
}

// ComputeDistances runs a breadth-first search from the selected nodes,
// following edges in both directions. Unknown selected IDs are skipped.
// Nodes farther than maxDepth are absent from the result.
func ComputeDistances(g Graph, cfg *Config, maxDepth int) map[string]int {
	distances := make(map[string]int)

	var queue []queued
	for _, id := range cfg.Selected {
		if _, ok := g.Node(id); !ok {
			continue
		}
		if _, seen := distances[id]; seen {
			continue
		}
		distances[id] = 0
		queue = append(queue, queued{id: id})
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.distance >= maxDepth {
			continue
		}

		incoming, outgoing, err := g.EdgesOf(current.id)
		if err != nil {
			continue
		}
		visit := func(neighbor string, rel model.Relation) {
			if !cfg.followsRelation(rel) {
				return
			}
			if _, seen := distances[neighbor]; seen {
				return
			}
			distances[neighbor] = current.distance + 1
			queue = append(queue, queued{id: neighbor, distance: current.distance + 1})
		}
		for _, e := range outgoing {
			visit(e.Target, e.Relation)
		}
		for _, e := range incoming {
			visit(e.Source, e.Relation)
		}
	}

	return distances
}
