package lens

import (
	"sort"

	"github.com/ritzau/jsgraph/pkg/model"
)

// View is a focused subgraph with each node's distance from the selection
type View struct {
	Graph     *model.NodeLinkGraph `json:"graph"`
	Distances map[string]int       `json:"distances"`
}

// Render builds the view for cfg. Selected nodes are always visible; other
// nodes are filtered by kind. Edges are kept when both ends are visible and
// the relation is followed.
func Render(g Graph, cfg *Config) *View {
	distances := ComputeDistances(g, cfg, cfg.Depth)

	ids := make([]string, 0, len(distances))
	for id := range distances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if distances[ids[i]] != distances[ids[j]] {
			return distances[ids[i]] < distances[ids[j]]
		}
		return ids[i] < ids[j]
	})

	view := &View{Graph: model.NewNodeLinkGraph(), Distances: make(map[string]int)}
	visible := make(map[string]bool)
	for _, id := range ids {
		node, _ := g.Node(id)
		if distances[id] > 0 && !cfg.showsKind(node.Kind) {
			continue
		}
		visible[id] = true
		view.Distances[id] = distances[id]
		view.Graph.Nodes = append(view.Graph.Nodes, node)
	}

	for _, id := range ids {
		if !visible[id] {
			continue
		}
		_, outgoing, err := g.EdgesOf(id)
		if err != nil {
			continue
		}
		for i := range outgoing {
			e := outgoing[i]
			if visible[e.Target] && cfg.followsRelation(e.Relation) {
				view.Graph.Links = append(view.Graph.Links, &e)
			}
		}
	}

	return view
}
