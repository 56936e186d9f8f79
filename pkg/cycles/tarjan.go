package cycles

import (
	"slices"

	"gonum.org/v1/gonum/graph"
)

// frame is one node on the explicit depth-first stack together with the
// successors that remain to be visited
type frame struct {
	id    int64
	succs []int64
	next  int
}

// components runs Tarjan's algorithm without recursion so that long import
// chains cannot exhaust the goroutine stack. Roots and successors are taken
// in ascending ID order, which makes the output independent of map order.
// Only components with more than one node are returned.
func components(g graph.Directed) [][]int64 {
	order := make(map[int64]int)
	low := make(map[int64]int)
	onStack := make(map[int64]bool)
	var (
		counter int
		pending []int64
		found   [][]int64
	)

	visit := func(id int64) frame {
		order[id], low[id] = counter, counter
		counter++
		pending = append(pending, id)
		onStack[id] = true
		return frame{id: id, succs: ascending(g.From(id))}
	}

	for _, root := range ascending(g.Nodes()) {
		if _, seen := order[root]; seen {
			continue
		}

		dfs := []frame{visit(root)}
		for len(dfs) > 0 {
			top := &dfs[len(dfs)-1]

			if top.next < len(top.succs) {
				succ := top.succs[top.next]
				top.next++
				if _, seen := order[succ]; !seen {
					dfs = append(dfs, visit(succ))
				} else if onStack[succ] {
					low[top.id] = min(low[top.id], order[succ])
				}
				continue
			}

			id := top.id
			dfs = dfs[:len(dfs)-1]
			if len(dfs) > 0 {
				parent := dfs[len(dfs)-1].id
				low[parent] = min(low[parent], low[id])
			}
			if low[id] != order[id] {
				continue
			}

			start := slices.Index(pending, id)
			scc := slices.Clone(pending[start:])
			pending = pending[:start]
			for _, member := range scc {
				onStack[member] = false
			}
			if len(scc) > 1 {
				found = append(found, scc)
			}
		}
	}
	return found
}

func ascending(nodes graph.Nodes) []int64 {
	var ids []int64
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	slices.Sort(ids)
	return ids
}
