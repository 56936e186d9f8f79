// Package cycles reports circular imports between local source files.
package cycles

import (
	"sort"

	"github.com/ritzau/jsgraph/pkg/graph"
)

// ImportCycle is a set of files that import each other, directly or
// through one another
type ImportCycle struct {
	Files []string `json:"files"`
}

// FindImportCycles finds every strongly connected group of files in the
// import topology. Files within a cycle and the cycles themselves are sorted.
func FindImportCycles(ig *graph.ImportGraph) []ImportCycle {
	sccs := components(ig.Graph())

	cycles := make([]ImportCycle, 0, len(sccs))
	for _, scc := range sccs {
		files := make([]string, 0, len(scc))
		for _, id := range scc {
			if path, ok := ig.PathOf(id); ok {
				files = append(files, path)
			}
		}
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		cycles = append(cycles, ImportCycle{Files: files})
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Files[0] < cycles[j].Files[0] })
	return cycles
}
