package analysis

import (
	"slices"

	"gonum.org/v1/gonum/graph/topo"

	"github.com/ritzau/cmake-graph/pkg/graph"
)

// Cycle is a set of mutually dependent targets. CMake tolerates cycles
// between static libraries, but they are usually worth surfacing.
type Cycle struct {
	Members []int // target indices, ascending
}

// DetectCycles finds strongly connected components with more than one target.
// Components are returned sorted by their smallest member so the output is
// deterministic.
func DetectCycles(tg *graph.TargetGraph) []Cycle {
	var cycles []Cycle
	for _, component := range topo.TarjanSCC(tg.Directed()) {
		if len(component) < 2 {
			continue
		}
		members := make([]int, 0, len(component))
		for _, node := range component {
			members = append(members, int(node.ID()))
		}
		slices.Sort(members)
		cycles = append(cycles, Cycle{Members: members})
	}

	slices.SortFunc(cycles, func(a, b Cycle) int {
		return a.Members[0] - b.Members[0]
	})
	return cycles
}
