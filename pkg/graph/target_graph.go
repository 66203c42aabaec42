package graph

import (
	"gonum.org/v1/gonum/graph/multi"

	"github.com/ritzau/cmake-graph/pkg/model"
)

// TargetGraph is the directed dependency multigraph over a snapshot's
// targets. Node ids are target indices; one line exists per Dependency
// record, so parallel lines represent duplicate entries in a raw dependency
// list and count toward usage.
type TargetGraph struct {
	graph   *multi.DirectedGraph
	targets int
}

// NewTargetGraph builds the multigraph from a snapshot. Every target becomes
// a node, including isolated ones.
func NewTargetGraph(s *model.Snapshot) *TargetGraph {
	tg := &TargetGraph{
		graph:   multi.NewDirectedGraph(),
		targets: len(s.Targets),
	}

	for i := range s.Targets {
		tg.graph.AddNode(multi.Node(int64(i)))
	}
	for _, dep := range s.Dependencies {
		line := tg.graph.NewLine(multi.Node(int64(dep.Source)), multi.Node(int64(dep.Dest)))
		tg.graph.SetLine(line)
	}

	return tg
}

// UsageCount returns the number of dependency records pointing at the target,
// duplicates included.
func (tg *TargetGraph) UsageCount(index int) int {
	count := 0
	to := int64(index)
	sources := tg.graph.To(to)
	for sources.Next() {
		count += tg.graph.Lines(sources.Node().ID(), to).Len()
	}
	return count
}

// UsageCounts returns the usage count of every target, indexed by target
// position.
func (tg *TargetGraph) UsageCounts() []int {
	counts := make([]int, tg.targets)
	for i := range counts {
		counts[i] = tg.UsageCount(i)
	}
	return counts
}

// DependencyCount returns the number of outgoing dependency records of a
// target, duplicates included.
func (tg *TargetGraph) DependencyCount(index int) int {
	count := 0
	from := int64(index)
	dests := tg.graph.From(from)
	for dests.Next() {
		count += tg.graph.Lines(from, dests.Node().ID()).Len()
	}
	return count
}

// Directed exposes the underlying gonum graph for traversal algorithms.
func (tg *TargetGraph) Directed() *multi.DirectedGraph {
	return tg.graph
}

// Len returns the number of targets in the graph.
func (tg *TargetGraph) Len() int {
	return tg.targets
}
