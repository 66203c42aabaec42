package analysis

import (
	"github.com/ritzau/cmake-graph/pkg/logging"
	"github.com/ritzau/cmake-graph/pkg/model"
)

// EdgeStyle is the Graphviz style an edge is drawn with.
type EdgeStyle string

const (
	StyleDashed EdgeStyle = "dashed"
	StyleDotted EdgeStyle = "dotted"
	// StyleInvis keeps an edge for layout purposes without drawing it.
	StyleInvis EdgeStyle = "invis"
)

// EdgeKind says what an edge points at.
type EdgeKind int

const (
	// EdgeDirect connects two target nodes.
	EdgeDirect EdgeKind = iota
	// EdgeHub connects a source target to the hub node.
	EdgeHub
	// EdgeProject connects a source target to a project's anchor node,
	// standing in for every target of that project.
	EdgeProject
)

// Edge is one classified, drawable edge.
type Edge struct {
	Kind        EdgeKind
	Source      int
	Dest        int // target index, EdgeDirect only
	DestProject int // project index, EdgeProject only
	Scope       int // owning project index, or model.TopLevelScope
	Style       EdgeStyle
	Tooltip     string
}

// Plan is the classifier's output: the edges to draw plus counts for the
// dispositions that draw nothing.
type Plan struct {
	Edges []Edge
	// Annotated counts dependencies rendered as a marker annotation on the
	// source label instead of an edge.
	Annotated int
	// HubDeduped counts hub redirects skipped because the (source, hub) pair
	// already produced an edge.
	HubDeduped int
}

// ClassifyEdges walks every Dependency record in creation order and assigns
// exactly one disposition: hub redirect, marker annotation, full-project
// collapse, or a plain edge. Marker annotations are written onto the source
// targets as a side effect; everything else lands in the returned plan.
func ClassifyEdges(s *model.Snapshot, frequent []FrequentTarget, hub *Hub) *Plan {
	markerOf := make(map[int]string, len(frequent))
	for _, ft := range frequent {
		markerOf[ft.Index] = ft.Marker
	}

	plan := &Plan{}
	hubSeen := make(map[int]bool)        // source index → hub edge emitted
	projectSeen := make(map[[2]int]bool) // (source index, dest project)

	for _, dep := range s.Dependencies {
		source := s.Targets[dep.Source]
		dest := s.Targets[dep.Dest]
		sameDirectory := source.DirectoryIndex == dest.DirectoryIndex

		switch {
		case hub != nil && hub.IsMember(dep.Dest) && !sameDirectory:
			if hubSeen[dep.Source] {
				plan.HubDeduped++
				continue
			}
			hubSeen[dep.Source] = true
			plan.Edges = append(plan.Edges, Edge{
				Kind:   EdgeHub,
				Source: dep.Source,
				Scope:  model.TopLevelScope,
				Style:  StyleDotted,
			})

		case markerOf[dep.Dest] != "" && !sameDirectory && !dep.FullDep:
			source.AddDepMarker(markerOf[dep.Dest])
			plan.Annotated++

		case dep.FullDep:
			key := [2]int{dep.Source, dest.ProjectIndex}
			style := StyleDashed
			if projectSeen[key] {
				// Later edges to the same project only steer the layout.
				style = StyleInvis
			}
			projectSeen[key] = true
			plan.Edges = append(plan.Edges, Edge{
				Kind:        EdgeProject,
				Source:      dep.Source,
				DestProject: dest.ProjectIndex,
				Scope:       dep.Scope,
				Style:       style,
				Tooltip:     "all targets from\n" + s.Projects[dest.ProjectIndex].Name,
			})

		default:
			plan.Edges = append(plan.Edges, Edge{
				Kind:   EdgeDirect,
				Source: dep.Source,
				Dest:   dep.Dest,
				Scope:  dep.Scope,
				Style:  StyleDashed,
			})
		}
	}

	logging.Debug("classified dependency edges",
		"total", len(s.Dependencies),
		"drawn", len(plan.Edges),
		"annotated", plan.Annotated,
		"hubDeduped", plan.HubDeduped)
	return plan
}
