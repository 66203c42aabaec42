// Package render materializes the abstract dependency graph of a snapshot
// into a DOT document: nested project and directory clusters, one node per
// non-filtered target, per-project anchor nodes, the optional hub node, and
// the classified edge set.
package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ritzau/cmake-graph/pkg/analysis"
	"github.com/ritzau/cmake-graph/pkg/dot"
	"github.com/ritzau/cmake-graph/pkg/logging"
	"github.com/ritzau/cmake-graph/pkg/model"
)

const hubNodeID = "DEPHUB"

// Options controls graph materialization.
type Options struct {
	// SkipTypes suppresses targets whose type matches the pattern.
	SkipTypes string
	// SkipNames suppresses targets whose name matches the pattern.
	SkipNames string
	// RankDir is passed through to the layout engine (e.g. "LR").
	RankDir string
}

// builder holds the rendering handles created during materialization.
// Entities are built first by pkg/model; this second phase creates all
// clusters and anchor nodes up front, so no handle is created lazily.
type builder struct {
	snapshot *model.Snapshot
	root     *dot.Graph

	projectClusters   []*dot.Subgraph
	directoryClusters []*dot.Subgraph
	anchorIDs         []string
	skipped           []bool
}

// BuildGraph turns a classified snapshot into a DOT document. The classifier
// must have run already: it wrote marker labels and produced the edge plan.
func BuildGraph(s *model.Snapshot, frequent []analysis.FrequentTarget, hub *analysis.Hub, plan *analysis.Plan, opts Options) (*dot.Graph, error) {
	skipped, err := filterTargets(s, opts)
	if err != nil {
		return nil, err
	}

	b := &builder{
		snapshot: s,
		root:     dot.NewGraph("targetgraph-" + s.Name),
		skipped:  skipped,
	}
	b.root.Set("bgcolor", "white")
	b.root.Set("compound", "true")
	if opts.RankDir != "" {
		b.root.Set("rankdir", opts.RankDir)
	}

	b.materializeProjects()
	b.materializeDirectories()
	b.materializeTargets()
	if hub != nil {
		b.materializeHub(hub)
	}
	b.applyPlan(plan)

	return b.root, nil
}

func filterTargets(s *model.Snapshot, opts Options) ([]bool, error) {
	skipped := make([]bool, len(s.Targets))

	var skipTypes, skipNames *regexp.Regexp
	var err error
	if opts.SkipTypes != "" {
		if skipTypes, err = regexp.Compile(opts.SkipTypes); err != nil {
			return nil, fmt.Errorf("compile skip-types pattern: %w", err)
		}
	}
	if opts.SkipNames != "" {
		if skipNames, err = regexp.Compile(opts.SkipNames); err != nil {
			return nil, fmt.Errorf("compile skip-names pattern: %w", err)
		}
	}
	if skipTypes == nil && skipNames == nil {
		return skipped, nil
	}

	count := 0
	for i, target := range s.Targets {
		if skipTypes != nil && skipTypes.MatchString(string(target.Type)) {
			skipped[i] = true
		}
		if skipNames != nil && skipNames.MatchString(target.Name) {
			skipped[i] = true
		}
		if skipped[i] {
			count++
		}
	}
	if count > 0 {
		logging.Info("suppressed targets by filter", "count", count)
	}
	return skipped, nil
}

// materializeProjects creates every project cluster and its anchor node.
// Parents are created before children regardless of index order.
func (b *builder) materializeProjects() {
	b.projectClusters = make([]*dot.Subgraph, len(b.snapshot.Projects))
	b.anchorIDs = make([]string, len(b.snapshot.Projects))
	for i := range b.snapshot.Projects {
		b.materializeProject(i)
	}
}

func (b *builder) materializeProject(index int) *dot.Subgraph {
	if b.projectClusters[index] != nil {
		return b.projectClusters[index]
	}

	project := b.snapshot.Projects[index]
	parent := &b.root.Subgraph
	if project.ParentIndex != model.TopLevelScope {
		parent = b.materializeProject(project.ParentIndex)
	}

	var dirSources []string
	for _, di := range project.DirectoryIndexes {
		dirSources = append(dirSources, b.snapshot.Directories[di].Source)
	}

	cluster := parent.Cluster("proj_" + project.Name)
	cluster.Set("label", project.Name)
	cluster.Set("tooltip", strings.Join(dirSources, "\n"))
	cluster.Set("bgcolor", "white")
	cluster.Set("style", "dotted")
	cluster.Set("class", "project")

	// Invisible point node so edges can target the whole project.
	anchorID := "PROJNODE_" + project.Name
	cluster.AddNode(anchorID).
		Set("label", project.Name).
		Set("shape", "point").
		Set("style", "invis")

	b.projectClusters[index] = cluster
	b.anchorIDs[index] = anchorID
	return cluster
}

func (b *builder) materializeDirectories() {
	b.directoryClusters = make([]*dot.Subgraph, len(b.snapshot.Directories))
	for i, directory := range b.snapshot.Directories {
		cluster := b.projectClusters[directory.ProjectIndex].Cluster("dir_" + directory.Source)
		cluster.Set("label", "📁 "+directory.Source)
		cluster.Set("labeljust", "l")
		cluster.Set("style", "dotted")
		cluster.Set("penwidth", "0")
		cluster.Set("class", "directory")
		b.directoryClusters[i] = cluster
	}
}

func (b *builder) materializeTargets() {
	for i, target := range b.snapshot.Targets {
		if b.skipped[i] {
			continue
		}
		cluster := b.directoryClusters[target.DirectoryIndex]
		cluster.AddNode(target.Name).
			Set("label", target.DisplayLabel()).
			Set("shape", shapeFor(target.Type)).
			Set("tooltip", b.targetTooltip(target)).
			Set("class", "node")
	}
}

func (b *builder) targetTooltip(target *model.Target) string {
	var lines []string
	lines = append(lines, "type="+string(target.Type))
	lines = append(lines, target.Definition.String())
	lines = append(lines, fmt.Sprintf("len(depends)=%d", len(target.DependencyIDs)))

	var deps []string
	for _, index := range target.DependencyIndexes {
		dep := b.snapshot.Targets[index]
		project := b.snapshot.Projects[dep.ProjectIndex]
		deps = append(deps, fmt.Sprintf("%s: %s", project.Name, dep.Name))
	}
	sort.Strings(deps)
	lines = append(lines, strings.Join(append([]string{"deps:"}, deps...), "\n"))

	if len(target.InstallPaths) > 0 {
		lines = append(lines, strings.Join(append([]string{"installs:"}, target.InstallPaths...), "\n"))
	}

	if len(target.CompileGroups) > 0 {
		lines = append(lines, "compile_groups:")
	}
	for _, group := range target.CompileGroups {
		lines = append(lines, strings.Join(append([]string{"includes:"}, group.Includes...), "\n"))
		lines = append(lines, strings.Join(append([]string{"defines:"}, group.Defines...), "\n"))
		lines = append(lines, strings.Join(append([]string{"sources:"}, group.Sources...), "\n"))
	}

	return strings.Join(lines, "\n")
}

// materializeHub creates the hub node and its member edges at the top level:
// a cluster-crossing edge must live in a scope that contains both endpoints.
func (b *builder) materializeHub(hub *analysis.Hub) {
	label := fmt.Sprintf("%d common dependencies\nshared by %d targets", len(hub.Members), hub.Recurrence)

	members := make([]string, 0, len(hub.Members))
	for _, index := range hub.Members {
		target := b.snapshot.Targets[index]
		project := b.snapshot.Projects[target.ProjectIndex]
		members = append(members, fmt.Sprintf("%s: %s (@%s)", project.Name, target.Name, target.Marker))
	}
	sort.Strings(members) // project name sorts first within each line

	b.root.AddNode(hubNodeID).
		Set("label", label).
		Set("shape", "box3d").
		Set("tooltip", strings.Join(members, "\n")).
		Set("class", "hub")

	for _, index := range hub.Members {
		if b.skipped[index] {
			continue
		}
		b.root.AddEdge(hubNodeID, b.snapshot.Targets[index].Name).
			Set("style", string(analysis.StyleDotted))
	}
}

func (b *builder) applyPlan(plan *analysis.Plan) {
	for _, edge := range plan.Edges {
		if b.skipped[edge.Source] {
			continue
		}

		scope := &b.root.Subgraph
		if edge.Scope != model.TopLevelScope {
			scope = b.projectClusters[edge.Scope]
		}
		source := b.snapshot.Targets[edge.Source].Name

		switch edge.Kind {
		case analysis.EdgeHub:
			scope.AddEdge(source, hubNodeID).
				Set("style", string(edge.Style))

		case analysis.EdgeProject:
			e := scope.AddEdge(source, b.anchorIDs[edge.DestProject]).
				Set("style", string(edge.Style)).
				Set("lhead", b.projectClusters[edge.DestProject].Name())
			if edge.Tooltip != "" {
				e.Set("tooltip", edge.Tooltip)
			}

		default:
			if b.skipped[edge.Dest] {
				continue
			}
			scope.AddEdge(source, b.snapshot.Targets[edge.Dest].Name).
				Set("style", string(edge.Style))
		}
	}
}
