package model

import (
	"path"

	"github.com/ritzau/cmake-graph/pkg/cmakeapi"
	"github.com/ritzau/cmake-graph/pkg/logging"
)

// Input bundles one configuration with its loaded detail documents. Loading
// and building are separate phases so the pure construction logic can be
// tested without a reply directory on disk.
type Input struct {
	Config           cmakeapi.Configuration
	TargetDetails    []*cmakeapi.TargetDetail    // parallel to Config.Targets
	DirectoryDetails []*cmakeapi.DirectoryDetail // parallel to Config.Directories
}

// Options controls snapshot construction.
type Options struct {
	// PerProject enables full-project dependence collapsing. When disabled,
	// every Dependency record carries FullDep=false.
	PerProject bool
}

// Load reads every detail document a configuration references. A missing
// document aborts with cmakeapi.MissingDocumentError.
func Load(replyDir string, cfg cmakeapi.Configuration) (*Input, error) {
	in := &Input{Config: cfg}

	for _, entry := range cfg.Directories {
		detail, err := cmakeapi.LoadDirectoryDetail(replyDir, entry)
		if err != nil {
			return nil, err
		}
		in.DirectoryDetails = append(in.DirectoryDetails, detail)
	}

	for _, entry := range cfg.Targets {
		detail, err := cmakeapi.LoadTargetDetail(replyDir, entry)
		if err != nil {
			return nil, err
		}
		in.TargetDetails = append(in.TargetDetails, detail)
	}

	logging.Debug("loaded configuration documents",
		"configuration", cfg.Name,
		"directories", len(in.DirectoryDetails),
		"targets", len(in.TargetDetails))
	return in, nil
}

// Build constructs an immutable snapshot from loaded input: entities first,
// then dependency resolution, then the Dependency record list in target
// order. Construction fails eagerly on the first violated invariant.
func Build(in *Input, opts Options) (*Snapshot, error) {
	snapshot := &Snapshot{Name: in.Config.Name}

	for _, entry := range in.Config.Projects {
		parent := TopLevelScope
		if entry.ParentIndex != nil {
			parent = *entry.ParentIndex
		}
		snapshot.Projects = append(snapshot.Projects, &Project{
			Name:             entry.Name,
			ParentIndex:      parent,
			ChildIndexes:     entry.ChildIndexes,
			DirectoryIndexes: entry.DirectoryIndexes,
			TargetIndexes:    entry.TargetIndexes,
		})
	}

	for _, entry := range in.Config.Directories {
		snapshot.Directories = append(snapshot.Directories, &Directory{
			Source:        entry.Source,
			ProjectIndex:  entry.ProjectIndex,
			ChildIndexes:  entry.ChildIndexes,
			TargetIndexes: entry.TargetIndexes,
		})
	}

	for i, entry := range in.Config.Targets {
		target, err := buildTarget(entry, in.TargetDetails[i])
		if err != nil {
			return nil, err
		}
		snapshot.Targets = append(snapshot.Targets, target)
	}

	if err := resolveDependencies(snapshot); err != nil {
		return nil, err
	}

	collectDependencyRecords(snapshot, opts)

	logging.Debug("built snapshot",
		"configuration", snapshot.Name,
		"projects", len(snapshot.Projects),
		"targets", len(snapshot.Targets),
		"dependencies", len(snapshot.Dependencies))
	return snapshot, nil
}

func buildTarget(entry cmakeapi.TargetEntry, detail *cmakeapi.TargetDetail) (*Target, error) {
	definition, err := findDefinitionSite(detail)
	if err != nil {
		return nil, err
	}

	target := &Target{
		ID:             entry.ID,
		Name:           detail.Name,
		Type:           TargetType(detail.Type),
		ProjectIndex:   entry.ProjectIndex,
		DirectoryIndex: entry.DirectoryIndex,
		Definition:     definition,
		Label:          detail.Name,
	}

	for _, dep := range detail.Dependencies {
		target.DependencyIDs = append(target.DependencyIDs, dep.ID)
	}
	for _, src := range detail.Sources {
		target.Sources = append(target.Sources, src.Path)
	}
	if detail.Install != nil {
		for _, dest := range detail.Install.Destinations {
			target.InstallPaths = append(target.InstallPaths, path.Join(detail.Install.Prefix.Path, dest.Path))
		}
	}
	for _, group := range detail.CompileGroups {
		cg := CompileGroup{Language: group.Language}
		for _, index := range group.SourceIndexes {
			cg.Sources = append(cg.Sources, target.Sources[index])
		}
		for _, inc := range group.Includes {
			cg.Includes = append(cg.Includes, inc.Path)
		}
		for _, def := range group.Defines {
			cg.Defines = append(cg.Defines, def.Define)
		}
		target.CompileGroups = append(target.CompileGroups, cg)
	}

	return target, nil
}

// definitionCommands are the CMake commands that declare a target.
var definitionCommands = map[string]bool{
	"add_executable": true,
	"add_library":    true,
}

// findDefinitionSite resolves the single declaration record of a target from
// its backtrace graph. Exactly one declaring command must exist; anything
// else is a data-integrity error.
func findDefinitionSite(detail *cmakeapi.TargetDetail) (DefinitionSite, error) {
	bg := detail.BacktraceGraph

	commandIndex := -1
	count := 0
	for i, command := range bg.Commands {
		if definitionCommands[command] {
			commandIndex = i
			count++
		}
	}
	if count != 1 {
		return DefinitionSite{}, &AmbiguousDefinitionError{Target: detail.Name, Count: count}
	}

	for _, node := range bg.Nodes {
		if node.Command != nil && *node.Command == commandIndex {
			return DefinitionSite{
				Command: bg.Commands[commandIndex],
				File:    bg.Files[node.File],
				Line:    node.Line,
			}, nil
		}
	}
	return DefinitionSite{}, &AmbiguousDefinitionError{Target: detail.Name, Count: 0}
}

// resolveDependencies maps each target's dependency ids to positions in the
// global target sequence. The id index is built once; resolution preserves
// order and duplicates.
func resolveDependencies(s *Snapshot) error {
	byID := make(map[string]int, len(s.Targets))
	for i, target := range s.Targets {
		byID[target.ID] = i
	}

	for _, target := range s.Targets {
		target.DependencyIndexes = make([]int, 0, len(target.DependencyIDs))
		target.depSet = make(map[int]struct{}, len(target.DependencyIDs))
		for _, id := range target.DependencyIDs {
			index, ok := byID[id]
			if !ok {
				return &UnresolvedDependencyError{Target: target.Name, DependencyID: id}
			}
			target.DependencyIndexes = append(target.DependencyIndexes, index)
			target.depSet[index] = struct{}{}
		}
	}
	return nil
}

// collectDependencyRecords derives one Dependency per raw dependency-id
// occurrence, in target order then dependency order. Duplicates are kept; the
// classifier decides later what is actually drawn.
func collectDependencyRecords(s *Snapshot, opts Options) {
	for sourceIndex, source := range s.Targets {
		for _, destIndex := range source.DependencyIndexes {
			dest := s.Targets[destIndex]

			scope := TopLevelScope
			if source.ProjectIndex == dest.ProjectIndex {
				scope = source.ProjectIndex
			}

			fullDep := false
			if opts.PerProject {
				fullDep = s.FullDependence(s.Projects[dest.ProjectIndex], source)
			}

			s.Dependencies = append(s.Dependencies, Dependency{
				Source:  sourceIndex,
				Dest:    destIndex,
				Scope:   scope,
				FullDep: fullDep,
			})
		}
	}
}
