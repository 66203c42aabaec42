package model

import (
	"fmt"
	"strings"
)

// TargetType is the CMake target type as reported by the codemodel.
type TargetType string

const (
	TypeExecutable       TargetType = "EXECUTABLE"
	TypeStaticLibrary    TargetType = "STATIC_LIBRARY"
	TypeSharedLibrary    TargetType = "SHARED_LIBRARY"
	TypeModuleLibrary    TargetType = "MODULE_LIBRARY"
	TypeObjectLibrary    TargetType = "OBJECT_LIBRARY"
	TypeInterfaceLibrary TargetType = "INTERFACE_LIBRARY"
	TypeUtility          TargetType = "UTILITY"
)

// TopLevelScope marks a dependency whose edge belongs in the outermost graph
// rather than inside a project cluster.
const TopLevelScope = -1

// Project is one project() invocation. Projects form a forest via
// ParentIndex; all index lists resolve within the same snapshot.
type Project struct {
	Name             string
	ParentIndex      int // TopLevelScope for roots
	ChildIndexes     []int
	DirectoryIndexes []int
	TargetIndexes    []int
}

// Directory is one source directory, owned by exactly one project.
type Directory struct {
	Source        string
	ProjectIndex  int
	ChildIndexes  []int
	TargetIndexes []int
}

// DefinitionSite is the file and line of the command that declared a target.
type DefinitionSite struct {
	Command string
	File    string
	Line    int
}

func (d DefinitionSite) String() string {
	return fmt.Sprintf("%s @ %s:%d", d.Command, d.File, d.Line)
}

// CompileGroup is one group of sources compiled with identical settings.
type CompileGroup struct {
	Language string
	Sources  []string
	Includes []string
	Defines  []string
}

// Target is one build target. The identity fields are immutable after
// snapshot construction; Label, Marker and the dependency-marker list are
// presentation state written during graph construction, each by exactly one
// component.
type Target struct {
	ID             string
	Name           string
	Type           TargetType
	ProjectIndex   int
	DirectoryIndex int
	Definition     DefinitionSite

	DependencyIDs []string
	// DependencyIndexes is the resolved position list, order and duplicates
	// preserved from DependencyIDs.
	DependencyIndexes []int

	Sources       []string
	InstallPaths  []string
	CompileGroups []CompileGroup

	Label      string
	Marker     string
	UsageCount int
	DepMarkers []string

	depSet map[int]struct{}
}

// HasDependency reports whether the target's resolved dependency set contains
// the given target index.
func (t *Target) HasDependency(index int) bool {
	_, ok := t.depSet[index]
	return ok
}

// SetMarker records the frequent-target marker. Called at most once per run.
func (t *Target) SetMarker(symbol string, usageCount int) {
	t.Marker = symbol
	t.UsageCount = usageCount
	t.Label = fmt.Sprintf("@%s(%d) %s", symbol, usageCount, t.Name)
}

// AddDepMarker appends a dependency annotation rendered under the label.
func (t *Target) AddDepMarker(symbol string) {
	t.DepMarkers = append(t.DepMarkers, symbol)
}

// DisplayLabel is the node label including any dependency annotations.
func (t *Target) DisplayLabel() string {
	if len(t.DepMarkers) == 0 {
		return t.Label
	}
	return t.Label + "\n" + strings.Join(t.DepMarkers, " ")
}

// Dependency is one raw dependency-id occurrence, resolved. Duplicates in the
// raw list produce duplicate records. Scope is the owning project index when
// source and destination share a project, TopLevelScope otherwise.
type Dependency struct {
	Source  int
	Dest    int
	Scope   int
	FullDep bool
}

// Snapshot is one immutable description of a configuration's projects,
// directories, targets and resolved dependencies.
type Snapshot struct {
	Name         string
	Projects     []*Project
	Directories  []*Directory
	Targets      []*Target
	Dependencies []Dependency
}

// FullDependence reports whether the target's resolved dependency set covers
// every target of the project. A project with no targets is covered
// vacuously.
func (s *Snapshot) FullDependence(p *Project, t *Target) bool {
	for _, index := range p.TargetIndexes {
		if !t.HasDependency(index) {
			return false
		}
	}
	return true
}
