package analysis

import (
	"testing"

	"github.com/ritzau/cmake-graph/pkg/cmakeapi"
	"github.com/ritzau/cmake-graph/pkg/graph"
	"github.com/ritzau/cmake-graph/pkg/model"
)

func intp(i int) *int { return &i }

type targetFixture struct {
	name string
	deps []string
}

// buildSnapshot constructs a single-project snapshot through the regular
// construction path so resolved dependency sets behave like production ones.
func buildSnapshot(t *testing.T, targets []targetFixture) *model.Snapshot {
	t.Helper()

	in := &model.Input{
		Config: cmakeapi.Configuration{
			Name: "Debug",
			Projects: []cmakeapi.ProjectEntry{
				{Name: "demo", DirectoryIndexes: []int{0}},
			},
			Directories: []cmakeapi.DirectoryEntry{
				{Source: ".", ProjectIndex: 0},
			},
		},
		DirectoryDetails: []*cmakeapi.DirectoryDetail{{}},
	}

	for i, fixture := range targets {
		detail := &cmakeapi.TargetDetail{
			ID:   fixture.name + "::@dir0",
			Name: fixture.name,
			Type: "STATIC_LIBRARY",
			BacktraceGraph: cmakeapi.BacktraceGraph{
				Commands: []string{"add_library"},
				Files:    []string{"CMakeLists.txt"},
				Nodes: []cmakeapi.BacktraceNode{
					{File: 0},
					{File: 0, Line: i + 1, Command: intp(0), Parent: intp(0)},
				},
			},
		}
		for _, dep := range fixture.deps {
			detail.Dependencies = append(detail.Dependencies, cmakeapi.DependencyRef{ID: dep + "::@dir0"})
		}

		in.Config.Projects[0].TargetIndexes = append(in.Config.Projects[0].TargetIndexes, i)
		in.Config.Directories[0].TargetIndexes = append(in.Config.Directories[0].TargetIndexes, i)
		in.Config.Targets = append(in.Config.Targets, cmakeapi.TargetEntry{ID: detail.ID, Name: detail.Name})
		in.TargetDetails = append(in.TargetDetails, detail)
	}

	s, err := model.Build(in, model.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return s
}

func detectFrequent(t *testing.T, s *model.Snapshot, threshold int) []FrequentTarget {
	t.Helper()
	frequent, err := DetectFrequent(s, graph.NewTargetGraph(s), threshold, NewMarkerAlphabet())
	if err != nil {
		t.Fatalf("DetectFrequent() error = %v", err)
	}
	return frequent
}
