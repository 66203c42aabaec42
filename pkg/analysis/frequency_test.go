package analysis

import (
	"testing"

	"github.com/ritzau/cmake-graph/pkg/graph"
	"github.com/ritzau/cmake-graph/pkg/model"
)

func TestDetectFrequentStrictThreshold(t *testing.T) {
	// "log" is used 3 times, "base" twice.
	s := buildSnapshot(t, []targetFixture{
		{name: "log"},
		{name: "base"},
		{name: "a", deps: []string{"log", "base"}},
		{name: "b", deps: []string{"log", "base"}},
		{name: "c", deps: []string{"log"}},
	})

	frequent := detectFrequent(t, s, 2)

	if len(frequent) != 1 {
		t.Fatalf("Expected 1 frequent target, got %d", len(frequent))
	}
	if frequent[0].Index != 0 || frequent[0].UsageCount != 3 {
		t.Errorf("Unexpected frequent target: %+v", frequent[0])
	}

	// Usage equal to the threshold must not qualify.
	if len(detectFrequent(t, buildSnapshot(t, []targetFixture{
		{name: "log"},
		{name: "a", deps: []string{"log"}},
		{name: "b", deps: []string{"log"}},
	}), 2)) != 0 {
		t.Error("Expected no frequent targets at usage == threshold")
	}
}

func TestDetectFrequentAssignsMarkersInTargetOrder(t *testing.T) {
	s := buildSnapshot(t, []targetFixture{
		{name: "first"},
		{name: "second"},
		{name: "a", deps: []string{"first", "second"}},
		{name: "b", deps: []string{"first", "second"}},
	})

	frequent := detectFrequent(t, s, 1)

	if len(frequent) != 2 {
		t.Fatalf("Expected 2 frequent targets, got %d", len(frequent))
	}
	if frequent[0].Marker != "α" || frequent[1].Marker != "β" {
		t.Errorf("Expected markers α, β in target-index order, got %s, %s",
			frequent[0].Marker, frequent[1].Marker)
	}

	// The marker is written onto the target label.
	if s.Targets[0].Label != "@α(2) first" {
		t.Errorf("Expected relabeled target '@α(2) first', got '%s'", s.Targets[0].Label)
	}
}

func TestDetectFrequentDuplicatesCount(t *testing.T) {
	// A duplicated entry in one dependency list pushes usage over the line.
	s := buildSnapshot(t, []targetFixture{
		{name: "log"},
		{name: "a", deps: []string{"log", "log"}},
		{name: "b", deps: []string{"log"}},
	})

	frequent := detectFrequent(t, s, 2)
	if len(frequent) != 1 || frequent[0].UsageCount != 3 {
		t.Fatalf("Expected usage 3 with duplicates counted, got %+v", frequent)
	}
}

func TestDetectFrequentAlphabetExhausted(t *testing.T) {
	s := buildSnapshot(t, []targetFixture{
		{name: "hot"},
		{name: "a", deps: []string{"hot"}},
		{name: "b", deps: []string{"hot"}},
	})

	alphabet := NewMarkerAlphabet()
	for alphabet.Remaining() > 0 {
		alphabet.Next()
	}

	_, err := DetectFrequent(s, graph.NewTargetGraph(s), 1, alphabet)
	if err == nil {
		t.Fatal("Expected MarkerAlphabetError with an exhausted alphabet")
	}
}

func TestDetectFrequentEmptySnapshot(t *testing.T) {
	s := &model.Snapshot{Name: "Debug"}
	frequent, err := DetectFrequent(s, graph.NewTargetGraph(s), 5, NewMarkerAlphabet())
	if err != nil {
		t.Fatalf("DetectFrequent() error = %v", err)
	}
	if len(frequent) != 0 {
		t.Errorf("Expected no frequent targets, got %d", len(frequent))
	}
}
