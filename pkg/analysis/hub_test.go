package analysis

import (
	"slices"
	"testing"
)

func TestCollapseCommonSubset(t *testing.T) {
	// Three libs shared by exactly the same three consumers: subset size 3 > 2
	// and recurrence 3 > 2, so the subset becomes a hub.
	s := buildSnapshot(t, []targetFixture{
		{name: "l1"},
		{name: "l2"},
		{name: "l3"},
		{name: "s1", deps: []string{"l1", "l2", "l3"}},
		{name: "s2", deps: []string{"l1", "l2", "l3"}},
		{name: "s3", deps: []string{"l1", "l2", "l3"}},
	})

	frequent := detectFrequent(t, s, 2)
	hub := CollapseCommonSubset(s, frequent, 2)

	if hub == nil {
		t.Fatal("Expected a hub")
	}
	if !slices.Equal(hub.Members, []int{0, 1, 2}) {
		t.Errorf("Expected members [0 1 2], got %v", hub.Members)
	}
	if hub.Recurrence != 3 {
		t.Errorf("Expected recurrence 3, got %d", hub.Recurrence)
	}

	for _, index := range []int{0, 1, 2} {
		if !hub.IsMember(index) {
			t.Errorf("Expected IsMember(%d)", index)
		}
	}
	if hub.IsMember(3) {
		t.Error("Expected IsMember(3) = false")
	}
}

func TestCollapseCommonSubsetSizeMustExceedThreshold(t *testing.T) {
	// Recurrence 3 > 2 but subset size 2 is not > 2: no hub.
	s := buildSnapshot(t, []targetFixture{
		{name: "l1"},
		{name: "l2"},
		{name: "s1", deps: []string{"l1", "l2"}},
		{name: "s2", deps: []string{"l1", "l2"}},
		{name: "s3", deps: []string{"l1", "l2"}},
	})

	frequent := detectFrequent(t, s, 2)
	if hub := CollapseCommonSubset(s, frequent, 2); hub != nil {
		t.Errorf("Expected no hub for a subset of size 2, got %+v", hub)
	}
}

func TestCollapseCommonSubsetRecurrenceMustExceedThreshold(t *testing.T) {
	// Every lib is frequent but the largest shared subset recurs only twice.
	s := buildSnapshot(t, []targetFixture{
		{name: "l1"},
		{name: "l2"},
		{name: "l3"},
		{name: "s1", deps: []string{"l1", "l2", "l3"}},
		{name: "s2", deps: []string{"l1", "l2", "l3"}},
		{name: "s3", deps: []string{"l1", "l2"}},
		{name: "s4", deps: []string{"l3", "l1"}},
	})

	frequent := detectFrequent(t, s, 2)
	if len(frequent) != 3 {
		t.Fatalf("Expected 3 frequent targets, got %d", len(frequent))
	}
	if hub := CollapseCommonSubset(s, frequent, 2); hub != nil {
		t.Errorf("Expected no hub at recurrence == threshold, got %+v", hub)
	}
}

func TestCollapseCommonSubsetTieBreaksDeterministically(t *testing.T) {
	// Two disjoint subsets with equal recurrence: the lowest ordinal wins,
	// and only one hub ever exists.
	s := buildSnapshot(t, []targetFixture{
		{name: "a1"},
		{name: "a2"},
		{name: "a3"},
		{name: "b1"},
		{name: "b2"},
		{name: "b3"},
		{name: "s1", deps: []string{"a1", "a2", "a3"}},
		{name: "s2", deps: []string{"a1", "a2", "a3"}},
		{name: "s3", deps: []string{"a1", "a2", "a3"}},
		{name: "s4", deps: []string{"b1", "b2", "b3"}},
		{name: "s5", deps: []string{"b1", "b2", "b3"}},
		{name: "s6", deps: []string{"b1", "b2", "b3"}},
	})

	frequent := detectFrequent(t, s, 2)
	for i := 0; i < 5; i++ {
		hub := CollapseCommonSubset(s, frequent, 2)
		if hub == nil {
			t.Fatal("Expected a hub")
		}
		if !slices.Equal(hub.Members, []int{0, 1, 2}) {
			t.Errorf("Run %d: expected members [0 1 2], got %v", i, hub.Members)
		}
	}
}

func TestCollapseCommonSubsetNoFrequent(t *testing.T) {
	s := buildSnapshot(t, []targetFixture{
		{name: "a"},
		{name: "b", deps: []string{"a"}},
	})

	if hub := CollapseCommonSubset(s, nil, 5); hub != nil {
		t.Errorf("Expected no hub without frequent targets, got %+v", hub)
	}
}
