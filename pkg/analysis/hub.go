package analysis

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ritzau/cmake-graph/pkg/logging"
	"github.com/ritzau/cmake-graph/pkg/model"
)

// Hub is a synthetic grouping node standing in for the most frequently
// recurring subset of frequent dependencies.
type Hub struct {
	// Members are the target indices of the subset, ascending.
	Members []int
	// Recurrence is the number of targets sharing exactly this subset.
	Recurrence int
}

// IsMember reports whether a target index belongs to the hub.
func (h *Hub) IsMember(index int) bool {
	_, found := slices.BinarySearch(h.Members, index)
	return found
}

// CollapseCommonSubset finds the most recurring frequent-dependency subset
// across all targets and promotes it to a hub when both its recurrence and
// its size strictly exceed the threshold. At most one hub exists per run;
// a second disjoint cluster of shared dependencies is never collapsed.
// Returns nil when no subset qualifies.
func CollapseCommonSubset(s *model.Snapshot, frequent []FrequentTarget, threshold int) *Hub {
	if len(frequent) == 0 {
		return nil
	}

	subsets := make(map[string][]int)
	recurrence := make(map[string]int)

	for _, target := range s.Targets {
		// frequent is ascending by construction, so the subset comes out
		// sorted and its key is canonical.
		var subset []int
		for _, ft := range frequent {
			if target.HasDependency(ft.Index) {
				subset = append(subset, ft.Index)
			}
		}
		if len(subset) == 0 {
			continue
		}

		key := subsetKey(subset)
		subsets[key] = subset
		recurrence[key]++
	}

	var bestKey string
	for key := range subsets {
		if bestKey == "" {
			bestKey = key
			continue
		}
		if recurrence[key] > recurrence[bestKey] {
			bestKey = key
			continue
		}
		// Ties break toward the lowest subset ordinal so reruns agree.
		if recurrence[key] == recurrence[bestKey] && slices.Compare(subsets[key], subsets[bestKey]) < 0 {
			bestKey = key
		}
	}
	if bestKey == "" {
		return nil
	}

	members := subsets[bestKey]
	count := recurrence[bestKey]
	if count <= threshold || len(members) <= threshold {
		logging.Debug("no qualifying dependency subset",
			"bestSize", len(members), "bestRecurrence", count, "threshold", threshold)
		return nil
	}

	logging.Info("collapsing common dependency subset",
		"members", len(members), "recurrence", count)
	return &Hub{Members: members, Recurrence: count}
}

func subsetKey(subset []int) string {
	parts := make([]string, len(subset))
	for i, index := range subset {
		parts[i] = strconv.Itoa(index)
	}
	return strings.Join(parts, ",")
}
