package analysis

import (
	"github.com/ritzau/cmake-graph/pkg/graph"
	"github.com/ritzau/cmake-graph/pkg/logging"
	"github.com/ritzau/cmake-graph/pkg/model"
)

// FrequentTarget is a target whose incoming-dependency count exceeds the
// threshold, with its assigned marker.
type FrequentTarget struct {
	Index      int
	Marker     string
	UsageCount int
}

// DetectFrequent flags every target used by more than threshold dependency
// records and assigns each a unique marker in target-index order. The marker
// is also written onto the target's label. Assignment is deterministic for a
// given snapshot; running out of symbols aborts with MarkerAlphabetError.
func DetectFrequent(s *model.Snapshot, tg *graph.TargetGraph, threshold int, alphabet *MarkerAlphabet) ([]FrequentTarget, error) {
	counts := tg.UsageCounts()

	var frequent []FrequentTarget
	for index, count := range counts {
		if count <= threshold {
			continue
		}

		symbol, err := alphabet.Next()
		if err != nil {
			return nil, err
		}

		target := s.Targets[index]
		target.SetMarker(symbol, count)
		frequent = append(frequent, FrequentTarget{
			Index:      index,
			Marker:     symbol,
			UsageCount: count,
		})
		logging.Debug("flagged frequent target",
			"target", target.Name, "marker", symbol, "usageCount", count)
	}

	return frequent, nil
}
