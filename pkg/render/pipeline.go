package render

import (
	"github.com/ritzau/cmake-graph/pkg/analysis"
	"github.com/ritzau/cmake-graph/pkg/dot"
	"github.com/ritzau/cmake-graph/pkg/graph"
	"github.com/ritzau/cmake-graph/pkg/logging"
	"github.com/ritzau/cmake-graph/pkg/model"
)

// Config controls one transform run.
type Config struct {
	// FrequentThreshold is the usage-count cutoff above which a target is
	// flagged frequent; the same cutoff gates hub acceptance.
	FrequentThreshold int
	SkipTypes         string
	SkipNames         string
	RankDir           string
}

// Result bundles everything one transform run produced. The snapshot is
// consumed by the run: frequent markers and annotations are written onto its
// targets.
type Result struct {
	Snapshot *model.Snapshot
	Frequent []analysis.FrequentTarget
	Hub      *analysis.Hub
	Cycles   []analysis.Cycle
	Plan     *analysis.Plan
	Graph    *dot.Graph
	DOT      string
}

// Run executes the full reduction on a freshly built snapshot: usage counts,
// frequent markers, common-subset collapsing, edge classification, then DOT
// materialization. The output is a deterministic function of the snapshot.
func Run(s *model.Snapshot, cfg Config) (*Result, error) {
	tg := graph.NewTargetGraph(s)

	frequent, err := analysis.DetectFrequent(s, tg, cfg.FrequentThreshold, analysis.NewMarkerAlphabet())
	if err != nil {
		return nil, err
	}

	hub := analysis.CollapseCommonSubset(s, frequent, cfg.FrequentThreshold)
	cycles := analysis.DetectCycles(tg)
	plan := analysis.ClassifyEdges(s, frequent, hub)

	g, err := BuildGraph(s, frequent, hub, plan, Options{
		SkipTypes: cfg.SkipTypes,
		SkipNames: cfg.SkipNames,
		RankDir:   cfg.RankDir,
	})
	if err != nil {
		return nil, err
	}

	logging.Info("graph transform complete",
		"configuration", s.Name,
		"targets", len(s.Targets),
		"frequent", len(frequent),
		"hub", hub != nil,
		"edges", len(plan.Edges))

	return &Result{
		Snapshot: s,
		Frequent: frequent,
		Hub:      hub,
		Cycles:   cycles,
		Plan:     plan,
		Graph:    g,
		DOT:      g.String(),
	}, nil
}
