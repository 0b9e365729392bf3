package agents

import (
	"context"
	"log/slog"
	"sync"

	"datadeck/models"
)

// Enrichment is the merged output of both post-processing agents. It is
// always well-formed, even when both branches degraded to fallback.
type Enrichment struct {
	Analysis      models.AnalysisResult
	Visualization *models.VisualizationSpec
}

// Coordinator fans the two agents out over the same immutable result set
// and merges their outcomes. Each branch runs behind its own failure
// boundary so one branch cannot abort or corrupt the other.
type Coordinator struct {
	analysis *AnalysisAgent
	viz      *VisualizationAgent
	log      *slog.Logger
}

func NewCoordinator(analysis *AnalysisAgent, viz *VisualizationAgent, log *slog.Logger) *Coordinator {
	return &Coordinator{analysis: analysis, viz: viz, log: log}
}

// Enrich runs Analyze and Generate concurrently and waits for both. The
// agents already convert their own failures into fallbacks; the recover
// here is a defensive layer for anything that escapes, substituting the
// branch's canonical fallback value.
func (c *Coordinator) Enrich(ctx context.Context, question string, answer *models.GenieResponse) Enrichment {
	var (
		wg       sync.WaitGroup
		analysis models.AnalysisResult
		spec     *models.VisualizationSpec
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				c.log.Error("analysis agent panicked", "panic", r)
				analysis = FallbackAnalysis()
			}
		}()
		analysis = c.analysis.Analyze(ctx, question, answer.SQL, answer.Results)
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				c.log.Error("visualization agent panicked", "panic", r)
				spec = nil
			}
		}()
		spec = c.viz.Generate(ctx, answer.Results, question, "")
	}()
	wg.Wait()

	return Enrichment{Analysis: analysis, Visualization: spec}
}
