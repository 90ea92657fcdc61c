package repository

import (
	"context"

	"VolPath/internal/domain/models"
)

// RunSummary is what leaves the process when publishing is enabled: the
// request echo plus per-path statistics, never the full point table.
type RunSummary struct {
	ScenarioKey string
	Seed        int64
	NPaths      int
	NSteps      int
	Diffusion   float64
	Stats       []models.PathStatistics
}

// Publisher emits finished run summaries to an external broker.
type Publisher interface {
	PublishRun(ctx context.Context, s *RunSummary) error
	Close() error
}

// ResultCache memoizes simulation output keyed by scenario hash.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.SimulationResult, bool)
	Set(ctx context.Context, key string, res *models.SimulationResult) error
}

// Metrics records operational counters for simulation runs.
type Metrics interface {
	RecordRun(outcome string)
	RecordError(kind string)
	RecordPathsGenerated(n int)
	RecordClampedPoints(n int)
	RecordRunDuration(seconds float64)
	RecordDiffusion(style string, coefficient float64)
}
