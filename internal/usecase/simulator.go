package usecase

import (
	"context"
	"fmt"
	"time"

	"VolPath/internal/domain/models"
	domrepo "VolPath/internal/domain/repository"
	"VolPath/internal/simulation"
)

// ScenarioRequest is the explicit, immutable configuration of one run. It
// replaces any process-wide simulation state: two runners with different
// requests can execute concurrently.
type ScenarioRequest struct {
	Bounds models.SessionBounds
	Style  models.VolatilityStyle

	// ManualDiffusion bypasses the estimator when set.
	ManualDiffusion *float64

	NPaths int
	NSteps int
	Seed   int64
}

// Key identifies the scenario for caching and publishing. Two requests with
// the same key produce bit-identical results, so memoizing on it is safe.
func (r ScenarioRequest) Key() string {
	sigma := "auto"
	if r.ManualDiffusion != nil {
		sigma = fmt.Sprintf("%g", *r.ManualDiffusion)
	}
	return fmt.Sprintf("run:%g:%g:%g:%g:%g:%s:%s:%d:%d:%d",
		r.Bounds.OpenValue, r.Bounds.CloseValue, r.Bounds.DailyMax, r.Bounds.DailyMin,
		r.Bounds.SessionHours, r.Style, sigma, r.NPaths, r.NSteps, r.Seed)
}

// RunOutput bundles everything a presentation layer needs from one run.
type RunOutput struct {
	Estimate  *models.DiffusionEstimate // nil when a manual coefficient was supplied
	Diffusion float64
	Result    *models.SimulationResult
	Ensemble  *EnsembleSummary
	FromCache bool
}

// SimulationRunner orchestrates estimate -> generate -> aggregate and wires
// the run into metrics, the result cache and the optional publisher.
type SimulationRunner struct {
	gen     *simulation.Generator
	cache   domrepo.ResultCache
	pub     domrepo.Publisher
	metrics domrepo.Metrics
}

// NewSimulationRunner creates a runner. cache and pub may be nil; metrics
// must not be.
func NewSimulationRunner(gen *simulation.Generator, cache domrepo.ResultCache, pub domrepo.Publisher, metrics domrepo.Metrics) *SimulationRunner {
	return &SimulationRunner{gen: gen, cache: cache, pub: pub, metrics: metrics}
}

// Run executes one scenario. Identical requests are served from the cache
// when one is configured; publish failures never fail the run.
func (r *SimulationRunner) Run(ctx context.Context, req ScenarioRequest) (*RunOutput, error) {
	var est *models.DiffusionEstimate
	var sigma float64
	styleLabel := "manual"

	if req.ManualDiffusion != nil {
		sigma = *req.ManualDiffusion
	} else {
		e, err := simulation.EstimateDiffusion(req.Bounds, req.Style)
		if err != nil {
			r.metrics.RecordRun("invalid")
			return nil, fmt.Errorf("estimate diffusion: %w", err)
		}
		est = &e
		sigma = e.Coefficient
		styleLabel = req.Style.String()
	}
	r.metrics.RecordDiffusion(styleLabel, sigma)

	key := req.Key()
	if r.cache != nil {
		if res, ok := r.cache.Get(ctx, key); ok {
			r.metrics.RecordRun("cache_hit")
			return &RunOutput{
				Estimate:  est,
				Diffusion: sigma,
				Result:    res,
				Ensemble:  SummarizeEnsemble(res),
				FromCache: true,
			}, nil
		}
	}

	start := time.Now()
	res, err := r.gen.Generate(ctx, simulation.GenerateParams{
		NPaths:        req.NPaths,
		NSteps:        req.NSteps,
		StartValue:    req.Bounds.OpenValue,
		EndValue:      req.Bounds.CloseValue,
		MaxValue:      req.Bounds.DailyMax,
		MinValue:      req.Bounds.DailyMin,
		DurationHours: req.Bounds.SessionHours,
		Diffusion:     sigma,
		Seed:          req.Seed,
	})
	if err != nil {
		r.metrics.RecordRun("error")
		return nil, fmt.Errorf("generate paths: %w", err)
	}

	r.metrics.RecordRun("ok")
	r.metrics.RecordPathsGenerated(req.NPaths)
	r.metrics.RecordRunDuration(time.Since(start).Seconds())
	r.metrics.RecordClampedPoints(countBandEdgePoints(res, req.Bounds))

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, res); err != nil {
			r.metrics.RecordError("cache_set")
		}
	}

	if r.pub != nil {
		summary := &domrepo.RunSummary{
			ScenarioKey: key,
			Seed:        req.Seed,
			NPaths:      req.NPaths,
			NSteps:      req.NSteps,
			Diffusion:   sigma,
			Stats:       res.Stats,
		}
		if err := r.pub.PublishRun(ctx, summary); err != nil {
			r.metrics.RecordError("publish")
		}
	}

	return &RunOutput{
		Estimate:  est,
		Diffusion: sigma,
		Result:    res,
		Ensemble:  SummarizeEnsemble(res),
	}, nil
}

// countBandEdgePoints counts points sitting exactly on a band edge. Interior
// edge hits can only come from clamping, so this approximates clamp activity
// without threading a counter through the generator.
func countBandEdgePoints(res *models.SimulationResult, b models.SessionBounds) int {
	n := 0
	for _, pt := range res.Points {
		if pt.Value == b.DailyMax || pt.Value == b.DailyMin {
			n++
		}
	}
	return n
}
