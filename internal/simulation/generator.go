package simulation

import (
	"context"
	"math"
	"runtime"
	"sync"

	"VolPath/internal/domain/models"
)

// GenerateParams is the full, explicit configuration of one run. Diffusion is
// shared by every path; Seed alone determines the randomness of the whole
// ensemble.
type GenerateParams struct {
	NPaths        int
	NSteps        int
	StartValue    float64
	EndValue      float64
	MaxValue      float64
	MinValue      float64
	DurationHours float64
	Diffusion     float64
	Seed          int64
}

// Generator produces ensembles of constrained Brownian-bridge paths. Safe for
// concurrent use; it holds no per-run state.
type Generator struct {
	workers int
	sources SourceFactory
}

// GeneratorOption configures Generator.
type GeneratorOption func(*Generator)

// WithWorkers bounds the number of paths simulated concurrently.
func WithWorkers(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithSourceFactory replaces the per-path randomness derivation.
func WithSourceFactory(f SourceFactory) GeneratorOption {
	return func(g *Generator) {
		if f != nil {
			g.sources = f
		}
	}
}

// NewGenerator creates a generator with GOMAXPROCS workers by default.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		workers: runtime.GOMAXPROCS(0),
		sources: DefaultSourceFactory,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate simulates p.NPaths independent trajectories of p.NSteps steps each.
// Every path starts at StartValue, ends at EndValue exactly, and stays inside
// [MinValue, MaxValue]. Preconditions are checked atomically before any random
// draw; on violation no path is simulated.
//
// ctx is consulted between paths only. A path, once started, always runs to
// completion so the endpoint guarantee cannot be broken by cancellation.
func (g *Generator) Generate(ctx context.Context, p GenerateParams) (*models.SimulationResult, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}

	perPath := p.NSteps + 1
	points := make([]models.PathPoint, p.NPaths*perPath)
	stats := make([]models.PathStatistics, p.NPaths)

	workers := g.workers
	if workers > p.NPaths {
		workers = p.NPaths
	}

	ids := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// A failed worker keeps draining ids so the unbuffered dispatch
			// send below can never block on a run that is already dead.
			failed := false
			for id := range ids {
				if failed {
					continue
				}
				block := points[(id-1)*perPath : id*perPath]
				st, err := g.simulatePath(p, id, block)
				if err != nil {
					setErr(err)
					failed = true
					continue
				}
				stats[id-1] = st
			}
		}()
	}

dispatch:
	for id := 1; id <= p.NPaths; id++ {
		select {
		case <-ctx.Done():
			setErr(ctx.Err())
			break dispatch
		case ids <- id:
		}
	}
	close(ids)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &models.SimulationResult{Points: points, Stats: stats}, nil
}

func validateParams(p GenerateParams) error {
	if p.NPaths < 1 {
		return invalidInputf("path count must be >= 1, got %d", p.NPaths)
	}
	if p.NSteps < 1 {
		return invalidInputf("step count must be >= 1, got %d", p.NSteps)
	}
	if !isFinite(p.DurationHours) || p.DurationHours <= 0 {
		return invalidInputf("duration must be positive and finite, got %v", p.DurationHours)
	}
	if p.Diffusion < 0 || !isFinite(p.Diffusion) {
		return invalidInputf("diffusion coefficient must be finite and non-negative, got %v", p.Diffusion)
	}
	// NaN makes every band comparison below false, so the values must be
	// proven finite before min <= start <= max can mean anything.
	if !isFinite(p.StartValue) || !isFinite(p.EndValue) || !isFinite(p.MinValue) || !isFinite(p.MaxValue) {
		return boundaryViolationf("band values must be finite, got start %v end %v min %v max %v",
			p.StartValue, p.EndValue, p.MinValue, p.MaxValue)
	}
	if p.MinValue > p.MaxValue {
		return boundaryViolationf("min %.6g exceeds max %.6g", p.MinValue, p.MaxValue)
	}
	if p.StartValue < p.MinValue || p.StartValue > p.MaxValue {
		return boundaryViolationf("start %.6g outside band [%.6g, %.6g]", p.StartValue, p.MinValue, p.MaxValue)
	}
	if p.EndValue < p.MinValue || p.EndValue > p.MaxValue {
		return boundaryViolationf("end %.6g outside band [%.6g, %.6g]", p.EndValue, p.MinValue, p.MaxValue)
	}
	return nil
}

// simulatePath fills one pre-sized block with the finalized trajectory and
// returns its statistics.
//
// The bridge recurrence pulls the stochastic term back toward zero as the
// remaining session time shrinks, so trend + bridge already meets the end
// target in expectation; clamping then endpoint re-assertion (in that order)
// make the band and endpoint constraints exact.
func (g *Generator) simulatePath(p GenerateParams, pathID int, block []models.PathPoint) (models.PathStatistics, error) {
	src := g.sources(p.Seed, pathID)

	nSteps := p.NSteps
	dt := p.DurationHours / float64(nSteps)
	sqrtDt := math.Sqrt(dt)
	span := p.EndValue - p.StartValue

	block[0] = models.PathPoint{Time: 0, Value: clamp(p.StartValue, p.MinValue, p.MaxValue), PathID: pathID}

	b := 0.0
	for j := 1; j <= nSteps; j++ {
		frac := float64(j) / float64(nSteps)
		t := p.DurationHours * frac
		remaining := p.DurationHours - t
		if remaining <= 0 {
			// Final point, or an underflowed coarse grid: the bridge is
			// done and contributes nothing from here on.
			b = 0
		} else {
			dW := src.NormFloat64() * sqrtDt
			b += p.Diffusion*dW - b*dt/remaining
		}

		raw := p.StartValue + span*frac + b
		block[j] = models.PathPoint{Time: t, Value: clamp(raw, p.MinValue, p.MaxValue), PathID: pathID}
	}

	// Clamp first, then force the endpoints bit-for-bit. Reversing the
	// order would let the clamp move an endpoint off its target.
	block[0].Value = p.StartValue
	block[nSteps].Value = p.EndValue

	return pathStats(pathID, block)
}

func pathStats(pathID int, block []models.PathPoint) (models.PathStatistics, error) {
	pathMax := math.Inf(-1)
	pathMin := math.Inf(1)
	variation := 0.0
	prev := block[0].Value

	for j, pt := range block {
		v := pt.Value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.PathStatistics{}, numericDefectf("non-finite value %v at path %d step %d", v, pathID, j)
		}
		if v > pathMax {
			pathMax = v
		}
		if v < pathMin {
			pathMin = v
		}
		variation += math.Abs(v - prev)
		prev = v
	}

	return models.PathStatistics{
		PathID:         pathID,
		StartValue:     block[0].Value,
		EndValue:       block[len(block)-1].Value,
		PathMax:        pathMax,
		PathMin:        pathMin,
		TotalVariation: variation,
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
