package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"VolPath/internal/domain/models"
	domrepo "VolPath/internal/domain/repository"
	"VolPath/internal/simulation"
)

type fakeMetrics struct {
	mu       sync.Mutex
	runs     map[string]int
	errs     map[string]int
	paths    int
	duration int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{runs: make(map[string]int), errs: make(map[string]int)}
}

func (m *fakeMetrics) RecordRun(outcome string) {
	m.mu.Lock()
	m.runs[outcome]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errs[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordPathsGenerated(n int) {
	m.mu.Lock()
	m.paths += n
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordClampedPoints(int)         {}
func (m *fakeMetrics) RecordRunDuration(float64)       { m.duration++ }
func (m *fakeMetrics) RecordDiffusion(string, float64) {}

type memResultCache struct {
	m map[string]*models.SimulationResult
}

func (c *memResultCache) Get(_ context.Context, key string) (*models.SimulationResult, bool) {
	res, ok := c.m[key]
	return res, ok
}

func (c *memResultCache) Set(_ context.Context, key string, res *models.SimulationResult) error {
	c.m[key] = res
	return nil
}

type capturePublisher struct {
	summaries []*domrepo.RunSummary
	fail      bool
}

func (p *capturePublisher) PublishRun(_ context.Context, s *domrepo.RunSummary) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.summaries = append(p.summaries, s)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func testRequest() ScenarioRequest {
	return ScenarioRequest{
		Bounds: models.SessionBounds{
			OpenValue:    16.94,
			CloseValue:   18.02,
			DailyMax:     18.86,
			DailyMin:     16.25,
			SessionHours: 13,
		},
		Style:  models.StyleModerate,
		NPaths: 5,
		NSteps: 100,
		Seed:   42,
	}
}

func TestRunner_EstimatesAndGenerates(t *testing.T) {
	metrics := newFakeMetrics()
	runner := NewSimulationRunner(simulation.NewGenerator(), nil, nil, metrics)

	out, err := runner.Run(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Estimate == nil {
		t.Fatal("expected estimate breakdown for auto diffusion")
	}
	if out.Diffusion != out.Estimate.Coefficient {
		t.Errorf("diffusion %v != estimate %v", out.Diffusion, out.Estimate.Coefficient)
	}
	if len(out.Result.Stats) != 5 {
		t.Fatalf("expected 5 paths, got %d", len(out.Result.Stats))
	}
	if out.FromCache {
		t.Error("first run must not come from cache")
	}
	if metrics.runs["ok"] != 1 || metrics.paths != 5 {
		t.Errorf("metrics not recorded: %+v paths=%d", metrics.runs, metrics.paths)
	}
}

func TestRunner_ManualDiffusionSkipsEstimator(t *testing.T) {
	sigma := 0.25
	req := testRequest()
	req.ManualDiffusion = &sigma
	runner := NewSimulationRunner(simulation.NewGenerator(), nil, nil, newFakeMetrics())

	out, err := runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Estimate != nil {
		t.Error("manual diffusion must not produce an estimate")
	}
	if out.Diffusion != sigma {
		t.Errorf("expected diffusion %v, got %v", sigma, out.Diffusion)
	}
}

func TestRunner_CacheHitShortCircuits(t *testing.T) {
	metrics := newFakeMetrics()
	cache := &memResultCache{m: make(map[string]*models.SimulationResult)}
	runner := NewSimulationRunner(simulation.NewGenerator(), cache, nil, metrics)
	req := testRequest()

	first, err := runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.FromCache {
		t.Fatal("second identical run must be served from cache")
	}
	if second.Result != first.Result {
		t.Error("cache should return the stored result")
	}
	if metrics.runs["cache_hit"] != 1 {
		t.Errorf("expected one cache_hit, got %+v", metrics.runs)
	}
}

func TestRunner_DistinctRequestsDistinctKeys(t *testing.T) {
	a := testRequest()
	b := testRequest()
	b.Seed = 43
	if a.Key() == b.Key() {
		t.Error("different seeds must yield different keys")
	}
	c := testRequest()
	c.Style = models.StyleAggressive
	if a.Key() == c.Key() {
		t.Error("different styles must yield different keys")
	}
	sigma := 0.1
	d := testRequest()
	d.ManualDiffusion = &sigma
	if a.Key() == d.Key() {
		t.Error("manual diffusion must yield a different key")
	}
}

func TestRunner_PublishesSummary(t *testing.T) {
	pub := &capturePublisher{}
	runner := NewSimulationRunner(simulation.NewGenerator(), nil, pub, newFakeMetrics())

	req := testRequest()
	out, err := runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.summaries) != 1 {
		t.Fatalf("expected 1 published summary, got %d", len(pub.summaries))
	}
	s := pub.summaries[0]
	if s.NPaths != req.NPaths || s.Seed != req.Seed {
		t.Errorf("summary fields wrong: %+v", s)
	}
	if len(s.Stats) != len(out.Result.Stats) {
		t.Errorf("summary must carry all path stats")
	}
}

func TestRunner_PublishFailureDoesNotFailRun(t *testing.T) {
	metrics := newFakeMetrics()
	runner := NewSimulationRunner(simulation.NewGenerator(), nil, &capturePublisher{fail: true}, metrics)

	if _, err := runner.Run(context.Background(), testRequest()); err != nil {
		t.Fatalf("publish failure must not fail the run: %v", err)
	}
	if metrics.errs["publish"] != 1 {
		t.Errorf("expected publish error metric, got %+v", metrics.errs)
	}
}

func TestRunner_InvalidBoundsSurface(t *testing.T) {
	metrics := newFakeMetrics()
	runner := NewSimulationRunner(simulation.NewGenerator(), nil, nil, metrics)
	req := testRequest()
	req.Bounds.OpenValue = req.Bounds.DailyMax + 1

	_, err := runner.Run(context.Background(), req)
	if !errors.Is(err, simulation.ErrBoundaryViolation) {
		t.Fatalf("expected ErrBoundaryViolation, got %v", err)
	}
	if metrics.runs["error"] != 1 {
		t.Errorf("expected error outcome, got %+v", metrics.runs)
	}
}

func TestSummarizeEnsemble(t *testing.T) {
	runner := NewSimulationRunner(simulation.NewGenerator(), nil, nil, newFakeMetrics())
	req := testRequest()
	out, err := runner.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	es := out.Ensemble
	if len(es.Points) != req.NSteps+1 {
		t.Fatalf("expected %d ensemble points, got %d", req.NSteps+1, len(es.Points))
	}
	if math.Abs(es.Points[0].Mean-req.Bounds.OpenValue) > 1e-12 {
		t.Errorf("ensemble mean at t=0 must equal open, got %v", es.Points[0].Mean)
	}
	last := es.Points[len(es.Points)-1]
	if math.Abs(last.Mean-req.Bounds.CloseValue) > 1e-12 {
		t.Errorf("ensemble mean at close must equal close, got %v", last.Mean)
	}
	for i, ep := range es.Points {
		if ep.Low > ep.Mean || ep.Mean > ep.High {
			t.Fatalf("point %d: envelope does not contain mean: %+v", i, ep)
		}
	}
	if es.GlobalMax > req.Bounds.DailyMax+1e-9 || es.GlobalMin < req.Bounds.DailyMin-1e-9 {
		t.Errorf("global envelope outside band: [%v, %v]", es.GlobalMin, es.GlobalMax)
	}
	if es.MeanTotalVariation <= 0 {
		t.Error("expected positive mean total variation")
	}
}

func TestSummarizeEnsemble_Empty(t *testing.T) {
	es := SummarizeEnsemble(&models.SimulationResult{})
	if len(es.Points) != 0 {
		t.Fatal("empty result must summarize to empty ensemble")
	}
}
