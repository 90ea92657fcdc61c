package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"VolPath/internal/simulation"
	"VolPath/internal/usecase"

	"github.com/labstack/echo/v4"
)

type noopMetrics struct{}

func (noopMetrics) RecordRun(string)                {}
func (noopMetrics) RecordError(string)              {}
func (noopMetrics) RecordPathsGenerated(int)        {}
func (noopMetrics) RecordClampedPoints(int)         {}
func (noopMetrics) RecordRunDuration(float64)       {}
func (noopMetrics) RecordDiffusion(string, float64) {}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	runner := usecase.NewSimulationRunner(simulation.NewGenerator(), nil, nil, noopMetrics{})
	h := NewHandler(runner, nil, Limits{MaxPaths: 100, MaxSteps: 10000})
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSimulate(t *testing.T) {
	e := newTestServer(t)
	rec := postJSON(e, "/api/simulate",
		`{"open":16.94,"close":18.02,"max":18.86,"min":16.25,"hours":13,"paths":3,"steps":50,"seed":42}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Status int          `json:"status"`
		Data   SimulateData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(env.Data.Paths) != 3 {
		t.Fatalf("paths = %d, want 3", len(env.Data.Paths))
	}
	if len(env.Data.Grid) != 51 {
		t.Fatalf("grid length = %d, want 51", len(env.Data.Grid))
	}
	if env.Data.Diffusion <= 0 {
		t.Fatalf("diffusion = %v, want > 0", env.Data.Diffusion)
	}
	if env.Data.Estimate == nil {
		t.Fatal("estimate missing for auto diffusion")
	}
	for _, p := range env.Data.Paths {
		if len(p.Values) != 51 {
			t.Fatalf("path %d has %d values, want 51", p.ID, len(p.Values))
		}
		if p.Values[0] != 16.94 || p.Values[50] != 18.02 {
			t.Fatalf("path %d endpoints = (%v, %v)", p.ID, p.Values[0], p.Values[50])
		}
	}
}

func TestSimulate_ManualDiffusion(t *testing.T) {
	e := newTestServer(t)
	rec := postJSON(e, "/api/simulate",
		`{"open":16.94,"close":18.02,"max":18.86,"min":16.25,"hours":13,"paths":1,"steps":20,"seed":7,"diffusion":0.25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data SimulateData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data.Diffusion != 0.25 {
		t.Fatalf("diffusion = %v, want 0.25", env.Data.Diffusion)
	}
	if env.Data.Estimate != nil {
		t.Fatal("estimate should be omitted when diffusion is manual")
	}
}

func TestSimulate_MissingBounds(t *testing.T) {
	e := newTestServer(t)
	rec := postJSON(e, "/api/simulate", `{"close":18.02,"max":18.86,"min":16.25}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestSimulate_PathLimit(t *testing.T) {
	e := newTestServer(t)
	rec := postJSON(e, "/api/simulate",
		`{"open":16.94,"close":18.02,"max":18.86,"min":16.25,"paths":500}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestSimulate_BoundaryViolation(t *testing.T) {
	e := newTestServer(t)
	rec := postJSON(e, "/api/simulate",
		`{"open":20.0,"close":18.02,"max":18.86,"min":16.25,"hours":13,"paths":1,"steps":10,"seed":1}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestEstimate(t *testing.T) {
	e := newTestServer(t)
	rec := postJSON(e, "/api/estimate",
		`{"open":16.94,"max":18.86,"min":16.25,"hours":24,"style":"moderate"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data EstimateData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	want := (18.86 - 16.25) / 16.94
	if math.Abs(env.Data.Coefficient-want) > 1e-12 {
		t.Fatalf("coefficient = %v, want %v", env.Data.Coefficient, want)
	}
	if env.Data.Style != "moderate" {
		t.Fatalf("style = %q, want moderate", env.Data.Style)
	}
}

func TestEstimate_UnknownStyle(t *testing.T) {
	e := newTestServer(t)
	rec := postJSON(e, "/api/estimate",
		`{"open":16.94,"max":18.86,"min":16.25,"style":"reckless"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestEstimate_ZeroRange(t *testing.T) {
	e := newTestServer(t)
	rec := postJSON(e, "/api/estimate",
		`{"open":16.94,"max":17.0,"min":17.0,"hours":13}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}
