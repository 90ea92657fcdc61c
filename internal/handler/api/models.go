package api

import (
	"VolPath/internal/domain/models"
	"VolPath/internal/usecase"
)

// SimulateRequest is the simulation endpoint payload. Session bounds are
// required; everything else carries a sensible default.
type SimulateRequest struct {
	Open  float64 `json:"open" query:"open" validate:"required"`
	Close float64 `json:"close" query:"close" validate:"required"`
	Max   float64 `json:"max" query:"max" validate:"required"`
	Min   float64 `json:"min" query:"min" validate:"required"`
	Hours float64 `json:"hours" query:"hours" default:"6.5" validate:"gt=0"`

	Style string `json:"style" query:"style" default:"moderate" validate:"volstyle"`

	// Diffusion overrides the range-based estimator when set.
	Diffusion *float64 `json:"diffusion,omitempty" query:"diffusion" validate:"omitempty,gt=0"`

	Paths int   `json:"paths" query:"paths" default:"20" validate:"gte=1"`
	Steps int   `json:"steps" query:"steps" default:"1000" validate:"gte=1"`
	Seed  int64 `json:"seed" query:"seed"`
}

// EstimateRequest is the estimator endpoint payload.
type EstimateRequest struct {
	Open  float64 `json:"open" validate:"required"`
	Max   float64 `json:"max" validate:"required"`
	Min   float64 `json:"min" validate:"required"`
	Hours float64 `json:"hours" default:"6.5" validate:"gt=0"`
	Style string  `json:"style" default:"moderate" validate:"volstyle"`
}

// EstimateData echoes the estimator decomposition.
type EstimateData struct {
	Coefficient float64 `json:"coefficient"`
	RangeRatio  float64 `json:"range_ratio"`
	TimeScaling float64 `json:"time_scaling"`
	BaseVol     float64 `json:"base_vol"`
	Multiplier  float64 `json:"multiplier"`
	Style       string  `json:"style"`
}

// PathData is one generated path plus its statistics. Values is omitted
// when the run exceeds the inline point budget; statistics and the
// ensemble are always present.
type PathData struct {
	ID             int       `json:"id"`
	Values         []float64 `json:"values,omitempty"`
	PathMax        float64   `json:"path_max"`
	PathMin        float64   `json:"path_min"`
	TotalVariation float64   `json:"total_variation"`
}

// EnsembleData is the cross-path aggregate.
type EnsembleData struct {
	Mean               []float64 `json:"mean"`
	Low                []float64 `json:"low"`
	High               []float64 `json:"high"`
	GlobalMax          float64   `json:"global_max"`
	GlobalMin          float64   `json:"global_min"`
	MeanTotalVariation float64   `json:"mean_total_variation"`
}

// SimulateData is the simulation response body.
type SimulateData struct {
	Diffusion float64       `json:"diffusion"`
	Estimate  *EstimateData `json:"estimate,omitempty"`
	FromCache bool          `json:"from_cache"`
	Grid      []float64     `json:"grid"`
	Paths     []PathData    `json:"paths"`
	Ensemble  EnsembleData  `json:"ensemble"`
}

func (r *SimulateRequest) toScenario() (usecase.ScenarioRequest, bool) {
	style, ok := models.ParseVolatilityStyle(r.Style)
	if !ok {
		return usecase.ScenarioRequest{}, false
	}
	return usecase.ScenarioRequest{
		Bounds: models.SessionBounds{
			OpenValue:    r.Open,
			CloseValue:   r.Close,
			DailyMax:     r.Max,
			DailyMin:     r.Min,
			SessionHours: r.Hours,
		},
		Style:           style,
		ManualDiffusion: r.Diffusion,
		NPaths:          r.Paths,
		NSteps:          r.Steps,
		Seed:            r.Seed,
	}, true
}

func estimateData(e *models.DiffusionEstimate) *EstimateData {
	if e == nil {
		return nil
	}
	return &EstimateData{
		Coefficient: e.Coefficient,
		RangeRatio:  e.RangeRatio,
		TimeScaling: e.TimeScaling,
		BaseVol:     e.BaseVol,
		Multiplier:  e.Multiplier,
		Style:       e.Style.String(),
	}
}

// maxInlinePoints caps the point count returned inline in a JSON body.
// Larger runs keep their statistics and ensemble; the point table is
// available over the websocket stream.
const maxInlinePoints = 500_000

func simulateData(out *usecase.RunOutput) *SimulateData {
	res := out.Result
	inline := len(res.Points) <= maxInlinePoints
	paths := make([]PathData, 0, len(res.Stats))
	for _, st := range res.Stats {
		pd := PathData{
			ID:             st.PathID,
			PathMax:        st.PathMax,
			PathMin:        st.PathMin,
			TotalVariation: st.TotalVariation,
		}
		if inline {
			pd.Values = res.PathValues(st.PathID)
		}
		paths = append(paths, pd)
	}

	ens := EnsembleData{
		Mean:               make([]float64, len(out.Ensemble.Points)),
		Low:                make([]float64, len(out.Ensemble.Points)),
		High:               make([]float64, len(out.Ensemble.Points)),
		GlobalMax:          out.Ensemble.GlobalMax,
		GlobalMin:          out.Ensemble.GlobalMin,
		MeanTotalVariation: out.Ensemble.MeanTotalVariation,
	}
	grid := make([]float64, len(out.Ensemble.Points))
	for i, p := range out.Ensemble.Points {
		grid[i] = p.Time
		ens.Mean[i] = p.Mean
		ens.Low[i] = p.Low
		ens.High[i] = p.High
	}

	return &SimulateData{
		Diffusion: out.Diffusion,
		Estimate:  estimateData(out.Estimate),
		FromCache: out.FromCache,
		Grid:      grid,
		Paths:     paths,
		Ensemble:  ens,
	}
}
