package usecase

import (
	"VolPath/internal/domain/models"
)

// EnsemblePoint is the cross-path aggregate at one grid index.
type EnsemblePoint struct {
	Time float64
	Mean float64
	Low  float64
	High float64
}

// EnsembleSummary aggregates a run for plotting and reporting: the per-index
// mean with its min/max envelope, plus run-level statistics.
type EnsembleSummary struct {
	Points             []EnsemblePoint
	GlobalMax          float64
	GlobalMin          float64
	MeanTotalVariation float64
}

// SummarizeEnsemble groups points by time index across all paths and reduces
// them to mean and envelope. Pure post-processing: the underlying result is
// not modified, and no smoothing is applied.
func SummarizeEnsemble(res *models.SimulationResult) *EnsembleSummary {
	nPaths := len(res.Stats)
	if nPaths == 0 || len(res.Points) == 0 {
		return &EnsembleSummary{}
	}
	perPath := len(res.Points) / nPaths

	points := make([]EnsemblePoint, perPath)
	for j := 0; j < perPath; j++ {
		ep := EnsemblePoint{
			Time: res.Points[j].Time,
			Low:  res.Points[j].Value,
			High: res.Points[j].Value,
		}
		sum := 0.0
		for i := 0; i < nPaths; i++ {
			v := res.Points[i*perPath+j].Value
			sum += v
			if v < ep.Low {
				ep.Low = v
			}
			if v > ep.High {
				ep.High = v
			}
		}
		ep.Mean = sum / float64(nPaths)
		points[j] = ep
	}

	s := &EnsembleSummary{
		Points:    points,
		GlobalMax: res.Stats[0].PathMax,
		GlobalMin: res.Stats[0].PathMin,
	}
	sumVar := 0.0
	for _, st := range res.Stats {
		if st.PathMax > s.GlobalMax {
			s.GlobalMax = st.PathMax
		}
		if st.PathMin < s.GlobalMin {
			s.GlobalMin = st.PathMin
		}
		sumVar += st.TotalVariation
	}
	s.MeanTotalVariation = sumVar / float64(nPaths)
	return s
}
