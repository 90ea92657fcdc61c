package models

// SessionBounds holds the four observed scalars of a trading session plus its
// length. It is the sole market input to a simulation run.
type SessionBounds struct {
	OpenValue    float64
	CloseValue   float64
	DailyMax     float64
	DailyMin     float64
	SessionHours float64
}

// VolatilityStyle selects how aggressively the estimator scales the
// range-based volatility proxy.
type VolatilityStyle int

const (
	StyleConservative VolatilityStyle = iota
	StyleModerate
	StyleAggressive
)

// Multiplier returns the fixed scaling factor for the style. The second
// return reports whether the style is a known member of the closed set.
func (s VolatilityStyle) Multiplier() (float64, bool) {
	switch s {
	case StyleConservative:
		return 0.5, true
	case StyleModerate:
		return 1.0, true
	case StyleAggressive:
		return 1.5, true
	default:
		return 0, false
	}
}

func (s VolatilityStyle) String() string {
	switch s {
	case StyleConservative:
		return "conservative"
	case StyleModerate:
		return "moderate"
	case StyleAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// ParseVolatilityStyle maps a style name to its enum value.
func ParseVolatilityStyle(name string) (VolatilityStyle, bool) {
	switch name {
	case "conservative":
		return StyleConservative, true
	case "moderate":
		return StyleModerate, true
	case "aggressive":
		return StyleAggressive, true
	default:
		return 0, false
	}
}

// DiffusionEstimate carries the diffusion coefficient together with the
// intermediate quantities it was derived from, so callers can log the
// breakdown without the estimator printing anything itself.
type DiffusionEstimate struct {
	Coefficient float64
	RangeRatio  float64
	TimeScaling float64
	BaseVol     float64
	Multiplier  float64
	Style       VolatilityStyle
}

// PathPoint is one sample of one trajectory. Time is in hours from session
// open; PathID groups points belonging to the same trajectory (1..N).
type PathPoint struct {
	Time   float64
	Value  float64
	PathID int
}

// PathStatistics summarizes one finalized path.
type PathStatistics struct {
	PathID         int
	StartValue     float64
	EndValue       float64
	PathMax        float64
	PathMin        float64
	TotalVariation float64
}

// SimulationResult is the complete output of one run: all paths concatenated
// in path order (time-ordered within each path) plus one statistics record
// per path. Treated as immutable once returned.
type SimulationResult struct {
	Points []PathPoint
	Stats  []PathStatistics
}

// PathValues returns the value series of a single path, or nil if the id is
// out of range. Points for path id k occupy one contiguous block.
func (r *SimulationResult) PathValues(pathID int) []float64 {
	if len(r.Stats) == 0 || pathID < 1 || pathID > len(r.Stats) {
		return nil
	}
	perPath := len(r.Points) / len(r.Stats)
	start := (pathID - 1) * perPath
	vals := make([]float64, perPath)
	for i, p := range r.Points[start : start+perPath] {
		vals[i] = p.Value
	}
	return vals
}
