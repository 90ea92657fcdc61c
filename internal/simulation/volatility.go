package simulation

import (
	"math"

	"VolPath/internal/domain/models"
)

// EstimateDiffusion converts the session's range into a diffusion coefficient
// using the square-root-of-time law: a calendar-day range estimate is scaled
// down to the session length, expressed relative to the opening value, and
// widened or narrowed by the style multiplier.
//
// Pure function: same inputs always yield the same estimate.
func EstimateDiffusion(b models.SessionBounds, style models.VolatilityStyle) (models.DiffusionEstimate, error) {
	if b.OpenValue == 0 {
		return models.DiffusionEstimate{}, invalidInputf("open value must be non-zero")
	}
	if b.DailyMax <= b.DailyMin {
		return models.DiffusionEstimate{}, invalidInputf("daily max %.6g must exceed daily min %.6g", b.DailyMax, b.DailyMin)
	}
	if b.SessionHours <= 0 {
		return models.DiffusionEstimate{}, invalidInputf("session hours must be positive, got %.6g", b.SessionHours)
	}
	mult, ok := style.Multiplier()
	if !ok {
		return models.DiffusionEstimate{}, invalidInputf("unknown volatility style %d", int(style))
	}

	timeScaling := math.Sqrt(b.SessionHours / 24)
	rangeRatio := (b.DailyMax - b.DailyMin) / b.OpenValue
	baseVol := rangeRatio * timeScaling

	return models.DiffusionEstimate{
		Coefficient: baseVol * mult,
		RangeRatio:  rangeRatio,
		TimeScaling: timeScaling,
		BaseVol:     baseVol,
		Multiplier:  mult,
		Style:       style,
	}, nil
}
