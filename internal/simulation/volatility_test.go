package simulation

import (
	"errors"
	"math"
	"testing"

	"VolPath/internal/domain/models"
)

func TestEstimateDiffusion_FullDayCollapsesTimeScaling(t *testing.T) {
	b := models.SessionBounds{
		OpenValue:    16.94,
		DailyMax:     18.86,
		DailyMin:     16.25,
		SessionHours: 24,
	}
	est, err := EstimateDiffusion(b, models.StyleModerate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (b.DailyMax - b.DailyMin) / b.OpenValue
	if est.Coefficient != want {
		t.Fatalf("expected exact %.17g at 24h, got %.17g", want, est.Coefficient)
	}
	if est.TimeScaling != 1 {
		t.Errorf("expected time scaling 1 at 24h, got %v", est.TimeScaling)
	}
}

func TestEstimateDiffusion_StyleOrdering(t *testing.T) {
	b := models.SessionBounds{
		OpenValue:    20,
		DailyMax:     22,
		DailyMin:     19,
		SessionHours: 13,
	}
	cons, err := EstimateDiffusion(b, models.StyleConservative)
	if err != nil {
		t.Fatalf("conservative: %v", err)
	}
	mod, err := EstimateDiffusion(b, models.StyleModerate)
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	agg, err := EstimateDiffusion(b, models.StyleAggressive)
	if err != nil {
		t.Fatalf("aggressive: %v", err)
	}
	if !(cons.Coefficient < mod.Coefficient && mod.Coefficient < agg.Coefficient) {
		t.Fatalf("expected strict ordering, got %v < %v < %v",
			cons.Coefficient, mod.Coefficient, agg.Coefficient)
	}
	if cons.Coefficient != 0.5*mod.Coefficient {
		t.Errorf("conservative should be half of moderate")
	}
	if agg.Coefficient != 1.5*mod.Coefficient {
		t.Errorf("aggressive should be 1.5x moderate")
	}
}

func TestEstimateDiffusion_TimeScalingLaw(t *testing.T) {
	b := models.SessionBounds{
		OpenValue:    16.94,
		DailyMax:     18.86,
		DailyMin:     16.25,
		SessionHours: 6,
	}
	est, err := EstimateDiffusion(b, models.StyleModerate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (b.DailyMax - b.DailyMin) / b.OpenValue * math.Sqrt(6.0/24.0)
	if math.Abs(est.Coefficient-want) > 1e-15 {
		t.Fatalf("expected %v, got %v", want, est.Coefficient)
	}
}

func TestEstimateDiffusion_Deterministic(t *testing.T) {
	b := models.SessionBounds{
		OpenValue:    16.94,
		DailyMax:     18.86,
		DailyMin:     16.25,
		SessionHours: 13,
	}
	a, err := EstimateDiffusion(b, models.StyleAggressive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := EstimateDiffusion(b, models.StyleAggressive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != c {
		t.Fatalf("estimator must be pure: %+v != %+v", a, c)
	}
}

func TestEstimateDiffusion_InvalidInputs(t *testing.T) {
	valid := models.SessionBounds{
		OpenValue:    16.94,
		DailyMax:     18.86,
		DailyMin:     16.25,
		SessionHours: 13,
	}

	zeroOpen := valid
	zeroOpen.OpenValue = 0
	if _, err := EstimateDiffusion(zeroOpen, models.StyleModerate); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero open: expected ErrInvalidInput, got %v", err)
	}

	flatRange := valid
	flatRange.DailyMin = flatRange.DailyMax
	if _, err := EstimateDiffusion(flatRange, models.StyleModerate); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("max == min: expected ErrInvalidInput, got %v", err)
	}

	invRange := valid
	invRange.DailyMin, invRange.DailyMax = invRange.DailyMax, invRange.DailyMin
	if _, err := EstimateDiffusion(invRange, models.StyleModerate); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("max < min: expected ErrInvalidInput, got %v", err)
	}

	noHours := valid
	noHours.SessionHours = 0
	if _, err := EstimateDiffusion(noHours, models.StyleModerate); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero duration: expected ErrInvalidInput, got %v", err)
	}

	if _, err := EstimateDiffusion(valid, models.VolatilityStyle(42)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown style: expected ErrInvalidInput, got %v", err)
	}
}

func TestParseVolatilityStyle(t *testing.T) {
	for _, name := range []string{"conservative", "moderate", "aggressive"} {
		s, ok := models.ParseVolatilityStyle(name)
		if !ok {
			t.Fatalf("expected %q to parse", name)
		}
		if s.String() != name {
			t.Errorf("round trip failed for %q: got %q", name, s.String())
		}
	}
	if _, ok := models.ParseVolatilityStyle("yolo"); ok {
		t.Error("expected unknown style name to fail")
	}
}
