package scoring

import (
	"math"
	"testing"
)

func TestPositionFactor(t *testing.T) {
	tests := []struct {
		name string
		vr   float64
		avg  float64
		mcap float64
		want float64
	}{
		{"above sector, top cap", 70, 50, 0.95, 0.25*0.4 + 0.75*0.95 - 0.5},
		{"below sector", 30, 60, 0.2, 0.25*-0.5 + 0.75*0.2 - 0.5},
		{"zero sector average", 70, 0, 0.5, 0.75*0.5 - 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionFactor(tt.vr, tt.avg, tt.mcap, 0.25)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

// When V^R equals the sector average the relative-strength term vanishes.
func TestPositionFactorAtSectorAverage(t *testing.T) {
	const lambda = 0.25
	for _, mcap := range []float64{0, 0.1, 0.5, 0.73, 1} {
		got := PositionFactor(55, 55, mcap, lambda)
		want := -0.5 + (1-lambda)*mcap
		if got != want {
			t.Errorf("mcap %.2f: got %v, want exactly %v", mcap, got, want)
		}
	}
}

func TestPositionFactorContinuous(t *testing.T) {
	const h = 1e-7
	for _, vr := range []float64{10, 49.9, 50, 50.1, 90} {
		a := PositionFactor(vr, 50, 0.6, 0.25)
		b := PositionFactor(vr+h, 50, 0.6, 0.25)
		if math.Abs(a-b) > 1e-6 {
			t.Errorf("discontinuity near vr=%f: %f vs %f", vr, a, b)
		}
	}
}

func TestPositionFactorUnclamped(t *testing.T) {
	// Extreme relative strength surfaces beyond 1 instead of being truncated.
	if got := PositionFactor(100, 5, 1, 0.25); got <= 1 {
		t.Errorf("expected outlier above 1, got %f", got)
	}
}

func TestHolisticReadiness(t *testing.T) {
	if got := HolisticReadiness(84, 1.20, 0); math.Abs(got-100.8) > 1e-9 {
		t.Errorf("expected 100.8, got %f", got)
	}
	if got := HolisticReadiness(55, 1.0, -0.2); math.Abs(got-44) > 1e-9 {
		t.Errorf("expected 44, got %f", got)
	}
	// Unclamped above 100.
	if got := HolisticReadiness(84, 1.20, 0.5); got <= 100 {
		t.Errorf("expected H^R above 100, got %f", got)
	}
}

func TestSynergy(t *testing.T) {
	if got := Synergy(80, 100); got != 80.0 {
		t.Errorf("expected exactly 80.0, got %v", got)
	}
	if got := Synergy(50, 40); got != 20.0 {
		t.Errorf("expected 20.0, got %v", got)
	}
	if got := Synergy(100, 150); got != 150.0 {
		t.Errorf("expected unclamped 150.0, got %v", got)
	}
}
