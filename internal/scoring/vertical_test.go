package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

func newTestVertical() *VerticalReadinessScorer {
	return NewVerticalReadinessScorer(DefaultDimensionWeights(), DefaultParams())
}

func uniformScores(v float64) DimensionScores {
	s := make(DimensionScores)
	for _, d := range evidence.Dimensions() {
		s[d] = v
	}
	return s
}

func TestVerticalReadinessUniform(t *testing.T) {
	vr := newTestVertical().Score(uniformScores(70), 0.25)
	assert.InDelta(t, 70.0, vr.Score, 1e-9)
	assert.InDelta(t, 0.0, vr.StdDev, 1e-9)
	assert.Equal(t, 0.0, vr.ConcentrationPenalty)
}

// Equal weighted mean, different spread: the uneven profile must score lower.
func TestVerticalReadinessBalancePenalty(t *testing.T) {
	uniform := uniformScores(60)
	uneven := uniformScores(60)
	uneven[evidence.DimDataInfrastructure] = 80
	uneven[evidence.DimTechnologyStack] = 40

	s := newTestVertical()
	u := s.Score(uniform, 0)
	v := s.Score(uneven, 0)

	assert.InDelta(t, u.WeightedAverage, v.WeightedAverage, 1e-9)
	if !(v.Score < u.Score) {
		t.Errorf("expected uneven profile (%f) below uniform (%f)", v.Score, u.Score)
	}

	wider := uniformScores(60)
	wider[evidence.DimDataInfrastructure] = 95
	wider[evidence.DimTechnologyStack] = 25
	w := s.Score(wider, 0)
	if !(w.Score < v.Score) {
		t.Errorf("expected wider spread (%f) below narrower (%f)", w.Score, v.Score)
	}
}

func TestVerticalReadinessConcentrationPenalty(t *testing.T) {
	s := newTestVertical()
	scores := uniformScores(80)

	atThreshold := s.Score(scores, 0.25)
	assert.InDelta(t, 80.0, atThreshold.Score, 1e-9)

	belowThreshold := s.Score(scores, 0.10)
	assert.Equal(t, atThreshold.Score, belowThreshold.Score)

	// tc = 0.75 → penalty 0.15·0.5 = 0.075 of the weighted mean.
	severe := s.Score(scores, 0.75)
	assert.InDelta(t, 80*(1-0.075), severe.Score, 1e-9)
	assert.InDelta(t, 6.0, severe.ConcentrationPenalty, 1e-9)
}

func TestVerticalReadinessClamped(t *testing.T) {
	s := NewVerticalReadinessScorer(DefaultDimensionWeights(), Params{BalanceK: 10, Delta: 0.15, TCThreshold: 0.25})
	scores := uniformScores(0)
	scores[evidence.DimCultureChange] = 100
	vr := s.Score(scores, 1)
	assert.Equal(t, 0.0, vr.Score)
}

// Finite-difference sign test: raising any single dimension never lowers V^R.
func TestVerticalReadinessMonotone(t *testing.T) {
	s := newTestVertical()
	const eps = 0.5
	profiles := []DimensionScores{
		uniformScores(50),
		uniformScores(0),
		uniformScores(99),
	}
	skewed := uniformScores(10)
	skewed[evidence.DimCultureChange] = 95
	profiles = append(profiles, skewed)
	skewed2 := uniformScores(90)
	skewed2[evidence.DimCultureChange] = 5
	profiles = append(profiles, skewed2)
	for seed := 0; seed < 30; seed++ {
		p := make(DimensionScores)
		for i, d := range evidence.Dimensions() {
			p[d] = float64((seed*31 + i*17) % 100)
		}
		profiles = append(profiles, p)
	}

	for _, tc := range []float64{0, 0.25, 0.6, 1} {
		for pi, base := range profiles {
			before := s.Score(base, tc).Score
			for _, d := range evidence.Dimensions() {
				bumped := make(DimensionScores, len(base))
				for k, v := range base {
					bumped[k] = v
				}
				bumped[d] = math.Min(100, bumped[d]+eps)
				after := s.Score(bumped, tc).Score
				if after < before-1e-9 {
					t.Errorf("profile %d tc %.2f: raising %s lowered V^R %f → %f", pi, tc, d, before, after)
				}
			}
		}
	}
}
