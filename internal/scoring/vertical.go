package scoring

import (
	"math"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

// VerticalReadiness is the V^R stage output with its penalty terms exposed.
type VerticalReadiness struct {
	Score                float64 `json:"score"`
	WeightedAverage      float64 `json:"weighted_average"`
	StdDev               float64 `json:"std_dev"`
	BalancePenalty       float64 `json:"balance_penalty"`
	ConcentrationPenalty float64 `json:"concentration_penalty"`
}

// VerticalReadinessScorer computes internal AI readiness from dimension scores.
type VerticalReadinessScorer struct {
	weights     DimensionWeights
	balanceK    float64
	delta       float64
	tcThreshold float64
}

func NewVerticalReadinessScorer(weights DimensionWeights, p Params) *VerticalReadinessScorer {
	return &VerticalReadinessScorer{
		weights:     weights,
		balanceK:    p.BalanceK,
		delta:       p.Delta,
		tcThreshold: p.TCThreshold,
	}
}

// Score applies the balance and concentration penalties:
//
//	V^R = clamp(wavg − k·σ − δ·max(0, tc−threshold)·wavg, 0, 100)
//
// An uneven profile scores below a uniform one with the same weighted mean.
// Concentration at or below the threshold is tolerated.
func (s *VerticalReadinessScorer) Score(scores DimensionScores, tc float64) VerticalReadiness {
	var wavg float64
	for _, d := range evidence.Dimensions() {
		wavg += scores[d] * s.weights.For(d)
	}

	sd := populationStdDev(scores.Values())
	balance := s.balanceK * sd
	tcPenalty := s.delta * math.Max(0, tc-s.tcThreshold)

	return VerticalReadiness{
		Score:                clamp(wavg-balance-tcPenalty*wavg, 0, 100),
		WeightedAverage:      wavg,
		StdDev:               sd,
		BalancePenalty:       balance,
		ConcentrationPenalty: tcPenalty * wavg,
	}
}

func populationStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
