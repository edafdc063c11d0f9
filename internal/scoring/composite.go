package scoring

import (
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

// z95 is the two-sided 95% normal quantile.
const z95 = 1.96

// ConfidenceInterval bounds the published score.
type ConfidenceInterval struct {
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	SEM         float64 `json:"sem"`
	Reliability float64 `json:"reliability"`
}

// CompositeScorer blends V^R, H^R and synergy into the published Org-AI-R.
type CompositeScorer struct {
	alpha              float64
	beta               float64
	semK               float64
	defaultReliability float64
}

func NewCompositeScorer(p Params) *CompositeScorer {
	return &CompositeScorer{
		alpha:              p.Alpha,
		beta:               p.Beta,
		semK:               p.SEMK,
		defaultReliability: p.DefaultReliability,
	}
}

// Score returns the clamped composite. This is the one mandatory clamp in the
// pipeline because the composite is the externally reported number.
func (c *CompositeScorer) Score(vr, hr, synergy float64) float64 {
	base := c.alpha*vr + (1-c.alpha)*hr
	return clamp((1-c.beta)*base+c.beta*synergy, 0, 100)
}

// Interval derives the 95% interval from the mean confidence of the records
// that fed the score. With no records the conservative default reliability is
// used. SEMK is a calibration constant for the largest plausible measurement
// noise, not a psychometric estimate.
func (c *CompositeScorer) Interval(score float64, used []evidence.Record) ConfidenceInterval {
	reliability := c.defaultReliability
	if len(used) > 0 {
		var sum float64
		for _, r := range used {
			sum += r.Confidence
		}
		reliability = sum / float64(len(used))
	}

	sem := (1 - reliability) * c.semK
	return ConfidenceInterval{
		Lower:       clamp(score-z95*sem, 0, 100),
		Upper:       clamp(score+z95*sem, 0, 100),
		SEM:         sem,
		Reliability: reliability,
	}
}

// Band labels a composite score.
func Band(score float64) string {
	switch {
	case score >= 85:
		return "leader"
	case score >= 65:
		return "strong"
	case score >= 50:
		return "developing"
	case score >= 35:
		return "emerging"
	default:
		return "nascent"
	}
}
