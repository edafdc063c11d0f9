package scoring

import "fmt"

// Params holds the scalar knobs of the pipeline. BalanceK and SEMK are
// calibration defaults, not derived constants; recalibrate them as configuration.
type Params struct {
	Alpha                      float64 `json:"alpha"`
	Beta                       float64 `json:"beta"`
	Delta                      float64 `json:"delta"`
	Lambda                     float64 `json:"lambda"`
	TCThreshold                float64 `json:"tc_threshold"`
	SEMK                       float64 `json:"sem_k"`
	BalanceK                   float64 `json:"balance_k"`
	NeutralScore               float64 `json:"neutral_score"`
	DefaultReliability         float64 `json:"default_reliability"`
	DefaultMarketCapPercentile float64 `json:"default_mcap_percentile"`
	IndividualMentionsCap      int     `json:"individual_mentions_cap"`
}

// DefaultParams returns the documented parameter defaults.
func DefaultParams() Params {
	return Params{
		Alpha:                      0.60,
		Beta:                       0.12,
		Delta:                      0.15,
		Lambda:                     0.25,
		TCThreshold:                0.25,
		SEMK:                       15.0,
		BalanceK:                   0.10,
		NeutralScore:               50.0,
		DefaultReliability:         0.5,
		DefaultMarketCapPercentile: 0.5,
		IndividualMentionsCap:      5,
	}
}

// Validate rejects parameter sets that would make a stage undefined.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"alpha", p.Alpha},
		{"beta", p.Beta},
		{"delta", p.Delta},
		{"lambda", p.Lambda},
		{"tc_threshold", p.TCThreshold},
		{"sem_k", p.SEMK},
		{"balance_k", p.BalanceK},
		{"neutral_score", p.NeutralScore},
		{"default_reliability", p.DefaultReliability},
		{"default_mcap_percentile", p.DefaultMarketCapPercentile},
	} {
		if !finite(f.v) {
			return fmt.Errorf("param %s = %f, must be a finite number", f.name, f.v)
		}
	}

	unit := []struct {
		name string
		v    float64
	}{
		{"alpha", p.Alpha},
		{"beta", p.Beta},
		{"lambda", p.Lambda},
		{"tc_threshold", p.TCThreshold},
		{"default_reliability", p.DefaultReliability},
		{"default_mcap_percentile", p.DefaultMarketCapPercentile},
	}
	for _, u := range unit {
		if u.v < 0 || u.v > 1 {
			return fmt.Errorf("param %s = %f, must be in [0, 1]", u.name, u.v)
		}
	}
	if p.Delta < 0 {
		return fmt.Errorf("param delta = %f, must be >= 0", p.Delta)
	}
	if p.SEMK < 0 {
		return fmt.Errorf("param sem_k = %f, must be >= 0", p.SEMK)
	}
	if p.BalanceK < 0 {
		return fmt.Errorf("param balance_k = %f, must be >= 0", p.BalanceK)
	}
	if p.NeutralScore < 0 || p.NeutralScore > 100 {
		return fmt.Errorf("param neutral_score = %f, must be in [0, 100]", p.NeutralScore)
	}
	if p.IndividualMentionsCap <= 0 {
		return fmt.Errorf("param individual_mentions_cap = %d, must be > 0", p.IndividualMentionsCap)
	}
	return nil
}
