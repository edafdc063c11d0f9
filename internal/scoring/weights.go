package scoring

import (
	"fmt"
	"math"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

const weightTolerance = 1e-9

// finite reports whether v is a real number, neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DimensionWeights defines the relative importance of each dimension in V^R.
// All weights must sum to 1.0.
type DimensionWeights struct {
	DataInfrastructure float64 `json:"data_infrastructure"`
	AIGovernance       float64 `json:"ai_governance"`
	TechnologyStack    float64 `json:"technology_stack"`
	TalentSkills       float64 `json:"talent_skills"`
	LeadershipVision   float64 `json:"leadership_vision"`
	UseCasePortfolio   float64 `json:"use_case_portfolio"`
	CultureChange      float64 `json:"culture_change"`
}

// DefaultDimensionWeights returns the documented weight distribution.
func DefaultDimensionWeights() DimensionWeights {
	return DimensionWeights{
		DataInfrastructure: 0.20,
		AIGovernance:       0.15,
		TechnologyStack:    0.20,
		TalentSkills:       0.20,
		LeadershipVision:   0.10,
		UseCasePortfolio:   0.10,
		CultureChange:      0.05,
	}
}

// For returns the weight of a single dimension.
func (w DimensionWeights) For(d evidence.Dimension) float64 {
	switch d {
	case evidence.DimDataInfrastructure:
		return w.DataInfrastructure
	case evidence.DimAIGovernance:
		return w.AIGovernance
	case evidence.DimTechnologyStack:
		return w.TechnologyStack
	case evidence.DimTalentSkills:
		return w.TalentSkills
	case evidence.DimLeadershipVision:
		return w.LeadershipVision
	case evidence.DimUseCasePortfolio:
		return w.UseCasePortfolio
	case evidence.DimCultureChange:
		return w.CultureChange
	}
	return 0
}

func (w *DimensionWeights) set(d evidence.Dimension, v float64) {
	switch d {
	case evidence.DimDataInfrastructure:
		w.DataInfrastructure = v
	case evidence.DimAIGovernance:
		w.AIGovernance = v
	case evidence.DimTechnologyStack:
		w.TechnologyStack = v
	case evidence.DimTalentSkills:
		w.TalentSkills = v
	case evidence.DimLeadershipVision:
		w.LeadershipVision = v
	case evidence.DimUseCasePortfolio:
		w.UseCasePortfolio = v
	case evidence.DimCultureChange:
		w.CultureChange = v
	}
}

// Sum returns the total of all weights.
func (w DimensionWeights) Sum() float64 {
	var sum float64
	for _, v := range w.asList() {
		sum += v
	}
	return sum
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w DimensionWeights) Validate() error {
	for _, v := range w.asList() {
		if !finite(v) {
			return fmt.Errorf("dimension weight %f is not a finite number", v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("dimension weights sum to %.6f, must sum to 1.0", w.Sum())
	}
	for _, v := range w.asList() {
		if v < 0 {
			return fmt.Errorf("negative dimension weight: %f", v)
		}
	}
	return nil
}

func (w DimensionWeights) asList() []float64 {
	return []float64{
		w.DataInfrastructure, w.AIGovernance, w.TechnologyStack, w.TalentSkills,
		w.LeadershipVision, w.UseCasePortfolio, w.CultureChange,
	}
}

func dimensionWeightsFromMap(m map[string]float64) (DimensionWeights, error) {
	w := DefaultDimensionWeights()
	for name, v := range m {
		d := evidence.Dimension(name)
		if !d.Valid() {
			return w, fmt.Errorf("unknown dimension %q in dimension weights", name)
		}
		w.set(d, v)
	}
	return w, nil
}
