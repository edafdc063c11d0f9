package scoring

import (
	"fmt"
	"math"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

// WeightMatrix maps each evidence source to its weighted contribution across
// dimensions. A missing cell is a zero weight. Every row must sum to 1.0.
type WeightMatrix map[evidence.Source]map[evidence.Dimension]float64

// DefaultWeightMatrix returns the documented evidence-to-dimension mapping.
func DefaultWeightMatrix() WeightMatrix {
	return WeightMatrix{
		evidence.SourceTechHiring: {
			evidence.DimTalentSkills:    0.70,
			evidence.DimTechnologyStack: 0.20,
			evidence.DimCultureChange:   0.10,
		},
		evidence.SourceInnovation: {
			evidence.DimTechnologyStack:    0.50,
			evidence.DimUseCasePortfolio:   0.30,
			evidence.DimDataInfrastructure: 0.20,
		},
		evidence.SourceDigital: {
			evidence.DimDataInfrastructure: 0.60,
			evidence.DimTechnologyStack:    0.40,
		},
		evidence.SourceLeadership: {
			evidence.DimLeadershipVision: 0.60,
			evidence.DimAIGovernance:     0.25,
			evidence.DimCultureChange:    0.15,
		},
		evidence.SourceSECItem1: {
			evidence.DimUseCasePortfolio: 0.70,
			evidence.DimTechnologyStack:  0.30,
		},
		evidence.SourceSECItem1A: {
			evidence.DimAIGovernance:       0.80,
			evidence.DimDataInfrastructure: 0.20,
		},
		evidence.SourceSECItem7: {
			evidence.DimLeadershipVision:   0.50,
			evidence.DimUseCasePortfolio:   0.30,
			evidence.DimDataInfrastructure: 0.20,
		},
		evidence.SourceGlassdoor: {
			evidence.DimCultureChange:    0.80,
			evidence.DimTalentSkills:     0.10,
			evidence.DimLeadershipVision: 0.10,
		},
		evidence.SourceBoard: {
			evidence.DimAIGovernance:     0.70,
			evidence.DimLeadershipVision: 0.30,
		},
	}
}

// Weight returns the weight of source s on dimension d.
func (m WeightMatrix) Weight(s evidence.Source, d evidence.Dimension) float64 {
	return m[s][d]
}

// RowSum returns the total weight a source distributes across dimensions.
func (m WeightMatrix) RowSum(s evidence.Source) float64 {
	var sum float64
	for _, d := range evidence.Dimensions() {
		sum += m[s][d]
	}
	return sum
}

// Validate checks that every registered source has a row, rows sum to 1.0 and
// no cell is negative or addressed to an unknown source or dimension.
func (m WeightMatrix) Validate() error {
	for s, row := range m {
		if !s.Valid() {
			return fmt.Errorf("weight matrix: %w: %q", evidence.ErrUnknownEvidenceSource, string(s))
		}
		for d, w := range row {
			if !d.Valid() {
				return fmt.Errorf("weight matrix: unknown dimension %q for source %s", d, s)
			}
			if !finite(w) {
				return fmt.Errorf("weight matrix: weight %f for %s/%s is not a finite number", w, s, d)
			}
			if w < 0 {
				return fmt.Errorf("weight matrix: negative weight %f for %s/%s", w, s, d)
			}
		}
	}
	for _, s := range evidence.Sources() {
		if _, ok := m[s]; !ok {
			return fmt.Errorf("weight matrix: missing row for source %s", s)
		}
		if sum := m.RowSum(s); math.Abs(sum-1.0) > weightTolerance {
			return fmt.Errorf("weight matrix: row %s sums to %.6f, must sum to 1.0", s, sum)
		}
	}
	return nil
}

// Clone returns a deep copy so a Model never shares rows with its caller.
func (m WeightMatrix) Clone() WeightMatrix {
	out := make(WeightMatrix, len(m))
	for s, row := range m {
		r := make(map[evidence.Dimension]float64, len(row))
		for d, w := range row {
			r[d] = w
		}
		out[s] = r
	}
	return out
}

// withOverrides replaces whole rows of the default matrix. A row given in
// config is taken as-is; cells it omits are zero.
func (m WeightMatrix) withOverrides(overrides map[string]map[string]float64) (WeightMatrix, error) {
	out := m.Clone()
	for rawSource, row := range overrides {
		s, err := evidence.ParseSource(rawSource)
		if err != nil {
			return nil, fmt.Errorf("matrix override: %w", err)
		}
		r := make(map[evidence.Dimension]float64, len(row))
		for rawDim, w := range row {
			d := evidence.Dimension(rawDim)
			if !d.Valid() {
				return nil, fmt.Errorf("matrix override: unknown dimension %q for source %s", rawDim, s)
			}
			r[d] = w
		}
		out[s] = r
	}
	return out, nil
}
