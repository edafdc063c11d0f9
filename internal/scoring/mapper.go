package scoring

import (
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

// DimensionScores holds one 0–100 score per dimension.
type DimensionScores map[evidence.Dimension]float64

// Values returns the scores in canonical dimension order.
func (s DimensionScores) Values() []float64 {
	dims := evidence.Dimensions()
	out := make([]float64, len(dims))
	for i, d := range dims {
		out[i] = s[d]
	}
	return out
}

// SourceContribution is one source's share of a dimension score.
type SourceContribution struct {
	Source   evidence.Source `json:"source"`
	Score    float64         `json:"score"`
	Weight   float64         `json:"weight"`
	Weighted float64         `json:"weighted"`
}

// DimensionBreakdown explains how a dimension score was reached.
type DimensionBreakdown struct {
	Dimension     evidence.Dimension   `json:"dimension"`
	Score         float64              `json:"score"`
	Available     bool                 `json:"available"`
	Reason        string               `json:"reason"`
	Contributions []SourceContribution `json:"contributions,omitempty"`
}

// MapResult is the output of the evidence mapper.
type MapResult struct {
	Scores    DimensionScores      `json:"scores"`
	Breakdown []DimensionBreakdown `json:"breakdown"`
	// Used holds the one record per source that fed the mapping, in source order.
	Used []evidence.Record `json:"-"`
}

// EvidenceMapper turns a company's evidence records into seven dimension scores.
type EvidenceMapper struct {
	matrix  WeightMatrix
	neutral float64
}

// NewEvidenceMapper creates a mapper over the given matrix. neutral is the
// score of a dimension no evidence contributes to.
func NewEvidenceMapper(matrix WeightMatrix, neutral float64) *EvidenceMapper {
	return &EvidenceMapper{matrix: matrix, neutral: neutral}
}

// Map validates the records and computes the dimension scores.
//
// Precondition: the mapper does not aggregate duplicates. When several records
// share a source, the latest (by CollectedAt, later position on ties) is used.
//
//	dimension = Σ score_s·w[s][d] / Σ w[s][d]   over sources s with evidence
//
// The denominator is renormalised over the present sources so partial
// evidence does not deflate a dimension.
func (m *EvidenceMapper) Map(records []evidence.Record) (MapResult, error) {
	if err := evidence.ValidateAll(records); err != nil {
		return MapResult{}, err
	}

	latest := latestBySource(records)

	var used []evidence.Record
	for _, s := range evidence.Sources() {
		if r, ok := latest[s]; ok {
			used = append(used, r)
		}
	}

	result := MapResult{
		Scores: make(DimensionScores, len(evidence.Dimensions())),
		Used:   used,
	}

	for _, d := range evidence.Dimensions() {
		var num, den float64
		var contribs []SourceContribution
		for _, r := range used {
			w := m.matrix.Weight(r.Source, d)
			if w <= 0 {
				continue
			}
			num += r.Score * w
			den += w
			contribs = append(contribs, SourceContribution{
				Source:   r.Source,
				Score:    r.Score,
				Weight:   w,
				Weighted: r.Score * w,
			})
		}

		if den == 0 {
			result.Scores[d] = m.neutral
			result.Breakdown = append(result.Breakdown, DimensionBreakdown{
				Dimension: d,
				Score:     m.neutral,
				Available: false,
				Reason:    "no contributing evidence, neutral default",
			})
			continue
		}

		score := clamp(num/den, 0, 100)
		result.Scores[d] = score
		result.Breakdown = append(result.Breakdown, DimensionBreakdown{
			Dimension:     d,
			Score:         score,
			Available:     true,
			Reason:        "weighted mean over present sources",
			Contributions: contribs,
		})
	}

	return result, nil
}

func latestBySource(records []evidence.Record) map[evidence.Source]evidence.Record {
	latest := make(map[evidence.Source]evidence.Record, len(records))
	for _, r := range records {
		cur, ok := latest[r.Source]
		if !ok || !r.CollectedAt.Before(cur.CollectedAt) {
			latest[r.Source] = r
		}
	}
	return latest
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
