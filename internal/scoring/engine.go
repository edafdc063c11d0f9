package scoring

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/config"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

// Model bundles the static configuration of the pipeline. It is built once at
// startup and only read afterwards.
type Model struct {
	Matrix           WeightMatrix
	DimensionWeights DimensionWeights
	Params           Params
	Sectors          *SectorTable
}

// DefaultModel returns the model with every documented default.
func DefaultModel() Model {
	return Model{
		Matrix:           DefaultWeightMatrix(),
		DimensionWeights: DefaultDimensionWeights(),
		Params:           DefaultParams(),
		Sectors:          DefaultSectorTable(),
	}
}

// ModelFromConfig builds and validates a Model from the config surface.
func ModelFromConfig(cfg config.ScoringConfig) (Model, error) {
	matrix, err := DefaultWeightMatrix().withOverrides(cfg.MatrixOverrides)
	if err != nil {
		return Model{}, err
	}
	weights, err := dimensionWeightsFromMap(cfg.DimensionWeights)
	if err != nil {
		return Model{}, err
	}

	profiles := make([]SectorProfile, 0, len(cfg.Sectors))
	for _, s := range cfg.Sectors {
		profiles = append(profiles, SectorProfile{Name: s.Name, Base: s.Base, Timing: s.Timing, AvgVR: s.AvgVR})
	}
	fb := cfg.FallbackSector
	sectors, err := NewSectorTable(profiles, SectorProfile{Name: fb.Name, Base: fb.Base, Timing: fb.Timing, AvgVR: fb.AvgVR})
	if err != nil {
		return Model{}, fmt.Errorf("sectors: %w", err)
	}

	p := cfg.Params
	m := Model{
		Matrix:           matrix,
		DimensionWeights: weights,
		Params: Params{
			Alpha:                      p.Alpha,
			Beta:                       p.Beta,
			Delta:                      p.Delta,
			Lambda:                     p.Lambda,
			TCThreshold:                p.TCThreshold,
			SEMK:                       p.SEMK,
			BalanceK:                   p.BalanceK,
			NeutralScore:               p.NeutralScore,
			DefaultReliability:         p.DefaultReliability,
			DefaultMarketCapPercentile: p.DefaultMarketCapPercentile,
			IndividualMentionsCap:      p.IndividualMentionsCap,
		},
		Sectors: sectors,
	}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Validate checks every part of the model.
func (m Model) Validate() error {
	if err := m.Matrix.Validate(); err != nil {
		return err
	}
	if err := m.DimensionWeights.Validate(); err != nil {
		return err
	}
	if err := m.Params.Validate(); err != nil {
		return err
	}
	if m.Sectors == nil {
		return fmt.Errorf("sector table required")
	}
	return nil
}

// CompanyInput is everything the engine needs to score one company.
type CompanyInput struct {
	Ticker   string                 `json:"ticker" yaml:"ticker"`
	Sector   string                 `json:"sector" yaml:"sector"`
	Evidence []evidence.Record      `json:"evidence" yaml:"evidence"`
	Talent   evidence.TalentSignals `json:"talent" yaml:"talent"`

	// Optional overrides; nil falls back to the sector profile and the
	// configured default percentile.
	SectorAvgVR         *float64 `json:"sector_avg_vr,omitempty" yaml:"sector_avg_vr,omitempty"`
	MarketCapPercentile *float64 `json:"mcap_percentile,omitempty" yaml:"mcap_percentile,omitempty"`
}

func (in CompanyInput) validate() error {
	if v := in.MarketCapPercentile; v != nil && (math.IsNaN(*v) || *v < 0 || *v > 1) {
		return fmt.Errorf("%w: market cap percentile %v outside [0, 1]", evidence.ErrInvalidScoreRange, *v)
	}
	if v := in.SectorAvgVR; v != nil && (math.IsNaN(*v) || *v < 0 || *v > 100) {
		return fmt.Errorf("%w: sector average V^R %v outside [0, 100]", evidence.ErrInvalidScoreRange, *v)
	}
	return nil
}

// ScoringResult exposes every intermediate stage so callers can audit the
// whole pipeline, not just the final number. It carries no timestamps.
type ScoringResult struct {
	Ticker              string               `json:"ticker"`
	Sector              SectorProfile        `json:"sector"`
	SectorKnown         bool                 `json:"sector_known"`
	DimensionScores     DimensionScores      `json:"dimension_scores"`
	DimensionBreakdown  []DimensionBreakdown `json:"dimension_breakdown"`
	TalentConcentration TalentConcentration  `json:"talent_concentration"`
	VerticalReadiness   VerticalReadiness    `json:"vertical_readiness"`
	VRScore             float64              `json:"vr_score"`
	SectorAvgVR         float64              `json:"sector_avg_vr"`
	MarketCapPercentile float64              `json:"mcap_percentile"`
	PositionFactor      float64              `json:"position_factor"`
	HRScore             float64              `json:"hr_score"`
	SynergyScore        float64              `json:"synergy_score"`
	OrgAIRScore         float64              `json:"org_air_score"`
	OrgAIRCI            ConfidenceInterval   `json:"org_air_ci"`
	Band                string               `json:"band"`
	EvidenceCount       int                  `json:"evidence_count"`
	SourcesUsed         []evidence.Source    `json:"sources_used"`
}

// Engine runs the scoring pipeline. It holds no mutable state and is safe
// for concurrent use across companies.
type Engine struct {
	model     Model
	mapper    *EvidenceMapper
	talent    *TalentConcentrationScorer
	vertical  *VerticalReadinessScorer
	composite *CompositeScorer
	logger    *slog.Logger
}

// NewEngine validates the model and prepares the stage scorers.
func NewEngine(model Model, logger *slog.Logger) (*Engine, error) {
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring model: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	model.Matrix = model.Matrix.Clone()

	return &Engine{
		model:     model,
		mapper:    NewEvidenceMapper(model.Matrix, model.Params.NeutralScore),
		talent:    NewTalentConcentrationScorer(model.Params.IndividualMentionsCap),
		vertical:  NewVerticalReadinessScorer(model.DimensionWeights, model.Params),
		composite: NewCompositeScorer(model.Params),
		logger:    logger,
	}, nil
}

// Model returns a copy of the engine's model.
func (e *Engine) Model() Model {
	m := e.model
	m.Matrix = m.Matrix.Clone()
	return m
}

// Score runs the full pipeline for one company. The only errors are the
// input validation failures (unknown source, out-of-range value); every
// other gap resolves to a documented default.
func (e *Engine) Score(in CompanyInput) (ScoringResult, error) {
	if err := in.validate(); err != nil {
		return ScoringResult{}, fmt.Errorf("score %s: %w", in.Ticker, err)
	}

	mapped, err := e.mapper.Map(in.Evidence)
	if err != nil {
		return ScoringResult{}, fmt.Errorf("score %s: %w", in.Ticker, err)
	}

	tc := e.talent.Score(in.Talent)
	vr := e.vertical.Score(mapped.Scores, tc.Score)

	sector, known := e.model.Sectors.Lookup(in.Sector)
	avgVR := sector.AvgVR
	if in.SectorAvgVR != nil {
		avgVR = *in.SectorAvgVR
	}
	mcap := e.model.Params.DefaultMarketCapPercentile
	if in.MarketCapPercentile != nil {
		mcap = *in.MarketCapPercentile
	}

	pf := PositionFactor(vr.Score, avgVR, mcap, e.model.Params.Lambda)
	hr := HolisticReadiness(sector.Base, sector.Timing, pf)
	syn := Synergy(vr.Score, hr)
	orgAIR := e.composite.Score(vr.Score, hr, syn)
	ci := e.composite.Interval(orgAIR, mapped.Used)

	sourcesUsed := make([]evidence.Source, 0, len(mapped.Used))
	for _, r := range mapped.Used {
		sourcesUsed = append(sourcesUsed, r.Source)
	}

	if !known && in.Sector != "" {
		e.logger.Debug("unknown sector, using fallback profile", "ticker", in.Ticker, "sector", in.Sector)
	}
	e.logger.Debug("company scored",
		"ticker", in.Ticker,
		"vr", vr.Score,
		"hr", hr,
		"org_air", orgAIR,
		"evidence", len(mapped.Used),
	)

	return ScoringResult{
		Ticker:              in.Ticker,
		Sector:              sector,
		SectorKnown:         known,
		DimensionScores:     mapped.Scores,
		DimensionBreakdown:  mapped.Breakdown,
		TalentConcentration: tc,
		VerticalReadiness:   vr,
		VRScore:             vr.Score,
		SectorAvgVR:         avgVR,
		MarketCapPercentile: mcap,
		PositionFactor:      pf,
		HRScore:             hr,
		SynergyScore:        syn,
		OrgAIRScore:         orgAIR,
		OrgAIRCI:            ci,
		Band:                Band(orgAIR),
		EvidenceCount:       len(mapped.Used),
		SourcesUsed:         sourcesUsed,
	}, nil
}
