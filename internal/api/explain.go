package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/store"
)

type ExplainHandler struct {
	engine *scoring.Engine
	store  store.Store
}

func NewExplainHandler(e *scoring.Engine, s store.Store) *ExplainHandler {
	return &ExplainHandler{engine: e, store: s}
}

type stageBreakdown struct {
	VRScore             float64                    `json:"vr_score"`
	SectorAvgVR         float64                    `json:"sector_avg_vr"`
	MarketCapPercentile float64                    `json:"mcap_percentile"`
	PositionFactor      float64                    `json:"position_factor"`
	HRScore             float64                    `json:"hr_score"`
	SynergyScore        float64                    `json:"synergy_score"`
	OrgAIRScore         float64                    `json:"org_air_score"`
	OrgAIRCI            scoring.ConfidenceInterval `json:"org_air_ci"`
}

type explainResponse struct {
	RecordID            uuid.UUID                    `json:"record_id"`
	Ticker              string                       `json:"ticker"`
	ScoredAt            time.Time                    `json:"scored_at"`
	Sector              scoring.SectorProfile        `json:"sector"`
	SectorKnown         bool                         `json:"sector_known"`
	Band                string                       `json:"band"`
	EvidenceCount       int                          `json:"evidence_count"`
	SourcesUsed         []evidence.Source            `json:"sources_used"`
	Dimensions          []scoring.DimensionBreakdown `json:"dimensions"`
	TalentConcentration scoring.TalentConcentration  `json:"talent_concentration"`
	VerticalReadiness   scoring.VerticalReadiness    `json:"vertical_readiness"`
	Stages              stageBreakdown               `json:"stages"`
}

// Explain returns the full pipeline breakdown behind a ticker's latest score.
// GET /api/v1/scoring/explain/{ticker}
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetLatestScore(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no score for ticker")
		return
	}

	res := rec.Result
	writeJSON(w, http.StatusOK, explainResponse{
		RecordID:            rec.ID,
		Ticker:              rec.Ticker,
		ScoredAt:            rec.CreatedAt,
		Sector:              res.Sector,
		SectorKnown:         res.SectorKnown,
		Band:                res.Band,
		EvidenceCount:       res.EvidenceCount,
		SourcesUsed:         res.SourcesUsed,
		Dimensions:          res.DimensionBreakdown,
		TalentConcentration: res.TalentConcentration,
		VerticalReadiness:   res.VerticalReadiness,
		Stages: stageBreakdown{
			VRScore:             res.VRScore,
			SectorAvgVR:         res.SectorAvgVR,
			MarketCapPercentile: res.MarketCapPercentile,
			PositionFactor:      res.PositionFactor,
			HRScore:             res.HRScore,
			SynergyScore:        res.SynergyScore,
			OrgAIRScore:         res.OrgAIRScore,
			OrgAIRCI:            res.OrgAIRCI,
		},
	})
}

type modelResponse struct {
	Matrix           scoring.WeightMatrix     `json:"matrix"`
	DimensionWeights scoring.DimensionWeights `json:"dimension_weights"`
	Params           scoring.Params           `json:"params"`
	Sectors          []scoring.SectorProfile  `json:"sectors"`
	FallbackSector   scoring.SectorProfile    `json:"fallback_sector"`
}

// Model returns the weights, parameters and sector table the engine runs with.
// GET /api/v1/scoring/model
func (h *ExplainHandler) Model(w http.ResponseWriter, r *http.Request) {
	m := h.engine.Model()
	writeJSON(w, http.StatusOK, modelResponse{
		Matrix:           m.Matrix,
		DimensionWeights: m.DimensionWeights,
		Params:           m.Params,
		Sectors:          m.Sectors.Profiles(),
		FallbackSector:   m.Sectors.Fallback(),
	})
}
