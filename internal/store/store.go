package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
)

// ScoreRecord is one persisted scoring result. The headline numbers are
// denormalised into columns for filtering; Result keeps the full breakdown.
type ScoreRecord struct {
	ID           uuid.UUID             `json:"id"`
	RunID        *uuid.UUID            `json:"run_id,omitempty"`
	Ticker       string                `json:"ticker"`
	Sector       string                `json:"sector"`
	OrgAIRScore  float64               `json:"org_air_score"`
	VRScore      float64               `json:"vr_score"`
	HRScore      float64               `json:"hr_score"`
	SynergyScore float64               `json:"synergy_score"`
	Result       scoring.ScoringResult `json:"result"`
	CreatedAt    time.Time             `json:"created_at"`
}

// NewScoreRecord wraps an engine result for persistence. runID may be nil
// for one-off scores.
func NewScoreRecord(runID *uuid.UUID, res scoring.ScoringResult) *ScoreRecord {
	return &ScoreRecord{
		RunID:        runID,
		Ticker:       NormalizeTicker(res.Ticker),
		Sector:       res.Sector.Name,
		OrgAIRScore:  res.OrgAIRScore,
		VRScore:      res.VRScore,
		HRScore:      res.HRScore,
		SynergyScore: res.SynergyScore,
		Result:       res,
	}
}

// NormalizeTicker is the canonical ticker form used as the lookup key.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

type ScoreFilter struct {
	Ticker   string
	Sector   string
	MinScore *float64
	// LatestOnly keeps only the newest record per ticker.
	LatestOnly bool
	Limit      int
	Offset     int
}

type Store interface {
	SaveScore(ctx context.Context, rec *ScoreRecord) error
	// GetLatestScore returns nil, nil when the ticker has never been scored.
	GetLatestScore(ctx context.Context, ticker string) (*ScoreRecord, error)
	ListScores(ctx context.Context, filter ScoreFilter) ([]*ScoreRecord, error)
	ListRunScores(ctx context.Context, runID uuid.UUID) ([]*ScoreRecord, error)

	Close() error
}
