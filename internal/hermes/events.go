package hermes

import "time"

type ScoreRequestEvent struct {
	Ticker      string `json:"ticker"`
	Sector      string `json:"sector,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
}

type PortfolioRequestEvent struct {
	Tickers     []string `json:"tickers"`
	RequestedBy string   `json:"requested_by,omitempty"`
}

type ScoreComputedEvent struct {
	RunID         string    `json:"run_id,omitempty"`
	Ticker        string    `json:"ticker"`
	Sector        string    `json:"sector"`
	OrgAIRScore   float64   `json:"org_air_score"`
	CILower       float64   `json:"ci_lower"`
	CIUpper       float64   `json:"ci_upper"`
	VRScore       float64   `json:"vr_score"`
	HRScore       float64   `json:"hr_score"`
	Band          string    `json:"band"`
	EvidenceCount int       `json:"evidence_count"`
	Timestamp     time.Time `json:"timestamp"`
}

type ScoreFailedEvent struct {
	RunID      string    `json:"run_id,omitempty"`
	Ticker     string    `json:"ticker"`
	Error      string    `json:"error"`
	Validation bool      `json:"validation"`
	Timestamp  time.Time `json:"timestamp"`
}

type PortfolioCompletedEvent struct {
	RunID      string    `json:"run_id"`
	Requested  int       `json:"requested"`
	Scored     int       `json:"scored"`
	Failed     int       `json:"failed"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

type CalibrationCompletedEvent struct {
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}
