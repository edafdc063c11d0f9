package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/portfolio"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
)

const maxPortfolioSize = 500

type PortfolioHandler struct {
	runner *portfolio.Runner
}

func NewPortfolioHandler(runner *portfolio.Runner) *PortfolioHandler {
	return &PortfolioHandler{runner: runner}
}

// PortfolioRequest carries either full company inputs or bare tickers to
// fetch from the collector, never both.
type PortfolioRequest struct {
	Companies []scoring.CompanyInput `json:"companies,omitempty"`
	Tickers   []string               `json:"tickers,omitempty"`
}

// Score runs a batch. Companies that fail appear as gaps in the report.
// POST /api/v1/portfolio/score
func (h *PortfolioHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	n := len(req.Companies) + len(req.Tickers)
	switch {
	case len(req.Companies) > 0 && len(req.Tickers) > 0:
		writeError(w, http.StatusBadRequest, "send companies or tickers, not both")
		return
	case n == 0:
		writeError(w, http.StatusBadRequest, "companies or tickers required")
		return
	case n > maxPortfolioSize:
		writeError(w, http.StatusBadRequest, "portfolio too large")
		return
	}

	var (
		report *portfolio.Report
		err    error
	)
	if len(req.Companies) > 0 {
		report, err = h.runner.ScorePortfolio(r.Context(), req.Companies)
	} else {
		report, err = h.runner.ScoreTickers(r.Context(), req.Tickers)
	}
	if errors.Is(err, portfolio.ErrNoCollector) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "portfolio run interrupted: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}
