package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/collector"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/portfolio"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/store"
)

type ScoresHandler struct {
	runner *portfolio.Runner
	store  store.Store
}

func NewScoresHandler(runner *portfolio.Runner, s store.Store) *ScoresHandler {
	return &ScoresHandler{runner: runner, store: s}
}

// Create scores a caller-supplied company.
// POST /api/v1/scores
func (h *ScoresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in scoring.CompanyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.Ticker = store.NormalizeTicker(in.Ticker)
	if in.Ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker required")
		return
	}

	res, err := h.runner.ScoreCompany(r.Context(), in)
	if err != nil {
		writeScoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Refresh pulls fresh evidence for the ticker from the collector and rescores it.
// POST /api/v1/scores/{ticker}/refresh?sector=...
func (h *ScoresHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ticker := store.NormalizeTicker(chi.URLParam(r, "ticker"))
	res, err := h.runner.ScoreTicker(r.Context(), ticker, r.URL.Query().Get("sector"))
	if err != nil {
		writeScoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ScoresHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ScoreFilter{
		Ticker: q.Get("ticker"),
		Sector: q.Get("sector"),
	}
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid min_score")
			return
		}
		filter.MinScore = &f
	}
	if v := q.Get("latest"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid latest")
			return
		}
		filter.LatestOnly = b
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid "+name)
			return
		}
		*dst = n
	}

	recs, err := h.store.ListScores(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []*store.ScoreRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *ScoresHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetLatestScore(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no score for ticker")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeScoreError(w http.ResponseWriter, err error) {
	switch {
	case evidence.IsValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, portfolio.ErrNoTicker):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, portfolio.ErrNoCollector):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, collector.ErrCompanyNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, portfolio.ErrFetchFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
