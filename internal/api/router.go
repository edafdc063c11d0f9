package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/hermes"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/metrics"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/portfolio"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/store"
)

const requestsPerMinute = 120

func NewRouter(e *scoring.Engine, runner *portfolio.Runner, s store.Store, h hermes.Client, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(requestsPerMinute))

	scores := NewScoresHandler(runner, s)
	explain := NewExplainHandler(e, s)
	batch := NewPortfolioHandler(runner)
	calibration := NewCalibrationHandler(e, h, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scores", scores.Create)
		r.Get("/scores", scores.List)
		r.Get("/scores/{ticker}", scores.Get)
		r.Post("/scores/{ticker}/refresh", scores.Refresh)

		r.Get("/scoring/explain/{ticker}", explain.Explain)
		r.Get("/scoring/model", explain.Model)

		r.Get("/calibration", calibration.Run)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Post("/portfolio/score", batch.Score)
		})
	})

	return r
}

// connectivity is implemented by bus clients that can report their link state.
type connectivity interface {
	Connected() bool
}

// NewMetricsRouter serves /health and /metrics. h may be nil when no bus is
// configured.
func NewMetricsRouter(m *metrics.Metrics, h hermes.Client) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"status": "ok", "hermes": "disabled"}
		if c, ok := h.(connectivity); ok {
			if c.Connected() {
				resp["hermes"] = "connected"
			} else {
				resp["hermes"] = "disconnected"
				resp["status"] = "degraded"
			}
		}
		writeJSON(w, http.StatusOK, resp)
	})
	r.Handle("/metrics", m.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
