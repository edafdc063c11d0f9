package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/calibrate"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/hermes"
)

type CalibrationHandler struct {
	scorer calibrate.Scorer
	hermes hermes.Client
	logger *slog.Logger
}

func NewCalibrationHandler(s calibrate.Scorer, h hermes.Client, logger *slog.Logger) *CalibrationHandler {
	return &CalibrationHandler{scorer: s, hermes: h, logger: logger}
}

type calibrationResponse struct {
	OK bool `json:"ok"`
	calibrate.Report
}

// Run scores the reference companies against the active model.
// GET /api/v1/calibration
func (h *CalibrationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := calibrate.Run(h.scorer, calibrate.Scenarios())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hermes != nil {
		evt := hermes.CalibrationCompletedEvent{
			Passed:    report.Passed,
			Failed:    report.Failed,
			Timestamp: time.Now().UTC(),
		}
		if err := h.hermes.Publish(hermes.SubjectCalibrationCompleted(), evt); err != nil {
			h.logger.Warn("failed to publish calibration event", "error", err)
		}
	}
	if !report.OK() {
		h.logger.Warn("calibration drift", "passed", report.Passed, "failed", report.Failed)
	}

	writeJSON(w, http.StatusOK, calibrationResponse{OK: report.OK(), Report: report})
}
