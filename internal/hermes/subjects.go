package hermes

import "strings"

const (
	SubjectScoreRequest     = "orgair.score.request"
	SubjectPortfolioRequest = "orgair.portfolio.request"

	StreamName   = "ORGAIR_EVENTS"
	StreamMaxAge = "2160h" // 90 days
)

// StreamSubjects are the subjects retained by the JetStream stream. Request
// subjects are plain core NATS and are not retained.
var StreamSubjects = []string{"orgair.score.*.>", "orgair.portfolio.*.>", "orgair.calibration.>"}

func token(s string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(strings.TrimSpace(s)))
}

func SubjectScoreComputed(ticker string) string { return "orgair.score." + token(ticker) + ".computed" }
func SubjectScoreFailed(ticker string) string   { return "orgair.score." + token(ticker) + ".failed" }

func SubjectPortfolioCompleted(runID string) string {
	return "orgair.portfolio." + runID + ".completed"
}

func SubjectCalibrationCompleted() string { return "orgair.calibration.completed" }
