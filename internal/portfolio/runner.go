// Package portfolio scores many companies at once and fans the results out
// to persistence, the event bus and metrics.
package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/collector"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/hermes"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/metrics"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/store"
)

var (
	ErrNoCollector = errors.New("no evidence collector configured")
	ErrFetchFailed = errors.New("evidence fetch failed")
	ErrNoTicker    = errors.New("ticker required")
)

const requestTimeout = 2 * time.Minute

// Entry is one company's slot in a portfolio run. Exactly one of Result and
// Error is set.
type Entry struct {
	Ticker     string                 `json:"ticker"`
	Result     *scoring.ScoringResult `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Validation bool                   `json:"validation,omitempty"`
	Persisted  bool                   `json:"persisted"`
}

// Report is the outcome of a portfolio run. Entries keep input order; a
// failed company is a gap, never a reason to drop the others.
type Report struct {
	RunID      uuid.UUID `json:"run_id"`
	Entries    []Entry   `json:"entries"`
	Requested  int       `json:"requested"`
	Scored     int       `json:"scored"`
	Failed     int       `json:"failed"`
	DurationMs int64     `json:"duration_ms"`
}

// Results returns the successful results in input order.
func (r *Report) Results() []scoring.ScoringResult {
	out := make([]scoring.ScoringResult, 0, r.Scored)
	for _, e := range r.Entries {
		if e.Result != nil {
			out = append(out, *e.Result)
		}
	}
	return out
}

type Runner struct {
	engine    *scoring.Engine
	store     store.Store
	hermes    hermes.Client
	collector collector.Client
	metrics   *metrics.Metrics
	workers   int
	logger    *slog.Logger
}

type Option func(*Runner)

func WithStore(s store.Store) Option          { return func(r *Runner) { r.store = s } }
func WithHermes(h hermes.Client) Option       { return func(r *Runner) { r.hermes = h } }
func WithCollector(c collector.Client) Option { return func(r *Runner) { r.collector = c } }
func WithMetrics(m *metrics.Metrics) Option   { return func(r *Runner) { r.metrics = m } }
func WithWorkers(n int) Option                { return func(r *Runner) { r.workers = n } }

func NewRunner(engine *scoring.Engine, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		engine:  engine,
		workers: 4,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers <= 0 {
		r.workers = 1
	}
	return r
}

type job func(ctx context.Context) (scoring.ScoringResult, error)

// ScorePortfolio scores the given companies concurrently.
func (r *Runner) ScorePortfolio(ctx context.Context, inputs []scoring.CompanyInput) (*Report, error) {
	tickers := make([]string, len(inputs))
	jobs := make([]job, len(inputs))
	for i, in := range inputs {
		in := in
		in.Ticker = store.NormalizeTicker(in.Ticker)
		tickers[i] = in.Ticker
		jobs[i] = func(context.Context) (scoring.ScoringResult, error) {
			return r.engine.Score(in)
		}
	}
	return r.run(ctx, tickers, jobs)
}

// ScoreTickers fetches evidence for each ticker from the collector and
// scores them concurrently.
func (r *Runner) ScoreTickers(ctx context.Context, tickers []string) (*Report, error) {
	if r.collector == nil {
		return nil, ErrNoCollector
	}
	jobs := make([]job, len(tickers))
	for i, t := range tickers {
		t := store.NormalizeTicker(t)
		jobs[i] = func(ctx context.Context) (scoring.ScoringResult, error) {
			in, err := r.fetchInput(ctx, t, "")
			if err != nil {
				return scoring.ScoringResult{}, err
			}
			return r.engine.Score(in)
		}
	}
	return r.run(ctx, tickers, jobs)
}

func (r *Runner) run(ctx context.Context, tickers []string, jobs []job) (*Report, error) {
	start := time.Now()
	runID := uuid.New()
	report := &Report{
		RunID:     runID,
		Entries:   make([]Entry, len(jobs)),
		Requested: len(jobs),
	}

	// Each goroutine owns its slot in Entries, so no lock is needed.
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range jobs {
		i := i
		g.Go(func() error {
			entry := Entry{Ticker: store.NormalizeTicker(tickers[i])}
			if entry.Ticker == "" {
				entry.Error = ErrNoTicker.Error()
				report.Entries[i] = entry
				r.recordFailure(runID, entry.Ticker, ErrNoTicker)
				return nil
			}
			if err := gCtx.Err(); err != nil {
				entry.Error = err.Error()
				report.Entries[i] = entry
				r.recordFailure(runID, entry.Ticker, err)
				return nil
			}

			jobStart := time.Now()
			res, err := jobs[i](gCtx)
			if err != nil {
				entry.Error = err.Error()
				entry.Validation = evidence.IsValidationError(err)
				report.Entries[i] = entry
				r.recordFailure(runID, entry.Ticker, err)
				return nil
			}
			entry.Result = &res
			entry.Persisted = r.record(gCtx, &runID, res, time.Since(jobStart))
			report.Entries[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range report.Entries {
		if e.Result != nil {
			report.Scored++
		} else {
			report.Failed++
		}
	}
	elapsed := time.Since(start)
	report.DurationMs = elapsed.Milliseconds()

	r.metrics.ObservePortfolio(report.Failed, elapsed)
	r.publish(hermes.SubjectPortfolioCompleted(runID.String()), hermes.PortfolioCompletedEvent{
		RunID:      runID.String(),
		Requested:  report.Requested,
		Scored:     report.Scored,
		Failed:     report.Failed,
		DurationMs: report.DurationMs,
		Timestamp:  time.Now().UTC(),
	})
	r.logger.Info("portfolio scored",
		"run_id", runID,
		"requested", report.Requested,
		"scored", report.Scored,
		"failed", report.Failed,
		"duration_ms", report.DurationMs,
	)

	return report, ctx.Err()
}

// ScoreCompany scores one caller-supplied input and records the result.
func (r *Runner) ScoreCompany(ctx context.Context, in scoring.CompanyInput) (scoring.ScoringResult, error) {
	in.Ticker = store.NormalizeTicker(in.Ticker)
	if in.Ticker == "" {
		return scoring.ScoringResult{}, ErrNoTicker
	}
	start := time.Now()
	res, err := r.engine.Score(in)
	if err != nil {
		r.recordFailure(uuid.Nil, store.NormalizeTicker(in.Ticker), err)
		return scoring.ScoringResult{}, err
	}
	r.record(ctx, nil, res, time.Since(start))
	return res, nil
}

// ScoreTicker fetches the company's profile, evidence and talent signals
// from the collector, then scores and records the result. A non-empty
// sector overrides the collector's classification.
func (r *Runner) ScoreTicker(ctx context.Context, ticker, sector string) (scoring.ScoringResult, error) {
	if r.collector == nil {
		return scoring.ScoringResult{}, ErrNoCollector
	}
	start := time.Now()
	ticker = store.NormalizeTicker(ticker)
	if ticker == "" {
		return scoring.ScoringResult{}, ErrNoTicker
	}

	in, err := r.fetchInput(ctx, ticker, sector)
	if err != nil {
		r.recordFailure(uuid.Nil, ticker, err)
		return scoring.ScoringResult{}, err
	}
	res, err := r.engine.Score(in)
	if err != nil {
		r.recordFailure(uuid.Nil, ticker, err)
		return scoring.ScoringResult{}, err
	}
	r.record(ctx, nil, res, time.Since(start))
	return res, nil
}

func (r *Runner) fetchInput(ctx context.Context, ticker, sector string) (scoring.CompanyInput, error) {
	var (
		company *collector.Company
		records []evidence.Record
		talent  evidence.TalentSignals
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		company, err = r.collector.GetCompany(gCtx, ticker)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = r.collector.GetEvidence(gCtx, ticker)
		return err
	})
	g.Go(func() error {
		var err error
		talent, err = r.collector.GetTalentSignals(gCtx, ticker)
		return err
	})
	if err := g.Wait(); err != nil {
		return scoring.CompanyInput{}, fmt.Errorf("%w for %s: %w", ErrFetchFailed, ticker, err)
	}

	in := scoring.CompanyInput{
		Ticker:   ticker,
		Sector:   sector,
		Evidence: records,
		Talent:   talent,
	}
	if company != nil {
		if in.Sector == "" {
			in.Sector = company.Sector
		}
		in.MarketCapPercentile = company.MarketCapPercentile
	}
	return in, nil
}

// record persists, publishes and counts a successful score. It reports
// whether the result was persisted.
func (r *Runner) record(ctx context.Context, runID *uuid.UUID, res scoring.ScoringResult, elapsed time.Duration) bool {
	r.metrics.ObserveScore(res, elapsed)

	evt := hermes.ScoreComputedEvent{
		Ticker:        res.Ticker,
		Sector:        res.Sector.Name,
		OrgAIRScore:   res.OrgAIRScore,
		CILower:       res.OrgAIRCI.Lower,
		CIUpper:       res.OrgAIRCI.Upper,
		VRScore:       res.VRScore,
		HRScore:       res.HRScore,
		Band:          res.Band,
		EvidenceCount: res.EvidenceCount,
		Timestamp:     time.Now().UTC(),
	}
	if runID != nil {
		evt.RunID = runID.String()
	}
	r.publish(hermes.SubjectScoreComputed(res.Ticker), evt)

	if r.store == nil {
		return false
	}
	if err := r.store.SaveScore(ctx, store.NewScoreRecord(runID, res)); err != nil {
		r.logger.Error("failed to persist score", "ticker", res.Ticker, "error", err)
		return false
	}
	return true
}

func (r *Runner) recordFailure(runID uuid.UUID, ticker string, err error) {
	validation := evidence.IsValidationError(err)
	r.metrics.ObserveFailure(validation)

	evt := hermes.ScoreFailedEvent{
		Ticker:     ticker,
		Error:      err.Error(),
		Validation: validation,
		Timestamp:  time.Now().UTC(),
	}
	if runID != uuid.Nil {
		evt.RunID = runID.String()
	}
	if ticker != "" {
		r.publish(hermes.SubjectScoreFailed(ticker), evt)
	}
	r.logger.Warn("company not scored", "ticker", ticker, "validation", validation, "error", err)
}

func (r *Runner) publish(subject string, evt interface{}) {
	if r.hermes == nil {
		return
	}
	if err := r.hermes.Publish(subject, evt); err != nil {
		r.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// SetupSubscriptions consumes score and portfolio requests from the bus.
// Results go out as the usual computed and failed events.
func (r *Runner) SetupSubscriptions(ctx context.Context) error {
	if r.hermes == nil {
		return nil
	}

	if err := r.hermes.Subscribe(hermes.SubjectScoreRequest, func(_ string, data []byte) {
		var req hermes.ScoreRequestEvent
		if err := json.Unmarshal(data, &req); err != nil || strings.TrimSpace(req.Ticker) == "" {
			r.logger.Warn("invalid score request event", "error", err)
			return
		}
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		if _, err := r.ScoreTicker(reqCtx, req.Ticker, req.Sector); err == nil {
			r.logger.Info("score request handled", "ticker", req.Ticker, "requested_by", req.RequestedBy)
		}
	}); err != nil {
		return fmt.Errorf("subscribe %s: %w", hermes.SubjectScoreRequest, err)
	}

	if err := r.hermes.Subscribe(hermes.SubjectPortfolioRequest, func(_ string, data []byte) {
		var req hermes.PortfolioRequestEvent
		if err := json.Unmarshal(data, &req); err != nil || len(req.Tickers) == 0 {
			r.logger.Warn("invalid portfolio request event", "error", err)
			return
		}
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		if _, err := r.ScoreTickers(reqCtx, req.Tickers); err != nil {
			r.logger.Error("portfolio request failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("subscribe %s: %w", hermes.SubjectPortfolioRequest, err)
	}

	return nil
}
