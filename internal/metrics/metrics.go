// Package metrics exposes the scoring service's Prometheus collectors.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
)

const namespace = "orgair"

// MaxTrackedTickers bounds the series of orgair_org_air_score. Tickers first
// seen after the limit is reached are still counted but get no gauge.
const MaxTrackedTickers = 2000

// Outcome label values for orgair_scores_total.
const (
	OutcomeComputed = "computed"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	scoresTotal       *prometheus.CounterVec
	scoreDuration     prometheus.Histogram
	orgAIR            *prometheus.GaugeVec
	bandTotal         *prometheus.CounterVec
	portfolioRuns     prometheus.Counter
	portfolioDuration prometheus.Histogram
	portfolioGaps     prometheus.Counter

	mu          sync.Mutex
	tickers     map[string]string // ticker -> sector of its gauge series
	tickerLimit int
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry:    reg,
		tickers:     make(map[string]string),
		tickerLimit: MaxTrackedTickers,
		scoresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_total",
			Help:      "Company scoring attempts by outcome.",
		}, []string{"outcome"}),
		scoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_duration_seconds",
			Help:      "Time to score one company, including evidence fetch when applicable.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		orgAIR: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "org_air_score",
			Help:      "Latest Org-AI-R score per company, for at most 2000 tickers.",
		}, []string{"ticker", "sector"}),
		bandTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "band_total",
			Help:      "Computed scores by readiness band.",
		}, []string{"band"}),
		portfolioRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "portfolio_runs_total",
			Help:      "Completed portfolio scoring runs.",
		}),
		portfolioDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "portfolio_duration_seconds",
			Help:      "Wall time of a portfolio scoring run.",
			Buckets:   prometheus.DefBuckets,
		}),
		portfolioGaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "portfolio_gaps_total",
			Help:      "Companies left unscored inside portfolio runs.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.scoresTotal, m.scoreDuration, m.orgAIR, m.bandTotal,
		m.portfolioRuns, m.portfolioDuration, m.portfolioGaps,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveScore(res scoring.ScoringResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scoresTotal.WithLabelValues(OutcomeComputed).Inc()
	m.scoreDuration.Observe(elapsed.Seconds())
	m.bandTotal.WithLabelValues(res.Band).Inc()
	m.setScoreGauge(res.Ticker, res.Sector.Name, res.OrgAIRScore)
}

// setScoreGauge keeps one series per ticker. A sector change moves the
// series instead of leaving a stale one behind.
func (m *Metrics) setScoreGauge(ticker, sector string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.tickers[ticker]
	switch {
	case ok && prev != sector:
		m.orgAIR.DeleteLabelValues(ticker, prev)
	case !ok && len(m.tickers) >= m.tickerLimit:
		return
	}
	m.tickers[ticker] = sector
	m.orgAIR.WithLabelValues(ticker, sector).Set(score)
}

// ObserveFailure counts a company that could not be scored. Validation
// failures are tracked apart from infrastructure failures.
func (m *Metrics) ObserveFailure(validation bool) {
	if m == nil {
		return
	}
	outcome := OutcomeFailed
	if validation {
		outcome = OutcomeInvalid
	}
	m.scoresTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePortfolio(gaps int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.portfolioRuns.Inc()
	m.portfolioDuration.Observe(elapsed.Seconds())
	m.portfolioGaps.Add(float64(gaps))
}
