package portfolio

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/collector"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/hermes"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/metrics"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/store"
)

// --- Mock hermes ---

type mockHermes struct {
	mock.Mock

	mu       sync.Mutex
	handlers map[string]func(string, []byte)
}

func newMockHermes() *mockHermes {
	h := &mockHermes{handlers: make(map[string]func(string, []byte))}
	h.On("Publish", mock.AnythingOfType("string"), mock.Anything).Return(nil)
	return h
}

func (m *mockHermes) Publish(subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func (m *mockHermes) Subscribe(subject string, handler func(string, []byte)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[subject] = handler
	return nil
}

func (m *mockHermes) Close() {}

func (m *mockHermes) deliver(t *testing.T, subject string, evt interface{}) {
	t.Helper()
	data, err := json.Marshal(evt)
	require.NoError(t, err)
	m.mu.Lock()
	h := m.handlers[subject]
	m.mu.Unlock()
	require.NotNil(t, h, "no handler for %s", subject)
	h(subject, data)
}

// --- Mock collector ---

type mockCollector struct {
	mock.Mock
}

func (m *mockCollector) GetCompany(ctx context.Context, ticker string) (*collector.Company, error) {
	args := m.Called(ctx, ticker)
	c, _ := args.Get(0).(*collector.Company)
	return c, args.Error(1)
}

func (m *mockCollector) GetEvidence(ctx context.Context, ticker string) ([]evidence.Record, error) {
	args := m.Called(ctx, ticker)
	recs, _ := args.Get(0).([]evidence.Record)
	return recs, args.Error(1)
}

func (m *mockCollector) GetTalentSignals(ctx context.Context, ticker string) (evidence.TalentSignals, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(evidence.TalentSignals), args.Error(1)
}

func (m *mockCollector) expectCompany(ticker, sector string, mcap float64, score float64) {
	m.On("GetCompany", mock.Anything, ticker).Return(&collector.Company{Ticker: ticker, Sector: sector, MarketCapPercentile: &mcap}, nil)
	m.On("GetEvidence", mock.Anything, ticker).Return(uniformEvidence(score, 0.9), nil)
	m.On("GetTalentSignals", mock.Anything, ticker).Return(evidence.TalentSignals{}, nil)
}

// --- Helpers ---

func uniformEvidence(score, confidence float64) []evidence.Record {
	var out []evidence.Record
	for _, s := range evidence.Sources() {
		out = append(out, evidence.Record{Source: s, Score: score, Confidence: confidence})
	}
	return out
}

func newEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	e, err := scoring.NewEngine(scoring.DefaultModel(), nil)
	require.NoError(t, err)
	return e
}

func f(v float64) *float64 { return &v }

func portfolioInputs() []scoring.CompanyInput {
	return []scoring.CompanyInput{
		{Ticker: "NVDA", Sector: "Technology", Evidence: uniformEvidence(70, 0.9), MarketCapPercentile: f(0.95)},
		{Ticker: "BAD", Sector: "Retail", Evidence: []evidence.Record{{Source: "reddit", Score: 50, Confidence: 0.5}}},
		{Ticker: "JPM", Sector: "Financial Services", Evidence: uniformEvidence(62, 0.8), MarketCapPercentile: f(0.9)},
		{Ticker: "DG", Sector: "Retail", Evidence: uniformEvidence(40, 0.8), MarketCapPercentile: f(1.7)},
	}
}

// --- Tests ---

func TestScorePortfolioRecordsGapsInOrder(t *testing.T) {
	engine := newEngine(t)
	db := store.NewMemoryStore()
	h := newMockHermes()
	r := NewRunner(engine, nil, WithStore(db), WithHermes(h), WithMetrics(metrics.New()), WithWorkers(2))

	report, err := r.ScorePortfolio(context.Background(), portfolioInputs())
	require.NoError(t, err)

	require.Len(t, report.Entries, 4)
	tickers := make([]string, len(report.Entries))
	for i, e := range report.Entries {
		tickers[i] = e.Ticker
	}
	assert.Equal(t, []string{"NVDA", "BAD", "JPM", "DG"}, tickers)

	assert.Equal(t, 4, report.Requested)
	assert.Equal(t, 2, report.Scored)
	assert.Equal(t, 2, report.Failed)

	assert.NotNil(t, report.Entries[0].Result)
	assert.True(t, report.Entries[0].Persisted)
	assert.Nil(t, report.Entries[1].Result)
	assert.True(t, report.Entries[1].Validation)
	assert.Contains(t, report.Entries[1].Error, "unknown evidence source")
	assert.True(t, report.Entries[3].Validation)

	results := report.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "NVDA", results[0].Ticker)
	assert.Equal(t, "JPM", results[1].Ticker)

	saved, err := db.ListRunScores(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	h.AssertCalled(t, "Publish", "orgair.score.NVDA.computed", mock.Anything)
	h.AssertCalled(t, "Publish", "orgair.score.BAD.failed", mock.Anything)
	h.AssertCalled(t, "Publish", "orgair.portfolio."+report.RunID.String()+".completed", mock.Anything)
}

func TestScorePortfolioBlankTickerIsGap(t *testing.T) {
	db := store.NewMemoryStore()
	h := newMockHermes()
	r := NewRunner(newEngine(t), nil, WithStore(db), WithHermes(h))

	inputs := []scoring.CompanyInput{
		{Ticker: "", Sector: "Technology", Evidence: uniformEvidence(70, 0.9)},
		{Ticker: "  ", Sector: "Retail", Evidence: uniformEvidence(40, 0.8)},
		{Ticker: " nvda ", Sector: "Technology", Evidence: uniformEvidence(70, 0.9), MarketCapPercentile: f(0.95)},
	}
	report, err := r.ScorePortfolio(context.Background(), inputs)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scored)
	assert.Equal(t, 2, report.Failed)
	for _, e := range report.Entries[:2] {
		assert.Nil(t, e.Result)
		assert.Equal(t, ErrNoTicker.Error(), e.Error)
	}
	assert.Equal(t, "NVDA", report.Entries[2].Ticker)
	assert.Equal(t, "NVDA", report.Entries[2].Result.Ticker)

	saved, err := db.ListRunScores(context.Background(), report.RunID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "NVDA", saved[0].Ticker)

	h.AssertNotCalled(t, "Publish", "orgair.score..computed", mock.Anything)
	h.AssertNotCalled(t, "Publish", "orgair.score..failed", mock.Anything)
	h.AssertCalled(t, "Publish", "orgair.score.NVDA.computed", mock.Anything)
}

func TestScorePortfolioMatchesSequentialScoring(t *testing.T) {
	engine := newEngine(t)
	r := NewRunner(engine, nil, WithWorkers(3))

	var inputs []scoring.CompanyInput
	for i := 0; i < 12; i++ {
		inputs = append(inputs, scoring.CompanyInput{
			Ticker:   string(rune('A' + i)),
			Sector:   []string{"Technology", "Retail", "Manufacturing"}[i%3],
			Evidence: uniformEvidence(float64(30+4*i), 0.7),
		})
	}

	report, err := r.ScorePortfolio(context.Background(), inputs)
	require.NoError(t, err)
	require.Equal(t, 12, report.Scored)

	for i, in := range inputs {
		want, err := engine.Score(in)
		require.NoError(t, err)
		if diff := cmp.Diff(want, *report.Entries[i].Result); diff != "" {
			t.Errorf("%s: portfolio result differs from direct score (-want +got):\n%s", in.Ticker, diff)
		}
		assert.False(t, report.Entries[i].Persisted)
	}
}

func TestScorePortfolioCancelled(t *testing.T) {
	r := NewRunner(newEngine(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := r.ScorePortfolio(ctx, portfolioInputs())
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 4, report.Failed)
	for _, e := range report.Entries {
		assert.Contains(t, e.Error, "context canceled")
	}
}

func TestScorePortfolioEmpty(t *testing.T) {
	report, err := NewRunner(newEngine(t), nil).ScorePortfolio(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Requested)
	assert.Empty(t, report.Results())
}

func TestScoreTicker(t *testing.T) {
	c := &mockCollector{}
	c.expectCompany("NVDA", "Technology", 0.95, 70)
	db := store.NewMemoryStore()
	r := NewRunner(newEngine(t), nil, WithCollector(c), WithStore(db))

	res, err := r.ScoreTicker(context.Background(), "nvda", "")
	require.NoError(t, err)
	assert.Equal(t, "Technology", res.Sector.Name)
	assert.InDelta(t, 94.6428, res.OrgAIRScore, 1e-6)

	latest, err := db.GetLatestScore(context.Background(), "NVDA")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Nil(t, latest.RunID)
	c.AssertExpectations(t)
}

func TestScoreTickerSectorOverride(t *testing.T) {
	c := &mockCollector{}
	c.expectCompany("WMT", "Consumer", 0.85, 58)
	r := NewRunner(newEngine(t), nil, WithCollector(c))

	res, err := r.ScoreTicker(context.Background(), "WMT", "Retail")
	require.NoError(t, err)
	assert.True(t, res.SectorKnown)
	assert.Equal(t, "Retail", res.Sector.Name)
}

func TestScoreTickerCollectorFailure(t *testing.T) {
	c := &mockCollector{}
	c.On("GetCompany", mock.Anything, "ZZZZ").Return(nil, collector.ErrCompanyNotFound)
	c.On("GetEvidence", mock.Anything, "ZZZZ").Return(nil, collector.ErrCompanyNotFound)
	c.On("GetTalentSignals", mock.Anything, "ZZZZ").Return(evidence.TalentSignals{}, nil)
	h := newMockHermes()
	r := NewRunner(newEngine(t), nil, WithCollector(c), WithHermes(h))

	_, err := r.ScoreTicker(context.Background(), "ZZZZ", "")
	assert.ErrorIs(t, err, collector.ErrCompanyNotFound)
	assert.ErrorIs(t, err, ErrFetchFailed)
	h.AssertCalled(t, "Publish", "orgair.score.ZZZZ.failed", mock.Anything)
	h.AssertNotCalled(t, "Publish", "orgair.score.ZZZZ.computed", mock.Anything)
}

func TestScoreWithoutCollector(t *testing.T) {
	r := NewRunner(newEngine(t), nil)

	_, err := r.ScoreTicker(context.Background(), "NVDA", "")
	assert.ErrorIs(t, err, ErrNoCollector)

	_, err = r.ScoreTickers(context.Background(), []string{"NVDA"})
	assert.ErrorIs(t, err, ErrNoCollector)
}

func TestScoreTickerBlank(t *testing.T) {
	c := &mockCollector{}
	r := NewRunner(newEngine(t), nil, WithCollector(c))

	_, err := r.ScoreTicker(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrNoTicker)
	c.AssertNotCalled(t, "GetCompany", mock.Anything, mock.Anything)
}

func TestScoreCompany(t *testing.T) {
	db := store.NewMemoryStore()
	r := NewRunner(newEngine(t), nil, WithStore(db))

	_, err := r.ScoreCompany(context.Background(), portfolioInputs()[1])
	assert.ErrorIs(t, err, evidence.ErrUnknownEvidenceSource)

	blank := portfolioInputs()[0]
	blank.Ticker = " "
	_, err = r.ScoreCompany(context.Background(), blank)
	assert.ErrorIs(t, err, ErrNoTicker)

	res, err := r.ScoreCompany(context.Background(), portfolioInputs()[0])
	require.NoError(t, err)
	latest, err := db.GetLatestScore(context.Background(), "NVDA")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, res.OrgAIRScore, latest.OrgAIRScore)
}

func TestSetupSubscriptionsScoreRequest(t *testing.T) {
	c := &mockCollector{}
	c.expectCompany("NVDA", "Technology", 0.95, 70)
	h := newMockHermes()
	db := store.NewMemoryStore()
	r := NewRunner(newEngine(t), nil, WithCollector(c), WithHermes(h), WithStore(db))

	require.NoError(t, r.SetupSubscriptions(context.Background()))
	h.deliver(t, hermes.SubjectScoreRequest, hermes.ScoreRequestEvent{Ticker: "nvda", RequestedBy: "test"})

	latest, err := db.GetLatestScore(context.Background(), "NVDA")
	require.NoError(t, err)
	require.NotNil(t, latest)
	h.AssertCalled(t, "Publish", "orgair.score.NVDA.computed", mock.Anything)
}

func TestSetupSubscriptionsPortfolioRequest(t *testing.T) {
	c := &mockCollector{}
	c.expectCompany("GE", "Manufacturing", 0.6, 50)
	c.expectCompany("DG", "Retail", 0.3, 40)
	h := newMockHermes()
	db := store.NewMemoryStore()
	r := NewRunner(newEngine(t), nil, WithCollector(c), WithHermes(h), WithStore(db))

	require.NoError(t, r.SetupSubscriptions(context.Background()))
	h.deliver(t, hermes.SubjectPortfolioRequest, hermes.PortfolioRequestEvent{Tickers: []string{"GE", "DG"}})

	all, err := db.ListScores(context.Background(), store.ScoreFilter{LatestOnly: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "GE", all[0].Ticker)
	assert.Equal(t, "DG", all[1].Ticker)
}

func TestSetupSubscriptionsIgnoresInvalidRequests(t *testing.T) {
	c := &mockCollector{}
	h := newMockHermes()
	r := NewRunner(newEngine(t), nil, WithCollector(c), WithHermes(h))

	require.NoError(t, r.SetupSubscriptions(context.Background()))
	h.deliver(t, hermes.SubjectScoreRequest, hermes.ScoreRequestEvent{})
	h.deliver(t, hermes.SubjectPortfolioRequest, hermes.PortfolioRequestEvent{})

	c.AssertNotCalled(t, "GetEvidence", mock.Anything, mock.Anything)
	h.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSetupSubscriptionsWithoutHermes(t *testing.T) {
	r := NewRunner(newEngine(t), nil)
	assert.NoError(t, r.SetupSubscriptions(context.Background()))
}
