package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps scores in process. It backs the service when no
// database is configured; contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []*ScoreRecord
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) SaveScore(_ context.Context, rec *ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = uuid.New()
	rec.Ticker = NormalizeTicker(rec.Ticker)
	rec.CreatedAt = m.now().UTC()
	cp := *rec
	m.recs = append(m.recs, &cp)
	return nil
}

// GetLatestScore returns the last saved record for ticker. Insertion order
// breaks ties between equal timestamps.
func (m *MemoryStore) GetLatestScore(_ context.Context, ticker string) (*ScoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ticker = NormalizeTicker(ticker)
	for i := len(m.recs) - 1; i >= 0; i-- {
		if m.recs[i].Ticker == ticker {
			cp := *m.recs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ListScores(_ context.Context, filter ScoreFilter) ([]*ScoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ticker := NormalizeTicker(filter.Ticker)
	seen := make(map[string]bool)
	var out []*ScoreRecord
	// Newest first so LatestOnly keeps the first record seen per ticker.
	for i := len(m.recs) - 1; i >= 0; i-- {
		r := m.recs[i]
		if ticker != "" && r.Ticker != ticker {
			continue
		}
		if filter.Sector != "" && !strings.EqualFold(r.Sector, filter.Sector) {
			continue
		}
		if filter.MinScore != nil && r.OrgAIRScore < *filter.MinScore {
			continue
		}
		if filter.LatestOnly {
			if seen[r.Ticker] {
				continue
			}
			seen[r.Ticker] = true
		}
		cp := *r
		out = append(out, &cp)
	}

	if filter.LatestOnly {
		sortByScore(out)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

func (m *MemoryStore) ListRunScores(_ context.Context, runID uuid.UUID) ([]*ScoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*ScoreRecord
	for _, r := range m.recs {
		if r.RunID != nil && *r.RunID == runID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sortByScore(out)
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

func sortByScore(recs []*ScoreRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].OrgAIRScore != recs[j].OrgAIRScore {
			return recs[i].OrgAIRScore > recs[j].OrgAIRScore
		}
		return recs[i].Ticker < recs[j].Ticker
	})
}

func page(recs []*ScoreRecord, limit, offset int) []*ScoreRecord {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(recs) {
		return nil
	}
	recs = recs[offset:]
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
