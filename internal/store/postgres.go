package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS orgair_scores (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id        UUID,
	ticker        TEXT NOT NULL,
	sector        TEXT NOT NULL,
	org_air_score DOUBLE PRECISION NOT NULL,
	vr_score      DOUBLE PRECISION NOT NULL,
	hr_score      DOUBLE PRECISION NOT NULL,
	synergy_score DOUBLE PRECISION NOT NULL,
	result        JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS orgair_scores_ticker_created_idx ON orgair_scores (ticker, created_at DESC);
CREATE INDEX IF NOT EXISTS orgair_scores_run_idx ON orgair_scores (run_id);
`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the scores table and its indexes if they are missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const scoreColumns = `id, run_id, ticker, sector, org_air_score, vr_score, hr_score, synergy_score, result, created_at`

func (s *PostgresStore) SaveScore(ctx context.Context, rec *ScoreRecord) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", rec.Ticker, err)
	}
	rec.Ticker = NormalizeTicker(rec.Ticker)

	return s.pool.QueryRow(ctx, `
		INSERT INTO orgair_scores (run_id, ticker, sector, org_air_score, vr_score, hr_score, synergy_score, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		rec.RunID, rec.Ticker, rec.Sector, rec.OrgAIRScore, rec.VRScore, rec.HRScore, rec.SynergyScore, resultJSON,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (s *PostgresStore) GetLatestScore(ctx context.Context, ticker string) (*ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+scoreColumns+`
		FROM orgair_scores WHERE ticker = $1
		ORDER BY created_at DESC, id DESC LIMIT 1`, NormalizeTicker(ticker))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs, err := scanScores(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

func (s *PostgresStore) ListScores(ctx context.Context, filter ScoreFilter) ([]*ScoreRecord, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Ticker != "" {
		n++
		where += fmt.Sprintf(" AND ticker = $%d", n)
		args = append(args, NormalizeTicker(filter.Ticker))
	}
	if filter.Sector != "" {
		n++
		where += fmt.Sprintf(" AND lower(sector) = lower($%d)", n)
		args = append(args, filter.Sector)
	}
	if filter.MinScore != nil {
		n++
		where += fmt.Sprintf(" AND org_air_score >= $%d", n)
		args = append(args, *filter.MinScore)
	}

	var query string
	if filter.LatestOnly {
		query = `SELECT ` + scoreColumns + ` FROM (
			SELECT DISTINCT ON (ticker) ` + scoreColumns + ` FROM orgair_scores` + where + `
			ORDER BY ticker, created_at DESC, id DESC
		) latest ORDER BY org_air_score DESC, ticker ASC`
	} else {
		query = `SELECT ` + scoreColumns + ` FROM orgair_scores` + where + ` ORDER BY created_at DESC, id DESC`
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScores(rows)
}

func (s *PostgresStore) ListRunScores(ctx context.Context, runID uuid.UUID) ([]*ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+scoreColumns+`
		FROM orgair_scores WHERE run_id = $1
		ORDER BY org_air_score DESC, ticker ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScores(rows)
}

func scanScores(rows pgx.Rows) ([]*ScoreRecord, error) {
	var recs []*ScoreRecord
	for rows.Next() {
		r := &ScoreRecord{}
		var resultJSON []byte
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Ticker, &r.Sector,
			&r.OrgAIRScore, &r.VRScore, &r.HRScore, &r.SynergyScore,
			&resultJSON, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		if resultJSON != nil {
			if err := json.Unmarshal(resultJSON, &r.Result); err != nil {
				return nil, fmt.Errorf("decode result %s: %w", r.ID, err)
			}
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
