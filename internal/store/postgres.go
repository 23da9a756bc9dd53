package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS verifications (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	query            TEXT NOT NULL,
	domain           TEXT NOT NULL DEFAULT '',
	tier             TEXT NOT NULL,
	confidence       TEXT NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL,
	agreement        TEXT NOT NULL,
	providers_used   INTEGER NOT NULL,
	elapsed_ms       BIGINT NOT NULL,
	result           JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_verifications_domain ON verifications(domain);
CREATE INDEX IF NOT EXISTS idx_verifications_tier ON verifications(tier);
CREATE INDEX IF NOT EXISTS idx_verifications_confidence ON verifications(confidence);
CREATE INDEX IF NOT EXISTS idx_verifications_created_at ON verifications(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveVerification(ctx context.Context, result *model.ConsistencyResult) (*model.VerificationRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO verifications
		 (id, query, domain, tier, confidence, confidence_score, agreement, providers_used, elapsed_ms, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, result.Query, result.Domain, string(result.Tier), string(result.Confidence),
		result.ConfidenceScore, string(result.Agreement.Level), result.ProvidersUsed,
		result.Elapsed.Milliseconds(), resultJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert verification")
	}

	return &model.VerificationRecord{
		ID:              id,
		Query:           result.Query,
		Domain:          result.Domain,
		Tier:            result.Tier,
		Confidence:      result.Confidence,
		ConfidenceScore: result.ConfidenceScore,
		Agreement:       result.Agreement.Level,
		ProvidersUsed:   result.ProvidersUsed,
		ElapsedMS:       result.Elapsed.Milliseconds(),
		Result:          result,
		CreatedAt:       now,
	}, nil
}

func (s *PostgresStore) GetVerification(ctx context.Context, id string) (*model.VerificationRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, query, domain, tier, confidence, confidence_score, agreement, providers_used, elapsed_ms, result, created_at
		 FROM verifications WHERE id = $1`,
		id,
	)
	return scanPgVerification(row)
}

func (s *PostgresStore) ListVerifications(ctx context.Context, filter VerificationFilter) ([]model.VerificationRecord, error) {
	query := `SELECT id, query, domain, tier, confidence, confidence_score, agreement, providers_used, elapsed_ms, result, created_at
	          FROM verifications WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Domain != "" {
		query += ` AND domain = ` + arg(filter.Domain)
	}
	if filter.Tier != "" {
		query += ` AND tier = ` + arg(string(filter.Tier))
	}
	if filter.Confidence != "" {
		query += ` AND confidence = ` + arg(string(filter.Confidence))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)

	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list verifications")
	}
	defer rows.Close()

	var records []model.VerificationRecord
	for rows.Next() {
		r, err := scanPgVerification(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list verifications iterate")
}

func scanPgVerification(row scannable) (*model.VerificationRecord, error) {
	var r model.VerificationRecord
	var resultJSON []byte

	err := row.Scan(&r.ID, &r.Query, &r.Domain, &r.Tier, &r.Confidence, &r.ConfidenceScore,
		&r.Agreement, &r.ProvidersUsed, &r.ElapsedMS, &resultJSON, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("verification not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan verification")
	}

	r.Result = &model.ConsistencyResult{}
	if err := json.Unmarshal(resultJSON, r.Result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &r, nil
}
