package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS verifications (
	id               TEXT PRIMARY KEY,
	query            TEXT NOT NULL,
	domain           TEXT NOT NULL DEFAULT '',
	tier             TEXT NOT NULL,
	confidence       TEXT NOT NULL,
	confidence_score REAL NOT NULL,
	agreement        TEXT NOT NULL,
	providers_used   INTEGER NOT NULL,
	elapsed_ms       INTEGER NOT NULL,
	result           TEXT NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_verifications_domain ON verifications(domain);
CREATE INDEX IF NOT EXISTS idx_verifications_tier ON verifications(tier);
CREATE INDEX IF NOT EXISTS idx_verifications_confidence ON verifications(confidence);
CREATE INDEX IF NOT EXISTS idx_verifications_created_at ON verifications(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveVerification(ctx context.Context, result *model.ConsistencyResult) (*model.VerificationRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO verifications
		 (id, query, domain, tier, confidence, confidence_score, agreement, providers_used, elapsed_ms, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, result.Query, result.Domain, string(result.Tier), string(result.Confidence),
		result.ConfidenceScore, string(result.Agreement.Level), result.ProvidersUsed,
		result.Elapsed.Milliseconds(), string(resultJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert verification")
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

func (s *SQLiteStore) GetVerification(ctx context.Context, id string) (*model.VerificationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, domain, tier, confidence, confidence_score, agreement, providers_used, elapsed_ms, result, created_at
		 FROM verifications WHERE id = ?`,
		id,
	)
	return scanVerification(row)
}

func (s *SQLiteStore) ListVerifications(ctx context.Context, filter VerificationFilter) ([]model.VerificationRecord, error) {
	query := `SELECT id, query, domain, tier, confidence, confidence_score, agreement, providers_used, elapsed_ms, result, created_at
	          FROM verifications WHERE 1=1`
	var args []any

	if filter.Domain != "" {
		query += ` AND domain = ?`
		args = append(args, filter.Domain)
	}
	if filter.Tier != "" {
		query += ` AND tier = ?`
		args = append(args, string(filter.Tier))
	}
	if filter.Confidence != "" {
		query += ` AND confidence = ?`
		args = append(args, string(filter.Confidence))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list verifications")
	}
	defer rows.Close()

	var records []model.VerificationRecord
	for rows.Next() {
		r, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list verifications iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanVerification(row scannable) (*model.VerificationRecord, error) {
	var r model.VerificationRecord
	var resultJSON string

	err := row.Scan(&r.ID, &r.Query, &r.Domain, &r.Tier, &r.Confidence, &r.ConfidenceScore,
		&r.Agreement, &r.ProvidersUsed, &r.ElapsedMS, &resultJSON, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("verification not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan verification")
	}

	r.Result = &model.ConsistencyResult{}
	if err := json.Unmarshal([]byte(resultJSON), r.Result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &r, nil
}
