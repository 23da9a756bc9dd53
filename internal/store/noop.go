package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// NoopStore discards every write. It backs the "none" driver for
// deployments that want verification without an audit trail.
type NoopStore struct{}

// NewNoop creates a store that persists nothing.
func NewNoop() *NoopStore {
	return &NoopStore{}
}

// SaveVerification returns a record built from the result but assigns
// no ID, signalling to callers that nothing was persisted.
func (s *NoopStore) SaveVerification(_ context.Context, res *model.ConsistencyResult) (*model.VerificationRecord, error) {
	return &model.VerificationRecord{
		Query:           res.Query,
		Domain:          res.Domain,
		Tier:            res.Tier,
		Confidence:      res.Confidence,
		ConfidenceScore: res.ConfidenceScore,
		Agreement:       res.Agreement.Level,
		ProvidersUsed:   res.ProvidersUsed,
		ElapsedMS:       res.Elapsed.Milliseconds(),
		Result:          res,
	}, nil
}

func (s *NoopStore) GetVerification(_ context.Context, _ string) (*model.VerificationRecord, error) {
	return nil, eris.New("verification not found")
}

func (s *NoopStore) ListVerifications(_ context.Context, _ VerificationFilter) ([]model.VerificationRecord, error) {
	return nil, nil
}

func (s *NoopStore) Migrate(_ context.Context) error { return nil }

func (s *NoopStore) Close() error { return nil }
