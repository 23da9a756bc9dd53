package store

import (
	"context"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// VerificationFilter specifies criteria for listing verifications.
type VerificationFilter struct {
	Domain     string                `json:"domain,omitempty"`
	Tier       model.Tier            `json:"tier,omitempty"`
	Confidence model.ConfidenceLevel `json:"confidence,omitempty"`
	Limit      int                   `json:"limit,omitempty"`
	Offset     int                   `json:"offset,omitempty"`
}

// Store defines the persistence interface for the verification audit trail.
type Store interface {
	SaveVerification(ctx context.Context, result *model.ConsistencyResult) (*model.VerificationRecord, error)
	GetVerification(ctx context.Context, id string) (*model.VerificationRecord, error)
	ListVerifications(ctx context.Context, filter VerificationFilter) ([]model.VerificationRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
