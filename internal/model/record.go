package model

import "time"

// VerificationRecord is one persisted verification, the unit of the
// audit trail. The full ConsistencyResult rides along as JSON so a
// past answer can be reconstructed exactly.
type VerificationRecord struct {
	ID              string             `json:"id"`
	Query           string             `json:"query"`
	Domain          string             `json:"domain,omitempty"`
	Tier            Tier               `json:"tier"`
	Confidence      ConfidenceLevel    `json:"confidence"`
	ConfidenceScore float64            `json:"confidence_score"`
	Agreement       AgreementLevel     `json:"agreement"`
	ProvidersUsed   int                `json:"providers_used"`
	ElapsedMS       int64              `json:"elapsed_ms"`
	Result          *ConsistencyResult `json:"result,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}
