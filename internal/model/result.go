package model

import "time"

// Tier is the level of cross-provider scrutiny a query receives.
type Tier string

const (
	TierNoVerify Tier = "no_verify"
	TierStandard Tier = "standard"
	TierStrict   Tier = "strict"
)

// AllTiers returns every valid tier.
func AllTiers() []Tier {
	return []Tier{TierNoVerify, TierStandard, TierStrict}
}

// ConfidenceLevel buckets the overall confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// AgreementLevel classifies the overall shape of provider agreement.
type AgreementLevel string

const (
	AgreementUnanimous AgreementLevel = "unanimous"
	AgreementMajority  AgreementLevel = "majority"
	AgreementSplit     AgreementLevel = "split"
	AgreementSingle    AgreementLevel = "single"
)

// ResultItem is one search result from a provider.
type ResultItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Recency     string `json:"recency,omitempty"`
}

// ProviderResult holds everything one provider returned for a query.
// Owned per-request; never persisted beyond the audit record.
type ProviderResult struct {
	Provider      string        `json:"provider"`
	Items         []ResultItem  `json:"items"`
	InstantAnswer string        `json:"instant_answer,omitempty"`
	Latency       time.Duration `json:"latency"`
	Domain        string        `json:"domain,omitempty"`
}

// HasContent reports whether the provider returned anything usable.
func (p *ProviderResult) HasContent() bool {
	return p.InstantAnswer != "" || len(p.Items) > 0
}

// AgreementDetail describes how the providers lined up.
type AgreementDetail struct {
	Level               AgreementLevel `json:"level"`
	Agreeing            []string       `json:"agreeing"`
	Disagreeing         []string       `json:"disagreeing"`
	ConflictDescription string         `json:"conflict_description,omitempty"`
}

// ConsistencyResult is the single output of the verification pipeline.
type ConsistencyResult struct {
	Query           string                   `json:"query"`
	Domain          string                   `json:"domain,omitempty"`
	Tier            Tier                     `json:"tier"`
	Confidence      ConfidenceLevel          `json:"confidence"`
	ConfidenceScore float64                  `json:"confidence_score"`
	VerifiedFact    string                   `json:"verified_fact"`
	Clusters        map[FactType]FactCluster `json:"clusters,omitempty"`
	Agreement       AgreementDetail          `json:"agreement"`
	ProviderResults []ProviderResult         `json:"provider_results,omitempty"`
	LLMInstruction  string                   `json:"llm_instruction"`
	Elapsed         time.Duration            `json:"elapsed"`
	ProvidersUsed   int                      `json:"providers_used"`
}
