package model

// FactType categorizes a structured value extracted from provider text.
type FactType string

const (
	FactTypeRating  FactType = "rating"
	FactTypePrice   FactType = "price"
	FactTypeScore   FactType = "score"
	FactTypeDate    FactType = "date"
	FactTypeNumber  FactType = "number"
	FactTypeName    FactType = "name"
	FactTypeStatus  FactType = "status"
	FactTypeGeneral FactType = "general"
)

// AllFactTypes returns every valid fact type.
func AllFactTypes() []FactType {
	return []FactType{
		FactTypeRating,
		FactTypePrice,
		FactTypeScore,
		FactTypeDate,
		FactTypeNumber,
		FactTypeName,
		FactTypeStatus,
		FactTypeGeneral,
	}
}

// IsNumeric reports whether values of this type are compared with
// tolerance-based clustering rather than exact string equality.
func (ft FactType) IsNumeric() bool {
	switch ft {
	case FactTypeRating, FactTypePrice, FactTypeNumber:
		return true
	}
	return false
}

// IsCritical reports whether this type participates in agreement
// summarization. Critical types are the ones a user would quote as
// hard facts.
func (ft FactType) IsCritical() bool {
	switch ft {
	case FactTypeRating, FactTypePrice, FactTypeScore, FactTypeNumber:
		return true
	}
	return false
}

// ExtractedFact is a single typed value pulled from one provider's text.
// Immutable once created.
type ExtractedFact struct {
	Value      string   `json:"value"`
	Type       FactType `json:"type"`
	Source     string   `json:"source"`
	Confidence float64  `json:"confidence"`
	RawSpan    string   `json:"raw_span"`
}

// FactVote is one provider's contribution to a fact cluster, with the
// value already normalized.
type FactVote struct {
	Value      string  `json:"value"`
	Provider   string  `json:"provider"`
	Confidence float64 `json:"confidence"`
}

// FactCluster groups all votes for one fact type and records the
// voting outcome. Consensus is empty when fewer than two distinct
// providers contributed a value — a single source cannot win a vote.
type FactCluster struct {
	Type           FactType   `json:"type"`
	Votes          []FactVote `json:"votes"`
	Consensus      string     `json:"consensus,omitempty"`
	AgreementRatio float64    `json:"agreement_ratio"`
	TrustScore     float64    `json:"trust_score"`
}

// Providers returns the distinct providers that contributed any vote.
func (c *FactCluster) Providers() []string {
	seen := make(map[string]bool, len(c.Votes))
	var out []string
	for _, v := range c.Votes {
		if !seen[v.Provider] {
			seen[v.Provider] = true
			out = append(out, v.Provider)
		}
	}
	return out
}
