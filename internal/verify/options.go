package verify

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// defaultTrustWeight applies to providers missing from the trust table.
const defaultTrustWeight = 0.5

// Tolerance bounds how far apart two numeric values may be and still
// count as the same fact. The effective tolerance for a pair (a, b) is
// max(Absolute, Relative × max(|a|, |b|, 1)).
type Tolerance struct {
	Absolute float64 `yaml:"absolute" mapstructure:"absolute"`
	Relative float64 `yaml:"relative" mapstructure:"relative"`
}

// Adjustments holds the named confidence-score modifiers. The score is
// clamped to [0, 1] after each one is applied.
type Adjustments struct {
	// UnanimousBonus is added when every cluster is unanimous and at
	// least two providers were used.
	UnanimousBonus float64 `yaml:"unanimous_bonus" mapstructure:"unanimous_bonus"`
	// ConflictPenalty is subtracted once per cluster with agreement
	// ratio below 0.5.
	ConflictPenalty float64 `yaml:"conflict_penalty" mapstructure:"conflict_penalty"`
	// MultiProviderBonus is added when three or more providers were used.
	MultiProviderBonus float64 `yaml:"multi_provider_bonus" mapstructure:"multi_provider_bonus"`
	// SingleProviderPenalty is subtracted when only one provider was used.
	SingleProviderPenalty float64 `yaml:"single_provider_penalty" mapstructure:"single_provider_penalty"`
	// StrictTierPenalty is subtracted for strict-tier queries, which
	// must clear a higher bar.
	StrictTierPenalty float64 `yaml:"strict_tier_penalty" mapstructure:"strict_tier_penalty"`
}

// TierKeywords holds the keyword tables driving tier classification.
// All matching is case-insensitive with word boundaries on both sides.
type TierKeywords struct {
	// StrictDomains are domain tags that always get strict verification.
	StrictDomains []string `yaml:"strict_domains" mapstructure:"strict_domains"`
	// StrictTerms force strict verification when present in the query.
	StrictTerms []string `yaml:"strict_terms" mapstructure:"strict_terms"`
	// FactualTerms mark a query as factual enough for standard verification.
	FactualTerms []string `yaml:"factual_terms" mapstructure:"factual_terms"`
}

// Options carries every table the pipeline needs. It is passed
// explicitly into each call; the pipeline holds no process-wide state.
type Options struct {
	// TrustWeights maps provider id to baseline credibility.
	TrustWeights map[string]float64 `yaml:"trust_weights" mapstructure:"trust_weights"`
	// DomainOverrides maps domain tag to provider-specific weight
	// overrides, e.g. an upweighted finance-focused provider.
	DomainOverrides map[string]map[string]float64 `yaml:"domain_overrides" mapstructure:"domain_overrides"`
	// Tolerances maps numeric fact types to their matching tolerance.
	Tolerances map[model.FactType]Tolerance `yaml:"tolerances" mapstructure:"tolerances"`
	Adjustments Adjustments  `yaml:"adjustments" mapstructure:"adjustments"`
	Keywords    TierKeywords `yaml:"keywords" mapstructure:"keywords"`
	// MaxItemsPerProvider caps how many result items feed extraction.
	MaxItemsPerProvider int `yaml:"max_items_per_provider" mapstructure:"max_items_per_provider"`
	// Now anchors relative-date resolution. Zero means time.Now at
	// invocation; tests pin it.
	Now time.Time `yaml:"-" mapstructure:"-"`
}

// DefaultOptions returns the stock tables. Callers tune them via
// config rather than editing code.
func DefaultOptions() Options {
	return Options{
		TrustWeights: map[string]float64{
			"brave":   1.0,
			"serpapi": 0.9,
			"tavily":  0.85,
		},
		DomainOverrides: map[string]map[string]float64{
			"finance": {"serpapi": 1.0},
		},
		Tolerances: map[model.FactType]Tolerance{
			model.FactTypeRating: {Absolute: 0.2, Relative: 0.03},
			model.FactTypePrice:  {Absolute: 100, Relative: 0.02},
			model.FactTypeNumber: {Absolute: 0, Relative: 0.05},
		},
		Adjustments: Adjustments{
			UnanimousBonus:        0.15,
			ConflictPenalty:       0.15,
			MultiProviderBonus:    0.05,
			SingleProviderPenalty: 0.10,
			StrictTierPenalty:     0.05,
		},
		Keywords: TierKeywords{
			StrictDomains: []string{"health", "medical", "finance", "legal", "government"},
			StrictTerms: []string{
				"dosage", "dose", "mg", "tablet", "prescription", "vaccine",
				"symptom", "side effects", "paracetamol", "ibuprofen", "insulin",
				"antibiotic", "tax", "gst", "income tax", "loan", "emi",
				"interest rate", "mortgage", "mutual fund", "fixed deposit",
				"lawsuit", "court order", "ipc", "legal notice", "bail",
				"visa", "passport", "aadhaar", "pan card", "voter id",
				"driving licence", "driving license",
			},
			FactualTerms: []string{
				"price", "cost", "rate", "rating", "rated", "review", "rank",
				"ranking", "score", "result", "results", "vs", "versus",
				"compare", "comparison", "how many", "how much", "when",
				"date", "release date", "launched", "population", "height",
				"distance", "temperature", "worth", "salary",
			},
		},
		MaxItemsPerProvider: 3,
	}
}

// LoadOptionsFile reads verification tables from a standalone YAML file
// and merges them over the defaults. Only non-empty sections override.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, eris.Wrapf(err, "verify: read options %s", path)
	}

	// The YAML has a top-level "verification" key.
	var wrapper struct {
		Verification Options `yaml:"verification"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return opts, eris.Wrap(err, "verify: parse options")
	}

	loaded := wrapper.Verification
	if len(loaded.TrustWeights) > 0 {
		opts.TrustWeights = loaded.TrustWeights
	}
	if len(loaded.DomainOverrides) > 0 {
		opts.DomainOverrides = loaded.DomainOverrides
	}
	if len(loaded.Tolerances) > 0 {
		opts.Tolerances = loaded.Tolerances
	}
	if loaded.Adjustments != (Adjustments{}) {
		opts.Adjustments = loaded.Adjustments
	}
	if len(loaded.Keywords.StrictDomains) > 0 {
		opts.Keywords.StrictDomains = loaded.Keywords.StrictDomains
	}
	if len(loaded.Keywords.StrictTerms) > 0 {
		opts.Keywords.StrictTerms = loaded.Keywords.StrictTerms
	}
	if len(loaded.Keywords.FactualTerms) > 0 {
		opts.Keywords.FactualTerms = loaded.Keywords.FactualTerms
	}
	if loaded.MaxItemsPerProvider > 0 {
		opts.MaxItemsPerProvider = loaded.MaxItemsPerProvider
	}

	return opts, nil
}

// TrustWeight resolves a provider's weight, applying any per-domain
// override first. Unknown providers get a neutral default.
func (o *Options) TrustWeight(provider, domain string) float64 {
	if domain != "" {
		if overrides, ok := o.DomainOverrides[domain]; ok {
			if w, ok := overrides[provider]; ok {
				return w
			}
		}
	}
	if w, ok := o.TrustWeights[provider]; ok {
		return w
	}
	return defaultTrustWeight
}

// tolerance returns the tolerance for a numeric fact type, zero-valued
// (exact match) when unconfigured.
func (o *Options) tolerance(ft model.FactType) Tolerance {
	return o.Tolerances[ft]
}

// now returns the pinned clock or the wall clock.
func (o *Options) now() time.Time {
	if !o.Now.IsZero() {
		return o.Now
	}
	return time.Now()
}
