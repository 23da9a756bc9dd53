// Package verify implements the cross-provider fact verification
// pipeline: tier classification, typed fact extraction, normalization,
// tolerance-aware clustering, trust-weighted voting, confidence
// scoring, agreement summarization, answer assembly and instruction
// synthesis.
//
// The pipeline is a pure, synchronous computation over already-collected
// provider results. It performs no I/O, holds no cross-request state and
// never returns an error: every degenerate input degrades to a
// lower-confidence, well-formed result.
package verify

import (
	"time"

	"go.uber.org/zap"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// Pipeline runs verification with a fixed set of tables. All tables are
// read-only after construction, so one Pipeline is safe for concurrent
// use across requests.
type Pipeline struct {
	opts  Options
	tiers *tierMatcher
}

// New builds a pipeline from the given options.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts:  opts,
		tiers: newTierMatcher(opts.Keywords),
	}
}

// ClassifyTier decides how much cross-checking a query deserves. Pure
// function of (domain, query); it runs before any provider is called.
func (p *Pipeline) ClassifyTier(domain, query string) model.Tier {
	return p.tiers.classify(domain, query)
}

// Verify reconciles whatever provider results arrived — including a
// partial or empty set — into a single confidence-qualified answer.
func (p *Pipeline) Verify(query, domain string, results []model.ProviderResult) *model.ConsistencyResult {
	start := time.Now()
	now := p.opts.now()
	tier := p.ClassifyTier(domain, query)

	providersUsed := 0
	for i := range results {
		if results[i].HasContent() {
			providersUsed++
		}
	}

	var facts []model.ExtractedFact
	for _, pr := range results {
		extracted := ExtractFacts(pr, p.opts.MaxItemsPerProvider)
		for _, f := range extracted {
			facts = append(facts, Normalize(f, now))
		}
	}

	clusters := BuildClusters(facts, domain, &p.opts)
	score, level := ScoreConfidence(clusters, tier, providersUsed, p.opts.Adjustments)
	agreement := SummarizeAgreement(clusters, domain, providersUsed, &p.opts)
	verifiedFact := AssembleFact(results, clusters, domain, &p.opts)
	instruction := SynthesizeInstruction(tier, level, agreement)

	zap.L().Debug("verify: pipeline complete",
		zap.String("query", query),
		zap.String("domain", domain),
		zap.String("tier", string(tier)),
		zap.Int("providers_used", providersUsed),
		zap.Int("facts", len(facts)),
		zap.Int("clusters", len(clusters)),
		zap.Float64("confidence_score", score),
		zap.String("confidence", string(level)),
		zap.String("agreement", string(agreement.Level)),
	)

	return &model.ConsistencyResult{
		Query:           query,
		Domain:          domain,
		Tier:            tier,
		Confidence:      level,
		ConfidenceScore: score,
		VerifiedFact:    verifiedFact,
		Clusters:        clusters,
		Agreement:       agreement,
		ProviderResults: results,
		LLMInstruction:  instruction,
		Elapsed:         time.Since(start),
		ProvidersUsed:   providersUsed,
	}
}
