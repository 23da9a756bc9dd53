package verify

import (
	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// Level thresholds for bucketing the confidence score.
const (
	highConfidenceThreshold   = 0.7
	mediumConfidenceThreshold = 0.4
)

// Defaults when no structured facts were extracted at all.
const (
	noFactsMultiProviderScore  = 0.5
	noFactsSingleProviderScore = 0.3
)

// ScoreConfidence aggregates cluster-level agreement into one overall
// score and level. Price, rating and score clusters weigh double, and
// the named adjustments are applied with a clamp to [0, 1] after every
// step.
func ScoreConfidence(clusters map[model.FactType]model.FactCluster, tier model.Tier, providersUsed int, adj Adjustments) (float64, model.ConfidenceLevel) {
	if len(clusters) == 0 {
		if providersUsed >= 2 {
			return noFactsMultiProviderScore, model.ConfidenceLow
		}
		return noFactsSingleProviderScore, model.ConfidenceLow
	}

	var weighted, totalWeight float64
	allUnanimous := true
	conflicts := 0
	for ft, c := range clusters {
		weight := 1.0
		switch ft {
		case model.FactTypePrice, model.FactTypeRating, model.FactTypeScore:
			weight = 2.0
		}
		weighted += weight * c.AgreementRatio
		totalWeight += weight

		if c.AgreementRatio < 1.0 {
			allUnanimous = false
		}
		// A cluster at or below half agreement is contested. Neutral
		// single-source clusters sit at 0.5 too but are not conflicts.
		if c.AgreementRatio <= 0.5 && len(c.Providers()) > 1 {
			conflicts++
		}
	}

	score := clamp01(weighted / totalWeight)

	if allUnanimous && providersUsed >= 2 {
		score = clamp01(score + adj.UnanimousBonus)
	}
	for i := 0; i < conflicts; i++ {
		score = clamp01(score - adj.ConflictPenalty)
	}
	if providersUsed >= 3 {
		score = clamp01(score + adj.MultiProviderBonus)
	}
	if providersUsed == 1 {
		score = clamp01(score - adj.SingleProviderPenalty)
	}
	if tier == model.TierStrict {
		score = clamp01(score - adj.StrictTierPenalty)
	}

	return score, levelFor(score)
}

func levelFor(score float64) model.ConfidenceLevel {
	switch {
	case score >= highConfidenceThreshold:
		return model.ConfidenceHigh
	case score >= mediumConfidenceThreshold:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
