package verify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// agreementRatioBar is the per-cluster ratio at which a cluster counts
// as settled for agreement summarization.
const agreementRatioBar = 0.66

// SummarizeAgreement classifies the overall agreement shape across the
// critical fact types and lists which providers sided with or against
// the consensus.
func SummarizeAgreement(clusters map[model.FactType]model.FactCluster, domain string, providersUsed int, opts *Options) model.AgreementDetail {
	critical := criticalClusters(clusters)

	if len(critical) == 0 {
		level := model.AgreementSingle
		if providersUsed >= 2 {
			level = model.AgreementMajority
		}
		return model.AgreementDetail{Level: level}
	}

	agreeing := make(map[string]bool)
	disagreeing := make(map[string]bool)
	var conflictParts []string
	contributors := make(map[string]bool)
	settled := 0

	for _, c := range critical {
		if c.AgreementRatio >= agreementRatioBar {
			settled++
		}
		for _, p := range c.Providers() {
			contributors[p] = true
		}
		if c.Consensus == "" {
			continue
		}
		clusterDisagree := splitByConsensus(c, agreeing, disagreeing, opts)
		if len(clusterDisagree) > 0 {
			conflictParts = append(conflictParts, describeConflict(c))
		}
	}

	// A provider that agrees on one type and disagrees on another is a
	// disagreeing provider.
	for p := range disagreeing {
		delete(agreeing, p)
	}

	detail := model.AgreementDetail{
		Agreeing:            sortedKeys(agreeing),
		Disagreeing:         sortedKeys(disagreeing),
		ConflictDescription: strings.Join(conflictParts, "; "),
	}

	frac := float64(settled) / float64(len(critical))
	switch {
	case frac >= 1.0:
		detail.Level = model.AgreementUnanimous
	case frac >= 0.5:
		detail.Level = model.AgreementMajority
	case len(contributors) <= 1:
		detail.Level = model.AgreementSingle
	default:
		detail.Level = model.AgreementSplit
	}
	return detail
}

func criticalClusters(clusters map[model.FactType]model.FactCluster) []model.FactCluster {
	var out []model.FactCluster
	for ft, c := range clusters {
		if ft.IsCritical() && len(c.Votes) > 0 {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// splitByConsensus marks each provider in the cluster as agreeing or
// disagreeing with the consensus value. Numeric types compare within
// tolerance; everything else on exact normalized equality. Returns the
// providers that disagreed.
func splitByConsensus(c model.FactCluster, agreeing, disagreeing map[string]bool, opts *Options) []string {
	consensusNum, numOK := parseNum(c.Consensus)
	tol := opts.tolerance(c.Type)

	var clusterDisagree []string
	seen := make(map[string]bool)
	for _, v := range c.Votes {
		matches := v.Value == c.Consensus
		if !matches && c.Type.IsNumeric() && numOK {
			if n, ok := parseNum(v.Value); ok {
				matches = withinTolerance(consensusNum, n, tol)
			}
		}
		if matches {
			agreeing[v.Provider] = true
			continue
		}
		disagreeing[v.Provider] = true
		if !seen[v.Provider] {
			seen[v.Provider] = true
			clusterDisagree = append(clusterDisagree, v.Provider)
		}
	}
	return clusterDisagree
}

// describeConflict renders one disputed type with the competing values
// and their sources, e.g. "rating: 6.5 (brave) vs 9.0 (tavily)".
func describeConflict(c model.FactCluster) string {
	byValue := make(map[string][]string)
	var order []string
	for _, v := range c.Votes {
		if _, ok := byValue[v.Value]; !ok {
			order = append(order, v.Value)
		}
		byValue[v.Value] = append(byValue[v.Value], v.Provider)
	}

	parts := make([]string, 0, len(order))
	for _, val := range order {
		providers := byValue[val]
		sort.Strings(providers)
		parts = append(parts, fmt.Sprintf("%s (%s)", val, strings.Join(providers, ", ")))
	}
	return fmt.Sprintf("%s: %s", c.Type, strings.Join(parts, " vs "))
}

func parseNum(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
