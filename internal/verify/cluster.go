package verify

import (
	"math"
	"sort"
	"strconv"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// BuildClusters groups normalized facts by type and votes on a
// consensus value per type. Numeric types use tolerance-aware
// single-link grouping; everything else matches on exact normalized
// strings.
func BuildClusters(facts []model.ExtractedFact, domain string, opts *Options) map[model.FactType]model.FactCluster {
	byType := make(map[model.FactType][]model.ExtractedFact)
	for _, f := range facts {
		byType[f.Type] = append(byType[f.Type], f)
	}

	clusters := make(map[model.FactType]model.FactCluster, len(byType))
	for ft, typed := range byType {
		cluster := buildCluster(ft, typed, domain, opts)
		if len(cluster.Votes) == 0 {
			continue
		}
		clusters[ft] = cluster
	}
	return clusters
}

func buildCluster(ft model.FactType, facts []model.ExtractedFact, domain string, opts *Options) model.FactCluster {
	cluster := model.FactCluster{Type: ft}

	var groups [][]model.FactVote
	if ft.IsNumeric() {
		groups = toleranceGroups(facts, opts.tolerance(ft))
	} else {
		groups = exactGroups(facts)
	}

	for _, g := range groups {
		cluster.Votes = append(cluster.Votes, g...)
	}
	if len(cluster.Votes) == 0 {
		return cluster
	}

	totalProviders := len(cluster.Providers())
	if totalProviders < 2 {
		// A single source cannot win a vote; report it as a neutral
		// single-source signal.
		cluster.AgreementRatio = 0.5
		cluster.TrustScore = opts.TrustWeight(cluster.Votes[0].Provider, domain) * cluster.Votes[0].Confidence
		return cluster
	}

	winner, winnerWeight, totalWeight := pickWinner(groups, domain, opts)

	cluster.Consensus = consensusValue(winner, domain, opts)
	cluster.AgreementRatio = float64(distinctProviders(winner)) / float64(totalProviders)
	if totalWeight > 0 {
		cluster.TrustScore = winnerWeight / totalWeight
	}
	return cluster
}

// toleranceGroups builds single-link groups over the parsed numeric
// values: two values join the same group when their gap is within
// max(abs, rel × max(|a|, |b|, 1)). Unparseable values are filtered out
// before grouping.
func toleranceGroups(facts []model.ExtractedFact, tol Tolerance) [][]model.FactVote {
	type numVote struct {
		vote model.FactVote
		num  float64
	}

	var votes []numVote
	for _, f := range facts {
		v, err := strconv.ParseFloat(f.Value, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		votes = append(votes, numVote{
			vote: model.FactVote{Value: f.Value, Provider: f.Source, Confidence: f.Confidence},
			num:  v,
		})
	}
	if len(votes) == 0 {
		return nil
	}

	sort.Slice(votes, func(i, j int) bool { return votes[i].num < votes[j].num })

	var groups [][]model.FactVote
	current := []model.FactVote{votes[0].vote}
	prev := votes[0].num
	for _, nv := range votes[1:] {
		if withinTolerance(prev, nv.num, tol) {
			current = append(current, nv.vote)
		} else {
			groups = append(groups, current)
			current = []model.FactVote{nv.vote}
		}
		prev = nv.num
	}
	return append(groups, current)
}

// withinTolerance implements the matching rule for a pair of values.
func withinTolerance(a, b float64, tol Tolerance) bool {
	scale := math.Max(math.Abs(a), math.Max(math.Abs(b), 1))
	limit := math.Max(tol.Absolute, tol.Relative*scale)
	return math.Abs(a-b) <= limit
}

// exactGroups groups votes by exact normalized value.
func exactGroups(facts []model.ExtractedFact) [][]model.FactVote {
	index := make(map[string]int)
	var groups [][]model.FactVote
	for _, f := range facts {
		v := model.FactVote{Value: f.Value, Provider: f.Source, Confidence: f.Confidence}
		if i, ok := index[f.Value]; ok {
			groups[i] = append(groups[i], v)
			continue
		}
		index[f.Value] = len(groups)
		groups = append(groups, []model.FactVote{v})
	}
	return groups
}

// pickWinner selects the group with the most distinct providers,
// tie-broken by the highest trust-weighted confidence sum. Returns the
// winning group, its weight and the weight across all groups.
func pickWinner(groups [][]model.FactVote, domain string, opts *Options) ([]model.FactVote, float64, float64) {
	var (
		winner       []model.FactVote
		winnerCount  int
		winnerWeight float64
		totalWeight  float64
	)

	for _, g := range groups {
		w := groupWeight(g, domain, opts)
		totalWeight += w
		n := distinctProviders(g)
		if winner == nil || n > winnerCount || (n == winnerCount && w > winnerWeight) {
			winner = g
			winnerCount = n
			winnerWeight = w
		}
	}
	return winner, winnerWeight, totalWeight
}

func groupWeight(g []model.FactVote, domain string, opts *Options) float64 {
	var w float64
	for _, v := range g {
		w += opts.TrustWeight(v.Provider, domain) * v.Confidence
	}
	return w
}

func distinctProviders(g []model.FactVote) int {
	seen := make(map[string]bool, len(g))
	for _, v := range g {
		seen[v.Provider] = true
	}
	return len(seen)
}

// consensusValue picks the winning group's best-supported exact value:
// the member with the highest trust-weighted confidence.
func consensusValue(g []model.FactVote, domain string, opts *Options) string {
	var (
		best       string
		bestWeight = -1.0
	)
	for _, v := range g {
		w := opts.TrustWeight(v.Provider, domain) * v.Confidence
		if w > bestWeight {
			best = v.Value
			bestWeight = w
		}
	}
	return best
}
