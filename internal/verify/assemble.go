package verify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

const (
	// maxSupplements caps how many additional providers may contribute
	// content beyond the primary one.
	maxSupplements = 2
	// maxSourceURLs caps the appended source list.
	maxSourceURLs = 3
	// overlapCutoff drops supplementary content that mostly repeats
	// what is already assembled.
	overlapCutoff = 0.5
	// primarySnippets is how many result snippets stand in for a
	// missing instant answer.
	primarySnippets = 2
)

var numPrinter = message.NewPrinter(language.English)

// AssembleFact builds the best answer text: a cross-verified header for
// settled clusters, the highest-trust provider's content, non-redundant
// supplements from up to two more providers, and source references.
func AssembleFact(results []model.ProviderResult, clusters map[model.FactType]model.FactCluster, domain string, opts *Options) string {
	ordered := byTrustDesc(results, domain, opts)

	var sections []string

	if header := verifiedHeader(clusters); header != "" {
		sections = append(sections, header)
	}

	var assembled string
	supplements := 0
	for _, pr := range ordered {
		content := providerContent(pr)
		if content == "" {
			continue
		}
		if assembled == "" {
			assembled = content
			sections = append(sections, content)
			continue
		}
		if supplements >= maxSupplements {
			break
		}
		if wordOverlap(content, assembled) >= overlapCutoff {
			continue
		}
		sections = append(sections, content)
		assembled += " " + content
		supplements++
	}

	if srcs := sourceURLs(ordered); len(srcs) > 0 {
		sections = append(sections, "Sources:\n- "+strings.Join(srcs, "\n- "))
	}

	return strings.Join(sections, "\n\n")
}

// byTrustDesc orders provider results by trust weight descending,
// breaking ties by name for determinism.
func byTrustDesc(results []model.ProviderResult, domain string, opts *Options) []model.ProviderResult {
	ordered := make([]model.ProviderResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		wi := opts.TrustWeight(ordered[i].Provider, domain)
		wj := opts.TrustWeight(ordered[j].Provider, domain)
		if wi != wj {
			return wi > wj
		}
		return ordered[i].Provider < ordered[j].Provider
	})
	return ordered
}

// verifiedHeader lists every cluster with a consensus that cleared the
// agreement bar. Numeric consensus values get thousand separators for
// readability.
func verifiedHeader(clusters map[model.FactType]model.FactCluster) string {
	var types []model.FactType
	for ft, c := range clusters {
		if c.Consensus != "" && c.AgreementRatio >= agreementRatioBar {
			types = append(types, ft)
		}
	}
	if len(types) == 0 {
		return ""
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	lines := make([]string, 0, len(types)+1)
	lines = append(lines, "Cross-verified data:")
	for _, ft := range types {
		c := clusters[ft]
		n := len(c.Providers())
		lines = append(lines, fmt.Sprintf("- %s: %s (%d %s agree)",
			ft, displayValue(c.Consensus), n, pluralSources(n)))
	}
	return strings.Join(lines, "\n")
}

func pluralSources(n int) string {
	if n == 1 {
		return "source"
	}
	return "sources"
}

// displayValue formats large plain numbers with grouping separators;
// anything non-numeric passes through untouched.
func displayValue(v string) string {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 1000 {
		return v
	}
	if f == float64(int64(f)) {
		return numPrinter.Sprintf("%v", number.Decimal(int64(f)))
	}
	return numPrinter.Sprintf("%v", number.Decimal(f))
}

// providerContent returns the provider's instant answer or, failing
// that, its top result snippets.
func providerContent(pr model.ProviderResult) string {
	if s := strings.TrimSpace(pr.InstantAnswer); s != "" {
		return s
	}
	var parts []string
	for i, item := range pr.Items {
		if i >= primarySnippets {
			break
		}
		s := strings.TrimSpace(strings.TrimSpace(item.Title) + ". " + strings.TrimSpace(item.Description))
		s = strings.TrimPrefix(s, ". ")
		if s != "" && s != "." {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// wordOverlap is the fraction of candidate tokens already present in
// the assembled text.
func wordOverlap(candidate, assembled string) float64 {
	candTokens := tokenize(candidate)
	if len(candTokens) == 0 {
		return 1.0
	}
	have := make(map[string]bool)
	for _, t := range tokenize(assembled) {
		have[t] = true
	}
	matched := 0
	for _, t := range candTokens {
		if have[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(candTokens))
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// sourceURLs collects up to maxSourceURLs distinct result URLs in trust
// order.
func sourceURLs(ordered []model.ProviderResult) []string {
	seen := make(map[string]bool)
	var out []string
	for _, pr := range ordered {
		for _, item := range pr.Items {
			u := strings.TrimSpace(item.URL)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, u)
			if len(out) >= maxSourceURLs {
				return out
			}
		}
	}
	return out
}
