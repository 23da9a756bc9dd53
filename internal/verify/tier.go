package verify

import (
	"regexp"
	"strings"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// tierMatcher holds the keyword tables compiled into regexps. Built
// once per pipeline; classification itself is pure and deterministic.
type tierMatcher struct {
	strictDomains map[string]bool
	strictRe      *regexp.Regexp
	factualRe     *regexp.Regexp
}

func newTierMatcher(kw TierKeywords) *tierMatcher {
	m := &tierMatcher{
		strictDomains: make(map[string]bool, len(kw.StrictDomains)),
	}
	for _, d := range kw.StrictDomains {
		m.strictDomains[strings.ToLower(strings.TrimSpace(d))] = true
	}
	m.strictRe = compileTerms(kw.StrictTerms)
	m.factualRe = compileTerms(kw.FactualTerms)
	return m
}

// compileTerms builds a case-insensitive alternation with word
// boundaries on both sides, so short tokens like "mg" or "vs" never
// match inside unrelated longer words.
func compileTerms(terms []string) *regexp.Regexp {
	if len(terms) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// classify maps (domain, query) to a verification tier. It never
// returns an invalid tier and depends on nothing but its inputs.
func (m *tierMatcher) classify(domain, query string) model.Tier {
	if m.strictDomains[strings.ToLower(strings.TrimSpace(domain))] {
		return model.TierStrict
	}
	if m.strictRe != nil && m.strictRe.MatchString(query) {
		return model.TierStrict
	}
	if m.factualRe != nil && m.factualRe.MatchString(query) {
		return model.TierStandard
	}
	return model.TierNoVerify
}
