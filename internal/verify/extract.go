package verify

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// factMatch is an extracted fact plus its span offsets in the combined
// provider text. Offsets exist only for span-level deduplication; the
// emitted ExtractedFact keeps the raw span text for audit.
type factMatch struct {
	fact  model.ExtractedFact
	start int
	end   int
}

// extractor scans provider text for one fact type. Implementations are
// stateless; adding a fact type means adding an extractor, not touching
// the clustering or voting core.
type extractor interface {
	factType() model.FactType
	extract(text, provider string) []factMatch
}

var extractors = []extractor{
	&ratingExtractor{},
	&priceExtractor{},
	&scoreExtractor{},
	&numberExtractor{},
	&dateExtractor{},
}

// ExtractFacts runs every typed extractor over a provider's combined
// text (instant answer plus the first maxItems result titles and
// descriptions) and deduplicates overlapping matches of the same type,
// so a single mention never counts as two votes from one provider.
func ExtractFacts(pr model.ProviderResult, maxItems int) []model.ExtractedFact {
	if maxItems <= 0 {
		maxItems = 3
	}

	var b strings.Builder
	if pr.InstantAnswer != "" {
		b.WriteString(pr.InstantAnswer)
		b.WriteString("\n")
	}
	for i, item := range pr.Items {
		if i >= maxItems {
			break
		}
		b.WriteString(item.Title)
		b.WriteString(" ")
		b.WriteString(item.Description)
		b.WriteString("\n")
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var matches []factMatch
	for _, ex := range extractors {
		matches = append(matches, ex.extract(text, pr.Provider)...)
	}

	return dedupeMatches(matches)
}

// dedupeMatches drops same-type matches whose spans overlap, keeping
// the higher-confidence one. Cross-type overlap is allowed: "won 3-1 on
// 3 Jan 2026" legitimately yields both a score and a date.
func dedupeMatches(matches []factMatch) []model.ExtractedFact {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].fact.Confidence != matches[j].fact.Confidence {
			return matches[i].fact.Confidence > matches[j].fact.Confidence
		}
		return matches[i].start < matches[j].start
	})

	var kept []factMatch
	for _, m := range matches {
		overlaps := false
		for _, k := range kept {
			if k.fact.Type == m.fact.Type && m.start < k.end && k.start < m.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })

	facts := make([]model.ExtractedFact, 0, len(kept))
	for _, m := range kept {
		facts = append(facts, m.fact)
	}
	return facts
}

// pattern pairs a compiled regexp with the per-pattern confidence
// reflecting how unambiguous the form is.
type pattern struct {
	re         *regexp.Regexp
	confidence float64
}

func (p pattern) scan(text, provider string, ft model.FactType, accept func(span string, groups []string) bool) []factMatch {
	var out []factMatch
	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		span := text[loc[0]:loc[1]]
		groups := make([]string, 0, len(loc)/2-1)
		for g := 1; g < len(loc)/2; g++ {
			if loc[2*g] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, text[loc[2*g]:loc[2*g+1]])
		}
		if accept != nil && !accept(span, groups) {
			continue
		}
		out = append(out, factMatch{
			fact: model.ExtractedFact{
				Value:      span,
				Type:       ft,
				Source:     provider,
				Confidence: p.confidence,
				RawSpan:    span,
			},
			start: loc[0],
			end:   loc[1],
		})
	}
	return out
}

// ratingExtractor matches x/10 style ratings. Explicit "/10" and "out
// of 10" forms are near-unambiguous; star and "rated" forms less so.
type ratingExtractor struct{}

var ratingPatterns = []pattern{
	{regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s*/\s*10\b`), 0.95},
	{regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s+out\s+of\s+10\b`), 0.95},
	{regexp.MustCompile(`[★⭐]\s*(\d{1,2}(?:\.\d+)?)\b`), 0.80},
	{regexp.MustCompile(`(?i)\brat(?:ed|ing)[:\s]\s*(\d{1,2}(?:\.\d+)?)\b`), 0.80},
}

func (e *ratingExtractor) factType() model.FactType { return model.FactTypeRating }

func (e *ratingExtractor) extract(text, provider string) []factMatch {
	var out []factMatch
	for _, p := range ratingPatterns {
		out = append(out, p.scan(text, provider, model.FactTypeRating, func(_ string, groups []string) bool {
			v, err := strconv.ParseFloat(groups[0], 64)
			return err == nil && v >= 1.0 && v <= 10.0
		})...)
	}
	return out
}

// priceExtractor matches currency-prefixed amounts with optional
// magnitude words. Rupee forms carry lakh/crore; western forms carry
// thousand/million/billion.
type priceExtractor struct{}

var pricePatterns = []pattern{
	{regexp.MustCompile(`(?i)(?:₹|\b(?:rs\.?|inr))\s*(\d[\d,.]*)\s*(lakh|crore|thousand|million|mn|billion|bn|k)?\b`), 0.90},
	{regexp.MustCompile(`(?i)(?:\$|€|£|\b(?:usd|eur|gbp))\s*(\d[\d,.]*)\s*(thousand|million|mn|billion|bn|k)?\b`), 0.90},
}

func (e *priceExtractor) factType() model.FactType { return model.FactTypePrice }

func (e *priceExtractor) extract(text, provider string) []factMatch {
	var out []factMatch
	for _, p := range pricePatterns {
		out = append(out, p.scan(text, provider, model.FactTypePrice, nil)...)
	}
	return out
}

// scoreExtractor matches sports-style scorelines. Scores never merge by
// tolerance, so the value is kept verbatim for exact matching after
// separator normalization.
type scoreExtractor struct{}

var (
	scoreDashRe  = regexp.MustCompile(`\b(\d{1,3})\s*[-–:]\s*(\d{1,3})\b`)
	scoreSlashRe = regexp.MustCompile(`\b(\d{1,3})\s*/\s*(\d{1,3})\b`)
	scoreWonRe   = regexp.MustCompile(`(?i)\bwon\s+by\s+\d+\s*(?:runs?|wickets?|goals?|points?)?\b`)
)

func (e *scoreExtractor) factType() model.FactType { return model.FactTypeScore }

func (e *scoreExtractor) extract(text, provider string) []factMatch {
	var out []factMatch

	out = append(out, pattern{scoreDashRe, 0.85}.scan(text, provider, model.FactTypeScore, nil)...)
	out = append(out, pattern{scoreSlashRe, 0.80}.scan(text, provider, model.FactTypeScore, func(_ string, groups []string) bool {
		// x/10 is rating territory.
		return groups[1] != "10"
	})...)
	out = append(out, pattern{scoreWonRe, 0.80}.scan(text, provider, model.FactTypeScore, nil)...)

	// Drop dash/slash matches that are part of a longer numeric chain
	// (dates like 15-01-2026 produce two overlapping pair matches).
	var filtered []factMatch
	for _, m := range out {
		if chainedDigits(text, m.start, m.end) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// chainedDigits reports whether the span at [start, end) continues a
// digit-separator chain on either side, e.g. the "15-01" inside
// "15-01-2026".
func chainedDigits(text string, start, end int) bool {
	if start >= 2 {
		prev := text[start-1]
		if (prev == '-' || prev == '/' || prev == ':') && isDigit(text[start-2]) {
			return true
		}
	}
	if end+1 < len(text) {
		next := text[end]
		if (next == '-' || next == '/' || next == ':') && isDigit(text[end+1]) {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// numberExtractor matches percentages and magnitude-suffixed generic
// numbers. Currency-prefixed amounts belong to the price extractor and
// are skipped here to keep one mention out of two clusters.
type numberExtractor struct{}

var (
	percentRe   = regexp.MustCompile(`(?i)\b(\d{1,3}(?:\.\d+)?)\s*(?:%|percent|per\s+cent)`)
	magnitudeRe = regexp.MustCompile(`(?i)\b(\d[\d,]*(?:\.\d+)?)\s*(lakh|crore|thousand|million|mn|billion|bn)\b`)
)

func (e *numberExtractor) factType() model.FactType { return model.FactTypeNumber }

func (e *numberExtractor) extract(text, provider string) []factMatch {
	var out []factMatch
	out = append(out, pattern{percentRe, 0.90}.scan(text, provider, model.FactTypeNumber, nil)...)

	for _, m := range (pattern{magnitudeRe, 0.80}).scan(text, provider, model.FactTypeNumber, nil) {
		if currencyPrefixed(text, m.start) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// currencyPrefixed reports whether the text immediately before pos ends
// with a currency marker, meaning the match is a price, not a number.
// Word markers ("rs", "inr", "usd") must stand alone; "collectors" is
// not a rupee sign.
func currencyPrefixed(text string, pos int) bool {
	prefix := strings.ToLower(strings.TrimRight(text[:pos], " \t"))
	for _, marker := range []string{"₹", "$", "€", "£"} {
		if strings.HasSuffix(prefix, marker) {
			return true
		}
	}
	for _, marker := range []string{"rs.", "rs", "inr", "usd"} {
		if !strings.HasSuffix(prefix, marker) {
			continue
		}
		rest := prefix[:len(prefix)-len(marker)]
		if rest == "" || !isLetter(rest[len(rest)-1]) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// dateExtractor matches absolute dates in several formats plus relative
// terms, which the normalizer resolves against the pipeline clock.
type dateExtractor struct{}

var datePatterns = []pattern{
	{regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`), 0.95},
	{regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+\d{4}\b`), 0.90},
	{regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`), 0.90},
	{regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`), 0.70},
	{regexp.MustCompile(`(?i)\b(?:day\s+after\s+tomorrow|day\s+before\s+yesterday|today|tonight|tomorrow|yesterday)\b`), 0.60},
}

func (e *dateExtractor) factType() model.FactType { return model.FactTypeDate }

func (e *dateExtractor) extract(text, provider string) []factMatch {
	var out []factMatch
	for _, p := range datePatterns {
		out = append(out, p.scan(text, provider, model.FactTypeDate, nil)...)
	}
	return out
}
