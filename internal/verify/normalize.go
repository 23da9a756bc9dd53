package verify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// magnitudes expands magnitude words to multipliers. Indian and western
// scales both appear in provider text.
var magnitudes = map[string]float64{
	"k":        1e3,
	"thousand": 1e3,
	"lakh":     1e5,
	"million":  1e6,
	"mn":       1e6,
	"crore":    1e7,
	"billion":  1e9,
	"bn":       1e9,
}

// Normalize canonicalizes a fact's value so values from different
// providers become comparable. The raw span is preserved untouched.
func Normalize(fact model.ExtractedFact, now time.Time) model.ExtractedFact {
	switch fact.Type {
	case model.FactTypeRating:
		fact.Value = normalizeRating(fact.Value)
	case model.FactTypePrice:
		fact.Value = normalizePrice(fact.Value)
	case model.FactTypeScore:
		fact.Value = normalizeScore(fact.Value)
	case model.FactTypeNumber:
		fact.Value = normalizeNumber(fact.Value)
	case model.FactTypeDate:
		fact.Value = normalizeDate(fact.Value, now)
	default:
		fact.Value = strings.ToLower(strings.TrimSpace(fact.Value))
	}
	return fact
}

var firstNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// normalizeRating renders the rating as a one-decimal numeric string,
// so 8, 8.0 and 8.04 all become "8.0".
func normalizeRating(raw string) string {
	num := firstNumberRe.FindString(raw)
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

var (
	amountRe        = regexp.MustCompile(`\d[\d,.]*`)
	magnitudeWordRe = regexp.MustCompile(`(?i)\b(lakh|crore|thousand|million|mn|billion|bn|k)\b`)
	europeanStyleRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+(?:,\d+)?$`)
)

// normalizePrice strips currency symbols and separators and expands
// magnitude words, yielding an absolute numeric string: "₹1.2 lakh"
// becomes "120000".
func normalizePrice(raw string) string {
	amount := amountRe.FindString(raw)
	if amount == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}

	var cleaned string
	if europeanStyleRe.MatchString(amount) {
		// Decimal-comma form: dots group thousands, comma is the
		// decimal point.
		cleaned = strings.ReplaceAll(amount, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(amount, ",", "")
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(cleaned, "."), 64)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}

	if m := magnitudeWordRe.FindString(raw); m != "" {
		v *= magnitudes[strings.ToLower(m)]
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var scoreSepRe = regexp.MustCompile(`\s*[-–:/]\s*`)

// normalizeScore unifies separators only. No numeric expansion: two
// different scorelines must never merge.
func normalizeScore(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = scoreSepRe.ReplaceAllString(s, "-")
	return strings.Join(strings.Fields(s), " ")
}

// normalizeNumber expands magnitude suffixes and strips percent signs,
// yielding an absolute numeric string.
func normalizeNumber(raw string) string {
	amount := amountRe.FindString(raw)
	if amount == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	if m := magnitudeWordRe.FindString(raw); m != "" {
		v *= magnitudes[strings.ToLower(m)]
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	isoDateRe     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dmyNameRe     = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]+)\.?,?\s+(\d{4})$`)
	mdyNameRe     = regexp.MustCompile(`(?i)^([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})$`)
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
)

// normalizeDate resolves a date span to YYYY-MM-DD. Relative terms
// resolve against now. Unparseable dates fall back to lowercase string
// comparison rather than failing.
func normalizeDate(raw string, now time.Time) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)

	switch strings.Join(strings.Fields(lower), " ") {
	case "today", "tonight":
		return now.Format("2006-01-02")
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02")
	case "day after tomorrow":
		return now.AddDate(0, 0, 2).Format("2006-01-02")
	case "day before yesterday":
		return now.AddDate(0, 0, -2).Format("2006-01-02")
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		if d, ok := buildDate(m[1], m[2], m[3]); ok {
			return d
		}
	}
	if m := dmyNameRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthFromName(m[2]); ok {
			if d, ok := buildDate(m[3], strconv.Itoa(int(month)), m[1]); ok {
				return d
			}
		}
	}
	if m := mdyNameRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthFromName(m[1]); ok {
			if d, ok := buildDate(m[3], strconv.Itoa(int(month)), m[2]); ok {
				return d
			}
		}
	}
	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year := expandYear(m[3])
		// Ambiguous order: a component above 12 must be the day.
		day, month := a, b
		if a <= 12 && b > 12 {
			day, month = b, a
		}
		if d, ok := buildDate(strconv.Itoa(year), strconv.Itoa(month), strconv.Itoa(day)); ok {
			return d
		}
	}

	return lower
}

func monthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthsByPrefix[name[:3]]
	return m, ok
}

// buildDate validates components by round-tripping through time.Date.
func buildDate(year, month, day string) (string, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	mo, err := strconv.Atoi(month)
	if err != nil || mo < 1 || mo > 12 {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// expandYear widens two-digit years with a fixed pivot.
func expandYear(s string) int {
	y, _ := strconv.Atoi(s)
	if len(s) == 2 {
		if y < 50 {
			return 2000 + y
		}
		return 1900 + y
	}
	return y
}
