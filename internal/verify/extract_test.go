package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

func extractFromText(text string) []model.ExtractedFact {
	return ExtractFacts(model.ProviderResult{
		Provider:      "brave",
		InstantAnswer: text,
	}, 3)
}

func factsOfType(facts []model.ExtractedFact, ft model.FactType) []model.ExtractedFact {
	var out []model.ExtractedFact
	for _, f := range facts {
		if f.Type == ft {
			out = append(out, f)
		}
	}
	return out
}

func TestExtract_RatingExplicitSlashTen(t *testing.T) {
	facts := factsOfType(extractFromText("The movie scored 7.8/10 on IMDb"), model.FactTypeRating)

	require.Len(t, facts, 1)
	assert.Equal(t, "brave", facts[0].Source)
	assert.Equal(t, 0.95, facts[0].Confidence)
	assert.Contains(t, facts[0].RawSpan, "7.8")
}

func TestExtract_RatingOutOfTen(t *testing.T) {
	facts := factsOfType(extractFromText("Critics gave it 8 out of 10 overall"), model.FactTypeRating)

	require.Len(t, facts, 1)
	assert.Equal(t, 0.95, facts[0].Confidence)
}

func TestExtract_RatingInferredFormLowerConfidence(t *testing.T) {
	facts := factsOfType(extractFromText("★ 8.5 on the review site"), model.FactTypeRating)

	require.Len(t, facts, 1)
	assert.Equal(t, 0.80, facts[0].Confidence)
}

func TestExtract_RatingOutOfRangeRejected(t *testing.T) {
	assert.Empty(t, factsOfType(extractFromText("an 11/10 performance"), model.FactTypeRating))
	assert.Empty(t, factsOfType(extractFromText("rated 0.5 by everyone"), model.FactTypeRating))
}

func TestExtract_DuplicateSpanNotDoubleCounted(t *testing.T) {
	// "Rated: 8.5/10" matches both the "rated" pattern and the "/10"
	// pattern over overlapping spans; only one fact may survive.
	facts := factsOfType(extractFromText("Rated: 8.5/10 by users"), model.FactTypeRating)

	require.Len(t, facts, 1)
	assert.Equal(t, 0.95, facts[0].Confidence)
}

func TestExtract_PriceRupeeForms(t *testing.T) {
	facts := factsOfType(extractFromText("Gold is ₹72,400 today, earlier Rs. 71,900"), model.FactTypePrice)

	require.Len(t, facts, 2)
	assert.Contains(t, facts[0].RawSpan, "72,400")
	assert.Contains(t, facts[1].RawSpan, "71,900")
}

func TestExtract_PriceMagnitudeWord(t *testing.T) {
	facts := factsOfType(extractFromText("The car costs ₹12 lakh on road"), model.FactTypePrice)

	require.Len(t, facts, 1)
	assert.Contains(t, facts[0].RawSpan, "lakh")
}

func TestExtract_PriceDollar(t *testing.T) {
	facts := factsOfType(extractFromText("valued at $1.2 billion last year"), model.FactTypePrice)

	require.Len(t, facts, 1)
}

func TestExtract_WordEndingInRsIsNotAPrice(t *testing.T) {
	facts := extractFromText("The museum tour lasts 2 hours 30 minutes and features 120 cars 50 of them vintage.")

	assert.Empty(t, factsOfType(facts, model.FactTypePrice))
}

func TestExtract_StandalonePriceMarkersStillMatch(t *testing.T) {
	assert.Len(t, factsOfType(extractFromText("listed at rs 72,400 per unit"), model.FactTypePrice), 1)
	assert.Len(t, factsOfType(extractFromText("listed at INR 72,400 per unit"), model.FactTypePrice), 1)
	assert.Len(t, factsOfType(extractFromText("listed at USD 900 per unit"), model.FactTypePrice), 1)
}

func TestExtract_MagnitudeAfterWordEndingInRs(t *testing.T) {
	facts := extractFromText("Collectors 2.3 billion stamps worldwide")

	assert.Len(t, factsOfType(facts, model.FactTypeNumber), 1)
	assert.Empty(t, factsOfType(facts, model.FactTypePrice))
}

func TestExtract_CurrencyAmountNotAlsoANumber(t *testing.T) {
	facts := extractFromText("The deal is worth ₹5 crore in total")

	assert.Len(t, factsOfType(facts, model.FactTypePrice), 1)
	assert.Empty(t, factsOfType(facts, model.FactTypeNumber))
}

func TestExtract_ScoreDashForm(t *testing.T) {
	facts := factsOfType(extractFromText("India beat Australia 3-1 in the series"), model.FactTypeScore)

	require.Len(t, facts, 1)
	assert.Equal(t, "3-1", facts[0].RawSpan)
}

func TestExtract_ScoreWonBy(t *testing.T) {
	facts := factsOfType(extractFromText("India won by 5 wickets yesterday"), model.FactTypeScore)

	require.Len(t, facts, 1)
	assert.Contains(t, facts[0].RawSpan, "won by 5")
}

func TestExtract_ScoreSlashTenIsNotAScore(t *testing.T) {
	facts := extractFromText("An easy 9/10 for this one")

	assert.Empty(t, factsOfType(facts, model.FactTypeScore))
	assert.Len(t, factsOfType(facts, model.FactTypeRating), 1)
}

func TestExtract_NumericDateIsNotAScore(t *testing.T) {
	facts := extractFromText("Released on 15-01-2026 worldwide")

	assert.Empty(t, factsOfType(facts, model.FactTypeScore))
	assert.Len(t, factsOfType(facts, model.FactTypeDate), 1)
}

func TestExtract_Percentage(t *testing.T) {
	facts := factsOfType(extractFromText("Turnout was 67.4% this year"), model.FactTypeNumber)

	require.Len(t, facts, 1)
	assert.Contains(t, facts[0].RawSpan, "67.4")
}

func TestExtract_PercentWordAnyCase(t *testing.T) {
	facts := factsOfType(extractFromText("Turnout was 45 Percent this year"), model.FactTypeNumber)

	require.Len(t, facts, 1)
	assert.Contains(t, facts[0].RawSpan, "45")
}

func TestExtract_MagnitudeNumber(t *testing.T) {
	facts := factsOfType(extractFromText("The city has 2.3 million residents"), model.FactTypeNumber)

	require.Len(t, facts, 1)
}

func TestExtract_DateForms(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"iso", "launching on 2026-01-15 officially"},
		{"day_month_year", "launching on 15 Jan 2026 officially"},
		{"month_day_year", "launching on Jan 15, 2026 officially"},
		{"numeric", "launching on 15/01/2026 officially"},
		{"relative", "the match is tomorrow evening"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facts := factsOfType(extractFromText(tc.text), model.FactTypeDate)
			assert.Len(t, facts, 1)
		})
	}
}

func TestExtract_CombinesInstantAnswerAndItems(t *testing.T) {
	pr := model.ProviderResult{
		Provider:      "serpapi",
		InstantAnswer: "Rated 8.1/10 by critics",
		Items: []model.ResultItem{
			{Title: "Review roundup", Description: "Gold at ₹72,400 today"},
			{Title: "Old news", Description: "Scored 3-1 overall"},
			{Title: "Beyond the cap", Description: "₹99,999 never seen"},
			{Title: "Fourth item", Description: "₹88,888 also never seen"},
		},
	}

	facts := ExtractFacts(pr, 3)

	assert.NotEmpty(t, factsOfType(facts, model.FactTypeRating))
	prices := factsOfType(facts, model.FactTypePrice)
	require.Len(t, prices, 2) // the fourth item is past the cap
	for _, f := range facts {
		assert.Equal(t, "serpapi", f.Source)
	}
}

func TestExtract_EmptyProviderYieldsNothing(t *testing.T) {
	assert.Empty(t, ExtractFacts(model.ProviderResult{Provider: "tavily"}, 3))
}
