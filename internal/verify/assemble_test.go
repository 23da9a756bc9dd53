package verify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

func TestAssemble_HeaderListsSettledClusters(t *testing.T) {
	opts := DefaultOptions()
	clusters := map[model.FactType]model.FactCluster{
		model.FactTypePrice: {
			Type:           model.FactTypePrice,
			Consensus:      "72400",
			AgreementRatio: 1.0,
			Votes: []model.FactVote{
				{Value: "72400", Provider: "brave", Confidence: 0.9},
				{Value: "72450", Provider: "serpapi", Confidence: 0.9},
			},
		},
		model.FactTypeRating: {
			Type:           model.FactTypeRating,
			Consensus:      "7.8",
			AgreementRatio: 0.5, // below the bar; must not appear
			Votes: []model.FactVote{
				{Value: "7.8", Provider: "brave", Confidence: 0.95},
				{Value: "9.0", Provider: "serpapi", Confidence: 0.95},
			},
		},
	}
	results := []model.ProviderResult{
		{Provider: "brave", InstantAnswer: "Gold is trading at ₹72,400 per 10 grams."},
	}

	out := AssembleFact(results, clusters, "", &opts)

	assert.Contains(t, out, "Cross-verified data:")
	assert.Contains(t, out, "72,400") // grouped for readability
	assert.Contains(t, out, "2 sources agree")
	assert.NotContains(t, out, "rating: 7.8")
}

func TestAssemble_PrimaryIsHighestTrustProvider(t *testing.T) {
	opts := DefaultOptions()
	results := []model.ProviderResult{
		{Provider: "tavily", InstantAnswer: "tavily says something entirely different here"},
		{Provider: "brave", InstantAnswer: "brave has the primary answer text"},
	}

	out := AssembleFact(results, nil, "", &opts)

	braveIdx := strings.Index(out, "brave has the primary")
	tavilyIdx := strings.Index(out, "tavily says")
	assert.GreaterOrEqual(t, braveIdx, 0)
	assert.GreaterOrEqual(t, tavilyIdx, 0)
	assert.Less(t, braveIdx, tavilyIdx)
}

func TestAssemble_SnippetsStandInForInstantAnswer(t *testing.T) {
	opts := DefaultOptions()
	results := []model.ProviderResult{
		{Provider: "brave", Items: []model.ResultItem{
			{Title: "Gold rate today", URL: "https://example.com/gold", Description: "22k gold at a new high"},
		}},
	}

	out := AssembleFact(results, nil, "", &opts)

	assert.Contains(t, out, "Gold rate today")
	assert.Contains(t, out, "22k gold")
}

func TestAssemble_RedundantSupplementSkipped(t *testing.T) {
	opts := DefaultOptions()
	results := []model.ProviderResult{
		{Provider: "brave", InstantAnswer: "gold price today is at a record high of 72400 rupees"},
		{Provider: "serpapi", InstantAnswer: "gold price today is at a record high of 72400"},
		{Provider: "tavily", InstantAnswer: "silver meanwhile dropped sharply against global trends"},
	}

	out := AssembleFact(results, nil, "", &opts)

	assert.Contains(t, out, "record high")
	// serpapi's near-duplicate must not appear twice.
	assert.Equal(t, 1, strings.Count(out, "record high"))
	// tavily's distinct content survives.
	assert.Contains(t, out, "silver")
}

func TestAssemble_SourceURLsCappedAndDistinct(t *testing.T) {
	opts := DefaultOptions()
	results := []model.ProviderResult{
		{Provider: "brave", InstantAnswer: "answer", Items: []model.ResultItem{
			{URL: "https://a.example"}, {URL: "https://b.example"},
		}},
		{Provider: "serpapi", Items: []model.ResultItem{
			{URL: "https://b.example"}, {URL: "https://c.example"}, {URL: "https://d.example"},
		}},
	}

	out := AssembleFact(results, nil, "", &opts)

	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "https://a.example")
	assert.Contains(t, out, "https://b.example")
	assert.Contains(t, out, "https://c.example")
	assert.NotContains(t, out, "https://d.example")
	assert.Equal(t, 1, strings.Count(out, "https://b.example"))
}

func TestAssemble_EmptyResults(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, "", AssembleFact(nil, nil, "", &opts))
}

func TestWordOverlap(t *testing.T) {
	assert.Equal(t, 1.0, wordOverlap("the gold price", "the gold price is high"))
	assert.Equal(t, 0.0, wordOverlap("silver dropped", "the gold price is high"))
	assert.InDelta(t, 0.5, wordOverlap("gold silver", "gold platinum"), 1e-9)
}
