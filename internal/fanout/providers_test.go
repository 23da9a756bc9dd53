package fanout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscheck-ai/crosscheck/pkg/brave"
	"github.com/crosscheck-ai/crosscheck/pkg/serpapi"
	"github.com/crosscheck-ai/crosscheck/pkg/tavily"
)

type fakeBrave struct {
	resp *brave.SearchResponse
}

func (f *fakeBrave) Search(_ context.Context, _ string, _ ...brave.SearchOption) (*brave.SearchResponse, error) {
	return f.resp, nil
}

func TestBraveProvider_MapsInfoboxAndResults(t *testing.T) {
	p := NewBraveProvider(&fakeBrave{resp: &brave.SearchResponse{
		Web: brave.WebResults{Results: []brave.WebResult{
			{Title: "Gold rate", URL: "https://example.com/gold", Description: "record high", Age: "2 hours ago"},
		}},
		Infobox: &brave.InfoboxSet{Results: []brave.Infobox{
			{Label: "Gold", LongDesc: "Gold is trading at ₹72,400."},
		}},
	}}, 3)

	res, err := p.Search(context.Background(), "gold price", "finance")
	require.NoError(t, err)

	assert.Equal(t, "brave", p.Name())
	assert.Equal(t, "Gold is trading at ₹72,400.", res.InstantAnswer)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Gold rate", res.Items[0].Title)
	assert.Equal(t, "2 hours ago", res.Items[0].Recency)
	assert.Equal(t, "finance", res.Domain)
}

func TestBraveProvider_NoInfobox(t *testing.T) {
	p := NewBraveProvider(&fakeBrave{resp: &brave.SearchResponse{}}, 3)

	res, err := p.Search(context.Background(), "q", "")
	require.NoError(t, err)
	assert.Empty(t, res.InstantAnswer)
	assert.False(t, res.HasContent())
}

type fakeSerpAPI struct {
	resp *serpapi.SearchResponse
}

func (f *fakeSerpAPI) Search(_ context.Context, _ string, _ ...serpapi.SearchOption) (*serpapi.SearchResponse, error) {
	return f.resp, nil
}

func TestSerpAPIProvider_AnswerBoxPreferred(t *testing.T) {
	p := NewSerpAPIProvider(&fakeSerpAPI{resp: &serpapi.SearchResponse{
		AnswerBox:      &serpapi.AnswerBox{Answer: "72,400 INR"},
		KnowledgeGraph: &serpapi.KnowledgeGraph{Description: "Precious metal"},
		OrganicResults: []serpapi.OrganicResult{
			{Title: "Gold rate", Link: "https://example.com/gold", Snippet: "at a high"},
		},
	}}, 3)

	res, err := p.Search(context.Background(), "gold price", "")
	require.NoError(t, err)

	assert.Equal(t, "serpapi", p.Name())
	assert.Equal(t, "72,400 INR", res.InstantAnswer)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "https://example.com/gold", res.Items[0].URL)
}

func TestSerpAPIProvider_FallsBackToKnowledgeGraph(t *testing.T) {
	p := NewSerpAPIProvider(&fakeSerpAPI{resp: &serpapi.SearchResponse{
		KnowledgeGraph: &serpapi.KnowledgeGraph{Description: "Precious metal"},
	}}, 3)

	res, err := p.Search(context.Background(), "q", "")
	require.NoError(t, err)
	assert.Equal(t, "Precious metal", res.InstantAnswer)
}

type fakeTavily struct {
	resp *tavily.SearchResponse
	got  tavily.SearchRequest
}

func (f *fakeTavily) Search(_ context.Context, req tavily.SearchRequest) (*tavily.SearchResponse, error) {
	f.got = req
	return f.resp, nil
}

func TestTavilyProvider_MapsAnswerAndResults(t *testing.T) {
	fake := &fakeTavily{resp: &tavily.SearchResponse{
		Answer: "Gold is around 72,450 INR.",
		Results: []tavily.SearchResult{
			{Title: "Gold rate", URL: "https://example.com/gold", Content: "record territory"},
		},
	}}
	p := NewTavilyProvider(fake, 4)

	res, err := p.Search(context.Background(), "gold price", "")
	require.NoError(t, err)

	assert.Equal(t, "tavily", p.Name())
	assert.Equal(t, "Gold is around 72,450 INR.", res.InstantAnswer)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "record territory", res.Items[0].Description)

	// The adapter always asks for the synthesized answer.
	assert.True(t, fake.got.IncludeAnswer)
	assert.Equal(t, 4, fake.got.MaxResults)
}
