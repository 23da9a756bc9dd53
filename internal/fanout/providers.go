package fanout

import (
	"context"

	"github.com/crosscheck-ai/crosscheck/internal/model"
	"github.com/crosscheck-ai/crosscheck/pkg/brave"
	"github.com/crosscheck-ai/crosscheck/pkg/serpapi"
	"github.com/crosscheck-ai/crosscheck/pkg/tavily"
)

// braveProvider adapts the Brave Search client.
type braveProvider struct {
	client brave.Client
	max    int
}

// NewBraveProvider wraps a Brave client as a fanout Provider. max caps
// the result items requested per query.
func NewBraveProvider(client brave.Client, max int) Provider {
	return &braveProvider{client: client, max: max}
}

func (p *braveProvider) Name() string { return "brave" }

func (p *braveProvider) Search(ctx context.Context, query, domain string) (*model.ProviderResult, error) {
	resp, err := p.client.Search(ctx, query, brave.WithCount(p.max))
	if err != nil {
		return nil, err
	}

	out := &model.ProviderResult{Domain: domain}
	if resp.Infobox != nil && len(resp.Infobox.Results) > 0 {
		box := resp.Infobox.Results[0]
		if box.LongDesc != "" {
			out.InstantAnswer = box.LongDesc
		} else {
			out.InstantAnswer = box.Description
		}
	}
	for _, r := range resp.Web.Results {
		out.Items = append(out.Items, model.ResultItem{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Recency:     r.Age,
		})
	}
	return out, nil
}

// serpapiProvider adapts the SerpAPI client.
type serpapiProvider struct {
	client serpapi.Client
	max    int
}

// NewSerpAPIProvider wraps a SerpAPI client as a fanout Provider.
func NewSerpAPIProvider(client serpapi.Client, max int) Provider {
	return &serpapiProvider{client: client, max: max}
}

func (p *serpapiProvider) Name() string { return "serpapi" }

func (p *serpapiProvider) Search(ctx context.Context, query, domain string) (*model.ProviderResult, error) {
	resp, err := p.client.Search(ctx, query, serpapi.WithNum(p.max))
	if err != nil {
		return nil, err
	}

	out := &model.ProviderResult{Domain: domain}
	switch {
	case resp.AnswerBox != nil && resp.AnswerBox.Answer != "":
		out.InstantAnswer = resp.AnswerBox.Answer
	case resp.AnswerBox != nil && resp.AnswerBox.Snippet != "":
		out.InstantAnswer = resp.AnswerBox.Snippet
	case resp.KnowledgeGraph != nil && resp.KnowledgeGraph.Description != "":
		out.InstantAnswer = resp.KnowledgeGraph.Description
	}
	for _, r := range resp.OrganicResults {
		out.Items = append(out.Items, model.ResultItem{
			Title:       r.Title,
			URL:         r.Link,
			Description: r.Snippet,
		})
	}
	return out, nil
}

// tavilyProvider adapts the Tavily client.
type tavilyProvider struct {
	client tavily.Client
	max    int
}

// NewTavilyProvider wraps a Tavily client as a fanout Provider.
func NewTavilyProvider(client tavily.Client, max int) Provider {
	return &tavilyProvider{client: client, max: max}
}

func (p *tavilyProvider) Name() string { return "tavily" }

func (p *tavilyProvider) Search(ctx context.Context, query, domain string) (*model.ProviderResult, error) {
	resp, err := p.client.Search(ctx, tavily.SearchRequest{
		Query:         query,
		MaxResults:    p.max,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, err
	}

	out := &model.ProviderResult{Domain: domain, InstantAnswer: resp.Answer}
	for _, r := range resp.Results {
		out.Items = append(out.Items, model.ResultItem{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Content,
		})
	}
	return out, nil
}
