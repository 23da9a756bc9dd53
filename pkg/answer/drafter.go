// Package answer drafts user-facing answers from cross-verified facts
// using the Anthropic API. The verification instruction rides in the
// system prompt so the model's confidence posture matches the evidence.
package answer

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 1024
)

const basePrompt = `You answer user questions using only the verified context supplied below.
Follow the bracketed handling instruction exactly. Never invent numbers,
names or dates that are not in the context.`

// Drafter produces a final natural-language answer for a query.
type Drafter interface {
	Draft(ctx context.Context, req Request) (*Response, error)
}

// Request carries everything the model needs to answer.
type Request struct {
	// Query is the user's original question.
	Query string
	// VerifiedFact is the assembled, provider-attributed context block.
	VerifiedFact string
	// Instruction is the confidence-handling directive. Empty means the
	// query needed no verification and the model may answer freely.
	Instruction string
}

// Response is the drafted answer plus token accounting.
type Response struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Option configures the drafter.
type Option func(*sdkDrafter)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(d *sdkDrafter) {
		d.model = model
	}
}

// WithMaxTokens overrides the default response budget.
func WithMaxTokens(n int64) Option {
	return func(d *sdkDrafter) {
		d.maxTokens = n
	}
}

// WithBaseURL points the SDK at a different endpoint (for testing).
func WithBaseURL(url string) Option {
	return func(d *sdkDrafter) {
		d.requestOpts = append(d.requestOpts, option.WithBaseURL(url))
	}
}

type sdkDrafter struct {
	client      sdk.Client
	model       string
	maxTokens   int64
	requestOpts []option.RequestOption
}

// NewDrafter creates a Drafter backed by the official SDK.
func NewDrafter(apiKey string, opts ...Option) Drafter {
	d := &sdkDrafter{
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, o := range opts {
		o(d)
	}
	d.client = sdk.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, d.requestOpts...)...)
	return d
}

func (d *sdkDrafter) Draft(ctx context.Context, req Request) (*Response, error) {
	if req.Query == "" {
		return nil, eris.New("answer: empty query")
	}

	system := basePrompt
	if req.Instruction != "" {
		system += "\n\nHandling instruction: " + req.Instruction
	}

	user := req.Query
	if req.VerifiedFact != "" {
		user = "Context:\n" + req.VerifiedFact + "\n\nQuestion: " + req.Query
	}

	msg, err := d.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(d.model),
		MaxTokens: d.maxTokens,
		System: []sdk.TextBlockParam{
			{Text: system},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(user)),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "answer: create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &Response{
		Text:         sb.String(),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}
