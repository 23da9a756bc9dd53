package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if handler != nil {
			handler(body)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":   "msg_test_001",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "Gold is trading at ₹72,400 per 10 grams."},
			},
			"model":       "claude-sonnet-4-5-20250929",
			"stop_reason": "end_turn",
			"usage": map[string]any{
				"input_tokens":  42,
				"output_tokens": 12,
			},
		})
	}))
}

func TestDraft(t *testing.T) {
	var gotBody map[string]any
	ts := newTestServer(t, func(body map[string]any) { gotBody = body })
	defer ts.Close()

	d := NewDrafter("test-key", WithBaseURL(ts.URL))

	resp, err := d.Draft(context.Background(), Request{
		Query:        "gold price today",
		VerifiedFact: "Cross-verified data:\n- price: 72,400 (3 sources agree)",
		Instruction:  "[VERIFIED] The following facts were confirmed by multiple sources.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Gold is trading at ₹72,400 per 10 grams.", resp.Text)
	assert.Equal(t, int64(42), resp.InputTokens)
	assert.Equal(t, int64(12), resp.OutputTokens)

	// Instruction lands in the system prompt, context in the user turn.
	sys, _ := json.Marshal(gotBody["system"])
	assert.Contains(t, string(sys), "[VERIFIED]")
	msgs, _ := json.Marshal(gotBody["messages"])
	assert.Contains(t, string(msgs), "72,400")
	assert.Contains(t, string(msgs), "gold price today")
}

func TestDraft_NoInstruction(t *testing.T) {
	var gotBody map[string]any
	ts := newTestServer(t, func(body map[string]any) { gotBody = body })
	defer ts.Close()

	d := NewDrafter("test-key", WithBaseURL(ts.URL))

	_, err := d.Draft(context.Background(), Request{Query: "best biryani recipe"})
	require.NoError(t, err)

	sys, _ := json.Marshal(gotBody["system"])
	assert.NotContains(t, string(sys), "Handling instruction")
}

func TestDraft_EmptyQuery(t *testing.T) {
	d := NewDrafter("test-key")

	_, err := d.Draft(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty query")
}

func TestDraft_ModelOverride(t *testing.T) {
	var gotBody map[string]any
	ts := newTestServer(t, func(body map[string]any) { gotBody = body })
	defer ts.Close()

	d := NewDrafter("test-key", WithBaseURL(ts.URL), WithModel("claude-haiku-4-5-20251001"), WithMaxTokens(256))

	_, err := d.Draft(context.Background(), Request{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-4-5-20251001", gotBody["model"])
	assert.Equal(t, float64(256), gotBody["max_tokens"])
}
