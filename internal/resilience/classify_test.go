package resilience

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

// fakeNetError satisfies net.Error for the timeout path.
type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "dial tcp: i/o problem" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestRetryable_TransientWrapping(t *testing.T) {
	err := Transient(eris.New("upstream hiccup"), 503)
	assert.True(t, Retryable(err))

	wrapped := eris.Wrap(err, "brave: search request")
	assert.True(t, Retryable(wrapped))
}

func TestRetryable_ClientStatusMessages(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"brave: search request: status 429", true},
		{"serpapi: search request: status 503", true},
		{"tavily: search request: status 500", true},
		{"brave: search request: status 401", false},
		{"serpapi: search request: status 404", false},
		{"verification not found", false},
	}
	for _, tc := range tests {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, Retryable(eris.New(tc.msg)))
		})
	}
}

func TestRetryable_NetworkTimeout(t *testing.T) {
	assert.True(t, Retryable(&fakeNetError{timeout: true}))
	assert.False(t, Retryable(&fakeNetError{timeout: false}))
}

func TestRetryable_Nil(t *testing.T) {
	assert.False(t, Retryable(nil))
}

func TestRetryable_ConnectionFaultMessage(t *testing.T) {
	assert.True(t, Retryable(eris.New("Get \"https://api.search.brave.com\": connection reset by peer")))
}

func TestTransientError_CarriesStatus(t *testing.T) {
	te := &TransientError{Err: eris.New("slow down"), Status: 429}
	assert.Equal(t, "slow down", te.Error())
	assert.Equal(t, 429, te.Status)
}
