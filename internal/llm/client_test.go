package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collections-console/internal/models"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	c, err := NewClient("key", WithBaseURL("http://example.test/v1"))
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/v1", c.baseURL)
}

func TestChatURL(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", chatURL(""))
	assert.Equal(t, "http://host/v1/chat/completions", chatURL("http://host/v1"))
	assert.Equal(t, "http://host/v1/chat/completions", chatURL("http://host/"))
}

func TestChat(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"Suggest a payment plan."}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient("secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), "gpt-4o-mini", []models.ChatMessage{
		{Role: "system", Content: "You assist collection agents."},
		{Role: "user", Content: "What next for account C1?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Suggest a payment plan.", reply)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Len(t, gotReq.Messages, 2)
}

func TestChatEmptyModel(t *testing.T) {
	c, err := NewClient("secret")
	require.NoError(t, err)
	_, err = c.Chat(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient("secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "gpt-4o-mini", []models.ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.HTTPStatusCode())
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"c1","choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient("secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "gpt-4o-mini", []models.ChatMessage{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}
