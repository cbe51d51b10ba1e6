package lib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"rvpark/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestChatCompletionExtractsReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Sites start at $45 a night."}}]}`))
	}))
	defer server.Close()
	t.Setenv("LLM_API_URL", server.URL)
	prev := llmHTTPClient
	NewLLMHTTPClient(server.Client())
	defer NewLLMHTTPClient(prev)

	reply, err := ChatCompletion(context.Background(), "You are a front desk assistant.", []types.ChatMessage{
		{Role: "user", Content: "How much is a site?"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Sites start at $45 a night.", reply)
}

func TestChatCompletionSendsSystemPromptFirst(t *testing.T) {
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		captured = string(buf)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()
	t.Setenv("LLM_API_URL", server.URL)

	_, err := ChatCompletion(context.Background(), "park context", []types.ChatMessage{
		{Role: "user", Content: "hello"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "system", gjson.Get(captured, "messages.0.role").String())
	assert.Equal(t, "park context", gjson.Get(captured, "messages.0.content").String())
	assert.Equal(t, "user", gjson.Get(captured, "messages.1.role").String())
}

func TestChatCompletionProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	t.Setenv("LLM_API_URL", server.URL)

	_, err := ChatCompletion(context.Background(), "park context", []types.ChatMessage{
		{Role: "user", Content: "hello"},
	})
	assert.Error(t, err)
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()
	t.Setenv("LLM_API_URL", server.URL)

	_, err := ChatCompletion(context.Background(), "park context", []types.ChatMessage{
		{Role: "user", Content: "hello"},
	})
	assert.Error(t, err)
}
