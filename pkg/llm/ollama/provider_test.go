package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"citystyle-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	var captured ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"Cargo pants."},"done":true}`))
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL+"/", "llama3")
	got, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: "model", Content: "earlier"},
		{Role: llm.RoleUser, Content: "usr"},
	}, llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, "Cargo pants.", got)
	assert.Equal(t, "llama3", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, 0.2, captured.Options.Temperature)
	assert.Equal(t, []ollamaMessage{
		{Role: "system", Content: "sys"},
		{Role: "assistant", Content: "earlier"},
		{Role: "user", Content: "usr"},
	}, captured.Messages)
}

func TestOllamaProvider_Chat_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "empty content", status: http.StatusOK, body: `{"message":{"role":"assistant","content":""}}`},
		{name: "invalid json", status: http.StatusOK, body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewOllamaProvider(server.URL, "m").Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
			assert.Error(t, err)
		})
	}
}
