package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerate(t *testing.T) {
	var captured ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(ollamaResponse{Response: "local text", Done: true})
	}))
	defer server.Close()

	client := NewOllamaClient(OllamaConfig{Host: server.URL, Model: "llama3.2"})

	text, err := client.Generate(context.Background(), Request{
		Prompt:      "write something",
		System:      "you are a writer",
		Temperature: 0.7,
		MaxTokens:   512,
	})
	require.NoError(t, err)
	assert.Equal(t, "local text", text)

	assert.Equal(t, "llama3.2", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, "you are a writer", captured.System)
	require.NotNil(t, captured.Options)
	assert.Equal(t, 0.7, captured.Options.Temperature)
	assert.Equal(t, 512, captured.Options.NumPredict)
}

func TestOllamaGenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Response: "  \n", Done: true})
	}))
	defer server.Close()

	client := NewOllamaClient(OllamaConfig{Host: server.URL})

	_, err := client.Generate(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOllamaName(t *testing.T) {
	client := NewOllamaClient(OllamaConfig{Host: "http://localhost:11434", Model: "mistral"})
	assert.Equal(t, "ollama/mistral", client.Name())

	withDefault := NewOllamaClient(OllamaConfig{Host: "http://localhost:11434"})
	assert.Equal(t, "ollama/"+defaultOllamaModel, withDefault.Name())
}

func TestOllamaPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewOllamaClient(OllamaConfig{Host: server.URL})
	assert.NoError(t, client.Ping(context.Background()))

	client = NewOllamaClient(OllamaConfig{Host: "http://127.0.0.1:1"})
	assert.Error(t, client.Ping(context.Background()))
}
