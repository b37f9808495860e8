package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketprof/profreplay/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text string) string {
	reply := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	data, _ := json.Marshal(reply)
	return string(data)
}

func electronReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(reply)
	return string(data)
}

func TestGemini_Narrate(t *testing.T) {
	var got geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, geminiReply(`{"speech": "Look here.", "navigate_to_slide": 2}`))
	}))
	defer server.Close()

	g := NewGeminiWithBaseURL(server.URL, "test-key", 0)
	n, err := g.Narrate(context.Background(), core.NarrationRequest{SlideIndex: 0})
	require.NoError(t, err)

	assert.Equal(t, "Look here.", n.Speech)
	require.NotNil(t, n.TargetSlide)
	assert.Equal(t, 1, *n.TargetSlide)

	require.NotNil(t, got.SystemInstruction)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMIMEType)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
}

func TestGemini_AnswerSendsHistory(t *testing.T) {
	var got geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, geminiReply(`{"speech": "Because."}`))
	}))
	defer server.Close()

	g := NewGeminiWithBaseURL(server.URL, "test-key", 0)
	_, err := g.Answer(context.Background(), core.AnswerRequest{
		Question: "why?",
		History: []core.Turn{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role, "assistant turns map to the model role")
	assert.Equal(t, "why?", got.Contents[2].Parts[0].Text)
}

func TestGemini_Structure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiReply("```json\n"+`{"summary": "s", "key_definitions": ["d"]}`+"\n```"))
	}))
	defer server.Close()

	g := NewGeminiWithBaseURL(server.URL, "test-key", 0)
	k, err := g.Structure(context.Background(), "transcript")
	require.NoError(t, err)

	assert.Equal(t, "s", k.Summary)
	assert.Equal(t, []string{"d"}, k.KeyDefinitions)
	assert.NotNil(t, k.Sections, "normalized knowledge has no nil slices")
}

func TestGemini_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewGeminiWithBaseURL(server.URL, "test-key", 0)
	_, err := g.Narrate(context.Background(), core.NarrationRequest{})
	require.Error(t, err)
}

func TestElectron_Complete(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, electronReply(`{"speech": "From electron.", "navigate_to_slide": 1}`))
	}))
	defer server.Close()

	e := NewElectronWithBaseURL(server.URL, "test-key", 0)
	n, err := e.Narrate(context.Background(), core.NarrationRequest{SlideIndex: 0})
	require.NoError(t, err)

	assert.Equal(t, "From electron.", n.Speech)
	require.NotNil(t, n.TargetSlide)
	assert.Equal(t, 0, *n.TargetSlide)

	assert.Equal(t, "electron-v2", got["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
}

func TestElectron_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer server.Close()

	e := NewElectronWithBaseURL(server.URL, "test-key", 0)
	_, err := e.Narrate(context.Background(), core.NarrationRequest{})
	require.Error(t, err)
}

func TestProviders_Configured(t *testing.T) {
	assert.False(t, NewGemini("", 0).Configured())
	assert.True(t, NewGemini("key", 0).Configured())
	assert.False(t, NewElectron("", 0).Configured())
	assert.True(t, NewElectron("key", 0).Configured())
}
