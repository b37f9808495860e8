package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pocketprof/profreplay/internal/core"
)

const (
	electronBaseURL = "https://waves-api.smallest.ai"
	electronModel   = "electron-v2"
)

// Electron talks to the Smallest.ai Electron chat-completions endpoint. The
// API is OpenAI-compatible: bearer auth, /v1/chat/completions, the reply in
// choices[0].message.content.
type Electron struct {
	baseProvider
}

// NewElectron builds a client with the given prompt token budget. A budget of
// zero or less selects the default.
func NewElectron(apiKey string, promptBudget int) *Electron {
	return &Electron{
		baseProvider: newBaseProvider(electronBaseURL, apiKey, electronModel, promptBudget),
	}
}

// NewElectronWithBaseURL is used by tests to point at a local server.
func NewElectronWithBaseURL(baseURL, apiKey string, promptBudget int) *Electron {
	return &Electron{
		baseProvider: newBaseProvider(baseURL, apiKey, electronModel, promptBudget),
	}
}

func (e *Electron) Name() string { return "electron" }

func (e *Electron) Configured() bool { return e.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (e *Electron) Structure(ctx context.Context, transcript string) (core.Knowledge, error) {
	content, err := e.complete(ctx, []chatMessage{
		{Role: "system", Content: structuringSystemPrompt},
		{Role: "user", Content: "Transcript:\n\n" + truncateToTokens(transcript, e.budget)},
	}, 0.3)
	if err != nil {
		return core.Knowledge{}, err
	}

	var k core.Knowledge
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &k); err != nil {
		return core.Knowledge{}, fmt.Errorf("decode knowledge: %w", err)
	}
	return k.Normalize(), nil
}

func (e *Electron) Narrate(ctx context.Context, req core.NarrationRequest) (core.Narration, error) {
	content, err := e.complete(ctx, []chatMessage{
		{Role: "system", Content: narrationSystemPrompt},
		{Role: "user", Content: narrationUserPrompt(req.Knowledge, req.SlideIndex, e.budget)},
	}, 0)
	if err != nil {
		return core.Narration{}, err
	}
	return parseNarration(content)
}

func (e *Electron) Answer(ctx context.Context, req core.AnswerRequest) (core.Narration, error) {
	content, err := e.complete(ctx, []chatMessage{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: answerUserPrompt(req, e.budget)},
	}, 0)
	if err != nil {
		return core.Narration{}, err
	}
	return parseNarration(content)
}

func (e *Electron) complete(ctx context.Context, messages []chatMessage, temperature float64) (string, error) {
	payload := map[string]any{
		"model":           e.model,
		"messages":        messages,
		"response_format": map[string]string{"type": "json_object"},
	}
	if temperature > 0 {
		payload["temperature"] = temperature
	}

	headers := map[string]string{
		"Authorization": "Bearer " + e.apiKey,
	}

	resp, err := e.doRequest(ctx, http.MethodPost, "/api/v1/chat/completions", payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message.Content, nil
}
