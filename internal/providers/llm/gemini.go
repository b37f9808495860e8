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
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel   = "gemini-1.5-flash"
)

// Gemini is a raw-HTTP client for the generateContent endpoint. It is the
// preferred text provider; Electron is the fallback.
type Gemini struct {
	baseProvider
}

// NewGemini builds a client with the given prompt token budget. A budget of
// zero or less selects the default.
func NewGemini(apiKey string, promptBudget int) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(geminiBaseURL, apiKey, geminiModel, promptBudget),
	}
}

func NewGeminiWithBaseURL(baseURL, apiKey string, promptBudget int) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(baseURL, apiKey, geminiModel, promptBudget),
	}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Configured() bool { return g.apiKey != "" }

// Gemini API types. The API uses camelCase field names.
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

func (g *Gemini) Structure(ctx context.Context, transcript string) (core.Knowledge, error) {
	text, err := g.generate(ctx, &geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: structuringPrompt(transcript, g.budget)}}},
		},
		GenerationConfig: &geminiGenConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return core.Knowledge{}, err
	}

	var k core.Knowledge
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &k); err != nil {
		return core.Knowledge{}, fmt.Errorf("decode knowledge: %w", err)
	}
	return k.Normalize(), nil
}

func (g *Gemini) Narrate(ctx context.Context, req core.NarrationRequest) (core.Narration, error) {
	text, err := g.generate(ctx, &geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: narrationSystemPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: narrationUserPrompt(req.Knowledge, req.SlideIndex, g.budget)}}},
		},
		GenerationConfig: &geminiGenConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return core.Narration{}, err
	}
	return parseNarration(text)
}

func (g *Gemini) Answer(ctx context.Context, req core.AnswerRequest) (core.Narration, error) {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := "user"
		if turn.Role != "user" {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: turn.Content}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: req.Question}}})

	text, err := g.generate(ctx, &geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: answerContextPrompt(req.Knowledge, req.SlideIndex, g.budget)}}},
		Contents:          contents,
		GenerationConfig:  &geminiGenConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return core.Narration{}, err
	}
	return parseNarration(text)
}

func (g *Gemini) generate(ctx context.Context, req *geminiRequest) (string, error) {
	headers := map[string]string{
		"x-goog-api-key": g.apiKey,
	}

	path := fmt.Sprintf("/models/%s:generateContent", g.model)
	resp, err := g.doRequest(ctx, http.MethodPost, path, req, headers)
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
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates: %s", string(data))
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
