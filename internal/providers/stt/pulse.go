package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pocketprof/profreplay/internal/core"
)

const pulseBaseURL = "https://waves-api.smallest.ai"

// Pulse transcribes audio through the Smallest.ai Pulse endpoint with
// diarization enabled. The raw audio bytes go straight through as the request
// body.
type Pulse struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewPulse(apiKey string) *Pulse {
	return &Pulse{
		client:  &http.Client{Timeout: 120 * time.Second},
		baseURL: pulseBaseURL,
		apiKey:  apiKey,
	}
}

func NewPulseWithBaseURL(baseURL, apiKey string) *Pulse {
	p := NewPulse(apiKey)
	p.baseURL = baseURL
	return p
}

func (p *Pulse) Configured() bool { return p.apiKey != "" }

func (p *Pulse) Transcribe(ctx context.Context, audio []byte) (string, error) {
	url := p.baseURL + "/api/v1/pulse/get_text?language=en&diarize=true&word_timestamps=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
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
		Utterances []struct {
			Speaker *int   `json:"speaker"`
			Text    string `json:"text"`
		} `json:"utterances"`
		Transcription string `json:"transcription"`
		Text          string `json:"text"`
		Transcript    string `json:"transcript"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	// Diarized responses are reconstructed with speaker labels, one utterance
	// per line. Flat responses come through under one of several field names.
	if len(result.Utterances) > 0 {
		lines := make([]string, 0, len(result.Utterances))
		for _, utt := range result.Utterances {
			speaker := "Speaker"
			if utt.Speaker != nil {
				speaker = fmt.Sprintf("Speaker %d", *utt.Speaker)
			}
			lines = append(lines, speaker+": "+utt.Text)
		}
		return strings.Join(lines, "\n"), nil
	}

	for _, t := range []string{result.Transcription, result.Text, result.Transcript} {
		if t != "" {
			return t, nil
		}
	}
	return "", fmt.Errorf("empty transcript in response: %s", string(data))
}
