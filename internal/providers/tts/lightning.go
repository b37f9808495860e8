package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pocketprof/profreplay/internal/core"
)

const lightningBaseURL = "https://waves-api.smallest.ai"

// Lightning synthesizes speech through the Smallest.ai Lightning endpoint and
// returns raw MP3 bytes.
type Lightning struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewLightning(apiKey string) *Lightning {
	return &Lightning{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: lightningBaseURL,
		apiKey:  apiKey,
	}
}

func NewLightningWithBaseURL(baseURL, apiKey string) *Lightning {
	l := NewLightning(apiKey)
	l.baseURL = baseURL
	return l
}

func (l *Lightning) Configured() bool { return l.apiKey != "" }

func (l *Lightning) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	payload := map[string]any{
		"text":          text,
		"voice_id":      voiceID,
		"sample_rate":   24000,
		"speed":         1.0,
		"language":      "en",
		"output_format": "mp3",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	url := l.baseURL + "/api/v1/lightning-v3.1/get_speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}
	return data, nil
}
