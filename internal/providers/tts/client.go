package tts

import (
	"context"
	"encoding/base64"

	"github.com/pocketprof/profreplay/internal/config"
	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/pkg/log"
	"github.com/pocketprof/profreplay/pkg/retry"
)

// Client is the fallback-first synthesis boundary: it never returns an error,
// substituting a fixed silent MP3 when Lightning is unavailable.
type Client struct {
	lightning *Lightning
	retrier   *retry.Retrier
}

var _ core.Synthesizer = (*Client)(nil)

func NewClient(cfg *config.ProviderConfig) *Client {
	return NewClientWith(NewLightning(cfg.LightningAPIKey))
}

func NewClientWith(lightning *Lightning) *Client {
	return &Client{
		lightning: lightning,
		retrier:   retry.NewDefaultRetrier(),
	}
}

func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	logger := log.FromCtx(ctx)

	if c.lightning == nil || !c.lightning.Configured() {
		logger.Warn().Msg("lightning api key not configured, using silent audio")
		return SilentAudio(), nil
	}

	var audio []byte
	err := c.retrier.Do(ctx, func() error {
		var attemptErr error
		audio, attemptErr = c.lightning.Synthesize(ctx, text, voiceID)
		return attemptErr
	})
	if err != nil {
		logger.Warn().Err(err).Msg("speech synthesis failed, falling back to silent audio")
		return SilentAudio(), nil
	}

	logger.Info().Int("audio_bytes", len(audio)).Str("voice", voiceID).Msg("speech synthesized")
	return audio, nil
}

// silentMP3Base64 is a minimal valid MP3 of silence.
const silentMP3Base64 = "SUQzBAAAAAAAI1RTU0UAAAAPAAADTGF2ZjU4Ljc2LjEwMAAAAAAAAAAAAAAA//tQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWGluZwAAAA8AAAACAAADhAC7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7u7//////////////////////////////////////////////////////////////////8AAAAATGF2YzU4LjEzAAAAAAAAAAAAAAAAJAAAAAAAAAAAA4T+1n9HAAAAAAAAAAAAAAAAAAAAAP/7kGQAD/AAAGkAAAAIAAANIAAAAQAAAaQAAAAgAAA0gAAABExBTUUzLjEwMFVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVVQ=="

// SilentAudio returns the fixed placeholder payload used when synthesis is
// unavailable.
func SilentAudio() []byte {
	data, err := base64.StdEncoding.DecodeString(silentMP3Base64)
	if err != nil {
		// The constant is known-good; this cannot happen at runtime.
		panic("invalid silent mp3 constant: " + err.Error())
	}
	return data
}
