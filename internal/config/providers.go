package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/pocketprof/profreplay/pkg/log"
)

// ProviderConfig carries credentials for the hosted AI capabilities. Every key
// is optional: a missing key selects the deterministic fallback path for that
// provider instead of failing startup.
type ProviderConfig struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// Smallest.ai keys. SMALLEST_API_KEY is the shared default the per-service
	// keys fall back to.
	SmallestAPIKey  string `env:"SMALLEST_API_KEY"`
	PulseAPIKey     string `env:"SMALLEST_PULSE_API_KEY"`
	ElectronAPIKey  string `env:"SMALLEST_ELECTRON_API_KEY"`
	LightningAPIKey string `env:"SMALLEST_LIGHTNING_API_KEY"`

	VoiceID string `env:"SMALLEST_VOICE_ID" envDefault:"sophia"`
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	if c.PulseAPIKey == "" {
		c.PulseAPIKey = c.SmallestAPIKey
	}
	if c.ElectronAPIKey == "" {
		c.ElectronAPIKey = c.SmallestAPIKey
	}
	if c.LightningAPIKey == "" {
		c.LightningAPIKey = c.SmallestAPIKey
	}
	return c
}
