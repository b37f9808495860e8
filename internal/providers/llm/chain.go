package llm

import (
	"context"

	"github.com/pocketprof/profreplay/internal/config"
	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/pkg/log"
	"github.com/pocketprof/profreplay/pkg/retry"
)

// TextProvider is one strategy in the preference chain.
type TextProvider interface {
	core.Structurer
	core.Narrator
	Name() string
	Configured() bool
}

// Chain tries providers in preference order and normalizes every failure into
// the deterministic mock. Its methods never return an error: a chain result is
// either a provider value or a fallback value, by contract.
type Chain struct {
	providers []TextProvider
	mock      *Mock
	retrier   *retry.Retrier
}

// NewChain builds the standard preference order from configured credentials:
// Gemini first, Electron second, mock always last. promptBudget caps prompt
// size in tokens for every provider in the chain.
func NewChain(cfg *config.ProviderConfig, promptBudget int) *Chain {
	var providers []TextProvider
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, NewGemini(cfg.GeminiAPIKey, promptBudget))
	}
	if cfg.ElectronAPIKey != "" {
		providers = append(providers, NewElectron(cfg.ElectronAPIKey, promptBudget))
	}
	return NewChainOf(providers...)
}

func NewChainOf(providers ...TextProvider) *Chain {
	return &Chain{
		providers: providers,
		mock:      NewMock(),
		retrier:   retry.NewDefaultRetrier(),
	}
}

func (c *Chain) Structure(ctx context.Context, transcript string) (core.Knowledge, error) {
	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		var k core.Knowledge
		err := c.retrier.Do(ctx, func() error {
			var attemptErr error
			k, attemptErr = p.Structure(ctx, transcript)
			return attemptErr
		})
		if err == nil {
			return k, nil
		}
		log.FromCtx(ctx).Warn().Err(err).Str("provider", p.Name()).Msg("structuring failed, trying next provider")
	}
	k, _ := c.mock.Structure(ctx, transcript)
	return k, nil
}

func (c *Chain) Narrate(ctx context.Context, req core.NarrationRequest) (core.Narration, error) {
	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		var n core.Narration
		err := c.retrier.Do(ctx, func() error {
			var attemptErr error
			n, attemptErr = p.Narrate(ctx, req)
			return attemptErr
		})
		if err == nil {
			return n, nil
		}
		log.FromCtx(ctx).Warn().Err(err).Str("provider", p.Name()).Msg("narration failed, trying next provider")
	}
	return c.mock.Narrate(ctx, req)
}

func (c *Chain) Answer(ctx context.Context, req core.AnswerRequest) (core.Narration, error) {
	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		var n core.Narration
		err := c.retrier.Do(ctx, func() error {
			var attemptErr error
			n, attemptErr = p.Answer(ctx, req)
			return attemptErr
		})
		if err == nil {
			return n, nil
		}
		log.FromCtx(ctx).Warn().Err(err).Str("provider", p.Name()).Msg("answer failed, trying next provider")
	}
	return c.mock.Answer(ctx, req)
}
