package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pocketprof/profreplay/pkg/log"
)

type AppConfig struct {
	Port int `env:"PORT" envDefault:"5000"`

	// Upload boundary
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"209715200"` // 200MB

	// Session store
	SessionMaxIdle time.Duration `env:"SESSION_MAX_IDLE" envDefault:"24h"`
	SweepInterval  time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1h"`

	// Tutoring
	HistoryLimit      int `env:"HISTORY_LIMIT" envDefault:"10"`
	PromptTokenBudget int `env:"PROMPT_TOKEN_BUDGET" envDefault:"6000"`

	// Connection liveness
	PingInterval time.Duration `env:"WS_PING_INTERVAL" envDefault:"30s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}
