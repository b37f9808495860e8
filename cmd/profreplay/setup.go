package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketprof/profreplay/internal/config"
	"github.com/pocketprof/profreplay/internal/providers/llm"
	"github.com/pocketprof/profreplay/internal/providers/slides"
	"github.com/pocketprof/profreplay/internal/providers/stt"
	"github.com/pocketprof/profreplay/internal/providers/tts"
	"github.com/pocketprof/profreplay/internal/service/ingest"
	"github.com/pocketprof/profreplay/internal/service/tutor"
	"github.com/pocketprof/profreplay/internal/session"
	httptransport "github.com/pocketprof/profreplay/internal/transport/http"
	"github.com/pocketprof/profreplay/internal/transport/ws"
	"github.com/pocketprof/profreplay/pkg/log"
	"github.com/pocketprof/profreplay/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	provCfg := config.NewProviderConfig(ctx)

	// 2. Session store with its idle-eviction sweeper
	store := session.NewStore(session.Config{
		MaxIdle:       appCfg.SessionMaxIdle,
		SweepInterval: appCfg.SweepInterval,
	})
	services = append(services, store)

	// 3. Providers: every client degrades to a deterministic fallback, so a
	// missing credential never prevents startup.
	chain := llm.NewChain(provCfg, appCfg.PromptTokenBudget)
	transcriber := stt.NewClient(provCfg)
	synthesizer := tts.NewClient(provCfg)
	renderer := slides.NewClient()

	// 4. Ingestion pipeline
	pipeline := ingest.NewPipeline(transcriber, chain, renderer, store)

	// 5. Tutoring over websocket
	wsHandler := ws.NewHandler(tutor.Deps{
		Narrator:     chain,
		Synthesizer:  synthesizer,
		Store:        store,
		Navigator:    tutor.NewExecutor(provCfg.GeminiAPIKey != ""),
		VoiceID:      provCfg.VoiceID,
		HistoryLimit: appCfg.HistoryLimit,
	}, appCfg.PingInterval)

	// 6. HTTP boundary
	server := httptransport.NewServer(httptransport.Config{
		Port:           appCfg.Port,
		MaxUploadBytes: appCfg.MaxUploadBytes,
	}, pipeline, store, wsHandler)
	services = append(services, server)

	return services
}

func initEnv(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(".env"); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Msg("loaded .env file")
	return nil
}
