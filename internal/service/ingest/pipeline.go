package ingest

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/internal/session"
	"github.com/pocketprof/profreplay/pkg/log"
)

// ErrMissingInput rejects an upload that lacks either payload. It is the only
// hard failure in the pipeline; every later stage degrades to a fallback value
// so a flaky provider never blocks the user.
var ErrMissingInput = errors.New("both audio and slides are required")

type Pipeline struct {
	transcriber core.Transcriber
	structurer  core.Structurer
	renderer    core.SlideRenderer
	store       *session.Store
}

func NewPipeline(
	transcriber core.Transcriber,
	structurer core.Structurer,
	renderer core.SlideRenderer,
	store *session.Store,
) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		structurer:  structurer,
		renderer:    renderer,
		store:       store,
	}
}

type Result struct {
	SessionID  string
	Transcript string
	Knowledge  core.Knowledge
	SlideCount int
}

// Process runs the four stages in order: validate, transcribe, structure,
// render, then persists the artifacts as a new session.
func (p *Pipeline) Process(ctx context.Context, audio, deck []byte, deckMime string) (Result, error) {
	if len(audio) == 0 || len(deck) == 0 {
		return Result{}, ErrMissingInput
	}

	logger := log.FromCtx(ctx)

	logger.Info().Int("audio_bytes", len(audio)).Msg("processing audio")
	transcript, err := p.transcriber.Transcribe(ctx, audio)
	if err != nil {
		// The transcriber contract absorbs failures; an error here is a
		// programming mistake in a custom Transcriber, not a provider problem.
		return Result{}, err
	}

	logger.Info().Msg("structuring knowledge")
	knowledge, err := p.structurer.Structure(ctx, transcript)
	if err != nil {
		return Result{}, err
	}

	logger.Info().Str("mime", deckMime).Msg("rendering slides")
	slides, err := p.renderer.Render(ctx, deck, deckMime)
	if err != nil {
		return Result{}, err
	}

	sess := core.Session{
		ID:         uuid.New().String(),
		Transcript: transcript,
		Knowledge:  knowledge,
		Slides:     slides,
	}
	p.store.Create(ctx, sess)

	return Result{
		SessionID:  sess.ID,
		Transcript: transcript,
		Knowledge:  knowledge,
		SlideCount: len(slides),
	}, nil
}
