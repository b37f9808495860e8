package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriber struct{ transcript string }

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f.transcript, nil
}

type fakeStructurer struct{ knowledge core.Knowledge }

func (f *fakeStructurer) Structure(ctx context.Context, transcript string) (core.Knowledge, error) {
	return f.knowledge, nil
}

type fakeRenderer struct{ pages [][]byte }

func (f *fakeRenderer) Render(ctx context.Context, deck []byte, mimeType string) ([][]byte, error) {
	return f.pages, nil
}

func newTestPipeline(store *session.Store) *Pipeline {
	return NewPipeline(
		&fakeTranscriber{transcript: "the transcript"},
		&fakeStructurer{knowledge: core.Knowledge{Summary: "the summary"}},
		&fakeRenderer{pages: [][]byte{[]byte("p1"), []byte("p2")}},
		store,
	)
}

func TestPipeline_Process(t *testing.T) {
	store := session.NewStore(session.Config{MaxIdle: time.Hour, SweepInterval: time.Hour})
	pipeline := newTestPipeline(store)

	result, err := pipeline.Process(context.Background(), []byte("audio"), []byte("deck"), "application/pdf")
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "the transcript", result.Transcript)
	assert.Equal(t, "the summary", result.Knowledge.Summary)
	assert.Equal(t, 2, result.SlideCount)

	sess, ok := store.Get(result.SessionID)
	require.True(t, ok, "the processed lecture is retrievable as a session")
	assert.Equal(t, "the transcript", sess.Transcript)
	assert.Equal(t, 2, sess.SlideCount())
}

func TestPipeline_MissingInput(t *testing.T) {
	store := session.NewStore(session.Config{MaxIdle: time.Hour, SweepInterval: time.Hour})
	pipeline := newTestPipeline(store)
	ctx := context.Background()

	_, err := pipeline.Process(ctx, nil, []byte("deck"), "application/pdf")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = pipeline.Process(ctx, []byte("audio"), nil, "application/pdf")
	assert.ErrorIs(t, err, ErrMissingInput)

	assert.Empty(t, store.ListIDs(), "rejected uploads must not create sessions")
}

func TestPipeline_UniqueSessionIDs(t *testing.T) {
	store := session.NewStore(session.Config{MaxIdle: time.Hour, SweepInterval: time.Hour})
	pipeline := newTestPipeline(store)
	ctx := context.Background()

	first, err := pipeline.Process(ctx, []byte("audio"), []byte("deck"), "application/pdf")
	require.NoError(t, err)
	second, err := pipeline.Process(ctx, []byte("audio"), []byte("deck"), "application/pdf")
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Len(t, store.ListIDs(), 2)
}
