package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/internal/service/ingest"
	"github.com/pocketprof/profreplay/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return "the transcript", nil
}

type fakeStructurer struct{}

func (fakeStructurer) Structure(ctx context.Context, transcript string) (core.Knowledge, error) {
	return core.Knowledge{Summary: "the summary"}, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(ctx context.Context, deck []byte, mimeType string) ([][]byte, error) {
	return [][]byte{[]byte("page")}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *session.Store) {
	t.Helper()
	store := session.NewStore(session.Config{MaxIdle: time.Hour, SweepInterval: time.Hour})
	pipeline := ingest.NewPipeline(fakeTranscriber{}, fakeStructurer{}, fakeRenderer{}, store)
	s := NewServer(Config{MaxUploadBytes: 1 << 20}, pipeline, store, nil)

	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)
	return server, store
}

func multipartBody(t *testing.T, fields map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, content := range fields {
		fw, err := w.CreateFormFile(field, field+".bin")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestServer_Upload(t *testing.T) {
	server, store := newTestServer(t)

	body, contentType := multipartBody(t, map[string][]byte{
		"audio":  []byte("audio-bytes"),
		"slides": []byte("%PDF-1.4"),
	})

	resp, err := http.Post(server.URL+"/api/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		SessionID  string         `json:"sessionId"`
		Transcript string         `json:"transcript"`
		Knowledge  core.Knowledge `json:"knowledge"`
		Slides     []string       `json:"slides"`
		SlideCount int            `json:"slideCount"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "the transcript", result.Transcript)
	assert.Equal(t, "the summary", result.Knowledge.Summary)
	assert.Equal(t, 1, result.SlideCount)
	require.Len(t, result.Slides, 1)
	assert.Equal(t, "/api/slides/"+result.SessionID+"/0", result.Slides[0])

	_, ok := store.Get(result.SessionID)
	assert.True(t, ok)
}

func TestServer_UploadMissingFields(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name   string
		fields map[string][]byte
	}{
		{"no audio", map[string][]byte{"slides": []byte("%PDF-1.4")}},
		{"no slides", map[string][]byte{"audio": []byte("audio")}},
		{"empty form", map[string][]byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.fields)
			resp, err := http.Post(server.URL+"/api/upload", contentType, body)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestServer_SlideImage(t *testing.T) {
	server, store := newTestServer(t)
	store.Create(context.Background(), core.Session{
		ID: "sess-1",
		Slides: [][]byte{
			[]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`),
			{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a},
		},
	})

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantType    string
		wantCaching bool
	}{
		{"svg page", "/api/slides/sess-1/0", http.StatusOK, "image/svg+xml", true},
		{"png page", "/api/slides/sess-1/1", http.StatusOK, "image/png", true},
		{"unknown session", "/api/slides/ghost/0", http.StatusNotFound, "", false},
		{"index out of range", "/api/slides/sess-1/5", http.StatusNotFound, "", false},
		{"negative index", "/api/slides/sess-1/-1", http.StatusNotFound, "", false},
		{"non numeric index", "/api/slides/sess-1/first", http.StatusNotFound, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantType != "" {
				assert.Contains(t, resp.Header.Get("Content-Type"), tt.wantType)
			}
			if tt.wantCaching {
				assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var health map[string]string
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health["status"])
	assert.NotEmpty(t, health["timestamp"])
}

func TestServer_UploadTooLarge(t *testing.T) {
	store := session.NewStore(session.Config{MaxIdle: time.Hour, SweepInterval: time.Hour})
	pipeline := ingest.NewPipeline(fakeTranscriber{}, fakeStructurer{}, fakeRenderer{}, store)
	s := NewServer(Config{MaxUploadBytes: 64}, pipeline, store, nil)
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	body, contentType := multipartBody(t, map[string][]byte{
		"audio":  bytes.Repeat([]byte("a"), 1024),
		"slides": []byte("%PDF-1.4"),
	})

	resp, err := http.Post(server.URL+"/api/upload", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, store.ListIDs())
}
