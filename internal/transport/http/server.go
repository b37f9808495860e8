package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/internal/service/ingest"
	"github.com/pocketprof/profreplay/internal/session"
	"github.com/pocketprof/profreplay/pkg/log"
)

const slideCacheControl = "public, max-age=3600"

type Config struct {
	Port           int
	MaxUploadBytes int64
}

// Server is the REST boundary: lecture upload, slide images, health. The
// websocket endpoint is mounted beside the echo router on a plain mux because
// the upgrader needs the raw ResponseWriter.
type Server struct {
	cfg      Config
	pipeline *ingest.Pipeline
	store    *session.Store
	wsHandle http.Handler

	httpServer *http.Server
}

func NewServer(cfg Config, pipeline *ingest.Pipeline, store *session.Store, wsHandle http.Handler) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		store:    store,
		wsHandle: wsHandle,
	}
}

// Handler builds the full routing surface.
func (s *Server) Handler() http.Handler {
	e := echo.New()

	e.POST("/api/upload", s.handleUpload)
	e.GET("/api/slides/:sessionId/:index", s.handleSlide)
	e.GET("/api/health", s.handleHealth)

	mux := http.NewServeMux()
	if s.wsHandle != nil {
		mux.Handle("/ws", s.wsHandle)
	}
	mux.Handle("/", e)
	return mux
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	log.FromCtx(ctx).Info().Int("port", s.cfg.Port).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type uploadResponse struct {
	SessionID  string         `json:"sessionId"`
	Transcript string         `json:"transcript"`
	Knowledge  core.Knowledge `json:"knowledge"`
	Slides     []string       `json:"slides"`
	SlideCount int            `json:"slideCount"`
}

func slideURLs(sessionID string, count int) []string {
	urls := make([]string, count)
	for i := range urls {
		urls[i] = fmt.Sprintf("/api/slides/%s/%d", sessionID, i)
	}
	return urls
}

func (s *Server) handleUpload(c *echo.Context) error {
	r := c.Request()
	r.Body = http.MaxBytesReader(c.Response(), r.Body, s.cfg.MaxUploadBytes)

	audio, _, err := formFileBytes(c, "audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file is required")
	}
	deck, deckMime, err := formFileBytes(c, "slides")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "slides file is required")
	}

	result, err := s.pipeline.Process(r.Context(), audio, deck, deckMime)
	if err != nil {
		if errors.Is(err, ingest.ErrMissingInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process lecture")
	}

	return c.JSON(http.StatusOK, uploadResponse{
		SessionID:  result.SessionID,
		Transcript: result.Transcript,
		Knowledge:  result.Knowledge,
		Slides:     slideURLs(result.SessionID, result.SlideCount),
		SlideCount: result.SlideCount,
	})
}

func (s *Server) handleSlide(c *echo.Context) error {
	sess, ok := s.store.Get(c.Param("sessionId"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= sess.SlideCount() {
		return echo.NewHTTPError(http.StatusNotFound, "slide not found")
	}

	page := sess.Slides[index]
	c.Response().Header().Set("Cache-Control", slideCacheControl)
	return c.Blob(http.StatusOK, sniffSlideType(page), page)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func formFileBytes(c *echo.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fileMime(fh), nil
}

func fileMime(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Rendered pages are PNG from the rasterizer or SVG placeholders; the stored
// bytes are the only reliable signal of which.
func sniffSlideType(page []byte) string {
	if bytes.Contains(page[:min(len(page), 256)], []byte("<svg")) {
		return "image/svg+xml"
	}
	return "image/png"
}
