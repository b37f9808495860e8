package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pocketprof/profreplay/internal/service/tutor"
	"github.com/pocketprof/profreplay/pkg/log"
	"github.com/rs/zerolog"
)

const (
	defaultPingInterval = 30 * time.Second
	writeTimeout        = 10 * time.Second

	// frameQueueSize bounds commands buffered behind an in-flight one.
	frameQueueSize = 16
)

// Handler upgrades HTTP requests to tutoring connections. Each connection
// gets its own controller and its own liveness probe.
type Handler struct {
	deps         tutor.Deps
	pingInterval time.Duration
	upgrader     websocket.Upgrader
}

func NewHandler(deps tutor.Deps, pingInterval time.Duration) *Handler {
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	return &Handler{
		deps:         deps,
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.FromCtx(r.Context())

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newConn(ws, logger)
	defer c.close()

	controller := tutor.NewController(h.deps, c)
	defer controller.Close()

	if err := c.Emit(tutor.NewConnected("Connected to ProfReplay AI")); err != nil {
		logger.Warn().Err(err).Msg("failed to send welcome frame")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go c.probeLiveness(ctx, h.pingInterval)

	// The read side stays hot on its own goroutine so pong frames are
	// processed while a command is mid-flight; a slow provider call must delay
	// the command's response, not the liveness probe.
	frames := make(chan []byte, frameQueueSize)
	go c.readPump(frames)

	c.dispatchLoop(ctx, controller, frames)
}

// conn wraps one websocket connection. Writes are serialized through writeMu
// because the read loop, the liveness probe, and close paths all write.
type conn struct {
	ws     *websocket.Conn
	logger *zerolog.Logger

	writeMu sync.Mutex
	alive   atomic.Bool
}

func newConn(ws *websocket.Conn, logger *zerolog.Logger) *conn {
	c := &conn{ws: ws, logger: logger}
	c.alive.Store(true)
	ws.SetPongHandler(func(string) error {
		c.alive.Store(true)
		return nil
	})
	return c
}

// Emit implements tutor.Emitter.
func (c *conn) Emit(event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *conn) close() {
	c.ws.Close()
}

// readPump pulls frames off the wire and queues them for the dispatcher.
// Keeping ReadMessage running here is what lets gorilla invoke the pong
// handler no matter how long a queued command takes. Closing the channel is
// the transport-gone signal.
func (c *conn) readPump(frames chan<- []byte) {
	defer close(frames)
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		frames <- payload
	}
}

// dispatchLoop processes queued commands one at a time, in arrival order. A
// failing handler produces an error frame and keeps the connection open; only
// transport errors end the loop.
func (c *conn) dispatchLoop(ctx context.Context, controller *tutor.Controller, frames <-chan []byte) {
	for payload := range frames {
		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.emitError(fmt.Sprintf("malformed message: %v", err))
			continue
		}

		if err := c.dispatch(ctx, controller, frame); err != nil {
			c.logger.Warn().Err(err).Str("command", frame.Type).Msg("command failed")
			c.emitError(err.Error())
		}
	}
}

func (c *conn) dispatch(ctx context.Context, controller *tutor.Controller, frame inboundFrame) error {
	switch frame.Type {
	case cmdStartTutor:
		if frame.Knowledge == nil {
			return fmt.Errorf("start_tutor requires a knowledge document")
		}
		return controller.Start(ctx, *frame.Knowledge, frame.SlideCount)
	case cmdQuestion:
		if frame.Question == "" {
			return fmt.Errorf("question text is required")
		}
		return controller.Question(ctx, frame.Question, frame.CurrentSlide)
	case cmdInterrupt:
		return controller.Interrupt(ctx)
	case cmdNavigateSlide:
		return controller.Navigate(ctx, frame.SlideIndex)
	case cmdSetSession:
		if frame.SessionID == "" {
			return fmt.Errorf("sessionId is required")
		}
		return controller.BindSession(ctx, frame.SessionID)
	default:
		return fmt.Errorf("unknown message type %q", frame.Type)
	}
}

func (c *conn) emitError(message string) {
	if err := c.Emit(tutor.NewError(message)); err != nil {
		c.logger.Warn().Err(err).Msg("failed to send error frame")
	}
}

// probeLiveness pings on a fixed cadence and terminates the connection when a
// probe goes unacknowledged for a full interval.
func (c *conn) probeLiveness(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.alive.Load() {
				c.logger.Info().Msg("connection unresponsive, terminating")
				c.close()
				return
			}
			c.alive.Store(false)

			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
