package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"parking-api/internal/realtime"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// sendQueueSize bounds the per-connection outbound queue. A client slower
// than the queue loses intermediate frames; every frame is a full snapshot,
// so the next push catches it up.
const sendQueueSize = 16

// sseConn queues payloads for a single SSE client. The request goroutine is
// the only writer to the response.
type sseConn struct {
	ch chan []byte
}

func newSSEConn() *sseConn {
	return &sseConn{ch: make(chan []byte, sendQueueSize)}
}

// Send queues without blocking. Reports false when the queue is full.
func (c *sseConn) Send(payload []byte) bool {
	select {
	case c.ch <- payload:
		return true
	default:
		return false
	}
}

// StreamHandler serves the two live-update streams as Server-Sent Events.
type StreamHandler struct {
	updater *realtime.Updater
	log     *slog.Logger
}

func NewStreamHandler(updater *realtime.Updater, log *slog.Logger) *StreamHandler {
	return &StreamHandler{updater: updater, log: log}
}

type attachFunc func(ctx context.Context, conn realtime.Conn, username string) (string, error)

// MyPlaces handles GET /api/v1/place/my/updates
func (h *StreamHandler) MyPlaces(c *gin.Context) {
	h.stream(c, h.updater.AttachMyPlaces)
}

// FreePlaces handles GET /api/v1/place/free/updates
func (h *StreamHandler) FreePlaces(c *gin.Context) {
	h.stream(c, h.updater.AttachFreePlaces)
}

// stream pins the request goroutine as the connection's single writer and
// pumps queued snapshots until the client goes away.
func (h *StreamHandler) stream(c *gin.Context, attach attachFunc) {
	username := c.GetString("username")

	// The status and retry hint go out before attach; if attach fails the
	// stream just ends and the client reconnects on the hinted interval.
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-store")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	fmt.Fprintf(c.Writer, "retry: 1000\n\n")
	c.Writer.Flush()

	conn := newSSEConn()
	id, err := attach(c.Request.Context(), conn, username)
	if err != nil {
		h.log.Error("stream attach failed", "username", username, "error", err)
		return
	}
	defer h.updater.Detach(id)

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case payload := <-conn.ch:
			if err := sse.Encode(c.Writer, sse.Event{Data: json.RawMessage(payload)}); err != nil {
				h.log.Warn("stream write failed", "username", username, "error", err)
				return
			}
			c.Writer.Flush()
		}
	}
}
