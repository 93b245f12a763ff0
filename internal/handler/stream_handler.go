package handler

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"whatsapp-order-bot/internal/broadcast"
	"whatsapp-order-bot/internal/middleware"

	"github.com/rs/zerolog"
)

// StreamHandler serves the live order feed as text/event-stream.
type StreamHandler struct {
	hub       *broadcast.Hub
	heartbeat time.Duration
	logger    zerolog.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// NewStreamHandler creates a new stream handler. A zero heartbeat disables keep-alive frames.
func NewStreamHandler(hub *broadcast.Hub, heartbeat time.Duration, logger zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		hub:       hub,
		heartbeat: heartbeat,
		logger:    logger.With().Str("handler", "stream").Logger(),
		done:      make(chan struct{}),
	}
}

// Stream handles GET /api/orders/stream requests. Only orders placed after
// the connection opens are sent.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	logger := h.logger.With().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("subscriber_id", sub.ID.String()).
		Logger()

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logger.Warn().Err(err).Msg("failed to clear write deadline")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		logger.Error().Err(err).Msg("streaming not supported")
		return
	}

	var heartbeat <-chan time.Time
	if h.heartbeat > 0 {
		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Msg("client disconnected")
			return

		case <-h.done:
			return

		case order := <-sub.C:
			frame, err := broadcast.Frame(order)
			if err != nil {
				logger.Error().Err(err).Msg("failed to encode order")
				continue
			}
			if err := write(rc, w, frame); err != nil {
				logger.Warn().Err(err).Int64("order_id", order.ID).Msg("failed to write order to stream")
				return
			}

		case <-heartbeat:
			if err := write(rc, w, broadcast.Heartbeat); err != nil {
				logger.Debug().Err(err).Msg("failed to write heartbeat")
				return
			}
		}
	}
}

// Shutdown ends every open stream. It is registered with http.Server.RegisterOnShutdown.
func (h *StreamHandler) Shutdown() {
	h.doneOnce.Do(func() { close(h.done) })
}

func write(rc *http.ResponseController, w http.ResponseWriter, frame []byte) error {
	if _, err := w.Write(frame); err != nil {
		return err
	}
	return rc.Flush()
}
