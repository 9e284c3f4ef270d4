package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/api/metrics"
	"github.com/fleetline/logistics-platform/internal/core/domain"
)

// EventStream is the subscription side of the event bus.
type EventStream interface {
	Subscribe(channel string) (<-chan domain.RealtimeEvent, func())
}

// StreamHandler serves the live event stream over SSE.
type StreamHandler struct {
	stream       EventStream
	pingInterval time.Duration
	logger       zerolog.Logger
}

func NewStreamHandler(stream EventStream, pingInterval time.Duration, logger zerolog.Logger) *StreamHandler {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &StreamHandler{stream: stream, pingInterval: pingInterval, logger: logger}
}

// Stream handles GET /v1/events/stream?channel=. It emits a connected
// frame, then every event published to the channel as a JSON SSE frame,
// with periodic pings to keep intermediaries from closing the connection.
// The subscription is dropped as soon as the client goes away.
func (h *StreamHandler) Stream(c echo.Context) error {
	channel := c.QueryParam("channel")
	if channel == "" {
		channel = domain.ChannelAll
	}
	switch channel {
	case domain.ChannelAll, domain.ChannelShipments, domain.ChannelVehicles, domain.ChannelJobs:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown channel")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, ok := w.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
	}

	events, unsubscribe := h.stream.Subscribe(channel)
	defer unsubscribe()

	metrics.StreamSubscribers.WithLabelValues(channel).Inc()
	defer metrics.StreamSubscribers.WithLabelValues(channel).Dec()

	h.logger.Debug().Str("channel", channel).Msg("stream subscriber connected")

	if err := writeFrame(w, flusher, domain.NewRealtimeEvent(domain.EventConnected, map[string]string{"channel": channel})); err != nil {
		return nil
	}

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug().Str("channel", channel).Msg("stream subscriber disconnected")
			return nil
		case event, open := <-events:
			if !open {
				// Bus dropped us (slow consumer or shutdown).
				return nil
			}
			if err := writeFrame(w, flusher, event); err != nil {
				return nil
			}
		case <-ping.C:
			if err := writeFrame(w, flusher, domain.NewRealtimeEvent(domain.EventPing, nil)); err != nil {
				return nil
			}
		}
	}
}

// writeFrame emits one SSE frame: an event name line, a data line, a blank
// line, then a flush so the client sees it immediately.
func writeFrame(w *echo.Response, flusher http.Flusher, event domain.RealtimeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
