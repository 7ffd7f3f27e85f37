package poller

import (
	"encoding/json"

	"bbdash/internal/logger"

	"go.uber.org/zap"
)

// Handler consumes one channel's slice of a poll payload. Handlers must be
// idempotent: delivering the same payload twice leaves the tables unchanged.
type Handler func(payload json.RawMessage) error

// Registry maps channel names to their handlers. It is populated once at
// startup and never mutated afterwards, so Dispatch reads it without locking.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(channel string, h Handler) {
	r.handlers[channel] = h
}

// Dispatch routes each known channel present in the payload to its handler.
// Unknown channels are ignored. A failing handler is logged and skipped; a
// bad payload on one channel must never take the dashboard down or starve
// the other channels.
func (r *Registry) Dispatch(payload map[string]json.RawMessage) {
	for channel, data := range payload {
		h, ok := r.handlers[channel]
		if !ok {
			logger.Log.Debug("ignoring unknown channel",
				zap.String("channel", channel))
			continue
		}

		if err := h(data); err != nil {
			logger.Log.Warn("channel handler failed",
				zap.String("channel", channel),
				zap.Error(err))
		}
	}
}
