package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"scholarsync/internal/middleware"
	"scholarsync/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventActivityCreated    = "activity_created"
	EventActivityRemoved    = "activity_removed"
	EventCommentCreated     = "comment_created"
	EventInteractionUpdated = "interaction_updated"
	EventPollVoteUpdated    = "poll_vote_updated"
)

// Event is the envelope sent to websocket clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Encode renders the event as JSON.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses an envelope, keeping the payload as raw JSON.
func DecodeEvent(data []byte) (Event, error) {
	var raw struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Event{}, err
	}
	if raw.Type == "" {
		return Event{}, errors.New("event type missing")
	}
	return Event{Type: raw.Type, Payload: raw.Payload}, nil
}

// Publisher broadcasts events to every connected client.
type Publisher interface {
	Broadcast(ctx context.Context, evt Event)
}

// Broadcaster publishes through Redis when available so every instance
// delivers the event, and straight to the local hub otherwise.
type Broadcaster struct {
	hub      *Hub
	notifier *Notifier
	enabled  func() bool
}

// NewBroadcaster wires a Broadcaster. enabled may be nil.
func NewBroadcaster(hub *Hub, notifier *Notifier, enabled func() bool) *Broadcaster {
	return &Broadcaster{hub: hub, notifier: notifier, enabled: enabled}
}

// Broadcast is best effort; failures are logged.
func (b *Broadcaster) Broadcast(ctx context.Context, evt Event) {
	if b == nil || (b.enabled != nil && !b.enabled()) {
		return
	}
	observability.RealtimeEvents.WithLabelValues(evt.Type, "published").Inc()

	if b.notifier.Enabled() {
		data, err := evt.Encode()
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to encode realtime event",
				slog.String("event_type", evt.Type), slog.String("error", err.Error()))
			return
		}
		err = b.notifier.PublishBroadcast(context.WithoutCancel(ctx), string(data))
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "redis publish failed, delivering locally",
			slog.String("event_type", evt.Type), slog.String("error", err.Error()))
	}
	if b.hub != nil {
		b.hub.SendAll(evt)
	}
}
