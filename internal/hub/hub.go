package hub

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Topic names events are published under.
const (
	TopicLobby = "lobby"
	TopicRound = "round"
)

// Envelope is one named event ready for the wire.
type Envelope struct {
	Event string
	Data  []byte
}

// Client represents a single subscriber connection. The SSE handler reads
// envelopes off this channel.
type Client chan Envelope

type subscription struct {
	lobbyID string
	topics  map[string]bool
}

// matches decides whether this subscriber receives an event published for the
// given lobby and topic. A subscriber is either lobby-scoped (optionally
// narrowed by topics) or fully unfiltered. A topic filter without a lobby is
// not a supported wildcard and matches nothing lobby-scoped.
func (s subscription) matches(lobbyID, topic string) bool {
	if s.lobbyID != "" {
		if s.lobbyID != lobbyID {
			return false
		}
		return len(s.topics) == 0 || s.topics[topic]
	}
	return len(s.topics) == 0
}

// Hub fans state-change events out to subscribed clients. Delivery is
// fire-and-forget, at-most-once, with no backlog: late subscribers must
// re-fetch current state themselves.
type Hub struct {
	mu   sync.RWMutex
	subs map[Client]subscription
	log  *zap.Logger
}

// NewHub creates a new Hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[Client]subscription),
		log:  log,
	}
}

// Subscribe registers a client, optionally scoped to a lobby and a set of topics.
func (h *Hub) Subscribe(client Client, lobbyID string, topics []string) {
	sub := subscription{lobbyID: lobbyID}
	if len(topics) > 0 {
		sub.topics = make(map[string]bool, len(topics))
		for _, t := range topics {
			sub.topics[t] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[client] = sub
}

// Unsubscribe removes a client and closes its channel to signal the handler
// to stop.
func (h *Hub) Unsubscribe(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[client]; ok {
		delete(h.subs, client)
		close(client)
	}
}

// Publish delivers a named event to every subscriber whose scope matches.
// The subscriber set is snapshotted under the lock and delivery happens
// outside it, so a slow observer can never stall a state mutation. Sends are
// non-blocking; a full channel simply misses the event.
func (h *Hub) Publish(event string, payload any, lobbyID, topic string) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal event payload", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]Client, 0, len(h.subs))
	for client, sub := range h.subs {
		if sub.matches(lobbyID, topic) {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client <- Envelope{Event: event, Data: data}:
		default:
			h.log.Warn("dropping event for slow subscriber",
				zap.String("event", event),
				zap.String("lobby_id", lobbyID))
		}
	}
}

// Subscribers reports the current number of registered clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
