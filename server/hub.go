package server

import (
	"log/slog"
	"sync"

	"github.com/tbxark/stickeragent/agent"
	"github.com/tbxark/stickeragent/types"
)

const subscriberBuffer = 64

// Hub fans delivered chat messages out to the websocket clients watching a
// session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*subscriber]struct{}
}

type subscriber struct {
	send chan types.ChatMessage
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*subscriber]struct{})}
}

// Sink returns the MessageSink a session should deliver to.
func (h *Hub) Sink(sessionID string) agent.MessageSink {
	return agent.MessageSinkFunc(func(msg types.ChatMessage) {
		h.broadcast(sessionID, msg)
	})
}

func (h *Hub) subscribe(sessionID string) *subscriber {
	sub := &subscriber{send: make(chan types.ChatMessage, subscriberBuffer)}
	h.mu.Lock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[*subscriber]struct{})
	}
	h.clients[sessionID][sub] = struct{}{}
	h.mu.Unlock()
	slog.Debug("Websocket client registered", "session", sessionID)
	return sub
}

func (h *Hub) unsubscribe(sessionID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[sessionID]
	if !ok {
		return
	}
	if _, ok := clients[sub]; !ok {
		return
	}
	delete(clients, sub)
	close(sub.send)
	if len(clients) == 0 {
		delete(h.clients, sessionID)
	}
	slog.Debug("Websocket client unregistered", "session", sessionID)
}

// closeSession disconnects every client of a session.
func (h *Hub) closeSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.clients[sessionID] {
		close(sub.send)
	}
	delete(h.clients, sessionID)
}

func (h *Hub) broadcast(sessionID string, msg types.ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.clients[sessionID] {
		select {
		case sub.send <- msg:
		default:
			slog.Warn("Websocket client too slow, dropping message", "session", sessionID, "message", msg.ID)
		}
	}
}

func (h *Hub) count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
