// Package chat provides the WebSocket chat transport and the Notifier
// implementation backed by it.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/ashureev/templog/internal/notify"
)

// outboundMessage is the frame pushed to a connected client.
type outboundMessage struct {
	Text    string          `json:"text"`
	Choices []notify.Choice `json:"choices,omitempty"`
}

// Hub tracks the live WebSocket connection for each user and implements
// notify.Notifier by writing to it. One connection per user; a newer
// connection replaces the previous one.
type Hub struct {
	mu     sync.RWMutex
	active map[string]*websocket.Conn
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		active: make(map[string]*websocket.Conn),
	}
}

// Register adds a connection for a user, closing any previous one.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, exists := h.active[userID]; exists && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "connection replaced")
	}
	h.active[userID] = conn
	slog.Info("Chat connection registered", "user_id", userID)
}

// Unregister removes a connection for a user if it is still the current one.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, exists := h.active[userID]; exists && current == conn {
		delete(h.active, userID)
		slog.Info("Chat connection unregistered", "user_id", userID)
	}
}

// Send delivers a message with optional choices to the user's live
// connection. A user without one is a delivery failure the caller decides
// how to treat.
func (h *Hub) Send(ctx context.Context, userID, text string, choices ...notify.Choice) error {
	h.mu.RLock()
	conn := h.active[userID]
	h.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("user %s has no live connection", userID)
	}

	data, err := json.Marshal(outboundMessage{Text: text, Choices: choices})
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("write to %s: %w", userID, err)
	}
	return nil
}
