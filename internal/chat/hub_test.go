package chat

import (
	"context"
	"testing"

	"github.com/coder/websocket"
)

func TestHub_SendWithoutConnection(t *testing.T) {
	hub := NewHub()
	if err := hub.Send(context.Background(), "nobody", "hello"); err == nil {
		t.Error("Expected a delivery error for a user with no connection")
	}
}

func TestHub_UnregisterStale(t *testing.T) {
	hub := NewHub()
	current := &websocket.Conn{}
	stale := &websocket.Conn{}

	hub.Register("user123", current)

	// Unregistering a connection that is no longer current must not evict
	// the live one.
	hub.Unregister("user123", stale)

	hub.mu.RLock()
	got := hub.active["user123"]
	hub.mu.RUnlock()
	if got != current {
		t.Errorf("Expected the live connection to remain, got %v", got)
	}

	hub.Unregister("user123", current)
	hub.mu.RLock()
	_, exists := hub.active["user123"]
	hub.mu.RUnlock()
	if exists {
		t.Error("Expected user removed after unregistering the current connection")
	}
}
