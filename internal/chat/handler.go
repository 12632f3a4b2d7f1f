package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/coder/websocket"

	"github.com/ashureev/templog/internal/dialog"
	"github.com/ashureev/templog/internal/domain"
	"github.com/ashureev/templog/internal/identity"
	"github.com/ashureev/templog/internal/notify"
)

// Top-level commands the transport recognizes.
const (
	commandStart = "/start"
	commandStop  = "/stop"
)

// inboundUpdate is one user action arriving over the socket: either free
// text or a tapped choice.
type inboundUpdate struct {
	Type   string `json:"type"` // "message" or "action"
	Text   string `json:"text,omitempty"`
	Action string `json:"action,omitempty"`
}

// Handler upgrades chat connections and feeds updates into the dialog
// machine. Reads are sequential per connection, which gives the machine the
// per-user step ordering it relies on.
type Handler struct {
	machine       *dialog.Machine
	hub           *Hub
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a chat WebSocket handler.
func NewHandler(machine *dialog.Machine, hub *Hub, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		machine:       machine,
		hub:           hub,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	slog.Info("Chat connection request", "user_id", userID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	h.hub.Register(userID, ws)
	defer h.hub.Unregister(userID, ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", userID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "user_id", userID)
			}
			return
		}

		var update inboundUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			slog.Warn("Malformed chat update", "user_id", userID, "error", err)
			continue
		}

		if err := h.dispatch(ctx, userID, update); err != nil {
			slog.Error("Dialog step failed", "user_id", userID, "type", update.Type, "error", err)
		}
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *Handler) dispatch(ctx context.Context, userID string, update inboundUpdate) error {
	switch update.Type {
	case "message":
		return h.dispatchMessage(ctx, userID, strings.TrimSpace(update.Text))
	case "action":
		return h.dispatchAction(ctx, userID, update.Action)
	default:
		slog.Debug("Unknown update type ignored", "user_id", userID, "type", update.Type)
		return nil
	}
}

// dispatchMessage routes free text by the user's current dialog state.
func (h *Handler) dispatchMessage(ctx context.Context, userID, text string) error {
	switch text {
	case commandStart:
		return h.machine.Begin(ctx, userID)
	case commandStop:
		return h.machine.StopNotifications(ctx, userID)
	}

	state, err := h.machine.State(ctx, userID)
	if err != nil {
		return err
	}

	switch state {
	case domain.StateEnteringTemperature:
		return h.machine.EnterTemperature(ctx, userID, text)
	case domain.StateEnteringName:
		return h.machine.EnterName(ctx, userID, text)
	case domain.StateIdle:
		return h.machine.Begin(ctx, userID)
	default:
		// The current state expects a tapped choice, not text.
		slog.Debug("Text ignored in choice state", "user_id", userID, "state", string(state))
		return nil
	}
}

func (h *Handler) dispatchAction(ctx context.Context, userID, action string) error {
	switch action {
	case notify.ActionStartSession:
		return h.machine.StartSession(ctx, userID)
	case notify.ActionCancelSession:
		return h.machine.CancelStart(ctx, userID)
	case notify.ActionFridge:
		return h.machine.ChooseDevice(ctx, userID, domain.DeviceFridge)
	case notify.ActionFreezer:
		return h.machine.ChooseDevice(ctx, userID, domain.DeviceFreezer)
	case notify.ActionAddMore:
		return h.machine.ConfirmContinue(ctx, userID, true)
	case notify.ActionFinishDevices:
		return h.machine.ConfirmContinue(ctx, userID, false)
	case notify.ActionResume:
		return h.machine.Resume(ctx, userID)
	case notify.ActionRestart:
		return h.machine.Restart(ctx, userID)
	case notify.ActionNewEntry:
		return h.machine.NewEntry(ctx, userID)
	}

	if page, ok := parseIndex(action, notify.ActionPagePrefix); ok {
		return h.machine.Page(ctx, userID, page)
	}
	if index, ok := parseIndex(action, notify.ActionSelectPrefix); ok {
		return h.machine.SelectLocation(ctx, userID, index)
	}

	slog.Warn("Unknown chat action ignored", "user_id", userID, "action", action)
	return nil
}

func parseIndex(action, prefix string) (int, bool) {
	if !strings.HasPrefix(action, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(action, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}
