// Package notify defines the outbound messaging contract.
package notify

import "context"

// Dialog actions a tapped choice can carry back into the state machine.
const (
	ActionStartSession  = "start_session"
	ActionCancelSession = "cancel_session"
	ActionFridge        = "type:fridge"
	ActionFreezer       = "type:freezer"
	ActionAddMore       = "add_more"
	ActionFinishDevices = "finish_devices"
	ActionResume        = "resume_session"
	ActionRestart       = "restart"
	ActionNewEntry      = "new_entry"

	// ActionPagePrefix and ActionSelectPrefix carry an integer suffix
	// ("page:2", "select_index:7").
	ActionPagePrefix   = "page:"
	ActionSelectPrefix = "select_index:"
)

// Choice is a labeled action the user can tap.
type Choice struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Notifier delivers a message, optionally with interactive choices, to a
// user. It owns no dialog logic; delivery failures are the caller's to handle.
type Notifier interface {
	Send(ctx context.Context, userID, text string, choices ...Choice) error
}
