// Package dialog implements the conversational form-filling state machine.
package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/templog/internal/domain"
	"github.com/ashureev/templog/internal/locations"
	"github.com/ashureev/templog/internal/notify"
	"github.com/ashureev/templog/internal/session"
	"github.com/ashureev/templog/internal/shared"
	"github.com/ashureev/templog/internal/store"
	"github.com/ashureev/templog/internal/watchdog"
)

// entryThreshold is the reading count after which the dialog stops
// auto-looping to device selection and asks whether to continue. Fixed
// business rule.
const entryThreshold = 3

// Machine drives one user's dialog one validated input at a time. The
// transport serializes steps per user, so no two steps for the same user
// run concurrently.
type Machine struct {
	sessions session.Store
	repo     store.Repository
	notifier notify.Notifier
	watchdog *watchdog.Service

	locationPrefix string
	now            func() time.Time
}

// NewMachine wires the dialog state machine to its collaborators.
// locationPrefix is stripped from location codes at finalization.
func NewMachine(sessions session.Store, repo store.Repository, notifier notify.Notifier, wd *watchdog.Service, locationPrefix string) *Machine {
	return &Machine{
		sessions:       sessions,
		repo:           repo,
		notifier:       notifier,
		watchdog:       wd,
		locationPrefix: locationPrefix,
		now:            time.Now,
	}
}

// Begin handles the begin-session command: any previous session and mute
// state are discarded and the user is asked whether to start.
func (m *Machine) Begin(ctx context.Context, userID string) error {
	if err := m.repo.SetMuted(ctx, userID, false); err != nil {
		slog.Warn("Failed to clear durable mute flag", "user_id", userID, "error", err)
	}
	m.watchdog.Unmute(userID)
	m.watchdog.Complete(userID)

	if err := m.sessions.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return m.notifier.Send(ctx, userID, greetingText, startChoices()...)
}

// CancelStart handles "no, don't start": nothing is persisted and no
// watchdog is started.
func (m *Machine) CancelStart(ctx context.Context, userID string) error {
	m.watchdog.Complete(userID)
	if err := m.sessions.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return m.notifier.Send(ctx, userID, farewellText, newEntryChoices()...)
}

// StartSession handles "yes, start". A user with a sticky location skips
// location choice entirely; the watchdog start is idempotent, so this path
// never registers a second timer.
func (m *Machine) StartSession(ctx context.Context, userID string) error {
	m.watchdog.Unmute(userID)

	code, err := m.repo.GetUserLocation(ctx, userID)
	if err != nil {
		slog.Error("Failed to load sticky location", "user_id", userID, "error", err)
		return m.notifier.Send(ctx, userID, noLocationText)
	}

	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		sess = &domain.Session{UserID: userID}
	}

	if code == "" {
		sess.State = domain.StateChoosingLocation
		if err := m.sessions.Put(ctx, sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return m.notifier.Send(ctx, userID, chooseLocationText, locationChoices(locations.Page(0))...)
	}

	sess.LocationCode = code
	sess.State = domain.StateChoosingDeviceType
	if err := m.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if err := m.notifier.Send(ctx, userID, locationBanner(code), changeLocationChoices()...); err != nil {
		return err
	}
	if err := m.notifier.Send(ctx, userID, chooseDeviceText, deviceChoices()...); err != nil {
		return err
	}

	m.watchdog.Start(userID)
	return nil
}

// SelectLocation handles a tapped location. The index comes from a keyboard
// the transport rendered, so an out-of-range value is a transport contract
// violation; it is rejected without touching state.
func (m *Machine) SelectLocation(ctx context.Context, userID string, index int) error {
	name, ok := locations.At(index)
	if !ok {
		slog.Error("Location index out of range", "user_id", userID, "index", index)
		return fmt.Errorf("location index %d out of range", index)
	}

	if err := m.repo.SaveUserLocation(ctx, userID, name); err != nil {
		slog.Error("Failed to save sticky location", "user_id", userID, "error", err)
		return m.notifier.Send(ctx, userID, notSavedText)
	}

	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		sess = &domain.Session{UserID: userID}
	}
	sess.LocationCode = name
	sess.ResetEntries()
	sess.State = domain.StateChoosingDeviceType
	if err := m.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if err := m.notifier.Send(ctx, userID, locationBanner(name), changeLocationChoices()...); err != nil {
		return err
	}
	if err := m.notifier.Send(ctx, userID, chooseDeviceText, deviceChoices()...); err != nil {
		return err
	}

	m.watchdog.Start(userID)
	return nil
}

// Page re-renders the requested page of the location keyboard.
func (m *Machine) Page(ctx context.Context, userID string, page int) error {
	return m.notifier.Send(ctx, userID, chooseLocationText, locationChoices(locations.Page(page))...)
}

// ChooseDevice records which device type the next reading belongs to.
func (m *Machine) ChooseDevice(ctx context.Context, userID string, device domain.DeviceType) error {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return m.notifier.Send(ctx, userID, greetingText, startChoices()...)
	}

	sess.CurrentDevice = device
	sess.State = domain.StateEnteringTemperature
	if err := m.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return m.notifier.Send(ctx, userID, askTemperatureText)
}

// EnterTemperature validates free-text temperature input. Parse failures
// re-prompt without mutating the session; a missing device choice resets to
// device selection instead of guessing.
func (m *Machine) EnterTemperature(ctx context.Context, userID, text string) error {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return m.notifier.Send(ctx, userID, greetingText, startChoices()...)
	}

	temperature, parseErr := ParseTemperature(text)
	if parseErr != nil {
		slog.Debug("Temperature rejected", "user_id", userID, "input", text)
		return m.notifier.Send(ctx, userID, badTemperatureText)
	}

	if sess.CurrentDevice == "" {
		sess.State = domain.StateChoosingDeviceType
		if err := m.sessions.Put(ctx, sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		if err := m.notifier.Send(ctx, userID, noDeviceText); err != nil {
			return err
		}
		return m.notifier.Send(ctx, userID, chooseDeviceText, deviceChoices()...)
	}

	entry := sess.AppendEntry(sess.CurrentDevice, temperature)
	slog.Info("Reading recorded",
		"user_id", userID,
		"device", string(entry.Device),
		"sequence", entry.Sequence,
		"temperature", entry.Temperature)

	if sess.TotalEntries() < entryThreshold {
		sess.State = domain.StateChoosingDeviceType
		if err := m.sessions.Put(ctx, sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return m.notifier.Send(ctx, userID, addAnotherText, deviceChoices()...)
	}

	sess.State = domain.StateConfirmingContinue
	if err := m.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return m.notifier.Send(ctx, userID, continueText, continueChoices()...)
}

// ConfirmContinue handles the add-more / finish branch after the entry
// threshold is reached. Accumulated entries are kept either way.
func (m *Machine) ConfirmContinue(ctx context.Context, userID string, more bool) error {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return m.notifier.Send(ctx, userID, greetingText, startChoices()...)
	}

	if more {
		sess.State = domain.StateChoosingDeviceType
		if err := m.sessions.Put(ctx, sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return m.notifier.Send(ctx, userID, chooseDeviceText, deviceChoices()...)
	}

	sess.State = domain.StateEnteringName
	if err := m.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return m.notifier.Send(ctx, userID, askNameText)
}

// EnterName validates the operator name and finalizes the session. This is
// the single commit point of the dialog: the batch is persisted, the
// watchdog marked complete and the session cleared. On a persistence
// failure the session is retained so re-sending the name retries the write.
func (m *Machine) EnterName(ctx context.Context, userID, text string) error {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return m.notifier.Send(ctx, userID, greetingText, startChoices()...)
	}

	name, parseErr := ParseOperatorName(text)
	if parseErr != nil {
		slog.Debug("Operator name rejected", "user_id", userID)
		return m.notifier.Send(ctx, userID, badNameText)
	}

	if sess.LocationCode == "" {
		if err := m.sessions.Clear(ctx, userID); err != nil {
			slog.Warn("Failed to clear session after missing location", "user_id", userID, "error", err)
		}
		return m.notifier.Send(ctx, userID, noLocationText)
	}

	sess.OperatorName = name
	if err := m.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	code := strings.TrimPrefix(sess.LocationCode, m.locationPrefix)
	batch := domain.NewReadingBatch(userID, name, code, sess.Entries, m.now())

	if err := m.saveBatch(ctx, batch); err != nil {
		slog.Error("Failed to persist reading batch",
			"user_id", userID,
			"entries", len(batch.Entries),
			"error", err)
		if sendErr := m.notifier.Send(ctx, userID, notSavedText); sendErr != nil {
			slog.Warn("Failed to report save failure", "user_id", userID, "error", sendErr)
		}
		// Session intentionally retained: the user retries by re-sending
		// the name instead of re-entering every reading.
		return fmt.Errorf("save reading batch: %w", err)
	}

	slog.Info("Session finalized",
		"user_id", userID,
		"location", code,
		"entries", len(batch.Entries))

	m.watchdog.Complete(userID)
	if err := m.sessions.Clear(ctx, userID); err != nil {
		slog.Warn("Failed to clear session after finalization", "user_id", userID, "error", err)
	}
	return m.notifier.Send(ctx, userID, savedText, newEntryChoices()...)
}

// saveBatch retries once after a short pause on SQLite concurrency errors.
func (m *Machine) saveBatch(ctx context.Context, batch *domain.ReadingBatch) error {
	err := m.repo.SaveReadingBatch(ctx, batch)
	if err == nil || !shared.IsSQLiteConflictError(err) {
		return err
	}
	slog.Debug("Batch save hit a busy database, retrying", "user_id", batch.UserID)
	time.Sleep(100 * time.Millisecond)
	return m.repo.SaveReadingBatch(ctx, batch)
}

// Resume re-displays the prompt for whatever state the user is in. It never
// advances or resets the dialog.
func (m *Machine) Resume(ctx context.Context, userID string) error {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	state := domain.StateIdle
	if sess != nil {
		state = sess.State
	}

	switch state {
	case domain.StateChoosingLocation:
		return m.notifier.Send(ctx, userID, chooseLocationText, locationChoices(locations.Page(0))...)
	case domain.StateChoosingDeviceType:
		return m.notifier.Send(ctx, userID, chooseDeviceText, deviceChoices()...)
	case domain.StateEnteringTemperature:
		return m.notifier.Send(ctx, userID, askTemperatureText)
	case domain.StateConfirmingContinue:
		return m.notifier.Send(ctx, userID, continueText, continueChoices()...)
	case domain.StateEnteringName:
		return m.notifier.Send(ctx, userID, askNameText)
	default:
		return m.notifier.Send(ctx, userID, resumeFallbackText)
	}
}

// Restart sends the user back to location selection to change the sticky
// location. Entries are reset when the new location is picked.
func (m *Machine) Restart(ctx context.Context, userID string) error {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		sess = &domain.Session{UserID: userID}
	}
	sess.State = domain.StateChoosingLocation
	if err := m.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return m.notifier.Send(ctx, userID, changeLocationText, locationChoices(locations.Page(0))...)
}

// NewEntry restarts the whole flow from the greeting, discarding any open
// session.
func (m *Machine) NewEntry(ctx context.Context, userID string) error {
	m.watchdog.Complete(userID)
	if err := m.sessions.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return m.notifier.Send(ctx, userID, greetingText, startChoices()...)
}

// StopNotifications handles the stop-notifications command, independent of
// any open session. The durable flag is the source of truth across restarts.
func (m *Machine) StopNotifications(ctx context.Context, userID string) error {
	if err := m.repo.SetMuted(ctx, userID, true); err != nil {
		slog.Error("Failed to set durable mute flag", "user_id", userID, "error", err)
		return m.notifier.Send(ctx, userID, notSavedText)
	}
	m.watchdog.Mute(userID)
	return m.notifier.Send(ctx, userID, mutedText)
}

// State reports the user's current dialog state; used by the transport to
// route free text.
func (m *Machine) State(ctx context.Context, userID string) (domain.State, error) {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return domain.StateIdle, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return domain.StateIdle, nil
	}
	return sess.State, nil
}
