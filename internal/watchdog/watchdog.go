// Package watchdog runs per-user idle reminders for open dialog sessions.
package watchdog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/templog/internal/domain"
	"github.com/ashureev/templog/internal/notify"
	"github.com/ashureev/templog/internal/session"
)

const reminderText = "⏰ Похоже, ты не закончил запись. Давай продолжим?"

// task identifies one live reminder goroutine so a stale exit never removes
// a successor's registration.
type task struct {
	cancel context.CancelFunc
}

// Service owns the outstanding-watchdog and muted sets and one reminder
// goroutine per open session. Both sets live for the process lifetime.
type Service struct {
	sessions session.Store
	notifier notify.Notifier
	interval time.Duration

	mu          sync.Mutex
	outstanding map[string]*task
	muted       map[string]struct{}
}

// New creates a watchdog service. The interval is how long a session may sit
// idle before each nudge.
func New(sessions session.Store, notifier notify.Notifier, interval time.Duration) *Service {
	return &Service{
		sessions:    sessions,
		notifier:    notifier,
		interval:    interval,
		outstanding: make(map[string]*task),
		muted:       make(map[string]struct{}),
	}
}

// Start registers a reminder task for the user and spawns it. Starting a
// user who already has a live task is a no-op: the check and the insert
// happen under one lock, so at most one task per user ever runs.
func (s *Service) Start(userID string) bool {
	s.mu.Lock()
	if _, exists := s.outstanding[userID]; exists {
		s.mu.Unlock()
		slog.Debug("Watchdog already running", "user_id", userID)
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel}
	s.outstanding[userID] = t
	s.mu.Unlock()

	slog.Info("Watchdog started", "user_id", userID, "interval", s.interval)
	go s.run(ctx, userID, t)
	return true
}

// Complete removes the user from the outstanding set and cancels the
// in-flight sleep so the task exits without waiting for its next wake-up.
func (s *Service) Complete(userID string) {
	s.mu.Lock()
	t, exists := s.outstanding[userID]
	if exists {
		delete(s.outstanding, userID)
	}
	s.mu.Unlock()

	if exists {
		t.cancel()
		slog.Info("Watchdog completed", "user_id", userID)
	}
}

// Mute opts the user out of reminders. A live task observes the flag at its
// next wake-up and exits then; mute never cancels an in-flight sleep.
func (s *Service) Mute(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted[userID] = struct{}{}
}

// Unmute opts the user back in. It has no effect on an already-stopped task.
func (s *Service) Unmute(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.muted, userID)
}

// Muted reports whether the user has opted out of notifications.
func (s *Service) Muted(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, muted := s.muted[userID]
	return muted
}

// Outstanding reports whether the user has a live reminder task.
func (s *Service) Outstanding(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.outstanding[userID]
	return exists
}

// RestoreMuted seeds the muted set, typically from the durable mute table
// at startup.
func (s *Service) RestoreMuted(userIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range userIDs {
		s.muted[id] = struct{}{}
	}
}

// Shutdown cancels every live reminder task.
func (s *Service) Shutdown() {
	s.mu.Lock()
	tasks := make([]*task, 0, len(s.outstanding))
	for id, t := range s.outstanding {
		tasks = append(tasks, t)
		delete(s.outstanding, id)
	}
	s.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
	}
}

// drop removes the registration, but only if it still belongs to this task.
func (s *Service) drop(userID string, t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, exists := s.outstanding[userID]; exists && current == t {
		delete(s.outstanding, userID)
	}
}

func (s *Service) run(ctx context.Context, userID string, t *task) {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.drop(userID, t)
			slog.Debug("Watchdog task cancelled", "user_id", userID)
			return
		case <-timer.C:
		}

		if !s.Outstanding(userID) {
			s.drop(userID, t)
			slog.Debug("Watchdog observed completed session", "user_id", userID)
			return
		}

		if s.Muted(userID) {
			s.drop(userID, t)
			slog.Info("Watchdog stopped, user muted", "user_id", userID)
			return
		}

		// Session state is read for diagnostics only.
		state := domain.StateIdle
		if sess, err := s.sessions.Get(ctx, userID); err != nil {
			slog.Warn("Watchdog failed to read session state", "user_id", userID, "error", err)
		} else if sess != nil {
			state = sess.State
		}
		slog.Info("Sending idle reminder", "user_id", userID, "state", string(state))

		err := s.notifier.Send(ctx, userID, reminderText,
			notify.Choice{Label: "▶️ Продолжить", Action: notify.ActionResume})
		if err != nil {
			slog.Warn("Idle reminder delivery failed", "user_id", userID, "error", err)
		}

		timer.Reset(s.interval)
	}
}
