// Package broadcast nudges every known user on a fixed schedule.
package broadcast

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/templog/internal/notify"
	"github.com/ashureev/templog/internal/store"
	"github.com/ashureev/templog/internal/watchdog"
)

const nudgeText = "🔔 Напоминание: пора заполнить журнал 📝❤️"

// Sweeper periodically fans a generic reminder out to the full user roster,
// skipping muted users. Best-effort: per-recipient failures never abort a
// sweep.
type Sweeper struct {
	repo      store.Repository
	notifier  notify.Notifier
	watchdog  *watchdog.Service
	interval  time.Duration
	startHour int // inclusive working window, local time
	endHour   int
	now       func() time.Time
}

// New creates a sweeper that fires every interval inside the
// [startHour, endHour] working window.
func New(repo store.Repository, notifier notify.Notifier, wd *watchdog.Service, interval time.Duration, startHour, endHour int) *Sweeper {
	return &Sweeper{
		repo:      repo,
		notifier:  notifier,
		watchdog:  wd,
		interval:  interval,
		startHour: startHour,
		endHour:   endHour,
		now:       time.Now,
	}
}

// Run blocks, sweeping on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	slog.Info("Broadcast sweeper started",
		"interval", s.interval,
		"start_hour", s.startHour,
		"end_hour", s.endHour)

	for {
		select {
		case <-ticker.C:
			if !s.inWindow(s.now()) {
				continue
			}
			s.sweep(ctx)
		case <-ctx.Done():
			slog.Info("Broadcast sweeper shutting down", "reason", ctx.Err())
			return
		}
	}
}

func (s *Sweeper) inWindow(t time.Time) bool {
	hour := t.Hour()
	return hour >= s.startHour && hour <= s.endHour
}

func (s *Sweeper) sweep(ctx context.Context) {
	users, err := s.repo.ListKnownUsers(ctx)
	if err != nil {
		slog.Error("Broadcast failed to list users", "error", err)
		return
	}

	sent := 0
	for _, userID := range users {
		if s.watchdog.Muted(userID) {
			slog.Debug("Broadcast skipping muted user", "user_id", userID)
			continue
		}

		err := s.notifier.Send(ctx, userID, nudgeText,
			notify.Choice{Label: "🔄 Начать новую запись", Action: notify.ActionNewEntry})
		if err != nil {
			slog.Warn("Broadcast delivery failed", "user_id", userID, "error", err)
			continue
		}
		sent++
	}

	slog.Info("Broadcast sweep completed", "roster", len(users), "sent", sent)
}
