package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ashureev/templog/internal/domain"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStoreFromClient(client)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	sess := &domain.Session{
		UserID:       "user123",
		State:        domain.StateConfirmingContinue,
		LocationCode: "0-17 (Хлебозавод)",
		Entries: []domain.Entry{
			{Device: domain.DeviceFridge, Sequence: 1, Temperature: 4.3},
			{Device: domain.DeviceFreezer, Sequence: 1, Temperature: -18},
		},
		FridgeCount:  1,
		FreezerCount: 1,
	}
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := store.Get(ctx, "user123")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a session, got nil")
	}
	if got.State != domain.StateConfirmingContinue {
		t.Errorf("Expected state %q, got %q", domain.StateConfirmingContinue, got.State)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got.Entries))
	}
	if got.Entries[1].Device != domain.DeviceFreezer || got.Entries[1].Temperature != -18 {
		t.Errorf("Unexpected second entry: %+v", got.Entries[1])
	}
}

func TestRedisStore_GetAbsent(t *testing.T) {
	store := newTestRedisStore(t)
	got, err := store.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for absent session, got %+v", got)
	}
}

func TestRedisStore_Clear(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, &domain.Session{UserID: "user123"}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.Clear(ctx, "user123"); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if got, _ := store.Get(ctx, "user123"); got != nil {
		t.Errorf("Expected nil after Clear, got %+v", got)
	}
}
