package session

import (
	"context"
	"testing"

	"github.com/ashureev/templog/internal/domain"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := &domain.Session{
		UserID:       "user123",
		State:        domain.StateEnteringTemperature,
		LocationCode: "0-1 (Омега Плаза)",
	}
	sess.AppendEntry(domain.DeviceFridge, 4.5)

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
	if got.State != domain.StateEnteringTemperature {
		t.Errorf("Expected state %q, got %q", domain.StateEnteringTemperature, got.State)
	}
	if len(got.Entries) != 1 || got.Entries[0].Temperature != 4.5 {
		t.Errorf("Unexpected entries: %+v", got.Entries)
	}
}

func TestMemoryStore_GetAbsent(t *testing.T) {
	store := NewMemoryStore()
	got, err := store.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for absent session, got %+v", got)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
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

	// Clearing an absent session is a no-op.
	if err := store.Clear(ctx, "nobody"); err != nil {
		t.Errorf("Clear of absent session returned error: %v", err)
	}
}

func TestMemoryStore_NoAliasing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := &domain.Session{UserID: "user123", State: domain.StateChoosingDeviceType}
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	sess.State = domain.StateEnteringName
	sess.AppendEntry(domain.DeviceFreezer, -18)

	got, _ := store.Get(ctx, "user123")
	if got.State != domain.StateChoosingDeviceType {
		t.Errorf("Stored state mutated through caller copy: %q", got.State)
	}
	if len(got.Entries) != 0 {
		t.Errorf("Stored entries mutated through caller copy: %+v", got.Entries)
	}

	// And mutating a returned copy must not change the stored one.
	got.FridgeCount = 42
	again, _ := store.Get(ctx, "user123")
	if again.FridgeCount != 0 {
		t.Errorf("Stored session mutated through returned copy: %d", again.FridgeCount)
	}
}
