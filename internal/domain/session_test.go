package domain

import "testing"

func TestAppendEntry_Sequences(t *testing.T) {
	sess := &Session{UserID: "user123"}

	first := sess.AppendEntry(DeviceFridge, 4.3)
	second := sess.AppendEntry(DeviceFreezer, -18)
	third := sess.AppendEntry(DeviceFridge, 3.9)

	if first.Sequence != 1 || second.Sequence != 1 || third.Sequence != 2 {
		t.Errorf("Unexpected sequences: %d, %d, %d", first.Sequence, second.Sequence, third.Sequence)
	}
	if sess.TotalEntries() != 3 {
		t.Errorf("Expected 3 total entries, got %d", sess.TotalEntries())
	}
	if sess.FridgeCount != 2 || sess.FreezerCount != 1 {
		t.Errorf("Unexpected counters: fridge=%d freezer=%d", sess.FridgeCount, sess.FreezerCount)
	}
	if sess.CurrentDevice != "" {
		t.Errorf("Expected pending device cleared, got %q", sess.CurrentDevice)
	}
}

func TestResetEntries(t *testing.T) {
	sess := &Session{UserID: "user123", CurrentDevice: DeviceFridge}
	sess.AppendEntry(DeviceFridge, 4)
	sess.ResetEntries()

	if sess.TotalEntries() != 0 || len(sess.Entries) != 0 {
		t.Errorf("Expected empty session after reset, got %+v", sess)
	}
}

func TestClone_Independent(t *testing.T) {
	sess := &Session{UserID: "user123"}
	sess.AppendEntry(DeviceFridge, 4)

	clone := sess.Clone()
	clone.AppendEntry(DeviceFreezer, -18)
	clone.Entries[0].Temperature = 99

	if len(sess.Entries) != 1 {
		t.Errorf("Clone mutation leaked entries: %+v", sess.Entries)
	}
	if sess.Entries[0].Temperature != 4 {
		t.Errorf("Clone mutation leaked entry data: %+v", sess.Entries[0])
	}

	var nilSess *Session
	if nilSess.Clone() != nil {
		t.Error("Cloning nil should return nil")
	}
}

func TestSinkLabel(t *testing.T) {
	if DeviceFridge.SinkLabel() != "Холодильник" {
		t.Errorf("Unexpected fridge label %q", DeviceFridge.SinkLabel())
	}
	if DeviceFreezer.SinkLabel() != "Морозилка" {
		t.Errorf("Unexpected freezer label %q", DeviceFreezer.SinkLabel())
	}
}
