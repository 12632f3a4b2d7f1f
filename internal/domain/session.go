// Package domain contains core domain types for the temperature journal.
package domain

// State identifies the step of the dialog a user is currently in.
type State string

const (
	// StateIdle means the user has no open dialog session.
	StateIdle                State = ""
	StateChoosingLocation    State = "choosing_location"
	StateChoosingDeviceType  State = "choosing_device_type"
	StateEnteringTemperature State = "entering_temperature"
	StateConfirmingContinue  State = "confirming_continue"
	StateEnteringName        State = "entering_name"
)

// DeviceType identifies the kind of device a reading belongs to.
type DeviceType string

const (
	DeviceFridge  DeviceType = "fridge"
	DeviceFreezer DeviceType = "freezer"
)

// SinkLabel returns the localized label the journal table expects.
func (d DeviceType) SinkLabel() string {
	if d == DeviceFreezer {
		return "Морозилка"
	}
	return "Холодильник"
}

// Entry is a single validated temperature reading.
type Entry struct {
	Device      DeviceType `json:"device"`
	Sequence    int        `json:"sequence"`
	Temperature float64    `json:"temperature"`
}

// Session holds the in-progress dialog state for one user.
type Session struct {
	UserID        string     `json:"user_id"`
	State         State      `json:"state"`
	LocationCode  string     `json:"location_code"`
	Entries       []Entry    `json:"entries"`
	FridgeCount   int        `json:"fridge_count"`
	FreezerCount  int        `json:"freezer_count"`
	CurrentDevice DeviceType `json:"current_device,omitempty"`
	OperatorName  string     `json:"operator_name,omitempty"`
}

// TotalEntries returns the number of readings recorded so far.
func (s *Session) TotalEntries() int {
	return s.FridgeCount + s.FreezerCount
}

// NextSequence returns the 1-based sequence number the next reading of the
// given device type would receive.
func (s *Session) NextSequence(d DeviceType) int {
	if d == DeviceFreezer {
		return s.FreezerCount + 1
	}
	return s.FridgeCount + 1
}

// AppendEntry records a validated reading, advances the per-device counter
// and clears the pending device choice.
func (s *Session) AppendEntry(d DeviceType, temperature float64) Entry {
	entry := Entry{Device: d, Sequence: s.NextSequence(d), Temperature: temperature}
	s.Entries = append(s.Entries, entry)
	if d == DeviceFreezer {
		s.FreezerCount++
	} else {
		s.FridgeCount++
	}
	s.CurrentDevice = ""
	return entry
}

// ResetEntries drops all accumulated readings and counters.
func (s *Session) ResetEntries() {
	s.Entries = nil
	s.FridgeCount = 0
	s.FreezerCount = 0
	s.CurrentDevice = ""
}

// Clone returns a deep copy so store implementations can hand out sessions
// without aliasing their internal state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	copied := *s
	if s.Entries != nil {
		copied.Entries = make([]Entry, len(s.Entries))
		copy(copied.Entries, s.Entries)
	}
	return &copied
}
