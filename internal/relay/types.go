package relay

import "fmt"

// State is a relay's binary state. It marshals to JSON as a bare 0 or 1,
// which is the wire format for every state field in the API.
type State uint8

// Relay states.
const (
	StateOff State = 0
	StateOn  State = 1
)

// String returns "on" or "off".
func (s State) String() string {
	if s == StateOn {
		return "on"
	}
	return "off"
}

// Toggled returns the opposite state.
func (s State) Toggled() State {
	if s == StateOn {
		return StateOff
	}
	return StateOn
}

// ParseState converts "on"/"off" (or "1"/"0") to a State.
// Returns ErrInvalidState for anything else.
func ParseState(value string) (State, error) {
	switch value {
	case "on", "1":
		return StateOn, nil
	case "off", "0":
		return StateOff, nil
	default:
		return StateOff, fmt.Errorf("%w: %q", ErrInvalidState, value)
	}
}

// View is the externally visible snapshot of one relay. It is the JSON
// shape returned by the API: {"id":0,"name":"Light 1","state":1}.
type View struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State State  `json:"state"`
}

// Snapshot packs the whole relay bank into a bitmask: bit i set means
// relay i is ON. This is the persisted representation, and it caps the
// bank at 64 relays.
type Snapshot uint64

// Get returns the state of relay i in the snapshot.
func (s Snapshot) Get(i int) State {
	if s&(1<<uint(i)) != 0 {
		return StateOn
	}
	return StateOff
}

// With returns a copy of the snapshot with relay i set to the given state.
func (s Snapshot) With(i int, state State) Snapshot {
	mask := Snapshot(1) << uint(i)
	if state == StateOn {
		return s | mask
	}
	return s &^ mask
}
