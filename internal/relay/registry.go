package relay

import (
	"fmt"

	"github.com/jmcrae/relaycore/internal/gpio"
)

// Descriptor describes one relay at construction time: its display name
// and the already-claimed output line that drives it.
type Descriptor struct {
	Name string
	Line gpio.Line
}

// entry is a relay's live record inside the registry.
type entry struct {
	name  string
	line  gpio.Line
	state State
}

// Registry is the in-memory source of truth for relay state. The table is
// fixed at construction: no relays appear or disappear at runtime.
//
// The registry has no locking of its own. All access is serialised by the
// Router's critical section; nothing else may touch it.
type Registry struct {
	relays []entry
}

// NewRegistry builds a registry from the configured relay table. Every
// relay starts in the default state; the corresponding line value has
// already been driven at claim time.
func NewRegistry(descs []Descriptor, defaultState State) *Registry {
	relays := make([]entry, len(descs))
	for i, d := range descs {
		relays[i] = entry{name: d.Name, line: d.Line, state: defaultState}
	}
	return &Registry{relays: relays}
}

// Count returns the number of relays in the table.
func (r *Registry) Count() int {
	return len(r.relays)
}

// Get returns the view of one relay. Returns ErrNotFound for an index
// outside the table.
func (r *Registry) Get(index int) (View, error) {
	if index < 0 || index >= len(r.relays) {
		return View{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	e := r.relays[index]
	return View{ID: index, Name: e.name, State: e.state}, nil
}

// Set drives one relay to the given state and records it. The line is
// written first; if the hardware write fails the in-memory state is left
// unchanged and the error is returned.
func (r *Registry) Set(index int, state State) (View, error) {
	if index < 0 || index >= len(r.relays) {
		return View{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}

	e := &r.relays[index]
	if err := e.line.SetValue(int(state)); err != nil {
		return View{}, fmt.Errorf("driving relay %d: %w", index, err)
	}
	e.state = state

	return View{ID: index, Name: e.name, State: state}, nil
}

// Views returns all relays in ascending index order.
func (r *Registry) Views() []View {
	views := make([]View, len(r.relays))
	for i, e := range r.relays {
		views[i] = View{ID: i, Name: e.name, State: e.state}
	}
	return views
}

// Snapshot packs the current states into a bitmask.
func (r *Registry) Snapshot() Snapshot {
	var snap Snapshot
	for i, e := range r.relays {
		snap = snap.With(i, e.state)
	}
	return snap
}

// Restore drives every relay to the state recorded in the snapshot.
// Bits beyond the table width are ignored, so a snapshot written by a
// wider table restores cleanly after the table shrinks.
func (r *Registry) Restore(snap Snapshot) error {
	for i := range r.relays {
		if _, err := r.Set(i, snap.Get(i)); err != nil {
			return err
		}
	}
	return nil
}
