package relay

import "time"

// Ledger tracks the last accepted toggle time per relay and rejects
// toggles that arrive inside the debounce window.
//
// Only accepted toggles move the ledger forward: a rejected toggle leaves
// the timestamp untouched, so a stream of rapid toggles collapses to one
// accepted command per window rather than sliding the window forever.
//
// Not safe for concurrent use; the Router serialises access.
type Ledger struct {
	window time.Duration
	last   []time.Time

	// now is replaceable in tests.
	now func() time.Time
}

// NewLedger creates a ledger for n relays with the given debounce window.
// A zero or negative window disables debouncing entirely.
func NewLedger(n int, window time.Duration) *Ledger {
	return &Ledger{
		window: window,
		last:   make([]time.Time, n),
		now:    time.Now,
	}
}

// Allow reports whether a toggle for relay i should be accepted, and
// records the acceptance time when it is. Indices outside the ledger are
// always allowed; the registry rejects them with a proper error.
func (l *Ledger) Allow(i int) bool {
	if l.window <= 0 {
		return true
	}
	if i < 0 || i >= len(l.last) {
		return true
	}

	now := l.now()
	if !l.last[i].IsZero() && now.Sub(l.last[i]) < l.window {
		return false
	}

	l.last[i] = now
	return true
}
