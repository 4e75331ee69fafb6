package relay

import "errors"

// Domain errors for the relay package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, relay.ErrNotFound) {
//	    // handle unknown relay index
//	}
var (
	// ErrNotFound is returned when a relay index is outside the table.
	ErrNotFound = errors.New("relay: not found")

	// ErrInvalidTarget is returned when a command target cannot be parsed
	// as a relay index or the "all" selector.
	ErrInvalidTarget = errors.New("relay: invalid target")

	// ErrInvalidState is returned when a state value is not recognised.
	ErrInvalidState = errors.New("relay: invalid state")

	// ErrSnapshotAbsent is returned by Store.Load when no snapshot has
	// ever been saved. Callers fall back to defaults; this is not a
	// storage failure.
	ErrSnapshotAbsent = errors.New("relay: snapshot absent")
)
