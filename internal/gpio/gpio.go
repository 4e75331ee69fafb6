// Package gpio provides GPIO output control with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
//
// Polarity is handled here, at line-request time: when a line is claimed
// with ActiveLow, the kernel inverts values on the wire, so callers always
// write logical values (1 = energised).
package gpio

// Line is a single claimed GPIO output line.
type Line interface {
	// SetValue drives the line to the given logical value (0 or 1).
	SetValue(value int) error

	// Close releases the line.
	Close() error
}

// Options control how an output line is claimed.
type Options struct {
	// ActiveLow inverts the electrical sense of the line. Common for relay
	// driver boards that energise on a pulled-down input.
	ActiveLow bool

	// OpenDrain claims the line as open-drain output.
	OpenDrain bool

	// InitialValue is the logical value the line is driven to on claim.
	InitialValue int
}

// Chip is a GPIO chip from which output lines can be requested.
type Chip interface {
	// RequestOutput claims the line at the given offset as an output.
	RequestOutput(offset int, opts Options) (Line, error)

	// Close releases the chip. Lines already claimed stay valid until
	// closed individually.
	Close() error
}
