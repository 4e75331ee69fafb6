//go:build !linux

package gpio

import "errors"

// OpenChip returns an error on non-Linux platforms. The GPIO character
// device only exists on Linux; tests use the fake instead.
func OpenChip(name string) (Chip, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}
