//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// realChip wraps a Linux GPIO character device chip.
type realChip struct {
	chip *gpiocdev.Chip
}

// OpenChip opens a GPIO chip by name (e.g. "gpiochip0").
func OpenChip(name string) (Chip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("opening gpio chip %s: %w", name, err)
	}
	return &realChip{chip: chip}, nil
}

// RequestOutput claims an output line with the requested electrical options.
func (c *realChip) RequestOutput(offset int, opts Options) (Line, error) {
	reqOpts := []gpiocdev.LineReqOption{
		gpiocdev.AsOutput(opts.InitialValue),
	}
	if opts.ActiveLow {
		reqOpts = append(reqOpts, gpiocdev.AsActiveLow)
	}
	if opts.OpenDrain {
		reqOpts = append(reqOpts, gpiocdev.AsOpenDrain)
	}

	line, err := c.chip.RequestLine(offset, reqOpts...)
	if err != nil {
		return nil, fmt.Errorf("requesting output line %d: %w", offset, err)
	}

	return &realLine{line: line, offset: offset}, nil
}

// Close releases the chip handle.
func (c *realChip) Close() error {
	if err := c.chip.Close(); err != nil {
		return fmt.Errorf("closing gpio chip: %w", err)
	}
	return nil
}

// realLine wraps a claimed gpiocdev output line.
type realLine struct {
	line   *gpiocdev.Line
	offset int
}

// SetValue drives the line to the given logical value.
func (l *realLine) SetValue(value int) error {
	if err := l.line.SetValue(value); err != nil {
		return fmt.Errorf("setting line %d to %d: %w", l.offset, value, err)
	}
	return nil
}

// Close releases the line. The line keeps its last driven value; relays
// must not glitch across a controller restart.
func (l *realLine) Close() error {
	if err := l.line.Close(); err != nil {
		return fmt.Errorf("closing line %d: %w", l.offset, err)
	}
	return nil
}
