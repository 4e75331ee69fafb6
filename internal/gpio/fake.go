package gpio

import (
	"errors"
	"fmt"
)

// FakeLine is a test double that records every value driven onto it.
type FakeLine struct {
	// Offset is the line offset this fake was "claimed" on.
	Offset int

	// Values holds every value passed to SetValue, in order.
	Values []int

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by SetValue.
	SetError error
}

// NewFakeLine creates a FakeLine with the given initial value.
func NewFakeLine(offset, initial int) *FakeLine {
	return &FakeLine{Offset: offset, Values: []int{initial}}
}

// SetValue records the driven value.
func (l *FakeLine) SetValue(value int) error {
	if l.SetError != nil {
		return l.SetError
	}
	if l.Closed {
		return errors.New("line is closed")
	}
	l.Values = append(l.Values, value)
	return nil
}

// Value returns the most recently driven value.
func (l *FakeLine) Value() int {
	if len(l.Values) == 0 {
		return 0
	}
	return l.Values[len(l.Values)-1]
}

// Writes returns how many times SetValue succeeded, excluding the
// initial claim value.
func (l *FakeLine) Writes() int {
	return len(l.Values) - 1
}

// Close marks the line as closed.
func (l *FakeLine) Close() error {
	l.Closed = true
	return nil
}

// FakeChip hands out FakeLines and records claim options.
type FakeChip struct {
	// Lines maps offset to the claimed fake line.
	Lines map[int]*FakeLine

	// Requested holds the Options each offset was claimed with.
	Requested map[int]Options

	// Closed tracks if Close was called.
	Closed bool

	// RequestError, if set, will be returned by RequestOutput.
	RequestError error
}

// NewFakeChip creates an empty FakeChip.
func NewFakeChip() *FakeChip {
	return &FakeChip{
		Lines:     make(map[int]*FakeLine),
		Requested: make(map[int]Options),
	}
}

// RequestOutput claims a fake output line.
func (c *FakeChip) RequestOutput(offset int, opts Options) (Line, error) {
	if c.RequestError != nil {
		return nil, c.RequestError
	}
	if _, exists := c.Lines[offset]; exists {
		return nil, fmt.Errorf("line %d already claimed", offset)
	}

	line := NewFakeLine(offset, opts.InitialValue)
	c.Lines[offset] = line
	c.Requested[offset] = opts
	return line, nil
}

// Close marks the chip as closed.
func (c *FakeChip) Close() error {
	c.Closed = true
	return nil
}
