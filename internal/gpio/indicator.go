package gpio

import "time"

// Indicator is a status LED pulsed briefly to acknowledge activity.
// Pulse blocks for the full pulse train, so the configured width should
// stay small (tens of milliseconds).
type Indicator struct {
	line   Line
	width  time.Duration
	pulses int

	// sleep is replaceable in tests.
	sleep func(time.Duration)
}

// NewIndicator creates an indicator on the given claimed line.
//
// Parameters:
//   - line: Claimed output line for the LED
//   - width: Duration of each on and off phase
//   - pulses: Number of on/off cycles per Pulse call
func NewIndicator(line Line, width time.Duration, pulses int) *Indicator {
	if pulses < 1 {
		pulses = 1
	}
	return &Indicator{
		line:   line,
		width:  width,
		pulses: pulses,
		sleep:  time.Sleep,
	}
}

// Pulse blinks the LED. The first failed line write aborts the train.
func (i *Indicator) Pulse() error {
	for n := 0; n < i.pulses; n++ {
		if err := i.line.SetValue(1); err != nil {
			return err
		}
		i.sleep(i.width)
		if err := i.line.SetValue(0); err != nil {
			return err
		}
		if n < i.pulses-1 {
			i.sleep(i.width)
		}
	}
	return nil
}

// Close releases the LED line.
func (i *Indicator) Close() error {
	return i.line.Close()
}
