package gpio

import (
	"errors"
	"testing"
)

func TestFakeLineSetValue(t *testing.T) {
	line := NewFakeLine(16, 0)

	if err := line.SetValue(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := line.SetValue(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if line.Value() != 0 {
		t.Errorf("Value() = %d, want 0", line.Value())
	}
	if line.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", line.Writes())
	}
}

func TestFakeLineSetError(t *testing.T) {
	line := NewFakeLine(16, 0)
	line.SetError = errors.New("simulated error")

	if err := line.SetValue(1); err == nil {
		t.Error("expected error to be returned")
	}
	if line.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0 after failed write", line.Writes())
	}
}

func TestFakeLineClosed(t *testing.T) {
	line := NewFakeLine(16, 0)

	if err := line.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !line.Closed {
		t.Error("should be closed after Close()")
	}
	if err := line.SetValue(1); err == nil {
		t.Error("expected error writing to closed line")
	}
}

func TestFakeChipRequestOutput(t *testing.T) {
	chip := NewFakeChip()

	line, err := chip.RequestOutput(16, Options{ActiveLow: true, InitialValue: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fake, ok := line.(*FakeLine)
	if !ok {
		t.Fatal("expected *FakeLine")
	}
	if fake.Value() != 1 {
		t.Errorf("initial Value() = %d, want 1", fake.Value())
	}

	opts, ok := chip.Requested[16]
	if !ok {
		t.Fatal("expected request options recorded for offset 16")
	}
	if !opts.ActiveLow {
		t.Error("ActiveLow option not recorded")
	}
}

func TestFakeChipDuplicateClaim(t *testing.T) {
	chip := NewFakeChip()

	if _, err := chip.RequestOutput(16, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := chip.RequestOutput(16, Options{}); err == nil {
		t.Error("expected error claiming the same offset twice")
	}
}

func TestFakeChipRequestError(t *testing.T) {
	chip := NewFakeChip()
	chip.RequestError = errors.New("simulated error")

	if _, err := chip.RequestOutput(16, Options{}); err == nil {
		t.Error("expected error to be returned")
	}
}
