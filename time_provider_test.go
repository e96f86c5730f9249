package termagent

import (
	"testing"
	"time"
)

func TestDefaultTimeProvider_Now(t *testing.T) {
	tp := NewDefaultTimeProvider()

	before := time.Now()
	result := tp.Now()
	after := time.Now()

	if result.Before(before) || result.After(after) {
		t.Errorf("Now() returned time outside expected range")
	}
}

func TestMockTimeProvider(t *testing.T) {
	fixedTime := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)
	tp := NewMockTimeProvider(fixedTime)

	if !tp.Now().Equal(fixedTime) {
		t.Errorf("Now() = %v, want %v", tp.Now(), fixedTime)
	}

	// Without a tick the clock stands still.
	if !tp.Now().Equal(fixedTime) {
		t.Errorf("Now() advanced without a tick")
	}

	newTime := time.Date(2026, 12, 25, 10, 0, 0, 0, time.UTC)
	tp.SetTime(newTime)
	if !tp.Now().Equal(newTime) {
		t.Errorf("Now() after SetTime = %v, want %v", tp.Now(), newTime)
	}
}

func TestMockTimeProvider_Tick(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tp := NewMockTimeProvider(start).WithTick(time.Second)

	first := tp.Now()
	second := tp.Now()
	third := tp.Now()

	if !first.Equal(start) {
		t.Errorf("first Now() = %v, want %v", first, start)
	}
	if got, want := second.Sub(first), time.Second; got != want {
		t.Errorf("second tick = %v, want %v", got, want)
	}
	if got, want := third.Sub(second), time.Second; got != want {
		t.Errorf("third tick = %v, want %v", got, want)
	}
}
