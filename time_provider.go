package termagent

import "time"

// TimeProvider supplies timestamps for transcript steps. It exists so
// tests can pin time and assert on transcripts deterministically.
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time
}

// DefaultTimeProvider is the standard TimeProvider using the system
// clock.
type DefaultTimeProvider struct{}

// NewDefaultTimeProvider creates a new DefaultTimeProvider.
func NewDefaultTimeProvider() *DefaultTimeProvider {
	return &DefaultTimeProvider{}
}

// Now returns the current system time.
func (p *DefaultTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a TimeProvider that returns a fixed time and
// advances it by a fixed tick on every call, so consecutive steps get
// distinct, predictable timestamps.
type MockTimeProvider struct {
	current time.Time
	tick    time.Duration
}

// NewMockTimeProvider creates a MockTimeProvider starting at t.
func NewMockTimeProvider(t time.Time) *MockTimeProvider {
	return &MockTimeProvider{current: t}
}

// WithTick makes every Now() call advance the clock by d.
func (m *MockTimeProvider) WithTick(d time.Duration) *MockTimeProvider {
	m.tick = d
	return m
}

// SetTime updates the time returned by Now().
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.current = t
}

// Now returns the fixed time, advancing it by the configured tick.
func (m *MockTimeProvider) Now() time.Time {
	now := m.current
	m.current = m.current.Add(m.tick)
	return now
}

// Compile-time checks.
var (
	_ TimeProvider = (*DefaultTimeProvider)(nil)
	_ TimeProvider = (*MockTimeProvider)(nil)
)
