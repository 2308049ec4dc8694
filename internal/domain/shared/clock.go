package shared

import (
	"sync"
	"time"
)

// Clock supplies "now" to the scheduler so simulations can run on fake time
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time in UTC
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

func NewRealClock() Clock {
	return RealClock{}
}

// simulationEpoch is where a MockClock starts when given no start time
var simulationEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// MockClock only moves when told to. The simulate command drives it one
// step per tick while gRPC queries may read it concurrently.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = simulationEpoch
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// SecondsToDuration converts fractional simulation seconds into a Duration
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
