// Package clock provides the device's boot-relative time source. The
// scheduler counts in whole seconds since boot and the session store in
// milliseconds, mirroring the firmware counters they replace.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source handed to every service that needs "now".
type Clock interface {
	Now() time.Time
	// Seconds returns whole seconds elapsed since boot.
	Seconds() uint64
	// Millis returns milliseconds elapsed since boot.
	Millis() uint64
}

// Boot measures time from process start using the runtime's monotonic reading.
type Boot struct {
	start time.Time
}

// NewBoot returns a Boot clock anchored at the moment of the call.
func NewBoot() *Boot {
	return &Boot{start: time.Now()}
}

func (b *Boot) Now() time.Time  { return time.Now() }
func (b *Boot) Seconds() uint64 { return uint64(time.Since(b.start) / time.Second) }
func (b *Boot) Millis() uint64  { return uint64(time.Since(b.start) / time.Millisecond) }

// Manual is a controllable clock for tests.
type Manual struct {
	mu      sync.Mutex
	elapsed time.Duration
	base    time.Time
}

// NewManual returns a manual clock with zero elapsed time. When base is the
// zero value, Now reports times relative to the Unix epoch.
func NewManual(base time.Time) *Manual {
	if base.IsZero() {
		base = time.Unix(0, 0).UTC()
	}
	return &Manual{base: base}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.base.Add(m.elapsed)
}

func (m *Manual) Seconds() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(m.elapsed / time.Second)
}

func (m *Manual) Millis() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(m.elapsed / time.Millisecond)
}

// Advance moves the clock forward by d and returns the new elapsed duration.
func (m *Manual) Advance(d time.Duration) time.Duration {
	m.mu.Lock()
	m.elapsed += d
	updated := m.elapsed
	m.mu.Unlock()
	return updated
}

// Set replaces the elapsed duration outright.
func (m *Manual) Set(d time.Duration) {
	m.mu.Lock()
	m.elapsed = d
	m.mu.Unlock()
}
