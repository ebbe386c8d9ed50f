package testutil

import "sync"

// ScriptedSource replays a fixed sequence of wall-clock readings.
//
// Once the script is exhausted the last reading repeats, which models a
// stalled clock. Plug Read into clock.WithSource.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type ScriptedSource struct {
	mu       sync.Mutex
	readings []int64
	idx      int
	calls    int
}

// NewScriptedSource creates a source that returns readings in order.
//
// Example:
//
//	src := NewScriptedSource(100, 100, 90, 200)
//	src.Read() // 100
//	src.Read() // 100
//	src.Read() // 90
//	src.Read() // 200
//	src.Read() // 200 (stalled)
func NewScriptedSource(readings ...int64) *ScriptedSource {
	if len(readings) == 0 {
		readings = []int64{0}
	}
	return &ScriptedSource{readings: readings}
}

// Read returns the next scripted reading.
func (s *ScriptedSource) Read() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	v := s.readings[s.idx]
	if s.idx < len(s.readings)-1 {
		s.idx++
	}
	return v
}

// Calls reports how many times Read has been called.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Set replaces the script and rewinds it.
func (s *ScriptedSource) Set(readings ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(readings) == 0 {
		readings = []int64{0}
	}
	s.readings = readings
	s.idx = 0
}

// FixedJitter returns predetermined jitter values for deterministic minting.
//
// Panics if all values have been consumed, so a test that mints more
// identifiers than it planned for fails loudly.
type FixedJitter struct {
	mu     sync.Mutex
	values []int32
	idx    int
}

// NewFixedJitter creates a jitter source that returns values in order.
func NewFixedJitter(values ...int32) *FixedJitter {
	return &FixedJitter{values: values}
}

// Next returns the next predetermined jitter value.
func (j *FixedJitter) Next() int32 {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.idx >= len(j.values) {
		panic("FixedJitter: all values exhausted")
	}
	v := j.values[j.idx]
	j.idx++
	return v
}
