package testutil

import "sync"

// QueuedSource is a rarity.Source returning a scripted sequence of values,
// so every branch of an inherit roll or spawn-window draw can be forced.
//
// When the queue runs dry it returns Fallback (zero by default, which takes
// the "same tier" branch and the minimum spawn delay).
//
// Thread-safety: guarded by an internal mutex.
type QueuedSource struct {
	mu       sync.Mutex
	values   []float64
	Fallback float64
}

// NewQueuedSource creates a source that yields values in order.
func NewQueuedSource(values ...float64) *QueuedSource {
	return &QueuedSource{values: values}
}

// Push appends more values to the queue.
func (s *QueuedSource) Push(values ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, values...)
}

// Float64 pops the next scripted value, or Fallback when empty.
func (s *QueuedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return s.Fallback
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

// Remaining reports how many scripted values are left.
func (s *QueuedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
