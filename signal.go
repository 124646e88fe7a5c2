package inline

import "sync"

// Signal is a component-owned value cell. Writes from any goroutine mark the
// runtime dirty and wake the render loop; reads always see the latest write.
//
// Each write bumps a generation counter, so callers can tell whether a value
// changed between two frames without comparing it.
type Signal[T any] struct {
	mu        sync.RWMutex
	value     T
	gen       uint64
	rt        *Runtime
	listeners []func(T)
}

// NewSignal creates a signal that is not owned by any component. Writes to
// it notify subscribers but do not schedule renders.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

func newSignal[T any](rt *Runtime, initial T) *Signal[T] {
	return &Signal[T]{value: initial, rt: rt}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v and schedules a render.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.gen++
	listeners := s.listeners
	s.mu.Unlock()
	s.notify(v, listeners)
}

// Update replaces the value with fn applied to it, atomically with respect
// to other writers.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	v := fn(s.value)
	s.value = v
	s.gen++
	listeners := s.listeners
	s.mu.Unlock()
	s.notify(v, listeners)
}

// Generation returns the number of writes so far.
func (s *Signal[T]) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Subscribe registers fn to run after every write, on the writing goroutine.
// The returned func removes it.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// copy so a concurrent notify keeps its snapshot
		next := make([]func(T), len(s.listeners))
		copy(next, s.listeners)
		next[idx] = nil
		s.listeners = next
	}
}

func (s *Signal[T]) notify(v T, listeners []func(T)) {
	if s.rt != nil {
		s.rt.MarkDirty()
	}
	for _, fn := range listeners {
		if fn != nil {
			fn(v)
		}
	}
}
