package async

import "sync"

// Signal fires once and wakes every waiter, past and future. The zero value
// is ready to use.
type Signal[T any] struct {
	init  sync.Once
	fire  sync.Once
	done  chan struct{}
	value T
}

func (s *Signal[T]) channel() chan struct{} {
	s.init.Do(func() {
		s.done = make(chan struct{})
	})
	return s.done
}

// Notify fires with the zero value. It reports whether this call fired.
func (s *Signal[T]) Notify() bool {
	var zero T
	return s.NotifyValue(zero)
}

func (s *Signal[T]) NotifyValue(value T) bool {
	fired := false
	done := s.channel()
	s.fire.Do(func() {
		s.value = value
		close(done)
		fired = true
	})
	return fired
}

// Signal is closed once the signal fired.
func (s *Signal[T]) Signal() <-chan struct{} {
	return s.channel()
}

func (s *Signal[T]) Wait() T {
	<-s.channel()
	return s.value
}
