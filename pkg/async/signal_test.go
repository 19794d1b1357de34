package async

import (
	"testing"
	"time"
)

func TestSignal_Notify(t *testing.T) {
	var s Signal[struct{}]
	if !s.Notify() {
		t.Error("expected the first notify to fire")
	}
	if s.Notify() {
		t.Error("expected the second notify to be ignored")
	}

	select {
	case <-s.Signal():
		// Success
	default:
		t.Error("expected signal to be closed")
	}
}

func TestSignal_Await(t *testing.T) {
	var s Signal[struct{}]

	select {
	case <-s.Signal():
		t.Error("expected channel to be open")
	default:
		// Success
	}
}

func TestSignal_NotifyAndAwait(t *testing.T) {
	var s Signal[int]

	go func() {
		time.Sleep(100 * time.Millisecond)
		s.NotifyValue(42)
		s.NotifyValue(7)
	}()

	select {
	case <-s.Signal():
		if val := s.Wait(); val != 42 {
			t.Errorf("expected 42 but got %d", val)
		}
	case <-time.After(time.Second):
		t.Error("expected to receive signal within 1s")
	}
}
