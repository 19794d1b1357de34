package async

import (
	"testing"
	"time"
)

func TestPromise(t *testing.T) {
	expected := 42
	resultChan := Promise(func() int {
		time.Sleep(100 * time.Millisecond)
		return expected
	})

	select {
	case result := <-resultChan:
		if result != expected {
			t.Fatalf("expected %d but got %d", expected, result)
		}
	case <-time.After(time.Second):
		t.Fatal("TestPromise timed out")
	}
}

func TestPromiseUnread(t *testing.T) {
	// nobody reads the result, the goroutine must still finish
	done := make(chan struct{})
	Promise(func() int {
		defer close(done)
		return 1
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("promise goroutine did not finish")
	}
}
