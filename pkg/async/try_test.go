package async

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTry(t *testing.T) {
	ERR := errors.New("boom")

	v, err := AwaitResult(Try(func() (int, error) {
		return 42, nil
	}))
	if v != 42 || err != nil {
		t.Errorf("expected 42 <nil>, got %d %v", v, err)
	}

	_, err = AwaitResult(Try(func() (int, error) {
		return 0, ERR
	}))
	if !errors.Is(err, ERR) {
		t.Errorf("expected %v, got %v", ERR, err)
	}
}

func TestGather(t *testing.T) {
	f1 := Promise(func() int {
		time.Sleep(100 * time.Millisecond)
		return 1
	})
	f2 := Promise(func() string {
		time.Sleep(200 * time.Millisecond)
		return "two"
	})

	startTime := time.Now()
	r1, r2 := Await2(Gather2(f1, f2))
	t.Logf("elapsed time: %v", time.Since(startTime))
	if r1 != 1 || r2 != "two" {
		t.Errorf("expected 1, two but got %d, %s", r1, r2)
	}

	all := Await(GatherN(Promise(func() int { return 1 }), Promise(func() int { return 2 })))
	if len(all) != 2 || all[0] != 1 || all[1] != 2 {
		t.Errorf("expected [1 2], got %v", all)
	}

	Await0(Gather0(Job(func() {}), Job(func() {})))
}

func TestAwaitContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	never := make(chan int)
	if _, err := AwaitContext(ctx, never); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestEnterKey(t *testing.T) {
	select {
	case <-EnterKey(strings.NewReader("\n")):
	case <-time.After(time.Second):
		t.Error("expected enter key")
	}
}
