package async

import "context"

func Await0(a <-chan struct{}) {
	<-a
}

func Await[R any](a <-chan R) R {
	return <-a
}

// AwaitContext gives up when ctx is done first.
func AwaitContext[R any](ctx context.Context, a <-chan R) (R, error) {
	select {
	case r := <-a:
		return r, nil
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// AwaitResult unpacks a Try.
func AwaitResult[R any](a <-chan Result[R]) (R, error) {
	r := <-a
	return r.Value, r.Err
}

func Await2[R1 any, R2 any](a <-chan struct {
	R1 R1
	R2 R2
}) (R1, R2) {
	r := <-a
	return r.R1, r.R2
}
