package async

func Promise[R any](f func() R) <-chan R {
	out := make(chan R, 1)
	go func() {
		out <- f()
	}()
	return out
}

// Result is a value or the error that prevented it.
type Result[R any] struct {
	Value R
	Err   error
}

// Try runs f in its own goroutine and delivers both of its results.
func Try[R any](f func() (R, error)) <-chan Result[R] {
	return Promise(func() Result[R] {
		v, err := f()
		return Result[R]{Value: v, Err: err}
	})
}
