package async

// Job runs f in its own goroutine. The returned channel is closed when f
// returns.
func Job(f func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	return done
}
