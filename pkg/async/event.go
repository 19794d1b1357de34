package async

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// EnterKey is closed when a line, or EOF, is read from r.
func EnterKey(r io.Reader) <-chan struct{} {
	return Job(func() {
		bufio.NewReader(r).ReadBytes('\n')
	})
}

// Exit is closed on the first SIGINT or SIGTERM.
func Exit() <-chan struct{} {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	return Job(func() {
		<-c
		signal.Stop(c)
	})
}
