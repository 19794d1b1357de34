//go:build unix

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// control sets SO_REUSEADDR so a restarted receiver can bind its port while
// old connections are in TIME_WAIT.
func control(network, address string, c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return serr
}
