//go:build unix

package confd

import (
	"context"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// listener wraps a *net.TCPListener to apply SO_REUSEADDR before bind and
// TCP keepalive on every accepted connection (§4.E: each connection is served
// by its own goroutine for exactly one request — a stuck client relies on
// the OS-level keepalive and the inactivity timers to eventually release
// that goroutine). Adapted from the teacher's PROXY-protocol
// listener, trimmed to the single tuning knob this spec needs.
type listener struct {
	*net.TCPListener
}

// newListener binds address. backlog is accepted but not applied: the
// listener always uses the platform's default listen backlog.
func newListener(address string, backlog int) (*listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var ctrlErr error
			if err := c.Control(func(fd uintptr) {
				ctrlErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return ctrlErr
		},
	}

	nl, err := lc.Listen(context.Background(), "tcp", address)
	if err != nil {
		return nil, err
	}

	_ = backlog // the kernel backlog is fixed at accept-queue creation time; Go's net package does not expose overriding it per-listener beyond SOMAXCONN

	return &listener{TCPListener: nl.(*net.TCPListener)}, nil
}

// Accept implements net.Listener, enabling TCP keepalive on every accepted
// connection so a half-open peer doesn't pin a goroutine forever.
func (l *listener) Accept() (net.Conn, error) {
	tc, err := l.AcceptTCP()
	if err != nil {
		return nil, err
	}

	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)

	return tc, nil
}
