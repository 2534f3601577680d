//go:build !unix

package confd

import (
	"net"
	"time"
)

// listener is the non-unix fallback: same keepalive behavior as the unix
// build, without the SO_REUSEADDR tuning (golang.org/x/sys/unix only
// targets unix-family platforms).
type listener struct {
	*net.TCPListener
}

func newListener(address string, backlog int) (*listener, error) {
	_ = backlog

	nl, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	return &listener{TCPListener: nl.(*net.TCPListener)}, nil
}

func (l *listener) Accept() (net.Conn, error) {
	tc, err := l.AcceptTCP()
	if err != nil {
		return nil, err
	}

	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)

	return tc, nil
}
