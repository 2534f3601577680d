package confd

import (
	"net"
)

// serve runs the accept loop: one goroutine per connection, each driven
// through read→dispatch→respond to completion before the connection is
// closed (§4.E, §9). It returns when l is closed.
func (c *Controller) serve(l net.Listener) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-c.closing:
				return nil
			default:
				return err
			}
		}

		go c.serveConn(conn)
	}
}

// serveConn drives a single connection through the HTTP/1.0 request cycle.
// Anything that escapes as a panic here is contained to this goroutine and
// closes only this connection (adapted from the teacher's per-request
// recovery gas, generalized to a bare connection lifecycle).
func (c *Controller) serveConn(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if rec := recover(); rec != nil {
			c.Logger.Errorf("panic serving connection: %v", rec)
		}
	}()

	timeout := c.Config.InactivityTimeout

	req, err := readRequest(conn, timeout)
	if err != nil {
		// A malformed or abandoned request gets no response (§4.B, §7);
		// the connection is simply closed.
		return
	}

	resp := c.handle(req)

	c.logAccess(req, resp)

	resp.write(conn, timeout)
}
