package confd

import (
	"net"
	"time"
)

// readerState is the state of the per-connection HTTP request reader
// (§4.B).
type readerState uint8

const (
	stateReadHead readerState = iota
	stateReadBody
	stateDone
	stateClosed
)

// Request is the controller's view of a single in-flight HTTP request
// (entity R, §3). It is created when a connection is accepted and lives
// until its response has been fully written, or — if it was handed to the
// Serializer — until its turn to apply and the subsequent router reply.
type Request struct {
	conn      net.Conn
	startedAt time.Time

	state         readerState
	method        string
	path          string
	headers       Headers
	contentLength int64
	bodyHasLength bool

	buf       []byte // accumulated head+body bytes
	used      int    // bytes of buf that are valid
	bodyStart int    // offset into buf where the body begins

	// candidate is populated for PUT/DELETE once the candidate tree has
	// been built, validated, and is ready for the Serializer.
	candidate *snapshot

	// result is not set by the current request path: the connection
	// goroutine writes back the Response returned by Controller.handle.
	result *Response

	// resultCh is how the Serializer's actor goroutine hands a finished
	// Response back to the connection goroutine that is blocked waiting
	// on it. Buffered 1 so the actor never blocks on a slow reader.
	resultCh chan *Response

	// next links R onto the Serializer's waiting FIFO (§4.D). Owned
	// exclusively by the Serializer's actor goroutine.
	next *Request
}

// newRequest returns a Request reading from conn.
func newRequest(conn net.Conn) *Request {
	return &Request{
		conn:      conn,
		startedAt: time.Now(),
		state:     stateReadHead,
		headers:   Headers{},
		buf:       make([]byte, 1024),
	}
}

// awaitResult blocks until the Serializer has produced a Response for r.
func (r *Request) awaitResult() *Response {
	return <-r.resultCh
}
