package confd

import (
	"bytes"
	"io"
	"math"
	"net"
	"strconv"
	"strings"
	"time"
)

// initialHeadBufSize is the fixed buffer the head phase reads into. It
// never grows; a head that doesn't fit is malformed (§4.B).
const initialHeadBufSize = 1024

// maxContentLength is the platform size limit a Content-Length value may
// not exceed (§4.B). math.MaxInt32 keeps this portable across 32- and
// 64-bit builds without reaching for a build-tagged platform constant.
const maxContentLength = math.MaxInt32

// errMalformedRequest causes the connection to close without a response
// (§4.B, §7).
var errMalformedRequest = newError(0, "malformed request")

// readRequest drives r through READ_HEAD and READ_BODY until it reaches
// DONE or an error forces CLOSED. It is the HTTP Request Reader of §4.B,
// re-expressed as a linear read→dispatch sequence per §9's design note
// rather than as literal callback-driven I/O.
func readRequest(conn net.Conn, timeout time.Duration) (*Request, error) {
	r := newRequest(conn)

	if err := r.readHead(timeout); err != nil {
		r.state = stateClosed
		return nil, err
	}

	if err := r.readBody(timeout); err != nil {
		r.state = stateClosed
		return nil, err
	}

	r.state = stateDone
	return r, nil
}

// readHead accumulates bytes into the fixed head buffer until the request
// line and headers are fully present, then parses them.
func (r *Request) readHead(timeout time.Duration) error {
	for {
		headEnd, ok := findHeadEnd(r.buf[:r.used])
		if ok {
			return r.parseHead(headEnd)
		}

		if r.used >= len(r.buf) {
			return errorf(0, "too long request headers")
		}

		if err := r.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}

		n, err := r.conn.Read(r.buf[r.used:])
		if n > 0 {
			r.used += n
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrUnexpectedEOF
		}
	}
}

// findHeadEnd locates the blank line terminating the header block. It
// tolerates both CRLF and bare LF line endings, per the "permissive
// HTTP/1.x syntax" of §4.B.
func findHeadEnd(b []byte) (int, bool) {
	if i := bytes.Index(b, []byte("\r\n\r\n")); i >= 0 {
		return i + 4, true
	}
	if i := bytes.Index(b, []byte("\n\n")); i >= 0 {
		return i + 2, true
	}
	return 0, false
}

// parseHead parses the request line and header fields out of
// r.buf[:headEnd] and extracts Content-Length, the only header the reader
// interprets semantically (§4.B).
func (r *Request) parseHead(headEnd int) error {
	head := string(r.buf[:headEnd])
	head = strings.TrimRight(head, "\r\n")
	lines := strings.FieldsFunc(head, func(c rune) bool { return c == '\n' })

	if len(lines) == 0 {
		return errMalformedRequest
	}

	requestLine := strings.TrimRight(lines[0], "\r")
	fields := strings.Fields(requestLine)
	if len(fields) < 2 {
		return errMalformedRequest
	}
	r.method = fields[0]
	r.path = fields[1]

	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue // unknown/malformed field: ignored, not fatal (§4.B)
		}
		r.headers.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if cl := r.headers.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n <= 0 || n > maxContentLength {
			return errorf(0, "invalid Content-Length: %q", cl)
		}
		r.contentLength = n
		r.bodyHasLength = true
	} else if r.method == "PUT" {
		// A PUT always carries a JSON body; without a declared length
		// there is nothing to read (§9 Open Question).
		return errorf(0, "missing Content-Length for PUT")
	}

	r.bodyStart = headEnd
	return nil
}

// readBody completes the body once its length is known. Bytes already
// pre-read past the head boundary sit in r.buf[r.bodyStart:r.used];
// readBody grows the buffer only if the declared Content-Length won't fit
// in what's already allocated (§4.B).
func (r *Request) readBody(timeout time.Duration) error {
	bodyWant := int(r.contentLength)
	if bodyWant == 0 {
		return nil
	}

	need := r.bodyStart + bodyWant
	if need <= r.used {
		// The pre-read from the head phase already covers the whole
		// body; nothing more to read (§4.B).
		return nil
	}

	if need > cap(r.buf) {
		grown := make([]byte, need)
		copy(grown, r.buf[:r.used])
		r.buf = grown
	} else {
		r.buf = r.buf[:need]
	}

	for r.used < need {
		if err := r.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}

		n, err := r.conn.Read(r.buf[r.used:need])
		if n > 0 {
			r.used += n
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrUnexpectedEOF
		}
	}

	return nil
}

// body returns the bytes of the request body, if any was read.
func (r *Request) body() []byte {
	if !r.bodyHasLength {
		return nil
	}
	end := r.bodyStart + int(r.contentLength)
	if end > r.used {
		end = r.used
	}
	return r.buf[r.bodyStart:end]
}
