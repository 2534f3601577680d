package confd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Response is the HTTP/1.0 response the controller sends back on a
// connection: a status line followed by a pretty-printed JSON body (§4.E).
// Exactly one of conf or json is set.
type Response struct {
	status int
	reason string

	// conf is a tree node (GET hit), valid when isConf is true. json is a
	// short literal JSON value otherwise (GET miss, PUT/DELETE outcomes,
	// errors). A separate flag is needed because a resolved conf node can
	// legitimately be the JSON value null.
	conf   Value
	isConf bool
	json   interface{}
}

// statusText mirrors the handful of reason phrases this controller ever
// emits (§6: 200, 400, 404, 405, 500).
var statusText = map[int]string{
	200: "OK",
	400: "Bad Request",
	404: "Not Found",
	405: "Method Not Allowed",
	500: "Internal Server Error",
}

func newConfResponse(status int, conf Value) *Response {
	return &Response{status: status, reason: statusText[status], conf: conf, isConf: true}
}

func newJSONResponse(status int, v interface{}) *Response {
	return &Response{status: status, reason: statusText[status], json: v}
}

func errorResponse(kind errKind) *Response {
	status, msg := errorStatus(kind)
	return newJSONResponse(status, map[string]string{"error": msg})
}

// errorStatus maps an errKind to its HTTP status and message (§7).
func errorStatus(kind errKind) (int, string) {
	switch kind {
	case errInvalidJSON:
		return 400, "Invalid JSON."
	case errPathNotFound:
		return 404, "Value doesn't exist."
	case errInvalidConfig:
		return 400, "Invalid configuration."
	case errMethodNotAllowed:
		return 405, "Invalid method."
	case errApplyRejected:
		return 500, "Failed to apply new configuration."
	case errResourceExhausted:
		fallthrough
	default:
		return 500, "Memory allocation failed."
	}
}

// write formats and flushes r to conn as HTTP/1.0 (§4.E). A send timeout
// applies and auto-resets on progress; on timeout or write error the
// connection is simply closed by the caller, silently (§4.E, §5).
func (resp *Response) write(conn net.Conn, timeout time.Duration) error {
	body, err := resp.body()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(conn)

	statusLine := fmt.Sprintf("HTTP/1.0 %d %s\r\n\r\n", resp.status, resp.reason)
	if err := writeAll(conn, bw, timeout, []byte(statusLine)); err != nil {
		return err
	}
	if err := writeAll(conn, bw, timeout, body); err != nil {
		return err
	}
	if err := writeAll(conn, bw, timeout, []byte("\r\n")); err != nil {
		return err
	}

	return bw.Flush()
}

// body renders the pretty-printed JSON body (§4.E: "human-readable
// indentation", unconditionally — unlike the teacher's WriteJSON, which
// only pretty-prints in debug mode).
func (resp *Response) body() ([]byte, error) {
	if resp.isConf {
		return json.MarshalIndent(resp.conf, "", "    ")
	}
	return json.MarshalIndent(resp.json, "", "    ")
}

// writeAll resets the deadline before each write so a slow-but-progressing
// client isn't penalized, then writes b in full.
func writeAll(conn net.Conn, bw *bufio.Writer, timeout time.Duration, b []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	_, err := bw.Write(b)
	return err
}
