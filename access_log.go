package confd

import (
	"time"

	"github.com/aofei/confd/middleware"
)

// logAccess records one completed request via the middleware package's
// access-log formatter.
func (c *Controller) logAccess(req *Request, resp *Response) {
	middleware.LogAccess(c.Logger, middleware.Entry{
		Method:     req.method,
		Path:       req.path,
		RemoteAddr: req.conn.RemoteAddr().String(),
		Status:     resp.status,
		DurationMS: time.Since(req.startedAt).Milliseconds(),
	})
}
