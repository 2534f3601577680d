// Package middleware holds small, dependency-free request-observability
// helpers that sit beside the request lifecycle without needing to import
// the controller package itself — adapted from the teacher's gas chain
// (air/gases), generalized from an `air.Gas` wrapper to a plain function
// the caller invokes directly around its own read→dispatch→respond
// sequence (§9's design note rules out a callback-chained gas stack here).
package middleware

// AccessLogger is the subset of confd.Logger that access logging needs.
// Accepting an interface instead of the concrete type keeps this package
// free of an import cycle back to the root package.
type AccessLogger interface {
	Access(map[string]interface{})
}

// Entry is one completed request, independent of how it was read or
// dispatched.
type Entry struct {
	Method     string
	Path       string
	RemoteAddr string
	Status     int
	DurationMS int64
}

// LogAccess renders e as the fields the teacher's logging gas captured
// (method, path, status, timing) and hands them to logger.Access.
func LogAccess(logger AccessLogger, e Entry) {
	if logger == nil {
		return
	}

	logger.Access(map[string]interface{}{
		"method":      e.Method,
		"path":        e.Path,
		"remote_addr": e.RemoteAddr,
		"status":      e.Status,
		"duration_ms": e.DurationMS,
	})
}
