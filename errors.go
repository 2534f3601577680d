package confd

import "fmt"

// errKind classifies a request-scoped failure so the handler can pick the
// right status line and body without re-deriving it from an error string.
type errKind uint8

const (
	errNone errKind = iota
	errInvalidJSON
	errPathNotFound
	errInvalidConfig
	errMethodNotAllowed
	errResourceExhausted
	errApplyRejected
)

// controllerError is a tagged, request-scoped error. It never crosses a
// connection boundary as a panic; handlers translate its kind into a
// response via errorResponse.
type controllerError struct {
	kind errKind
	msg  string
}

func (e *controllerError) Error() string {
	return e.msg
}

func newError(kind errKind, msg string) *controllerError {
	return &controllerError{kind: kind, msg: msg}
}

func errorf(kind errKind, format string, args ...interface{}) *controllerError {
	return &controllerError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
