package confd

import "encoding/json"

// handle dispatches a fully-read Request to the right operation (§4.C) and
// returns the Response to write back. It never returns nil.
func (c *Controller) handle(r *Request) *Response {
	path := normalizePath(cleanPath(r.path))
	segments := splitPath(path)

	switch r.method {
	case "GET":
		return c.handleGet(segments)
	case "PUT":
		return c.handlePut(r, segments)
	case "DELETE":
		return c.handleDelete(r, segments)
	default:
		return errorResponse(errMethodNotAllowed)
	}
}

// handleGet resolves segments against the current snapshot and returns what
// it finds (§4.C).
func (c *Controller) handleGet(segments []string) *Response {
	snap := c.Store.currentSnapshot()

	val, ok := resolve(snap.root, segments)
	if !ok {
		return errorResponse(errPathNotFound)
	}
	return newConfResponse(200, val)
}

// handlePut decodes the request body, compiles and validates a candidate
// tree, and hands it to the Serializer (§4.C, §4.D).
func (c *Controller) handlePut(r *Request, segments []string) *Response {
	var newValue Value
	if err := json.Unmarshal(r.body(), &newValue); err != nil {
		return errorResponse(errInvalidJSON)
	}

	return c.applyEdit(r, segments, newValue, false)
}

// handleDelete compiles and validates the tree with the addressed node
// removed, then hands it to the Serializer (§4.C, §4.D). A root path is
// valid here too: the candidate is the empty object {}, built by the
// Compiler's own root-delete case.
func (c *Controller) handleDelete(r *Request, segments []string) *Response {
	return c.applyEdit(r, segments, nil, true)
}

// applyEdit builds the candidate root via the Compiler, validates it, and
// blocks on the Serializer's verdict.
func (c *Controller) applyEdit(r *Request, segments []string, newValue Value, isDelete bool) *Response {
	snap := c.Store.currentSnapshot()

	candidateRoot, err := c.Compiler.Compile(snap.root, segments, newValue, isDelete)
	if err != nil {
		if ce, ok := err.(*controllerError); ok && ce.kind == errPathNotFound {
			return errorResponse(errPathNotFound)
		}
		return errorResponse(errInvalidConfig)
	}

	if err := c.Validator.Validate(candidateRoot); err != nil {
		return errorResponse(errInvalidConfig)
	}

	r.candidate = &snapshot{root: candidateRoot, arena: newArena(candidateRoot)}
	r.resultCh = make(chan *Response, 1)

	c.Serializer.submit(r)
	return r.awaitResult()
}
