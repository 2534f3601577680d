package confd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(ft *fakeTransport) *Controller {
	c := &Controller{
		Config:    NewConfig(),
		Store:     newStore(),
		Compiler:  defaultCompiler{},
		Validator: defaultValidator{},
		dedupe:    newDedupeCache(1 << 20),
	}
	c.Config.LoggerEnabled = false
	c.Logger = newLogger(c)
	c.Serializer = newSerializer(c.Store, ft, c.dedupe, c.Logger)
	go c.Serializer.run()
	return c
}

func newTestRequestWithMethod(method, path, body string) *Request {
	return &Request{
		method:  method,
		path:    path,
		headers: Headers{},
		buf:     []byte(body),
		used:    len(body),
	}
}

// S1 — Initial state.
func TestScenarioS1InitialState(t *testing.T) {
	c := newTestController(newFakeTransport())

	resp := c.handleGet(nil)
	assert.Equal(t, 200, resp.status)
	assert.Equal(t, emptyTree(), resp.conf)
}

// S2 — Successful replace.
func TestScenarioS2SuccessfulReplace(t *testing.T) {
	ft := newFakeTransport()
	c := newTestController(ft)

	req := newTestRequestWithMethod("PUT", "/", `{"listeners":{"*:80":{"application":"app"}},"applications":{"app":{"type":"external"}}}`)
	req.bodyHasLength = true
	req.contentLength = int64(len(req.buf))

	go func() {
		<-ft.sent
		ft.replies <- []byte("OK")
	}()

	resp := c.handle(req)
	require.Equal(t, 200, resp.status)

	getResp := c.handleGet([]string{"listeners", "*:80", "application"})
	assert.Equal(t, 200, getResp.status)
	assert.Equal(t, "app", getResp.conf)
}

// S3 — Invalid JSON leaves state untouched.
func TestScenarioS3InvalidJSON(t *testing.T) {
	c := newTestController(newFakeTransport())
	before := c.Store.currentSnapshot().root

	req := newTestRequestWithMethod("PUT", "/", `{ not json`)
	req.bodyHasLength = true
	req.contentLength = int64(len(req.buf))

	resp := c.handle(req)
	assert.Equal(t, 400, resp.status)
	assert.Equal(t, before, c.Store.currentSnapshot().root)
}

// S4 — Router rejects an otherwise well-formed apply.
func TestScenarioS4RouterRejects(t *testing.T) {
	ft := newFakeTransport()
	c := newTestController(ft)

	// Seed S2's state directly on the store rather than re-running the
	// PUT, since only the rejection path is under test here.
	seedRoot := map[string]interface{}{
		"listeners":    map[string]interface{}{"*:80": map[string]interface{}{"application": "app"}},
		"applications": map[string]interface{}{"app": map[string]interface{}{"type": "external"}},
	}
	c.Store.current.Store(&snapshot{root: seedRoot, arena: newArena(seedRoot)})

	req := newTestRequestWithMethod("PUT", "/applications/app", `{"type":"external"}`)
	req.bodyHasLength = true
	req.contentLength = int64(len(req.buf))

	go func() {
		<-ft.sent
		ft.replies <- []byte("rejected: nope")
	}()

	resp := c.handle(req)
	assert.Equal(t, 500, resp.status)

	getResp := c.handleGet([]string{"applications", "app", "type"})
	assert.Equal(t, "external", getResp.conf)
}

// S5 — Unknown path on DELETE; no router traffic.
func TestScenarioS5UnknownPathDelete(t *testing.T) {
	ft := newFakeTransport()
	c := newTestController(ft)

	req := newTestRequestWithMethod("DELETE", "/applications/does-not-exist", "")

	resp := c.handle(req)
	assert.Equal(t, 404, resp.status)

	select {
	case <-ft.sent:
		t.Fatal("no router message should have been sent")
	default:
	}
}

// S6 — Unsupported method.
func TestScenarioS6MethodNotAllowed(t *testing.T) {
	c := newTestController(newFakeTransport())

	req := newTestRequestWithMethod("POST", "/", "")
	resp := c.handle(req)
	assert.Equal(t, 405, resp.status)
}

// DELETE on the root path replaces the whole tree with the empty object {}
// rather than being rejected as an unknown path (§4.C).
func TestDeleteRootReplacesWithEmptyTree(t *testing.T) {
	ft := newFakeTransport()
	c := newTestController(ft)

	seedRoot := map[string]interface{}{
		"listeners":    map[string]interface{}{"*:80": map[string]interface{}{"application": "app"}},
		"applications": map[string]interface{}{"app": map[string]interface{}{"type": "external"}},
	}
	c.Store.current.Store(&snapshot{root: seedRoot, arena: newArena(seedRoot)})

	req := newTestRequestWithMethod("DELETE", "/", "")

	go func() {
		<-ft.sent
		ft.replies <- []byte("OK")
	}()

	resp := c.handle(req)
	require.Equal(t, 200, resp.status)

	getResp := c.handleGet(nil)
	assert.Equal(t, 200, getResp.status)
	assert.Equal(t, map[string]interface{}{}, getResp.conf)
}
