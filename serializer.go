package confd

import (
	"bytes"

	"github.com/aofei/confd/transport"
)

// replyOK is the literal accept payload the router sends back for a
// successful apply (§4.D, §6). Anything else is a rejection.
var replyOK = []byte("OK")

// Serializer is the Apply Serializer of §4.D: a single actor goroutine that
// owns the current in-flight apply and a FIFO of requests waiting for their
// turn. At most one candidate is ever in flight to the router at a time
// (§5, §8 property 1); everything else queues.
//
// All state below is touched only from run's goroutine. Other goroutines
// talk to it exclusively through submitCh and the transport's reply
// channel.
type Serializer struct {
	store     *Store
	transport transport.Transport
	dedupe    *dedupeCache
	logger    *Logger

	submitCh chan *Request

	current      *Request
	waitingHead  *Request
	waitingTail  *Request
}

// newSerializer wires a Serializer to its collaborators. t may be nil in
// tests that never expect an apply to reach the router.
func newSerializer(store *Store, t transport.Transport, dedupe *dedupeCache, logger *Logger) *Serializer {
	return &Serializer{
		store:     store,
		transport: t,
		dedupe:    dedupe,
		logger:    logger,
		submitCh:  make(chan *Request, 64),
	}
}

// submit hands r to the Serializer and returns immediately; the caller
// learns the outcome via r.awaitResult().
func (s *Serializer) submit(r *Request) {
	s.submitCh <- r
}

// run is the actor loop. It exits when submitCh is closed and no request is
// in flight or waiting, or when replies stop arriving because the
// transport closed (in which case the in-flight request, and everything
// still waiting, fails with errApplyRejected).
func (s *Serializer) run() {
	var replies <-chan []byte
	if s.transport != nil {
		replies = s.transport.Replies()
	}

	for {
		select {
		case r, ok := <-s.submitCh:
			if !ok {
				s.submitCh = nil
				continue
			}
			s.handleSubmit(r)

		case payload, ok := <-replies:
			if !ok {
				s.failAll()
				return
			}
			s.handleReply(payload)
		}

		if s.submitCh == nil && s.current == nil && s.waitingHead == nil {
			return
		}
	}
}

// handleSubmit enqueues r if an apply is already in flight, otherwise
// starts it immediately (§4.D).
func (s *Serializer) handleSubmit(r *Request) {
	if s.current != nil {
		s.enqueue(r)
		return
	}
	s.startApply(r)
}

// startApply encodes r's candidate and sends it to the router. A transport
// failure here is local — it never reaches the router — and is reported
// as errResourceExhausted, distinct from the router rejecting the apply.
func (s *Serializer) startApply(r *Request) {
	payload, err := s.dedupe.encode(r.candidate.root)
	if err != nil {
		r.resultCh <- errorResponse(errResourceExhausted)
		s.advance()
		return
	}

	if s.transport == nil {
		// No router transport: accept locally. Controller.Serve always
		// dials a router, so only a Serializer built directly with a nil
		// transport takes this path.
		s.store.swap(r.candidate)
		r.resultCh <- newJSONResponse(200, map[string]string{"success": "Reconfiguration done."})
		s.advance()
		return
	}

	if err := s.transport.Send(payload); err != nil {
		if s.logger != nil {
			s.logger.Errorf("router send failed: %v", err)
		}
		r.resultCh <- errorResponse(errResourceExhausted)
		s.advance()
		return
	}

	s.current = r
}

// handleReply processes the router's verdict on the in-flight apply
// (§4.D, §6). The payload is exactly the two bytes "OK" on accept; any other
// payload is a rejection (rollback).
func (s *Serializer) handleReply(payload []byte) {
	r := s.current
	s.current = nil

	if r == nil {
		// A stray reply with nothing in flight; nothing to attribute it
		// to, so it's dropped.
		return
	}

	if !bytes.Equal(payload, replyOK) {
		if s.logger != nil {
			s.logger.Errorf("router rejected apply: %s", payload)
		}
		r.resultCh <- errorResponse(errApplyRejected)
		s.advance()
		return
	}

	s.store.swap(r.candidate)
	r.resultCh <- newJSONResponse(200, map[string]string{"success": "Reconfiguration done."})
	s.advance()
}

// advance pulls the next waiting request, if any, and starts its apply.
// Called after every completed apply so the FIFO drains one at a time
// (§4.D, §8 property 3: strict ordering).
func (s *Serializer) advance() {
	if s.waitingHead == nil {
		return
	}

	r := s.waitingHead
	s.waitingHead = r.next
	if s.waitingHead == nil {
		s.waitingTail = nil
	}
	r.next = nil

	s.startApply(r)
}

func (s *Serializer) enqueue(r *Request) {
	if s.waitingTail == nil {
		s.waitingHead = r
		s.waitingTail = r
		return
	}
	s.waitingTail.next = r
	s.waitingTail = r
}

// failAll is invoked once if the router connection is lost: every request
// in flight or waiting fails cleanly rather than hanging forever.
func (s *Serializer) failAll() {
	if s.current != nil {
		s.current.resultCh <- errorResponse(errApplyRejected)
		s.current = nil
	}
	for r := s.waitingHead; r != nil; {
		next := r.next
		r.next = nil
		r.resultCh <- errorResponse(errApplyRejected)
		r = next
	}
	s.waitingHead = nil
	s.waitingTail = nil
}
