package transport

import (
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/golang/protobuf/proto"
)

// Transport is the Serializer's view of the router connection (§4.D, §6):
// send one payload, and consume exactly one reply per send, in order.
type Transport interface {
	// Send frames payload in a DATA envelope and writes it to the
	// router. An error here is a transport/allocation failure (§7:
	// ResourceExhausted), not a router-level rejection.
	Send(payload []byte) error

	// Replies yields one reply payload per accepted Send, in the same
	// order Send was called (§6, §8 property 2).
	Replies() <-chan []byte

	Close() error
}

// maxFrameSize bounds a single inbound frame so a misbehaving router can't
// make the controller allocate unboundedly.
const maxFrameSize = 64 << 20

// TCPTransport dials the router's configured address once and exchanges
// length-prefixed, protobuf-enveloped frames over that single connection.
type TCPTransport struct {
	conn net.Conn

	mu  sync.Mutex
	seq uint64

	replies chan []byte
}

// DialTCP connects to addr and starts the background reply reader.
func DialTCP(addr string) (*TCPTransport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	t := &TCPTransport{
		conn:    conn,
		replies: make(chan []byte, 16),
	}
	go t.readLoop()

	return t, nil
}

// Send implements Transport.
func (t *TCPTransport) Send(payload []byte) error {
	t.mu.Lock()
	t.seq++
	env := &Envelope{Type: EnvelopeTypeData, Seq: t.seq, Payload: payload}
	t.mu.Unlock()

	b, err := proto.Marshal(env)
	if err != nil {
		return err
	}

	frame := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(b)))
	copy(frame[4:], b)

	_, err = t.conn.Write(frame)
	return err
}

// Replies implements Transport.
func (t *TCPTransport) Replies() <-chan []byte { return t.replies }

// Close implements Transport.
func (t *TCPTransport) Close() error {
	return t.conn.Close()
}

// readLoop decodes inbound frames and forwards their payload, closing
// Replies when the connection ends.
func (t *TCPTransport) readLoop() {
	defer close(t.replies)

	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(t.conn, lenBuf[:]); err != nil {
			return
		}

		n := binary.BigEndian.Uint32(lenBuf[:])
		if n > maxFrameSize {
			return
		}

		buf := make([]byte, n)
		if _, err := io.ReadFull(t.conn, buf); err != nil {
			return
		}

		var env Envelope
		if err := proto.Unmarshal(buf, &env); err != nil {
			continue
		}

		t.replies <- env.Payload
	}
}
