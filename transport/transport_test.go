package transport

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPTransportSendFramesAnEnvelope(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	tr, err := DialTCP(ln.Addr().String())
	require.NoError(t, err)
	defer tr.Close()

	serverConn := <-accepted
	defer serverConn.Close()

	require.NoError(t, tr.Send([]byte(`{"listeners":{}}`)))

	serverConn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var lenBuf [4]byte
	_, err = readFull(serverConn, lenBuf[:])
	require.NoError(t, err)

	n := binary.BigEndian.Uint32(lenBuf[:])
	frame := make([]byte, n)
	_, err = readFull(serverConn, frame)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, proto.Unmarshal(frame, &env))
	assert.Equal(t, EnvelopeTypeData, env.Type)
	assert.Equal(t, []byte(`{"listeners":{}}`), env.Payload)
	assert.Equal(t, uint64(1), env.Seq)
}

func TestTCPTransportRepliesDeliversPayload(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	tr, err := DialTCP(ln.Addr().String())
	require.NoError(t, err)
	defer tr.Close()

	serverConn := <-accepted
	defer serverConn.Close()

	env := &Envelope{Type: EnvelopeTypeData, Seq: 1, Payload: []byte(`{"success":true}`)}
	b, err := proto.Marshal(env)
	require.NoError(t, err)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	_, err = serverConn.Write(append(lenBuf[:], b...))
	require.NoError(t, err)

	select {
	case reply := <-tr.Replies():
		assert.Equal(t, []byte(`{"success":true}`), reply)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply")
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
