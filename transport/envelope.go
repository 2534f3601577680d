// Package transport implements the controller's side of the router wire
// contract described in §6: a single DATA message carrying a JSON-encoded
// tree, and exactly one reply per message, consumed in order. The
// messaging transport itself is named in §1 as an external collaborator
// whose internal design is out of scope; this package is one concrete,
// replaceable implementation of it.
package transport

import "fmt"

// Envelope frames a router message: a type tag, a monotonic sequence
// number (for log correlation; the transport's own ordering guarantee is
// structural — see Send/Replies on Transport), and the payload. The JSON
// tree payload itself is untouched by this framing, matching §6's
// description of the outbound message.
//
// Envelope is hand-tagged for the legacy golang/protobuf reflection-based
// codec rather than generated by protoc: it is a three-field leaf message,
// and the struct-tag codec that library shipped before protoc-gen-go
// existed is exactly built for messages this small.
type Envelope struct {
	Type    string `protobuf:"bytes,1,opt,name=type"`
	Seq     uint64 `protobuf:"varint,2,opt,name=seq"`
	Payload []byte `protobuf:"bytes,3,opt,name=payload"`
}

func (e *Envelope) Reset()         { *e = Envelope{} }
func (e *Envelope) String() string { return fmt.Sprintf("%+v", *e) }
func (e *Envelope) ProtoMessage()  {}

// EnvelopeTypeData is the only envelope type the controller ever sends
// (§6: "a single DATA message").
const EnvelopeTypeData = "DATA"
