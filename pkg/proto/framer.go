package proto

// Packet is one physical packet off the wire: a sequence byte and its
// payload. A payload exactly MaxPayloadLen bytes long is a fragment; the
// logical packet continues in the next packet carrying Seq+1.
type Packet struct {
	Seq     byte
	Payload []byte
}

// IsFragment reports whether Packet is a continuation fragment, i.e. the
// logical packet it belongs to is not yet complete.
func (p Packet) IsFragment() bool {
	return len(p.Payload) == MaxPayloadLen
}

// Framer turns a byte stream into a sequence of physical packets. It owns
// no socket; callers feed it bytes as they arrive (Write) and drain
// complete packets (Next). Feeding the same bytes in any split produces
// the same packet sequence as feeding them whole, since Framer only ever
// looks at bytes it has not yet consumed.
type Framer struct {
	buf []byte
}

// NewFramer returns an empty Framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Write appends newly received bytes to the framer's pending buffer.
func (f *Framer) Write(b []byte) {
	f.buf = append(f.buf, b...)
}

// Next extracts the next complete physical packet from the pending
// buffer. ok is false when fewer than a full packet is buffered; the
// bytes are retained for the next call, and err stays nil (a short read
// is Incomplete, not an error).
func (f *Framer) Next() (pkt Packet, ok bool, err error) {
	if len(f.buf) < 4 {
		return Packet{}, false, nil
	}
	length := int(GetUint24(f.buf))
	if len(f.buf) < 4+length {
		return Packet{}, false, nil
	}
	pkt = Packet{Seq: f.buf[3], Payload: f.buf[4 : 4+length]}
	f.buf = f.buf[4+length:]
	return pkt, true, nil
}

// Pending returns the number of unconsumed bytes currently buffered.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// AppendPacket appends the framed form of payload (a 3-byte length, a
// sequence byte, then the payload itself) to dst. Payloads longer than
// MaxPayloadLen must be pre-split by the caller; AppendPacket frames
// exactly one physical packet.
func AppendPacket(dst []byte, seq byte, payload []byte) []byte {
	dst = PutUint24(dst, uint32(len(payload)))
	dst = append(dst, seq)
	return append(dst, payload...)
}

// SplitPayload breaks a logical payload into the physical-packet chunks
// needed to frame it, each at most MaxPayloadLen bytes. A payload whose
// length is an exact multiple of MaxPayloadLen (including zero) always
// ends with one short (possibly empty) terminating chunk, so the receiver
// can tell the logical packet is complete.
func SplitPayload(payload []byte) [][]byte {
	var chunks [][]byte
	for len(payload) >= MaxPayloadLen {
		chunks = append(chunks, payload[:MaxPayloadLen])
		payload = payload[MaxPayloadLen:]
	}
	return append(chunks, payload)
}
