package proto

import (
	"bufio"
	"io"
	"net"

	"github.com/dbgateway/mysqlwire/internal/errors"
)

// ErrSequenceMismatch signals a packet arrived out of the expected
// sequence order, which the protocol never permits.
var ErrSequenceMismatch = errors.New("proto: packet sequence mismatch")

// PacketConn drives one side of a MySQL connection over a net.Conn. It
// reads and writes whole logical packets (coalescing/splitting
// MaxPayloadLen fragments itself) and tracks the sequence byte, the only
// state the framing layer needs beyond the socket. A PacketConn is driven
// by a single goroutine for the lifetime of the connection; it holds no
// lock because nothing else touches it concurrently.
type PacketConn struct {
	conn net.Conn
	br   *bufio.Reader

	seq byte

	inBytes  uint64
	outBytes uint64
}

// NewPacketConn wraps conn for packet-level I/O.
func NewPacketConn(conn net.Conn) *PacketConn {
	return &PacketConn{conn: conn, br: bufio.NewReaderSize(conn, 16*1024)}
}

// ResetSequence resets the sequence counter, as required before each new
// command is submitted.
func (c *PacketConn) ResetSequence() {
	c.seq = 0
}

// SetSequence forces the next packet's sequence byte, used by the
// connection-reuse protocol to normalize the response to COM_CHANGE_USER.
func (c *PacketConn) SetSequence(seq byte) {
	c.seq = seq
}

// Sequence returns the sequence byte the next read or write will use.
func (c *PacketConn) Sequence() byte {
	return c.seq
}

// ReadPacket reads one logical packet, transparently coalescing
// MaxPayloadLen continuation fragments into a single payload.
func (c *PacketConn) ReadPacket() ([]byte, error) {
	var payload []byte
	for {
		header := make([]byte, 4)
		if _, err := io.ReadFull(c.br, header); err != nil {
			return nil, errors.WithStack(err)
		}
		length := int(GetUint24(header))
		seq := header[3]
		if seq != c.seq {
			return nil, errors.Wrapf(ErrSequenceMismatch, "got %d want %d", seq, c.seq)
		}
		c.seq++

		chunk := make([]byte, length)
		if length > 0 {
			if _, err := io.ReadFull(c.br, chunk); err != nil {
				return nil, errors.WithStack(err)
			}
		}
		c.inBytes += uint64(4 + length)
		payload = append(payload, chunk...)
		if length < MaxPayloadLen {
			return payload, nil
		}
	}
}

// WritePacket frames and writes payload, splitting it into MaxPayloadLen
// chunks if necessary, and advances the sequence counter once per chunk.
func (c *PacketConn) WritePacket(payload []byte) error {
	for _, chunk := range SplitPayload(payload) {
		buf := AppendPacket(make([]byte, 0, 4+len(chunk)), c.seq, chunk)
		c.seq++
		if _, err := c.conn.Write(buf); err != nil {
			return errors.WithStack(err)
		}
		c.outBytes += uint64(len(buf))
	}
	return nil
}

// InBytes returns the total payload+header bytes read so far.
func (c *PacketConn) InBytes() uint64 { return c.inBytes }

// OutBytes returns the total payload+header bytes written so far.
func (c *PacketConn) OutBytes() uint64 { return c.outBytes }

// LocalAddr returns the underlying connection's local address.
func (c *PacketConn) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// RemoteAddr returns the underlying connection's remote address.
func (c *PacketConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Conn exposes the wrapped net.Conn, e.g. so a caller can upgrade it to
// TLS and rewrap it in a fresh PacketConn with the sequence reset.
func (c *PacketConn) Conn() net.Conn { return c.conn }

// Close closes the underlying connection.
func (c *PacketConn) Close() error {
	return errors.WithStack(c.conn.Close())
}
