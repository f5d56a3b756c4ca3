package proto

import "github.com/dbgateway/mysqlwire/internal/errors"

// ErrBadProtocolVersion is returned when the Initial Handshake's first
// byte is not 0x0a (protocol v10); the engine speaks nothing older.
var ErrBadProtocolVersion = errors.New("proto: unsupported handshake protocol version")

// ErrBadScrambleLen is returned when the server declares an auth-data
// length outside the 9..20 range the engine accepts.
var ErrBadScrambleLen = errors.New("proto: invalid scramble length")

const scrambleLen = 20

// Handshake is the decoded form of the server's Initial Handshake v10
// packet, the subset of fields the engine needs to drive authentication.
type Handshake struct {
	ServerVersion string
	ThreadID      uint32
	Scramble      [scrambleLen]byte
	Capabilities  Capability
	Charset       byte
	Status        Status
	AuthPlugin    string
}

// DecodeHandshake parses the server's Initial Handshake v10 payload.
func DecodeHandshake(payload []byte) (Handshake, error) {
	var hs Handshake
	if len(payload) < 1 || payload[0] != 0x0a {
		return hs, errors.WithStack(ErrBadProtocolVersion)
	}
	p := payload[1:]

	version, n, ok := ReadNullTermStr(p)
	if !ok {
		return hs, errors.WithStack(errProtoTruncated)
	}
	hs.ServerVersion = string(version)
	p = p[n:]

	if len(p) < 4+8+1+2+1+2+2+1+10 {
		return hs, errors.WithStack(errProtoTruncated)
	}
	hs.ThreadID = GetUint32(p)
	p = p[4:]

	var scramble1 [8]byte
	copy(scramble1[:], p[:8])
	p = p[8:]
	p = p[1:] // filler

	capLo := GetUint16(p)
	p = p[2:]
	hs.Charset = p[0]
	p = p[1:]
	hs.Status = Status(GetUint16(p))
	p = p[2:]
	capHi := GetUint16(p)
	p = p[2:]
	hs.Capabilities = Capability(capLo) | Capability(capHi)<<16

	authDataLen := int(p[0])
	p = p[1:]
	p = p[10:] // reserved

	rest := 13
	if authDataLen > 0 {
		if authDataLen <= 8 || authDataLen > scrambleLen {
			return hs, errors.WithStack(ErrBadScrambleLen)
		}
		if r := authDataLen - 8; r > rest {
			rest = r
		}
	}
	// The trailing scramble bytes are NUL-terminated in practice; take the
	// first 12 regardless so the concatenated scramble is always 20 bytes.
	// rest is always >= 13 here, so the len(p) check below guarantees the
	// 12-byte slice below never goes out of bounds.
	if len(p) < rest {
		return hs, errors.WithStack(errProtoTruncated)
	}
	var scramble2 [12]byte
	copy(scramble2[:], p[:12])
	copy(hs.Scramble[:8], scramble1[:])
	copy(hs.Scramble[8:], scramble2[:])
	p = p[rest:]

	if hs.Capabilities&ClientPluginAuth != 0 {
		plugin, _, ok := ReadNullTermStr(p)
		if ok {
			hs.AuthPlugin = string(plugin)
		}
	}
	return hs, nil
}

var errProtoTruncated = errors.New("proto: truncated handshake payload")

// HandshakeResponseOpts configures EncodeHandshakeResponse.
type HandshakeResponseOpts struct {
	Capabilities Capability
	ExtendedCaps uint32 // MariaDB extended capability word, copied verbatim when set
	Charset      byte
	Username     string
	ScrambledPwd []byte // 20 bytes, or empty for "no password"
	Database     string
	AuthPlugin   string
	ConnectAttrs []byte // pre-encoded key/value blob, or nil
}

// EncodeHandshakeResponseStub builds the 32-byte pre-SSL stub: capability
// flags, max-packet-size and charset only, sent before the TLS handshake
// so the server can decide whether to require it.
func EncodeHandshakeResponseStub(caps Capability, charset byte) []byte {
	buf := make([]byte, 0, 32)
	buf = PutUint32(buf, uint32(caps))
	buf = PutUint32(buf, 16*1024*1024)
	buf = append(buf, charset)
	buf = append(buf, make([]byte, 23)...)
	return buf
}

// EncodeHandshakeResponse builds the full Handshake Response packet.
func EncodeHandshakeResponse(opts HandshakeResponseOpts) []byte {
	buf := make([]byte, 0, 128)
	buf = PutUint32(buf, uint32(opts.Capabilities))
	buf = PutUint32(buf, 16*1024*1024)
	buf = append(buf, opts.Charset)
	if opts.ExtendedCaps != 0 {
		buf = PutUint32(buf, opts.ExtendedCaps)
		buf = append(buf, make([]byte, 19)...)
	} else {
		buf = append(buf, make([]byte, 23)...)
	}
	buf = append(buf, []byte(opts.Username)...)
	buf = append(buf, 0)

	if len(opts.ScrambledPwd) == 0 {
		buf = append(buf, 0)
	} else {
		buf = append(buf, byte(len(opts.ScrambledPwd)))
		buf = append(buf, opts.ScrambledPwd...)
	}

	if opts.Capabilities&ClientConnectWithDB != 0 {
		buf = append(buf, []byte(opts.Database)...)
		buf = append(buf, 0)
	}
	if opts.Capabilities&ClientPluginAuth != 0 {
		buf = append(buf, []byte(opts.AuthPlugin)...)
		buf = append(buf, 0)
	}
	if opts.Capabilities&ClientConnectAttrs != 0 && len(opts.ConnectAttrs) > 0 {
		buf = append(buf, opts.ConnectAttrs...)
	}
	return buf
}
