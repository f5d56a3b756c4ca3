package proto

import (
	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"github.com/siddontang/go/hack"

	"github.com/dbgateway/mysqlwire/internal/errors"
)

// IsOK reports whether payload is an OK packet under the rule the engine
// uses to disambiguate it from a lenenc-int-leading row: leading byte
// 0x00 and at least 7 bytes long.
func IsOK(payload []byte) bool {
	return len(payload) >= 7 && payload[0] == byte(HeaderOK)
}

// IsErr reports whether payload is an ERR packet.
func IsErr(payload []byte) bool {
	return len(payload) >= 1 && payload[0] == byte(HeaderErr)
}

// IsEOF reports whether payload is an EOF packet: leading byte 0xFE and
// shorter than 9 bytes (a 0xFE lead with a large length is a lenenc-int,
// not EOF).
func IsEOF(payload []byte) bool {
	return len(payload) >= 1 && payload[0] == byte(HeaderEOF) && len(payload) < 9
}

// IsLocalInfile reports whether payload is a LOCAL INFILE request.
func IsLocalInfile(payload []byte) bool {
	return len(payload) >= 1 && payload[0] == byte(HeaderLocalInfile)
}

// OKPacket is the decoded form of an OK packet's fixed fields. Tracking is
// left as a raw slice; Reply.extractSessionState (in package reply) parses it.
type OKPacket struct {
	AffectedRows   uint64
	LastInsertID   uint64
	Status         Status
	Warnings       uint16
	Info           []byte
	SessionTrack   []byte // present only when Status&ServerSessionStateChanged
}

var errTruncatedOK = errors.New("proto: truncated OK packet")

// ParseOK decodes an OK packet's fixed fields plus the trailing info
// string and, if present, the raw session-state tracking block.
func ParseOK(payload []byte) (OKPacket, error) {
	var ok OKPacket
	if !IsOK(payload) {
		return ok, errors.WithStack(errTruncatedOK)
	}
	p := payload[1:]

	v, n, valid := ReadLenencInt(p)
	if !valid {
		return ok, errors.WithStack(errTruncatedOK)
	}
	ok.AffectedRows = v
	p = p[n:]

	v, n, valid = ReadLenencInt(p)
	if !valid {
		return ok, errors.WithStack(errTruncatedOK)
	}
	ok.LastInsertID = v
	p = p[n:]

	if len(p) < 4 {
		return ok, errors.WithStack(errTruncatedOK)
	}
	ok.Status = Status(GetUint16(p))
	p = p[2:]
	ok.Warnings = GetUint16(p)
	p = p[2:]

	if len(p) == 0 {
		return ok, nil
	}
	info, n, valid := ReadLenencStr(p)
	if !valid {
		// Older servers send a raw (non-lenenc) trailing info string;
		// treat whatever remains as info and stop.
		ok.Info = p
		return ok, nil
	}
	ok.Info = info
	p = p[n:]

	if ok.Status&ServerSessionStateChanged != 0 && len(p) > 0 {
		block, n, valid := ReadLenencStr(p)
		if valid {
			ok.SessionTrack = block
			p = p[n:]
		}
	}
	_ = p
	return ok, nil
}

// ParseErr decodes an ERR packet into a *mysql.MyError carrying the
// server's error code, SQLSTATE and message.
func ParseErr(payload []byte) (*gomysql.MyError, error) {
	if !IsErr(payload) || len(payload) < 9 {
		return nil, errors.WithStack(errTruncatedOK)
	}
	code := GetUint16(payload[1:])
	// payload[3] is the '#' marker; sqlstate is the 5 bytes after it.
	state := hack.String(payload[4:9])
	message := hack.String(payload[9:])
	return &gomysql.MyError{Code: code, State: state, Message: message}, nil
}

// EOFPacket is the decoded form of a 5-byte EOF packet.
type EOFPacket struct {
	Warnings uint16
	Status   Status
}

// ParseEOF decodes a 5-byte EOF packet.
func ParseEOF(payload []byte) (EOFPacket, error) {
	if !IsEOF(payload) || len(payload) != 5 {
		return EOFPacket{}, errors.WithStack(errTruncatedOK)
	}
	return EOFPacket{
		Warnings: GetUint16(payload[1:]),
		Status:   Status(GetUint16(payload[3:])),
	}, nil
}

// SyntheticError builds the engine's own (code, sqlstate, message) error
// for transport faults and cancellations that never reached the wire.
func SyntheticError(code uint16, state, message string) *gomysql.MyError {
	return &gomysql.MyError{Code: code, State: state, Message: message}
}

// Synthetic error codes the engine raises locally, never sent by a server.
// Both faults use 2003 (CR_CONN_HOST_ERROR) with SQLSTATE HY000; the
// message tells them apart.
const (
	ErrSyntheticProtocol = 2003
	ErrSyntheticLostConn = 2003
)

const sqlStateGeneral = "HY000"

// ErrProtocolViolation builds the synthetic error for an impossible packet
// in the current state. The framer and reply machine themselves return Go
// errors; this constructor is for the caller that reports the fault.
func ErrProtocolViolation() *gomysql.MyError {
	return SyntheticError(ErrSyntheticProtocol, sqlStateGeneral, "Protocol error")
}

// ErrLostConnection builds the synthetic error for a backend socket that
// closes or errors before the current reply reached Done.
func ErrLostConnection() *gomysql.MyError {
	return SyntheticError(ErrSyntheticLostConn, sqlStateGeneral, "Lost connection")
}
