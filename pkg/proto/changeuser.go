package proto

import (
	"github.com/siddontang/go/hack"

	"github.com/dbgateway/mysqlwire/internal/errors"
)

// ErrTruncatedChangeUser is returned when a COM_CHANGE_USER payload ends
// before its fixed fields are fully present.
var ErrTruncatedChangeUser = errors.New("proto: truncated COM_CHANGE_USER payload")

// ChangeUser is the decoded/encoded form of a COM_CHANGE_USER payload.
type ChangeUser struct {
	Username string
	Scramble []byte // 20 bytes, or empty
	Database string
	Charset  uint16
	Plugin   string
	Attrs    []byte
}

// EncodeChangeUser builds a COM_CHANGE_USER payload.
func EncodeChangeUser(cu ChangeUser) []byte {
	buf := make([]byte, 0, 64+len(cu.Username)+len(cu.Database))
	buf = append(buf, byte(ComChangeUser))
	buf = append(buf, []byte(cu.Username)...)
	buf = append(buf, 0)
	buf = append(buf, byte(len(cu.Scramble)))
	buf = append(buf, cu.Scramble...)
	buf = append(buf, []byte(cu.Database)...)
	buf = append(buf, 0)
	buf = PutUint16(buf, cu.Charset)
	buf = append(buf, []byte(cu.Plugin)...)
	buf = append(buf, 0)
	buf = append(buf, cu.Attrs...)
	return buf
}

// ParseChangeUser decodes a COM_CHANGE_USER payload.
func ParseChangeUser(payload []byte) (ChangeUser, error) {
	var cu ChangeUser
	if len(payload) < 1 || Command(payload[0]) != ComChangeUser {
		return cu, errors.WithStack(ErrTruncatedChangeUser)
	}
	p := payload[1:]

	user, n, ok := ReadNullTermStr(p)
	if !ok {
		return cu, errors.WithStack(ErrTruncatedChangeUser)
	}
	cu.Username = hack.String(user)
	p = p[n:]

	if len(p) < 1 {
		return cu, errors.WithStack(ErrTruncatedChangeUser)
	}
	scrambleLen := int(p[0])
	p = p[1:]
	if len(p) < scrambleLen {
		return cu, errors.WithStack(ErrTruncatedChangeUser)
	}
	cu.Scramble = append([]byte{}, p[:scrambleLen]...)
	p = p[scrambleLen:]

	db, n, ok := ReadNullTermStr(p)
	if !ok {
		return cu, errors.WithStack(ErrTruncatedChangeUser)
	}
	cu.Database = hack.String(db)
	p = p[n:]

	if len(p) >= 2 {
		cu.Charset = GetUint16(p)
		p = p[2:]
	}
	if len(p) > 0 {
		if plugin, n, ok := ReadNullTermStr(p); ok {
			cu.Plugin = string(plugin)
			p = p[n:]
		}
	}
	cu.Attrs = append([]byte{}, p...)
	return cu, nil
}

// EncodeQuit returns the 1-byte COM_QUIT payload; whoever frames it adds
// the 4-byte header, giving the 5-byte packet on the wire.
func EncodeQuit() []byte {
	return []byte{byte(ComQuit)}
}
