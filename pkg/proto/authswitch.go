package proto

import "github.com/dbgateway/mysqlwire/internal/errors"

// ErrTruncatedAuthSwitch is returned when an AuthSwitchRequest payload
// ends before its plugin name is fully present.
var ErrTruncatedAuthSwitch = errors.New("proto: truncated AuthSwitchRequest payload")

// AuthSwitchRequest is the decoded form of a server AuthSwitchRequest:
// 0xFE, a NUL-terminated plugin name, then the new scramble (the
// remainder of the packet, not length-prefixed).
type AuthSwitchRequest struct {
	Plugin string
	Data   []byte
}

// DecodeAuthSwitchRequest decodes payload as an AuthSwitchRequest. The
// caller is responsible for having already ruled out IsEOF/IsOK/IsErr;
// a leading 0xFE byte is ambiguous between EOF and AuthSwitchRequest and
// is resolved by the calling state machine via connection phase, not by
// this decoder.
func DecodeAuthSwitchRequest(payload []byte) (AuthSwitchRequest, error) {
	if len(payload) < 1 || payload[0] != byte(HeaderAuthSwitch) {
		return AuthSwitchRequest{}, errors.WithStack(ErrTruncatedAuthSwitch)
	}
	plugin, n, ok := ReadNullTermStr(payload[1:])
	if !ok {
		return AuthSwitchRequest{}, errors.WithStack(ErrTruncatedAuthSwitch)
	}
	return AuthSwitchRequest{Plugin: string(plugin), Data: payload[1+n:]}, nil
}
