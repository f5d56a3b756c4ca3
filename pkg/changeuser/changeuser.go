// Package changeuser implements the connection-reuse protocol: reusing a
// pooled backend connection for a new session by issuing COM_CHANGE_USER
// with the original backend scramble, then replaying the client's
// pending query once the switch completes.
package changeuser

import (
	gomysql "github.com/go-mysql-org/go-mysql/mysql"

	"github.com/dbgateway/mysqlwire/internal/errors"
	"github.com/dbgateway/mysqlwire/pkg/auth"
	"github.com/dbgateway/mysqlwire/pkg/proto"
)

// ForcedSequence is the sequence number the final response to
// COM_CHANGE_USER is normalized to, independent of how many
// AuthSwitchRequest round trips preceded it.
const ForcedSequence = 0x03

// ErrUnexpectedPlugin is returned when the backend's AuthSwitchRequest
// names a plugin the session cannot satisfy.
var ErrUnexpectedPlugin = errors.New("changeuser: unexpected auth plugin")

// Outcome is what the caller must do after feeding one response packet.
type Outcome struct {
	Write       []byte // non-nil: write this packet (sequence forced to ForcedSequence)
	Replay      []byte // non-nil: write the session's stored query now that the switch succeeded
	Done        bool   // the session is reusable; no more packets expected
	CloseBackend bool  // the backend must be closed, reuse failed
	Err         *gomysql.MyError
}

// Session drives one connection-reuse attempt.
type Session struct {
	creds            auth.Creds
	originalScramble [20]byte
	storedQuery      []byte

	ignoreReplies int
	done          bool
}

// New starts a reuse attempt for creds, using the scramble originally
// captured when the backend connection authenticated.
func New(creds auth.Creds, originalScramble [20]byte, storedQuery []byte) *Session {
	return &Session{creds: creds, originalScramble: originalScramble, storedQuery: storedQuery, ignoreReplies: 1}
}

// Begin returns the COM_CHANGE_USER payload to send to the backend.
func (s *Session) Begin() []byte {
	return proto.EncodeChangeUser(proto.ChangeUser{
		Username: s.creds.Username,
		Scramble: s.creds.Scramble(s.originalScramble),
		Database: s.creds.Database,
		Charset:  uint16(s.creds.Charset),
		Plugin:   proto.AuthNativePassword,
	})
}

// Feed consumes one packet the backend sent in response to
// COM_CHANGE_USER (or a subsequent AuthSwitchRequest reply).
func (s *Session) Feed(payload []byte) (Outcome, error) {
	if s.done {
		return Outcome{}, errors.New("changeuser: session already finished")
	}
	if s.ignoreReplies > 0 {
		s.ignoreReplies--
	}

	switch {
	case proto.IsOK(payload):
		s.done = true
		return Outcome{Replay: s.storedQuery, Done: true}, nil

	case proto.IsErr(payload):
		s.done = true
		myErr, err := proto.ParseErr(payload)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{CloseBackend: true, Err: myErr}, nil

	default:
		asr, err := proto.DecodeAuthSwitchRequest(payload)
		if err != nil {
			s.done = true
			return Outcome{CloseBackend: true}, errors.WithStack(ErrUnexpectedPlugin)
		}
		if asr.Plugin != proto.AuthNativePassword {
			s.done = true
			return Outcome{CloseBackend: true}, errors.Wrapf(ErrUnexpectedPlugin, "%s", asr.Plugin)
		}
		var serverScramble [20]byte
		copy(serverScramble[:], asr.Data)
		s.originalScramble = serverScramble
		s.ignoreReplies++
		return Outcome{Write: s.creds.Scramble(serverScramble)}, nil
	}
}
