package auth

import (
	gomysql "github.com/go-mysql-org/go-mysql/mysql"
	"go.uber.org/zap"

	"github.com/dbgateway/mysqlwire/internal/errors"
	"github.com/dbgateway/mysqlwire/pkg/proto"
)

// ErrUnexpectedPacket is surfaced when the driver receives a packet shape
// that is not legal in its current state.
var ErrUnexpectedPacket = errors.New("auth: unexpected packet for current state")

// Outcome describes what a driver transition produced: bytes the caller
// must write to the backend (may be nil), whether the driver is now ready
// for application traffic, and, on failure, the server's error.
type Outcome struct {
	Write       []byte
	Complete    bool
	HostBlocked bool
	Err         *gomysql.MyError
}

// Driver runs one backend connection's authentication handshake. It holds
// the scramble captured at Initial Handshake time, or the one carried by a
// later mysql_native_password AuthSwitchRequest (reused verbatim by the
// connection-reuse protocol), and a delay queue for client writes that
// arrive before the driver reaches Complete.
type Driver struct {
	state    State
	creds    Creds
	scramble [20]byte
	caps     proto.Capability
	logger   *zap.Logger

	delayed [][]byte
}

// New returns a driver in the Connected state.
func New(creds Creds, caps proto.Capability, logger *zap.Logger) *Driver {
	return &Driver{state: Connected, creds: creds, caps: caps, logger: logger}
}

// State returns the driver's current state.
func (d *Driver) State() State { return d.state }

// Scramble returns the scramble captured from the backend's Initial
// Handshake, replaced by the data of a same-plugin AuthSwitchRequest if
// one arrived; the connection-reuse protocol uses it unchanged.
func (d *Driver) Scramble() [20]byte { return d.scramble }

// OnInitialHandshake consumes the backend's Initial Handshake v10 packet
// (or an ERR sent in its place) and returns the Handshake Response to
// write.
func (d *Driver) OnInitialHandshake(payload []byte) (Outcome, error) {
	if proto.IsErr(payload) {
		myErr, err := proto.ParseErr(payload)
		if err != nil {
			return Outcome{}, err
		}
		d.state = FailHandshake
		return Outcome{Err: myErr}, nil
	}

	hs, err := proto.DecodeHandshake(payload)
	if err != nil {
		return Outcome{}, err
	}
	d.scramble = hs.Scramble

	resp := proto.EncodeHandshakeResponse(proto.HandshakeResponseOpts{
		Capabilities: d.caps,
		Charset:      d.creds.Charset,
		Username:     d.creds.Username,
		ScrambledPwd: d.creds.Scramble(d.scramble),
		Database:     d.creds.Database,
		AuthPlugin:   proto.AuthNativePassword,
		ConnectAttrs: d.creds.ConnectAttrs,
	})
	d.state = ResponseSent
	return Outcome{Write: resp}, nil
}

// OnResponse consumes a packet the backend sent in reply to the
// Handshake Response (OK, ERR, or AuthSwitchRequest). It must only be
// called while State() == ResponseSent.
func (d *Driver) OnResponse(payload []byte) (Outcome, error) {
	if d.state != ResponseSent {
		return Outcome{}, errors.WithStack(ErrUnexpectedPacket)
	}

	switch {
	case proto.IsOK(payload):
		d.state = Complete
		return Outcome{Complete: true}, nil

	case proto.IsErr(payload):
		myErr, err := proto.ParseErr(payload)
		if err != nil {
			return Outcome{}, err
		}
		d.state = Fail
		if myErr.Code == proto.ErrHostIsBlocked {
			return Outcome{Err: myErr, HostBlocked: true}, nil
		}
		return Outcome{Err: myErr}, nil

	default:
		asr, err := proto.DecodeAuthSwitchRequest(payload)
		if err != nil {
			return Outcome{}, errors.WithStack(ErrUnexpectedPacket)
		}
		if asr.Plugin != proto.AuthNativePassword {
			d.state = Fail
			return Outcome{Err: proto.SyntheticError(1045, "28000", "unsupported auth plugin: "+asr.Plugin)}, nil
		}
		var serverScramble [20]byte
		copy(serverScramble[:], asr.Data)
		d.scramble = serverScramble
		// state stays ResponseSent; caller resends the scramble
		return Outcome{Write: d.creds.Scramble(d.scramble)}, nil
	}
}

// Hold appends a client-originated packet to the delay queue. Call while
// State() != Complete.
func (d *Driver) Hold(payload []byte) {
	d.delayed = append(d.delayed, payload)
}

// Flush returns and clears everything held in the delay queue, to be
// written to the backend now that State() == Complete.
func (d *Driver) Flush() [][]byte {
	out := d.delayed
	d.delayed = nil
	return out
}
