// Package reply implements the backend reply state machine: given the
// command last submitted on a connection and the stream of packets the
// backend sends back, it classifies each packet, accumulates rows and
// tracked session state, and reports when the logical reply is Done.
package reply

import (
	gomysql "github.com/go-mysql-org/go-mysql/mysql"

	"github.com/dbgateway/mysqlwire/internal/errors"
	"github.com/dbgateway/mysqlwire/pkg/proto"
)

// Phase is the reply state machine's sum-type state.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseRSetColDef
	PhaseRSetColDefEOF
	PhaseRSetRows
	PhasePrepare
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseRSetColDef:
		return "rset_coldef"
	case PhaseRSetColDefEOF:
		return "rset_coldef_eof"
	case PhaseRSetRows:
		return "rset_rows"
	case PhasePrepare:
		return "prepare"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrUnexpectedEOF is the protocol violation raised when an EOF is seen
// at Start outside a COM_CHANGE_USER handshake. Feed also returns it for
// an empty payload and for any packet other than a 5-byte EOF where the
// end of the column definitions is expected.
var ErrUnexpectedEOF = errors.New("reply: unexpected EOF at start of reply")

// Reply tracks one logical command's response: state, accumulated rows,
// the last error seen and whatever session state the last OK carried.
// It is cleared by Submit at the start of every new command.
type Reply struct {
	Command proto.Command
	Phase   Phase

	colDefRemaining  uint64
	prepareRemaining uint32
	cursorOpen       bool
	startVisits      int
	loadActive       bool

	Rows       uint64
	Warnings   uint16
	FieldCount uint64
	IsOK       bool
	Err        *gomysql.MyError

	PsID        uint32
	ParamCount  uint16
	ColumnCount uint16

	Vars               map[string]string
	LastGTID           string
	TrxCharacteristics string
	TrxState           TrxState
}

// New returns a Reply ready for Submit.
func New() *Reply {
	return &Reply{}
}

// Submit resets Reply for a newly issued command. cursorRequested is the
// COM_STMT_EXECUTE cursor-type flag; it only matters when cmd is
// ComStmtExecute.
func (r *Reply) Submit(cmd proto.Command, cursorRequested bool) {
	*r = Reply{Command: cmd, Phase: PhaseStart, cursorOpen: cursorRequested}
	r.startVisits = 1

	switch cmd {
	case proto.ComFieldList:
		r.Phase = PhaseRSetRows
	case proto.ComStatistics:
		r.Phase = PhaseDone
	case proto.ComStmtFetch:
		r.Phase = PhaseRSetRows
	}
}

// Done reports whether the reply has reached its terminal state.
func (r *Reply) Done() bool { return r.Phase == PhaseDone }

// Feed classifies one logical (already fragment-coalesced) packet and
// advances the state machine. It must be called once per packet the
// backend sends in response to the submitted command, in order.
func (r *Reply) Feed(payload []byte) error {
	if len(payload) == 0 {
		return errors.WithStack(ErrUnexpectedEOF)
	}

	switch r.Phase {
	case PhaseStart:
		return r.feedStart(payload)
	case PhaseRSetColDef:
		return r.feedColDef(payload)
	case PhaseRSetColDefEOF:
		return r.feedColDefEOF(payload)
	case PhaseRSetRows:
		return r.feedRows(payload)
	case PhasePrepare:
		return r.feedPrepare(payload)
	case PhaseDone:
		return r.feedDone(payload)
	default:
		return errors.WithStack(ErrUnexpectedEOF)
	}
}

func (r *Reply) feedStart(payload []byte) error {
	switch r.Command {
	case proto.ComBinlogDump, proto.ComBinlogDumpGTID:
		return nil // never terminates; rows are replication events, not classified
	}

	switch {
	case proto.IsOK(payload) && r.Command == proto.ComStmtPrepare:
		return r.feedPsOK(payload)
	case proto.IsOK(payload):
		return r.feedOK(payload)
	case payload[0] == byte(proto.HeaderLocalInfile):
		r.loadActive = true
		r.Phase = PhaseDone
		return nil
	case proto.IsErr(payload):
		return r.feedErr(payload)
	case payload[0] == byte(proto.HeaderEOF):
		// Legal only mid COM_CHANGE_USER (old-style auth switch ack);
		// any other appearance here is a protocol violation.
		if r.Command == proto.ComChangeUser {
			return nil // stay in Start for the OK/ERR that follows
		}
		return errors.WithStack(ErrUnexpectedEOF)
	default:
		fc, _, ok := proto.ReadLenencInt(payload)
		if !ok {
			return errors.WithStack(proto.ErrMalformedLenenc)
		}
		r.FieldCount = fc
		r.ColumnCount = uint16(fc)
		r.colDefRemaining = fc
		r.Phase = PhaseRSetColDef
		return nil
	}
}

func (r *Reply) feedPsOK(payload []byte) error {
	if len(payload) < 12 {
		return errors.WithStack(proto.ErrMalformedLenenc)
	}
	r.IsOK = true
	r.PsID = proto.GetUint32(payload[1:])
	cols := proto.GetUint16(payload[5:])
	params := proto.GetUint16(payload[7:])
	r.Warnings = proto.GetUint16(payload[10:])
	r.ColumnCount = cols
	r.ParamCount = params

	packets := uint32(0)
	if cols > 0 {
		packets += uint32(cols) + 1
	}
	if params > 0 {
		packets += uint32(params) + 1
	}
	if packets == 0 {
		r.Phase = PhaseDone
		return nil
	}
	r.prepareRemaining = packets
	r.Phase = PhasePrepare
	return nil
}

func (r *Reply) feedOK(payload []byte) error {
	ok, err := proto.ParseOK(payload)
	if err != nil {
		return err
	}
	r.IsOK = true
	r.Warnings = ok.Warnings
	if ok.Status&proto.ServerSessionStateChanged != 0 && len(ok.SessionTrack) > 0 {
		r.extractSessionState(ok.SessionTrack)
	}
	if ok.Status&proto.ServerMoreResultsExist != 0 {
		r.Phase = PhaseStart
		r.startVisits++
		return nil
	}
	r.Phase = PhaseDone
	return nil
}

func (r *Reply) feedErr(payload []byte) error {
	myErr, err := proto.ParseErr(payload)
	if err != nil {
		return err
	}
	r.Err = myErr
	r.Phase = PhaseDone
	return nil
}

func (r *Reply) feedColDef(payload []byte) error {
	if r.colDefRemaining > 0 {
		r.colDefRemaining--
	}
	if r.colDefRemaining == 0 {
		r.Phase = PhaseRSetColDefEOF
	}
	return nil
}

func (r *Reply) feedColDefEOF(payload []byte) error {
	if proto.IsEOF(payload) && len(payload) == 5 {
		if r.cursorOpen {
			r.Phase = PhaseDone
			return nil
		}
		r.Phase = PhaseRSetRows
		return nil
	}
	return errors.WithStack(ErrUnexpectedEOF)
}

func (r *Reply) feedRows(payload []byte) error {
	switch {
	case proto.IsEOF(payload) && len(payload) == 5:
		eof, err := proto.ParseEOF(payload)
		if err != nil {
			return err
		}
		r.Warnings = eof.Warnings
		if eof.Status&proto.ServerMoreResultsExist != 0 {
			r.Phase = PhaseStart
			r.startVisits++
			return nil
		}
		r.Phase = PhaseDone
		return nil
	case proto.IsErr(payload):
		return r.feedErr(payload)
	default:
		r.Rows++
		return nil
	}
}

func (r *Reply) feedPrepare(payload []byte) error {
	if r.prepareRemaining > 0 {
		r.prepareRemaining--
	}
	if r.prepareRemaining == 0 {
		r.Phase = PhaseDone
	}
	return nil
}

func (r *Reply) feedDone(payload []byte) error {
	if proto.IsErr(payload) {
		return r.feedErr(payload)
	}
	// Diagnostic only: a packet arriving after Done is unexpected but not
	// fatal; the caller's logger should note it.
	return nil
}

// StartVisits returns how many times the machine has entered Start for
// the currently submitted command, including the initial entry.
func (r *Reply) StartVisits() int { return r.startVisits }

// LoadActive reports whether the backend requested LOCAL INFILE for the
// currently submitted command.
func (r *Reply) LoadActive() bool { return r.loadActive }
