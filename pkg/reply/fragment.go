package reply

import "github.com/dbgateway/mysqlwire/pkg/proto"

// FragmentTracker implements the LargeQueryFlag data-model entity: one
// per direction of a connection. It lets a raw-forwarding path decide
// whether the packet it is about to forward is the raw tail of a split
// row (and therefore must not be re-classified) without reassembling the
// logical packet itself.
type FragmentTracker struct {
	pending bool
}

// Observe reports whether the packet with length payloadLen is itself a
// continuation tail (skip its classification) and records whether the
// packet after it will be one.
func (f *FragmentTracker) Observe(payloadLen int) (skip bool) {
	skip = f.pending
	f.pending = payloadLen == proto.MaxPayloadLen
	return skip
}

// Pending reports whether the tracker currently expects the next packet
// to be a continuation tail.
func (f *FragmentTracker) Pending() bool { return f.pending }
