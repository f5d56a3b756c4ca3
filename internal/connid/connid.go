// Package connid mints per-connection correlation IDs so log lines from
// the client side and every backend connection of a session can be
// joined together.
package connid

import "github.com/google/uuid"

// ID is a connection's correlation ID.
type ID string

// New mints a fresh ID.
func New() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string { return string(id) }
