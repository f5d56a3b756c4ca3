// Package auth drives backend authentication: dialing a backend with
// retry, running the mysql_native_password handshake, following
// AuthSwitchRequest, and holding client traffic until the backend is
// usable.
package auth

import (
	"crypto/sha1"

	"github.com/dbgateway/mysqlwire/pkg/proto"
)

// Creds is a session's identity: everything needed to authenticate any
// backend connection the session opens. It is created once at client-side
// auth and shared read-only by every backend connection of the session.
type Creds struct {
	Username     string
	Database     string
	PasswordHash [sha1.Size]byte // H1 = SHA1(real password); zero value means "no password"
	HasPassword  bool
	Charset      byte
	Capability   proto.Capability
	ConnectAttrs []byte
}

// Scramble returns the mysql_native_password response to serverScramble,
// or nil if the session has no password.
func (c Creds) Scramble(serverScramble [20]byte) []byte {
	if !c.HasPassword {
		return nil
	}
	out := proto.ScrambleNativePassword(serverScramble, c.PasswordHash)
	return out[:]
}
