// Package proxyproto emits a PROXY protocol v1 header ahead of the MySQL
// handshake, so the backend can see the original client address through
// the proxy. Only the emitting (client) side of v1 is implemented; v2 and
// receiving a v1 header are out of scope.
package proxyproto

import (
	"fmt"
	"net"
)

// MaxHeaderLen is the largest a v1 header can be, per the PROXY protocol
// specification.
const MaxHeaderLen = 107

// Header returns the PROXY v1 header line to write before any MySQL
// bytes, given the client's and the proxy's own addresses on the
// connection being proxied. It falls back to "PROXY UNKNOWN\r\n" for any
// address family it cannot express as TCP4/TCP6 (e.g. a Unix socket).
func Header(clientAddr, proxyAddr net.Addr) []byte {
	clientTCP, ok1 := clientAddr.(*net.TCPAddr)
	proxyTCP, ok2 := proxyAddr.(*net.TCPAddr)
	if !ok1 || !ok2 {
		return []byte("PROXY UNKNOWN\r\n")
	}

	family := "TCP4"
	if clientTCP.IP.To4() == nil {
		family = "TCP6"
	}

	return []byte(fmt.Sprintf("PROXY %s %s %s %d %d\r\n",
		family, clientTCP.IP.String(), proxyTCP.IP.String(), clientTCP.Port, proxyTCP.Port))
}
