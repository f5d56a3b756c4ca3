package proxyproto_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbgateway/mysqlwire/pkg/proxyproto"
)

func TestHeaderTCP4(t *testing.T) {
	client := &net.TCPAddr{IP: net.ParseIP("10.0.0.5"), Port: 54321}
	proxy := &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 3306}

	h := proxyproto.Header(client, proxy)
	require.Equal(t, "PROXY TCP4 10.0.0.5 10.0.0.1 54321 3306\r\n", string(h))
	require.LessOrEqual(t, len(h), proxyproto.MaxHeaderLen)
}

func TestHeaderTCP6(t *testing.T) {
	client := &net.TCPAddr{IP: net.ParseIP("::1"), Port: 1}
	proxy := &net.TCPAddr{IP: net.ParseIP("::1"), Port: 2}

	h := proxyproto.Header(client, proxy)
	require.Contains(t, string(h), "PROXY TCP6 ::1 ::1 1 2\r\n")
}

func TestHeaderUnknownFamily(t *testing.T) {
	client := &net.UnixAddr{Name: "/tmp/x.sock"}
	proxy := &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 3306}

	h := proxyproto.Header(client, proxy)
	require.Equal(t, "PROXY UNKNOWN\r\n", string(h))
}
