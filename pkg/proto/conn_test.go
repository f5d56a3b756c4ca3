package proto_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbgateway/mysqlwire/pkg/proto"
)

func TestPacketConnReadWrite(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sc := proto.NewPacketConn(server)
	cc := proto.NewPacketConn(client)

	done := make(chan error, 1)
	go func() {
		done <- sc.WritePacket([]byte{0x00, 1, 2, 3})
	}()

	got, err := cc.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 1, 2, 3}, got)
	require.NoError(t, <-done)
	require.Equal(t, byte(1), cc.Sequence())
}

func TestPacketConnCoalescesFragments(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sc := proto.NewPacketConn(server)
	cc := proto.NewPacketConn(client)

	payload := make([]byte, proto.MaxPayloadLen+5)
	for i := range payload {
		payload[i] = byte(i)
	}

	done := make(chan error, 1)
	go func() {
		done <- sc.WritePacket(payload)
	}()

	got, err := cc.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.NoError(t, <-done)
	// two physical packets consumed -> sequence advanced by 2
	require.Equal(t, byte(2), cc.Sequence())
}

func TestPacketConnSequenceMismatch(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sc := proto.NewPacketConn(server)
	cc := proto.NewPacketConn(client)
	cc.SetSequence(5)

	go func() {
		_ = sc.WritePacket([]byte{0x00})
	}()

	_, err := cc.ReadPacket()
	require.Error(t, err)
}

func TestPacketConnResetSequence(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	sc := proto.NewPacketConn(server)
	cc := proto.NewPacketConn(client)

	go func() { _ = sc.WritePacket([]byte{1}) }()
	_, err := cc.ReadPacket()
	require.NoError(t, err)

	cc.ResetSequence()
	sc.ResetSequence()
	go func() { _ = sc.WritePacket([]byte{2}) }()
	_, err = cc.ReadPacket()
	require.NoError(t, err)
}
