package changeuser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbgateway/mysqlwire/pkg/auth"
	"github.com/dbgateway/mysqlwire/pkg/changeuser"
	"github.com/dbgateway/mysqlwire/pkg/proto"
)

func creds() auth.Creds {
	c := auth.Creds{Username: "app2", Database: "billing", HasPassword: true, Charset: 0x21}
	c.PasswordHash = proto.HashPassword("s3cret")
	return c
}

func TestChangeUserHappyPath(t *testing.T) {
	var scramble [20]byte
	for i := range scramble {
		scramble[i] = byte(i)
	}
	s := changeuser.New(creds(), scramble, []byte("select * from invoices"))

	payload := s.Begin()
	require.Equal(t, byte(proto.ComChangeUser), payload[0])

	out, err := s.Feed([]byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	require.True(t, out.Done)
	require.Equal(t, []byte("select * from invoices"), out.Replay)
}

func TestChangeUserAuthSwitch(t *testing.T) {
	var scramble [20]byte
	s := changeuser.New(creds(), scramble, []byte("select 1"))
	_ = s.Begin()

	asr := append([]byte{0xfe}, []byte(proto.AuthNativePassword+"\x00")...)
	var newScramble [20]byte
	for i := range newScramble {
		newScramble[i] = byte(20 - i)
	}
	asr = append(asr, newScramble[:]...)

	out, err := s.Feed(asr)
	require.NoError(t, err)
	require.Len(t, out.Write, 20)
	require.False(t, out.Done)

	out, err = s.Feed([]byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	require.True(t, out.Done)
}

func TestChangeUserUnexpectedPlugin(t *testing.T) {
	var scramble [20]byte
	s := changeuser.New(creds(), scramble, nil)
	_ = s.Begin()

	asr := append([]byte{0xfe}, []byte("caching_sha2_password\x00")...)
	out, err := s.Feed(asr)
	require.Error(t, err)
	require.True(t, out.CloseBackend)
}

func TestChangeUserErr(t *testing.T) {
	var scramble [20]byte
	s := changeuser.New(creds(), scramble, nil)
	_ = s.Begin()

	errPayload := proto.PutUint16([]byte{0xff}, 1045)
	errPayload = append(errPayload, '#')
	errPayload = append(errPayload, []byte("28000")...)
	errPayload = append(errPayload, []byte("Access denied")...)

	out, err := s.Feed(errPayload)
	require.NoError(t, err)
	require.True(t, out.CloseBackend)
	require.Equal(t, uint16(1045), out.Err.Code)
}
