package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbgateway/mysqlwire/pkg/auth"
	"github.com/dbgateway/mysqlwire/pkg/proto"
)

func handshakePayload(t *testing.T, plugin string) []byte {
	t.Helper()
	buf := []byte{0x0a}
	buf = append(buf, []byte("8.0.33\x00")...)
	buf = proto.PutUint32(buf, 7)
	buf = append(buf, []byte("ABCDEFGH")...)
	buf = append(buf, 0)
	caps := proto.ClientProtocol41 | proto.ClientSecureConnection | proto.ClientPluginAuth
	buf = proto.PutUint16(buf, uint16(caps&0xffff))
	buf = append(buf, 0x21)
	buf = proto.PutUint16(buf, 0x0002)
	buf = proto.PutUint16(buf, uint16(caps>>16))
	buf = append(buf, 20)
	buf = append(buf, make([]byte, 10)...)
	buf = append(buf, []byte("IJKLMNOPQRST\x00")...)
	buf = append(buf, []byte(plugin)...)
	buf = append(buf, 0)
	return buf
}

func newDriver() *auth.Driver {
	creds := auth.Creds{
		Username:    "app",
		Database:    "orders",
		HasPassword: true,
		Charset:     0x21,
	}
	creds.PasswordHash = proto.HashPassword("secret")
	return auth.New(creds, proto.ClientProtocol41|proto.ClientSecureConnection|proto.ClientPluginAuth, nil)
}

func TestDriverHappyPath(t *testing.T) {
	d := newDriver()
	out, err := d.OnInitialHandshake(handshakePayload(t, proto.AuthNativePassword))
	require.NoError(t, err)
	require.NotEmpty(t, out.Write)
	require.Equal(t, auth.ResponseSent, d.State())

	out, err = d.OnResponse([]byte{0x00, 0, 0, 0x02, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	require.True(t, out.Complete)
	require.Equal(t, auth.Complete, d.State())
}

func TestDriverAuthSwitchSamePlugin(t *testing.T) {
	d := newDriver()
	_, err := d.OnInitialHandshake(handshakePayload(t, proto.AuthNativePassword))
	require.NoError(t, err)

	asr := append([]byte{0xfe}, []byte(proto.AuthNativePassword+"\x00")...)
	asr = append(asr, make([]byte, 20)...)
	out, err := d.OnResponse(asr)
	require.NoError(t, err)
	require.Len(t, out.Write, 20)
	require.Equal(t, auth.ResponseSent, d.State())
}

func TestDriverAuthSwitchOtherPlugin(t *testing.T) {
	d := newDriver()
	_, err := d.OnInitialHandshake(handshakePayload(t, proto.AuthNativePassword))
	require.NoError(t, err)

	asr := append([]byte{0xfe}, []byte("caching_sha2_password\x00")...)
	out, err := d.OnResponse(asr)
	require.NoError(t, err)
	require.NotNil(t, out.Err)
	require.Equal(t, auth.Fail, d.State())
}

func TestDriverHostBlocked(t *testing.T) {
	d := newDriver()
	_, err := d.OnInitialHandshake(handshakePayload(t, proto.AuthNativePassword))
	require.NoError(t, err)

	errPayload := proto.PutUint16([]byte{0xff}, proto.ErrHostIsBlocked)
	errPayload = append(errPayload, '#')
	errPayload = append(errPayload, []byte("HY000")...)
	errPayload = append(errPayload, []byte("Host is blocked")...)

	out, err := d.OnResponse(errPayload)
	require.NoError(t, err)
	require.True(t, out.HostBlocked)
	require.Equal(t, auth.Fail, d.State())
}

func TestDriverFailHandshake(t *testing.T) {
	d := auth.New(auth.Creds{}, proto.ClientProtocol41, nil)
	errPayload := proto.PutUint16([]byte{0xff}, 1040)
	errPayload = append(errPayload, '#')
	errPayload = append(errPayload, []byte("HY000")...)
	errPayload = append(errPayload, []byte("Too many connections")...)

	out, err := d.OnInitialHandshake(errPayload)
	require.NoError(t, err)
	require.Equal(t, uint16(1040), out.Err.Code)
	require.Equal(t, auth.FailHandshake, d.State())
}

func TestDriverDelayQueue(t *testing.T) {
	d := newDriver()
	d.Hold([]byte("select 1"))
	d.Hold([]byte("select 2"))
	require.Equal(t, auth.Connected, d.State())

	flushed := d.Flush()
	require.Len(t, flushed, 2)
	require.Empty(t, d.Flush())
}
