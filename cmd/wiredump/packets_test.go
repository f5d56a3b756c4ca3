package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbgateway/mysqlwire/pkg/proto"
)

func TestDumpPacketsClassifiesOK(t *testing.T) {
	var data []byte
	data = proto.AppendPacket(data, 1, []byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00})

	var out bytes.Buffer
	require.NoError(t, dumpPackets(&out, data))
	require.True(t, strings.Contains(out.String(), "seq=1"))
	require.True(t, strings.Contains(out.String(), "OK"))
}

func TestDumpPacketsReportsTrailingBytes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, dumpPackets(&out, []byte{0x05, 0x00, 0x00, 0x00, 0xaa}))
	require.Contains(t, out.String(), "trailing")
}
