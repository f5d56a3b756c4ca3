package proto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbgateway/mysqlwire/pkg/proto"
)

func drain(t *testing.T, f *proto.Framer) []proto.Packet {
	t.Helper()
	var pkts []proto.Packet
	for {
		pkt, ok, err := f.Next()
		require.NoError(t, err)
		if !ok {
			return pkts
		}
		pkts = append(pkts, proto.Packet{Seq: pkt.Seq, Payload: append([]byte{}, pkt.Payload...)})
	}
}

func stream(t *testing.T) []byte {
	t.Helper()
	var b []byte
	b = proto.AppendPacket(b, 0, []byte{0x00, 1, 2, 3})
	b = proto.AppendPacket(b, 1, []byte{0xff, 9, 9})
	return b
}

func TestFramerWholeVsSplit(t *testing.T) {
	data := stream(t)

	whole := proto.NewFramer()
	whole.Write(data)
	wholePkts := drain(t, whole)

	for splitAt := 0; splitAt <= len(data); splitAt++ {
		split := proto.NewFramer()
		split.Write(data[:splitAt])
		split.Write(data[splitAt:])
		gotPkts := drain(t, split)
		require.Equal(t, wholePkts, gotPkts, "split at %d", splitAt)
	}
}

func TestFramerByteAtATime(t *testing.T) {
	data := stream(t)
	f := proto.NewFramer()
	var pkts []proto.Packet
	for _, b := range data {
		f.Write([]byte{b})
		for {
			pkt, ok, err := f.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			pkts = append(pkts, proto.Packet{Seq: pkt.Seq, Payload: append([]byte{}, pkt.Payload...)})
		}
	}
	require.Len(t, pkts, 2)
	require.Equal(t, byte(0), pkts[0].Seq)
	require.Equal(t, []byte{0x00, 1, 2, 3}, pkts[0].Payload)
	require.Equal(t, byte(1), pkts[1].Seq)
}

func TestFramerIncompleteRetainsBytes(t *testing.T) {
	f := proto.NewFramer()
	f.Write([]byte{0x02, 0x00, 0x00, 0x00, 0xaa})
	_, ok, err := f.Next()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 5, f.Pending())
	f.Write([]byte{0xbb})
	pkt, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{0xaa, 0xbb}, pkt.Payload)
}

func TestSplitPayloadFragmentMarker(t *testing.T) {
	payload := make([]byte, proto.MaxPayloadLen+10)
	chunks := proto.SplitPayload(payload)
	require.Len(t, chunks, 2)
	require.Len(t, chunks[0], proto.MaxPayloadLen)
	require.Len(t, chunks[1], 10)

	pkt := proto.Packet{Payload: chunks[0]}
	require.True(t, pkt.IsFragment())
	pkt = proto.Packet{Payload: chunks[1]}
	require.False(t, pkt.IsFragment())
}
