package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbgateway/mysqlwire/pkg/proto"
)

func newPacketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packets <capture-file>",
		Short: "print one line per physical packet found in a raw capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return dumpPackets(cmd.OutOrStdout(), data)
		},
	}
	return cmd
}

func dumpPackets(out interface{ Write([]byte) (int, error) }, data []byte) error {
	f := proto.NewFramer()
	f.Write(data)
	for {
		pkt, ok, err := f.Next()
		if err != nil {
			return err
		}
		if !ok {
			if f.Pending() > 0 {
				fmt.Fprintf(out, "# %d trailing bytes (incomplete packet)\n", f.Pending())
			}
			return nil
		}
		fmt.Fprintf(out, "seq=%d len=%d %s\n", pkt.Seq, len(pkt.Payload), classify(pkt.Payload))
	}
}

func classify(payload []byte) string {
	switch {
	case len(payload) == 0:
		return "empty"
	case proto.IsOK(payload):
		return "OK"
	case proto.IsErr(payload):
		return "ERR"
	case proto.IsEOF(payload):
		return "EOF"
	case proto.IsLocalInfile(payload):
		return "LOCAL_INFILE"
	case payload[0] == 0x0a:
		return "handshake-v10?"
	default:
		return "data"
	}
}
