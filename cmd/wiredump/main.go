// Command wiredump decodes a captured MySQL wire-protocol stream using
// the engine's own codecs, for manual inspection while debugging a
// connection. It never opens a network connection itself.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbgateway/mysqlwire/internal/config"
)

func main() {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "wiredump",
		Short:        "inspect captured MySQL wire-protocol streams",
		SilenceUsage: true,
	}
	root.AddCommand(newPacketsCmd())
	root.AddCommand(newConfigCmd())
	return root
}

func newConfigCmd() *cobra.Command {
	dumpCmd := &cobra.Command{
		Use:   "config-dump",
		Short: "print the engine's default configuration as TOML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Default().ToBytes()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return dumpCmd
}
