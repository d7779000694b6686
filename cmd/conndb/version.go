package main

import (
	"fmt"

	"github.com/spf13/cobra"

	conndb "github.com/dep2p/go-conndb"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), conndb.VersionInfo())
		},
	}
}
