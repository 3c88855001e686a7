package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mediaflow version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mediaflow %s\n", version)
		},
	}
}
