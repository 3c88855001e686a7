package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List registered plugins and their type conversions",
		Run: func(cmd *cobra.Command, args []string) {
			descs := appRegistry.Descriptors()
			for _, name := range appRegistry.List() {
				desc := descs[name]
				flags := ""
				if desc.Constraints.RequiresGPU {
					flags += " [gpu]"
				}
				if desc.Constraints.Experimental {
					flags += " [experimental]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s%s\n",
					name,
					strings.Join(desc.Inputs, ","),
					strings.Join(desc.Outputs, ","),
					flags,
				)
			}
		},
	}
}
