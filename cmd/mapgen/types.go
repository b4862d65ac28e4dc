package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List node types with source counts and defaults",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, t := range Types() {
			fmt.Fprintf(w, "%-16s sources=%d %s\n", t.Name, t.Sources, t.Defaults)
		}
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
