package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/granchi/hollywood"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hollywood",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hollywood version %s\n", strings.TrimSpace(hollywood.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
