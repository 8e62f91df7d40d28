package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "awremap",
		Short:         "Remap access widener files between mapping namespaces",
		Version:       version,
		SilenceErrors: true,
		// args are valid by now; runtime errors don't need the usage text
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
	}

	rootCmd.AddCommand(remapCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(lookupCmd())
	rootCmd.AddCommand(doctorCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
