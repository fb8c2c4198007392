// Command slabctl runs operator tasks against the slab database.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "slabctl",
		Short:        "Operator tools for the slab measurement service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newMigrateCmd(&configPath),
		newCreateUserCmd(&configPath),
		newResetPasswordCmd(&configPath),
	)
	return root
}
