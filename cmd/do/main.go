package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scoutreport/activityform/cmd/do/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Admin tools for the activity report form",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.ExportCmd())
	rootCmd.AddCommand(cmd.DigestCmd())
	rootCmd.AddCommand(cmd.FailuresCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
