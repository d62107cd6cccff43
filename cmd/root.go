package cmd

import (
	"fmt"
	"os"

	"bling-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "bling-sync",
	Short: "Bling ERP synchronizer",
	Long: `Bling Sync mirrors the Bling ERP into the local database.
It walks every listing day by day, reconciles orders, accounts and invoices,
and records the payments and receipts found in the ERP's bordereaux.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits 1 on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with ISO8601 timestamps reads better in a terminal.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}
