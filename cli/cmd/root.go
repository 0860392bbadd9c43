package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vippsas/sqlshape"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sqlshape",
		Short:        "sqlshape",
		SilenceUsage: true,
		Long:         `CLI tool for canonicalizing SQL statements and finding cursor-cache entries that differ only in literals.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			sqlshape.SetLog(debugLog)
		},
	}

	directory string
	debugLog  bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "directory containing sqlshape.yaml")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "log", false, "enable diagnostic logging")
	return rootCmd.Execute()
}
