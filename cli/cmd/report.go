package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/sqlshape"
)

var (
	reportMinGroup int

	reportCmd = &cobra.Command{
		Use:   "report <dbname>",
		Short: "Scan a database's cursor cache and report near-duplicate statements",
		Long:  "Scans the cursor cache of the database configured under <dbname> in sqlshape.yaml and reports groups of statements that differ only in literals or cosmetic detail.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.StandardLogger()
			ctx := context.Background()

			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("expected exactly one database name")
			}
			dbname := args[0]

			config, err := LoadConfig()
			if err != nil {
				return err
			}
			dbconfig, ok := config.Databases[dbname]
			if !ok {
				return fmt.Errorf("database %s not present in configuration file", dbname)
			}
			dbc, err := dbconfig.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer dbc.Close()

			report, err := sqlshape.ScanCursorCache(ctx, dbc, reportMinGroup, logger)
			if err != nil {
				return err
			}

			fmt.Printf("run %s: %d duplicate groups\n", report.RunID, len(report.Groups))
			if report.TooLong > 0 {
				fmt.Printf("warning: %d statements skipped (canonical form too long)\n", report.TooLong)
			}
			for _, group := range report.Groups {
				fmt.Printf("\n%d statements, %d executions:\n  %s\n",
					len(group.Statements), group.Executions(), group.Canonical)
				for _, stmt := range group.Statements {
					fmt.Printf("    - %s\n", firstLine(stmt.Text))
				}
			}
			return nil
		},
	}
)

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return s[:i] + " ..."
		}
	}
	return s
}

func init() {
	reportCmd.Flags().IntVar(&reportMinGroup, "min", 2, "minimum group size to report")
	rootCmd.AddCommand(reportCmd)
}
