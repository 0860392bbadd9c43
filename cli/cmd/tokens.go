package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/vippsas/sqlshape"
	"github.com/vippsas/sqlshape/sqlscan"
)

var (
	tokensRepr bool

	tokensCmd = &cobra.Command{
		Use:   "tokens [statement]",
		Short: "Tokenize a SQL statement and print one line per token",
		Long:  "Tokenizes a SQL statement and prints one line per token. The statement is taken from the argument, or from stdin when no argument is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := statementArg(args)
			if err != nil {
				return err
			}
			if tokensRepr {
				fmt.Println(repr.String(sqlscan.Tokenize(stmt), repr.Indent("  ")))
				return nil
			}
			sqlshape.DebugPrintTokens(os.Stdout, stmt)
			return nil
		},
	}
)

func statementArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	case 1:
		return args[0], nil
	}
	return "", errors.New("expected at most one statement argument")
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensRepr, "repr", false, "dump full token structs instead of the one-line listing")
	rootCmd.AddCommand(tokensCmd)
}
