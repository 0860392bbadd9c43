package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vippsas/sqlshape"
)

var (
	keepIdentNumbers   bool
	keepPartitionNames bool
	stripHints         bool
	bindVerbose        bool

	bindCmd = &cobra.Command{
		Use:   "bind [statement]",
		Short: "Print the canonical bound form of a SQL statement",
		Long:  "Prints the canonical bound form of a SQL statement: literals replaced by placeholders, identifiers normalized, whitespace squeezed. The statement is taken from the argument, or from stdin when no argument is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := statementArg(args)
			if err != nil {
				return err
			}
			opts := sqlshape.Options{
				NormalizeNumbersInIdents: !keepIdentNumbers,
				NormalizePartitionNames:  !keepPartitionNames,
				StripHints:               stripHints,
			}
			if !bindVerbose {
				fmt.Println(sqlshape.BoundStmtOpts(stmt, opts))
				return nil
			}
			canonical, numLiterals, values, kinds := sqlshape.BoundStmtVerbose(stmt, opts)
			fmt.Println(canonical)
			fmt.Printf("%d literals replaced\n", numLiterals)
			for i, v := range values {
				fmt.Printf("%8s %q\n", kinds[i], v)
			}
			return nil
		},
	}
)

func init() {
	bindCmd.Flags().BoolVar(&keepIdentNumbers, "keep-ident-numbers", false, "do not replace digit runs inside identifiers with {k}")
	bindCmd.Flags().BoolVar(&keepPartitionNames, "keep-partition-names", false, "do not replace partition names with #k")
	bindCmd.Flags().BoolVar(&stripHints, "strip-hints", false, "replace hints with a single space")
	bindCmd.Flags().BoolVar(&bindVerbose, "verbose", false, "also list the replaced literals")
	rootCmd.AddCommand(bindCmd)
}
