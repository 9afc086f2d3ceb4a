package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ion-lang/ionc/pkg/cli"
	"ion-lang/ionc/pkg/ion"
	"ion-lang/ionc/pkg/ion/ast"
)

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Print the syntax tree of an Ion source file",
	Long: `Ast parses an Ion source file and prints its syntax tree as box-drawn
ASCII art. Validation is not run; any file that parses can be inspected.

Example:
  ionc ast main.ion`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)
}

func runAST(cmd *cobra.Command, args []string) error {
	if _, err := initConfig(); err != nil {
		return err
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return cli.NewCommandError("ast", err)
	}

	prog, err := ion.Parse(string(src), args[0])
	if err != nil {
		return err
	}

	fmt.Println(ast.Visualize(prog))
	return nil
}
