package cmd

import (
	"fmt"

	"github.com/mvendel/go-tsx/pkg/engine"
	"github.com/spf13/cobra"
)

var checkEval string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check source and print its top-level symbols",
	Long: `Parse and type-check source, reporting diagnostics and, on success,
the declared type of every top-level binding, function, class, interface,
type alias, enum, and namespace.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkEval, "eval", "e", "", "check an inline snippet instead of reading a file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, filename, err := readInput(checkEval, args)
	if err != nil {
		return err
	}

	strict, _ := cmd.Flags().GetBool("strict")
	e := engine.New(engine.WithStrict(strict))

	program, cerr := e.Compile(source)
	if ce, ok := cerr.(*engine.CompileError); ok {
		printCompileError(filename, ce)
		return fmt.Errorf("%s failed with %d error(s)", ce.Stage, len(ce.Errors))
	}

	for _, sym := range program.Symbols() {
		fmt.Printf("%-10s %-20s %s\n", sym.Kind, sym.Name, sym.Type)
	}
	fmt.Println("no errors")
	return nil
}
