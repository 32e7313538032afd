package cmd

import (
	"fmt"

	"github.com/mvendel/go-tsx/pkg/engine"
	"github.com/spf13/cobra"
)

var compileEval string

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Parse and check source, printing the code-emission interface surface",
	Long: `compile runs the same parse-then-check pipeline a code-emission
back end would consume: the top-level statement count and each
declaration's kind, name and type (its written annotation, or "any"
where there is none; destructured bindings are not listed). There is no bytecode or native output here —
go-tsx stops at the typed-AST boundary an external back end would take
over from.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileEval, "eval", "e", "", "compile an inline snippet instead of reading a file")
}

func runCompile(cmd *cobra.Command, args []string) error {
	source, filename, err := readInput(compileEval, args)
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

	symbols := program.Symbols()
	fmt.Printf("statements: %d\n", len(program.AST().Statements))
	fmt.Printf("declarations: %d\n", len(symbols))
	for _, sym := range symbols {
		fmt.Printf("  %-10s %-20s %s\n", sym.Kind, sym.Name, sym.Type)
	}
	fmt.Println("(no code-emission back end wired; this is the typed-AST boundary it would consume)")
	return nil
}
