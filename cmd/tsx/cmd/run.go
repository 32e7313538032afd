package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvendel/go-tsx/internal/runtime"
	"github.com/mvendel/go-tsx/pkg/engine"
	"github.com/spf13/cobra"
)

var runEval string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script or module",
	Long: `Run source as a module. A file argument is resolved through the
import graph rooted at its own directory, so relative imports between
sibling files work; -e or stdin input runs as a single script with no
module resolution.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "run an inline snippet instead of reading a file")
}

func runRun(cmd *cobra.Command, args []string) error {
	noTypeCheck, _ := cmd.Flags().GetBool("no-type-check")
	strict, _ := cmd.Flags().GetBool("strict")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := []engine.EngineOption{
		engine.WithTypeCheck(!noTypeCheck),
		engine.WithStrict(strict),
	}

	if runEval == "" && len(args) == 1 {
		file := args[0]
		root := filepath.Dir(file)
		entry := filepath.Base(file)
		opts = append(opts, engine.WithModuleResolutionRoot(root))
		e := engine.New(opts...)

		if verbose {
			fmt.Fprintf(os.Stderr, "Running %s (root %s)...\n", entry, root)
		}
		v, err := e.RunModule(entry, fileReader)
		if ce, ok := err.(*engine.CompileError); ok {
			printCompileError(file, ce)
			return fmt.Errorf("%s failed with %d error(s)", ce.Stage, len(ce.Errors))
		}
		if err != nil {
			return err
		}
		if verbose && v != nil {
			fmt.Fprintf(os.Stderr, "=> %s\n", runtime.Stringify(v))
		}
		return nil
	}

	source, filename, err := readInput(runEval, args)
	if err != nil {
		return err
	}

	e := engine.New(opts...)
	v, err := e.Eval(source)
	if ce, ok := err.(*engine.CompileError); ok {
		printCompileError(filename, ce)
		return fmt.Errorf("%s failed with %d error(s)", ce.Stage, len(ce.Errors))
	}
	if err != nil {
		return err
	}
	if verbose && v != nil {
		fmt.Fprintf(os.Stderr, "=> %s\n", runtime.Stringify(v))
	}
	return nil
}
