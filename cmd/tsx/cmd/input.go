package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mvendel/go-tsx/pkg/engine"
)

// readInput resolves a subcommand's source text: an inline -e/--eval
// string takes priority, then a file argument, then stdin. filename is
// "<eval>" or "<stdin>" when there is no real path to report in
// diagnostics.
func readInput(evalExpr string, args []string) (source, filename string, err error) {
	switch {
	case evalExpr != "":
		return evalExpr, "<eval>", nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
}

// printCompileError reports every diagnostic in ce on a line of its own,
// as file:line:col: severity: message [code] (the code part only when
// set).
func printCompileError(filename string, ce *engine.CompileError) {
	for _, e := range ce.Errors {
		if e.Code != "" {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s [%s]\n", filename, e.Line, e.Column, e.Severity, e.Message, e.Code)
		} else {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", filename, e.Line, e.Column, e.Severity, e.Message)
		}
	}
}

// fileReader adapts os.ReadFile to a resolver.Reader for RunModule.
func fileReader(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}
