package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tsx",
	Short: "A TypeScript subset lexer, parser, checker and interpreter",
	Long: `tsx runs the TypeScript subset pkg/engine implements: a lexer,
recursive-descent parser, structural type checker, module resolver, and
tree-walking interpreter with a small capability-gated standard library.

This is not tsc or Node — it is a deliberately narrowed language:
decorators are parsed but never applied and no decorator metadata is
emitted, and a single-threaded event loop is driven by a virtual clock.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-type-check", false, "skip type checking")
	rootCmd.PersistentFlags().Bool("strict", false, "enable strict type-checking mode")
}
