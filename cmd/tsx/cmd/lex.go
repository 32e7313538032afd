package cmd

import (
	"fmt"
	"os"

	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/pkg/engine"
	"github.com/spf13/cobra"
)

var (
	lexEval       string
	lexShowPos    bool
	lexShowType   bool
	lexOnlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize source and print the resulting tokens",
	Long: `Tokenize source and print the resulting tokens, one per line.

If no file is given, reads from stdin. Use -e to tokenize an inline
snippet instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline source instead of reading a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only illegal tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	source, filename, err := readInput(lexEval, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s (%d bytes)\n---\n", filename, len(source))
	}

	e := engine.New()
	tokens, lexErr := e.Lex(source)

	errorCount := 0
	for _, tok := range tokens {
		isIllegal := tok.Type == lexer.ILLEGAL
		if isIllegal {
			errorCount++
		}
		if lexOnlyErrors && !isIllegal {
			continue
		}
		printToken(tok)
	}

	if verbose {
		fmt.Printf("---\nTotal tokens: %d\n", len(tokens))
		if errorCount > 0 {
			fmt.Printf("Illegal tokens: %d\n", errorCount)
		}
	}

	if ce, ok := lexErr.(*engine.CompileError); ok {
		printCompileError(filename, ce)
		return fmt.Errorf("lexing failed with %d error(s)", len(ce.Errors))
	}
	return nil
}

func printToken(tok lexer.Token) {
	var out string
	if lexShowType {
		out = fmt.Sprintf("[%-14s]", tok.Type)
	}
	switch {
	case tok.Type == lexer.EOF:
		out += " EOF"
	case tok.Type == lexer.ILLEGAL:
		out += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	case tok.Literal == "":
		out += fmt.Sprintf(" %s", tok.Type)
	default:
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Fprintln(os.Stdout, out)
}
