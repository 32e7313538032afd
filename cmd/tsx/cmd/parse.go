package cmd

import (
	"fmt"

	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/pkg/engine"
	"github.com/spf13/cobra"
)

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse source and print the AST",
	Long: `Parse source and print its syntax tree.

Without --dump-ast this prints the tree's re-serialized source form
(each node's String()); with --dump-ast it prints an indented structural
dump instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse an inline expression instead of reading a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the AST structure instead of re-serializing it")
}

func runParse(cmd *cobra.Command, args []string) error {
	source, filename, err := readInput(parseEval, args)
	if err != nil {
		return err
	}

	e := engine.New()
	prog, perr := e.Parse(source)
	if ce, ok := perr.(*engine.CompileError); ok {
		printCompileError(filename, ce)
		return fmt.Errorf("parsing failed with %d error(s)", len(ce.Errors))
	}

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("======================")
		dumpASTNode(prog, 0)
	} else {
		fmt.Println(prog.String())
	}
	return nil
}

func dumpASTNode(node any, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}

	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpASTNode(s, indent+1)
		}
	case *ast.ExprStmt:
		fmt.Printf("%sExprStmt\n", pad)
		dumpASTNode(n.Expr, indent+1)
	case *ast.BlockStmt:
		fmt.Printf("%sBlockStmt (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpASTNode(s, indent+1)
		}
	case *ast.VarStmt:
		fmt.Printf("%sVarStmt (%s) %s\n", pad, varModifierName(n.Modifier), n.Pattern.String())
		if n.Value != nil {
			dumpASTNode(n.Value, indent+1)
		}
	case *ast.FunctionStmt:
		fmt.Printf("%sFunctionStmt %s (%d params)\n", pad, n.Name, len(n.Params))
		dumpASTNode(n.Body, indent+1)
	case *ast.ReturnStmt:
		fmt.Printf("%sReturnStmt\n", pad)
		if n.Value != nil {
			dumpASTNode(n.Value, indent+1)
		}
	case *ast.Binary:
		fmt.Printf("%sBinary (%s)\n", pad, n.Op)
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.Logical:
		fmt.Printf("%sLogical (%s)\n", pad, n.Op)
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.Unary:
		fmt.Printf("%sUnary (%s)\n", pad, n.Op)
		dumpASTNode(n.Operand, indent+1)
	case *ast.Call:
		fmt.Printf("%sCall (%d args)\n", pad, len(n.Args))
		dumpASTNode(n.Callee, indent+1)
		for _, a := range n.Args {
			dumpASTNode(a, indent+2)
		}
	case *ast.Literal:
		fmt.Printf("%sLiteral: %v\n", pad, n.Value)
	case *ast.Variable:
		fmt.Printf("%sVariable: %s\n", pad, n.Name)
	case *ast.Ident:
		fmt.Printf("%sIdent: %s\n", pad, n.Name)
	default:
		fmt.Printf("%s%T: %s\n", pad, node, node)
	}
}

func varModifierName(m ast.VarModifier) string {
	switch m {
	case ast.ModLet:
		return "let"
	case ast.ModConst:
		return "const"
	default:
		return "var"
	}
}
