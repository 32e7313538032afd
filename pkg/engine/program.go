package engine

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/checker"
)

// Symbol is one top-level binding a Program exposes, read off the parsed
// AST's top-level statement list (plus the resolved class type for class
// declarations, where the checker's TypeMap already carries one).
type Symbol struct {
	Name string
	Kind string // "var", "let", "const", "function", "class", "interface", "type", "enum", "namespace"
	Type string
}

// Program is the result of Engine.Compile: a parsed, (optionally)
// type-checked module, ready to run or to inspect structurally.
type Program struct {
	ast *ast.Program
	tm  *checker.TypeMap
}

// AST returns the parsed syntax tree.
func (p *Program) AST() *ast.Program { return p.ast }

// Symbols lists every top-level declaration's name, declaration kind, and
// type string (a variable's written annotation or "any", a function's
// "(...) => ret" form). Destructured bindings are not listed.
func (p *Program) Symbols() []Symbol {
	var out []Symbol
	for _, stmt := range p.ast.Statements {
		out = append(out, p.symbolsOf(stmt)...)
	}
	return out
}

func (p *Program) symbolsOf(stmt ast.Stmt) []Symbol {
	switch s := stmt.(type) {
	case *ast.ExportStmt:
		if s.Decl != nil {
			return p.symbolsOf(s.Decl)
		}
		return nil
	case *ast.VarStmt:
		return varSymbols(s)
	case *ast.FunctionStmt:
		return []Symbol{{Name: s.Name, Kind: "function", Type: functionTypeString(s)}}
	case *ast.ClassDecl:
		typ := "class " + s.Name.Name
		if p.tm != nil {
			if t, ok := p.tm.Classes[s]; ok && t != nil {
				typ = t.String()
			}
		}
		return []Symbol{{Name: s.Name.Name, Kind: "class", Type: typ}}
	case *ast.InterfaceDecl:
		return []Symbol{{Name: s.Name.Name, Kind: "interface", Type: "interface " + s.Name.Name}}
	case *ast.TypeAliasDecl:
		return []Symbol{{Name: s.Name.Name, Kind: "type", Type: s.Value.String()}}
	case *ast.EnumDecl:
		return []Symbol{{Name: s.Name.Name, Kind: "enum", Type: "enum " + s.Name.Name}}
	case *ast.NamespaceDecl:
		return []Symbol{{Name: s.Name.Name, Kind: "namespace", Type: "namespace " + s.Name.Name}}
	default:
		return nil
	}
}

func varSymbols(s *ast.VarStmt) []Symbol {
	kind := "var"
	switch s.Modifier {
	case ast.ModLet:
		kind = "let"
	case ast.ModConst:
		kind = "const"
	}
	typ := "any"
	if s.Type != nil {
		typ = s.Type.String()
	}
	name, ok := patternName(s.Pattern)
	if !ok {
		return nil
	}
	return []Symbol{{Name: name, Kind: kind, Type: typ}}
}

// patternName reports the bound name for a simple (non-destructured)
// binding pattern; destructuring patterns introduce more than one name and
// aren't surfaced as a single Symbol.
func patternName(pattern ast.Expr) (string, bool) {
	switch p := pattern.(type) {
	case *ast.Ident:
		return p.Name, true
	case *ast.Variable:
		return p.Name, true
	default:
		return "", false
	}
}

func functionTypeString(s *ast.FunctionStmt) string {
	ret := "any"
	if s.ReturnType != nil {
		ret = s.ReturnType.String()
	}
	return "(...) => " + ret
}
