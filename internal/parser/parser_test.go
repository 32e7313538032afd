package parser

import (
	"testing"

	"github.com/mvendel/go-tsx/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := Parse(src, Config{})
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParseVarDeclarations(t *testing.T) {
	prog := parseOK(t, `let x: number = 1; const y = "s"; var z;`)
	if len(prog.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Statements))
	}
	v, ok := prog.Statements[0].(*ast.VarStmt)
	if !ok {
		t.Fatalf("expected VarStmt, got %T", prog.Statements[0])
	}
	if v.Modifier != ast.ModLet {
		t.Errorf("expected let modifier")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := parseOK(t, `1 + 2 * 3;`)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	bin := stmt.Expr.(*ast.Binary)
	if bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %q", bin.Op)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected right side to be '*', got %#v", bin.Right)
	}
}

func TestParseExponentRightAssoc(t *testing.T) {
	prog := parseOK(t, `2 ** 3 ** 2;`)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	bin := stmt.Expr.(*ast.Binary)
	if bin.Op != "**" {
		t.Fatalf("expected '**', got %q", bin.Op)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("expected right-associative nesting on the right operand")
	}
	if _, ok := bin.Left.(*ast.Literal); !ok {
		t.Fatalf("expected literal left operand for right-associativity, got %#v", bin.Left)
	}
}

func TestParseArrowFunctionSingleParam(t *testing.T) {
	prog := parseOK(t, `const f = x => x + 1;`)
	v := prog.Statements[0].(*ast.VarStmt)
	arrow, ok := v.Value.(*ast.ArrowFunction)
	if !ok {
		t.Fatalf("expected ArrowFunction, got %T", v.Value)
	}
	if len(arrow.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(arrow.Params))
	}
	if arrow.Expr == nil {
		t.Fatalf("expected expression body")
	}
}

func TestParseArrowFunctionParenParams(t *testing.T) {
	prog := parseOK(t, `const f = (a: number, b: number): number => { return a + b; };`)
	v := prog.Statements[0].(*ast.VarStmt)
	arrow := v.Value.(*ast.ArrowFunction)
	if len(arrow.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(arrow.Params))
	}
	if arrow.Body == nil {
		t.Fatalf("expected block body")
	}
}

func TestParseGroupingNotArrow(t *testing.T) {
	prog := parseOK(t, `(1 + 2) * 3;`)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	bin, ok := stmt.Expr.(*ast.Binary)
	if !ok || bin.Op != "*" {
		t.Fatalf("expected top-level '*', got %#v", stmt.Expr)
	}
	if _, ok := bin.Left.(*ast.Grouping); !ok {
		t.Fatalf("expected grouping on the left, got %#v", bin.Left)
	}
}

func TestParseOptionalChaining(t *testing.T) {
	prog := parseOK(t, `a?.b?.[0]?.(1);`)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	call, ok := stmt.Expr.(*ast.Call)
	if !ok || !call.Optional {
		t.Fatalf("expected optional Call at top, got %#v", stmt.Expr)
	}
}

func TestParseNewBindsTightly(t *testing.T) {
	prog := parseOK(t, `new Foo().bar();`)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	outer, ok := stmt.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected outer Call, got %#v", stmt.Expr)
	}
	get, ok := outer.Callee.(*ast.Get)
	if !ok || get.Name != "bar" {
		t.Fatalf("expected .bar member access, got %#v", outer.Callee)
	}
	if _, ok := get.Object.(*ast.New); !ok {
		t.Fatalf("expected New as the object of .bar, got %#v", get.Object)
	}
}

func TestParseTemplateLiteral(t *testing.T) {
	prog := parseOK(t, "const s = `hello ${name}!`;")
	v := prog.Statements[0].(*ast.VarStmt)
	tmpl, ok := v.Value.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("expected TemplateLiteral, got %T", v.Value)
	}
	if len(tmpl.Expressions) != 1 {
		t.Fatalf("expected 1 interpolation, got %d", len(tmpl.Expressions))
	}
}

func TestParseClassDecl(t *testing.T) {
	prog := parseOK(t, `
class Animal {
	#name: string;
	constructor(name: string) { this.#name = name; }
	get name(): string { return this.#name; }
	speak(): string { return this.#name + " makes a sound"; }
}`)
	c, ok := prog.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected ClassDecl, got %T", prog.Statements[0])
	}
	if c.Name.Name != "Animal" {
		t.Fatalf("expected class name Animal, got %q", c.Name.Name)
	}
	var sawCtor, sawGetter, sawField bool
	for _, m := range c.Members {
		switch mm := m.(type) {
		case *ast.MethodDecl:
			if mm.Kind == ast.MethodConstructor {
				sawCtor = true
			}
			if mm.Kind == ast.MethodGetter {
				sawGetter = true
			}
		case *ast.FieldDecl:
			if mm.Private {
				sawField = true
			}
		}
	}
	if !sawCtor || !sawGetter || !sawField {
		t.Fatalf("expected constructor, getter and private field members, got %+v", c.Members)
	}
}

func TestParseClassExtendsImplements(t *testing.T) {
	prog := parseOK(t, `class Dog extends Animal implements Named {}`)
	c := prog.Statements[0].(*ast.ClassDecl)
	if c.SuperClass == nil {
		t.Fatalf("expected SuperClass to be set")
	}
	if len(c.Implements) != 1 {
		t.Fatalf("expected 1 implements entry, got %d", len(c.Implements))
	}
	if !c.ImplicitSuperCtor {
		t.Fatalf("expected ImplicitSuperCtor true when no constructor is declared")
	}
}

func TestParseForLoopLowering(t *testing.T) {
	prog := parseOK(t, `for (let i = 0; i < 10; i++) { sum += i; }`)
	block, ok := prog.Statements[0].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("expected lowered Block, got %T", prog.Statements[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected init + while, got %d statements", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*ast.VarStmt); !ok {
		t.Fatalf("expected first statement to be the init VarStmt, got %T", block.Statements[0])
	}
	while, ok := block.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected second statement to be a WhileStmt, got %T", block.Statements[1])
	}
	body, ok := while.Body.(*ast.BlockStmt)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("expected while body to contain original body + step, got %#v", while.Body)
	}
}

func TestParseForOf(t *testing.T) {
	prog := parseOK(t, `for (const x of items) { console.log(x); }`)
	forOf, ok := prog.Statements[0].(*ast.ForOfStmt)
	if !ok {
		t.Fatalf("expected ForOfStmt, got %T", prog.Statements[0])
	}
	if forOf.Modifier != ast.ModConst {
		t.Fatalf("expected const modifier")
	}
}

func TestParseForIn(t *testing.T) {
	prog := parseOK(t, `for (const k in obj) { }`)
	if _, ok := prog.Statements[0].(*ast.ForInStmt); !ok {
		t.Fatalf("expected ForInStmt, got %T", prog.Statements[0])
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := parseOK(t, `try { risky(); } catch (e) { handle(e); } finally { cleanup(); }`)
	tryStmt, ok := prog.Statements[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected TryStmt, got %T", prog.Statements[0])
	}
	if tryStmt.Catch == nil || tryStmt.Finally == nil {
		t.Fatalf("expected both catch and finally clauses")
	}
}

func TestParseSwitchStmt(t *testing.T) {
	prog := parseOK(t, `switch (x) { case 1: a(); break; default: b(); }`)
	sw, ok := prog.Statements[0].(*ast.SwitchStmt)
	if !ok {
		t.Fatalf("expected SwitchStmt, got %T", prog.Statements[0])
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}
}

func TestParseInterfaceAndTypeAlias(t *testing.T) {
	prog := parseOK(t, `
interface Point { x: number; y: number; }
type Pair<T> = [T, T];
`)
	if _, ok := prog.Statements[0].(*ast.InterfaceDecl); !ok {
		t.Fatalf("expected InterfaceDecl, got %T", prog.Statements[0])
	}
	alias, ok := prog.Statements[1].(*ast.TypeAliasDecl)
	if !ok {
		t.Fatalf("expected TypeAliasDecl, got %T", prog.Statements[1])
	}
	if _, ok := alias.Value.(*ast.TupleTypeRef); !ok {
		t.Fatalf("expected tuple type value, got %#v", alias.Value)
	}
}

func TestParseUnionAndConditionalType(t *testing.T) {
	prog := parseOK(t, `type R<T> = T extends string ? "str" : "other";`)
	alias := prog.Statements[0].(*ast.TypeAliasDecl)
	if _, ok := alias.Value.(*ast.ConditionalTypeRef); !ok {
		t.Fatalf("expected ConditionalTypeRef, got %#v", alias.Value)
	}
}

func TestParseImportExport(t *testing.T) {
	prog := parseOK(t, `
import { a, b as c } from "./mod";
export { a };
export default function foo() {}
`)
	imp, ok := prog.Statements[0].(*ast.ImportStmt)
	if !ok {
		t.Fatalf("expected ImportStmt, got %T", prog.Statements[0])
	}
	if len(imp.Named) != 2 || imp.Named[1].Alias != "c" {
		t.Fatalf("expected 2 named imports with alias, got %+v", imp.Named)
	}
	if _, ok := prog.Statements[1].(*ast.ExportStmt); !ok {
		t.Fatalf("expected ExportStmt, got %T", prog.Statements[1])
	}
	def := prog.Statements[2].(*ast.ExportStmt)
	if !def.Default {
		t.Fatalf("expected default export")
	}
}

func TestParseDestructuring(t *testing.T) {
	prog := parseOK(t, `const { a, b: renamed, ...rest } = obj;`)
	v := prog.Statements[0].(*ast.VarStmt)
	obj, ok := v.Pattern.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("expected ObjectLiteral pattern, got %T", v.Pattern)
	}
	if len(obj.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(obj.Properties))
	}
}

func TestParseErrorsCollectMultiple(t *testing.T) {
	_, errs := Parse(`let x = ; let y = ;`, Config{})
	if len(errs) < 2 {
		t.Fatalf("expected an error for each malformed declaration, got %v", errs)
	}
}
