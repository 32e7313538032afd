package checker

import (
	"strings"
	"testing"

	"github.com/mvendel/go-tsx/internal/parser"
)

func mustCheck(t *testing.T, src string) []*TypeCheckError {
	t.Helper()
	prog, perrs := parser.Parse(src, parser.Config{})
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, perrs)
	}
	_, errs := Check(prog, Options{})
	return errs
}

func TestHoistAllowsForwardReference(t *testing.T) {
	errs := mustCheck(t, `
		function callsLater(): number { return later(); }
		function later(): number { return 1; }
	`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestForwardReferenceClassField(t *testing.T) {
	errs := mustCheck(t, `
		class Box { value: Item; }
		class Item { tag: string = "x"; }
	`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestAssignabilityDiagnosticOnVarStmt(t *testing.T) {
	errs := mustCheck(t, `let x: string = 5;`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", errs)
	}
	if errs[0].Kind != NotAssignable {
		t.Fatalf("expected NotAssignable, got %v", errs[0].Kind)
	}
}

func TestConstReassignmentDiagnosed(t *testing.T) {
	errs := mustCheck(t, `
		const x = 1;
		x = 2;
	`)
	found := false
	for _, e := range errs {
		if e.Kind == ConstReassignment {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a ConstReassignment diagnostic, got %v", errs)
	}
}

func TestNotInScopeDiagnosed(t *testing.T) {
	errs := mustCheck(t, `console.log(undeclaredName);`)
	found := false
	for _, e := range errs {
		if e.Kind == NotInScope && strings.Contains(e.Message, "undeclaredName") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a NotInScope diagnostic naming undeclaredName, got %v", errs)
	}
}

func TestNarrowingInIfBranchAllowsMemberAccess(t *testing.T) {
	errs := mustCheck(t, `
		function describe(x: string | number): string {
			if (typeof x === "string") {
				return x.length > 0 ? x : "empty";
			}
			return "n";
		}
	`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors from narrowed branch, got %v", errs)
	}
}

func TestOverrideWithoutBaseMemberIsDiagnosed(t *testing.T) {
	errs := mustCheck(t, `
		class Animal {}
		class Dog extends Animal {
			override speak(): string { return "woof"; }
		}
	`)
	found := false
	for _, e := range errs {
		if e.Kind == OverrideMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an OverrideMismatch diagnostic, got %v", errs)
	}
}

func TestAbstractMemberMustBeImplemented(t *testing.T) {
	errs := mustCheck(t, `
		abstract class Shape {
			abstract area(): number;
		}
		class Circle extends Shape {
		}
	`)
	found := false
	for _, e := range errs {
		if e.Kind == AbstractNotImpl {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an AbstractMemberNotImplemented diagnostic, got %v", errs)
	}
}

func TestExcessArgumentCountDiagnosed(t *testing.T) {
	errs := mustCheck(t, `
		function add(a: number, b: number): number { return a + b; }
		add(1, 2, 3);
	`)
	found := false
	for _, e := range errs {
		if e.Kind == WrongArgCount {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a WrongArgCount diagnostic, got %v", errs)
	}
}
