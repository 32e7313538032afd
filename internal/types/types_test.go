package types

import "testing"

func TestUnionFlattensAndDropsNever(t *testing.T) {
	u := Union(String, Union(Number, Never), String)
	if u.Kind != KindUnion {
		t.Fatalf("expected union, got %s", u.String())
	}
	if len(u.Members) != 2 {
		t.Fatalf("expected 2 deduped members, got %d (%s)", len(u.Members), u.String())
	}
}

func TestUnionAbsorbsAny(t *testing.T) {
	u := Union(String, Any)
	if u.Kind != KindAny {
		t.Fatalf("expected any to absorb union, got %s", u.String())
	}
}

func TestWidenLiteral(t *testing.T) {
	lit := Literal("hi")
	if w := Widen(lit); w != String {
		t.Fatalf("expected widen to string, got %s", w.String())
	}
	if w := Widen(Number); w != Number {
		t.Fatalf("widen should be identity for non-literals")
	}
}

func TestAssignableAnyNever(t *testing.T) {
	if !Assignable(Number, Any, false) {
		t.Fatalf("any should be assignable to number")
	}
	if !Assignable(Any, String, false) {
		t.Fatalf("anything should be assignable to any")
	}
	if !Assignable(String, Never, false) {
		t.Fatalf("never should be assignable to everything")
	}
	if Assignable(Never, String, false) {
		t.Fatalf("nothing but never should be assignable to never")
	}
}

func TestAssignableUnion(t *testing.T) {
	u := Union(Literal("a"), Literal("b"))
	if !Assignable(u, Literal("a"), false) {
		t.Fatalf("literal should be assignable into matching union member")
	}
	if Assignable(u, Literal("c"), false) {
		t.Fatalf("non-matching literal should not be assignable")
	}
	if !Assignable(String, u, false) {
		t.Fatalf("union of string literals should be assignable to string")
	}
}

func TestAssignableRecordExcessProperty(t *testing.T) {
	expected := &Type{Kind: KindRecord, Fields: map[string]*Type{"a": Number}}
	actual := &Type{Kind: KindRecord, Fields: map[string]*Type{"a": Number, "b": String}}
	if Assignable(expected, actual, true) {
		t.Fatalf("expected excess-property check to reject fresh object literal with extra field")
	}
	if !Assignable(expected, actual, false) {
		t.Fatalf("expected non-fresh assignment to allow excess fields")
	}
}

func TestAssignableRecordMissingOptional(t *testing.T) {
	expected := &Type{Kind: KindRecord, Fields: map[string]*Type{"a": Number, "b": String}, OptionalKeys: map[string]bool{"b": true}}
	actual := &Type{Kind: KindRecord, Fields: map[string]*Type{"a": Number}}
	if !Assignable(expected, actual, false) {
		t.Fatalf("missing optional field should still be assignable")
	}
}

func TestAssignableFunctionVariance(t *testing.T) {
	animal := &Type{Kind: KindClass, Name: "Animal", DeclSite: 1}
	dog := &Type{Kind: KindClass, Name: "Dog", SuperClass: animal, DeclSite: 2}
	// expected: (Dog) => Dog   actual: (Animal) => Dog
	// actual accepts a wider param (contravariant, OK) and returns the same (covariant, OK).
	expected := &Type{Kind: KindFunction,
		Params: []Param{{Name: "x", Type: &Type{Kind: KindInstance, Class: dog}}},
		Return: &Type{Kind: KindInstance, Class: dog}}
	actual := &Type{Kind: KindFunction,
		Params: []Param{{Name: "a", Type: &Type{Kind: KindInstance, Class: animal}}},
		Return: &Type{Kind: KindInstance, Class: dog}}
	if !Assignable(expected, actual, false) {
		t.Fatalf("expected contravariant param / covariant return to be assignable")
	}
	if Assignable(actual, expected, false) {
		t.Fatalf("narrower param function should not be assignable where wider param is expected")
	}
}

func TestClassChainNominal(t *testing.T) {
	animal := &Type{Kind: KindClass, Name: "Animal", DeclSite: 1}
	dog := &Type{Kind: KindClass, Name: "Dog", SuperClass: animal, DeclSite: 2}
	if !Assignable(animal, dog, false) {
		t.Fatalf("Dog should be assignable to Animal via superclass chain")
	}
	if Assignable(dog, animal, false) {
		t.Fatalf("Animal should not be assignable to Dog")
	}
}

func TestNarrowTypeofUnion(t *testing.T) {
	u := Union(String, Number)
	g := Guard{Kind: GuardTypeof, TypeofTag: "string"}
	then := Narrow(u, g, true)
	if then.Kind != KindString {
		t.Fatalf("expected then-branch narrowed to string, got %s", then.String())
	}
	els := Narrow(u, g, false)
	if els.Kind != KindNumber {
		t.Fatalf("expected else-branch narrowed to number, got %s", els.String())
	}
}

func TestNarrowDiscriminant(t *testing.T) {
	a := &Type{Kind: KindRecord, Fields: map[string]*Type{"kind": Literal("a"), "x": Number}}
	b := &Type{Kind: KindRecord, Fields: map[string]*Type{"kind": Literal("b"), "y": String}}
	u := Union(a, b)
	then := Narrow(u, Guard{Kind: GuardDiscriminant, Field: "kind", Literal: "a"}, true)
	if then.Kind != KindRecord || then.Fields["x"] == nil {
		t.Fatalf("expected then-branch narrowed to variant a, got %s", then.String())
	}
}
