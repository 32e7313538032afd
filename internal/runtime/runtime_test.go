package runtime

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Number(0), false}, {Number(1), true},
		{String(""), false}, {String("x"), true},
		{Boolean(false), false}, {Boolean(true), true},
		{Null, false}, {Undefined, false},
		{NewArray(), true}, {NewObject(), true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEnvironmentShadowingAndAssign(t *testing.T) {
	root := NewEnvironment()
	root.Declare("x", Number(1), DeclLet)
	child := root.NewChild()
	child.Declare("x", Number(2), DeclConst)

	if v, _ := child.Get("x"); v != Number(2) {
		t.Fatalf("expected shadowed x=2, got %v", v)
	}
	if err := child.Assign("x", Number(3)); err == nil {
		t.Fatalf("expected assignment to const to fail")
	}
	if err := root.Assign("x", Number(9)); err != nil {
		t.Fatalf("unexpected error assigning root x: %v", err)
	}
	if v, _ := root.Get("x"); v != Number(9) {
		t.Fatalf("expected root x=9, got %v", v)
	}
}

func TestObjectFreezeRejectsWrite(t *testing.T) {
	o := NewObject()
	o.Set("a", Number(1), nil)
	o.Freeze()
	if o.Set("a", Number(2), nil) {
		t.Fatalf("expected write to frozen object to be rejected")
	}
	if v, _ := o.Get("a", nil); v != Number(1) {
		t.Fatalf("expected value unchanged after rejected write")
	}
	if o.Delete("a") {
		t.Fatalf("expected delete on frozen object to be rejected")
	}
}

func TestArrayMutatorsRespectSeal(t *testing.T) {
	a := NewArray(Number(1), Number(2))
	a.Seal()
	if a.Push(Number(3)) {
		t.Fatalf("expected push on sealed array to be rejected")
	}
	if a.Set(0, Number(99)); a.Get(0) != Number(99) {
		t.Fatalf("expected in-place write to succeed on sealed (not frozen) array")
	}
}

func TestArraySplice(t *testing.T) {
	a := NewArray(Number(1), Number(2), Number(3), Number(4))
	removed := a.Splice(1, 2, []Value{Number(20)})
	if len(removed) != 2 || removed[0] != Number(2) || removed[1] != Number(3) {
		t.Fatalf("unexpected removed elements: %v", removed)
	}
	if a.Len() != 3 || a.Get(1) != Number(20) {
		t.Fatalf("unexpected splice result: %+v", a.Elements)
	}
}

func TestStringifyTopLevelVsNested(t *testing.T) {
	if got := Stringify(String("hi")); got != "hi" {
		t.Fatalf("top-level string should be unquoted, got %q", got)
	}
	arr := NewArray(String("hi"), Number(1))
	if got := Stringify(arr); got != `["hi", 1]` {
		t.Fatalf("nested string should be quoted, got %q", got)
	}
}

func TestStringifyInstance(t *testing.T) {
	class := &Class{Name: "Point"}
	inst := NewInstance(class)
	inst.SetField("x", Number(1))
	inst.SetField("y", Number(2))
	if got := Stringify(inst); got != "Point { x: 1, y: 2 }" {
		t.Fatalf("unexpected instance stringify: %q", got)
	}
}

func TestClassChainInstanceof(t *testing.T) {
	animal := &Class{Name: "Animal"}
	dog := &Class{Name: "Dog", Super: animal}
	if !dog.IsSubclassOf(animal) {
		t.Fatalf("expected Dog to be a subclass of Animal")
	}
	if animal.IsSubclassOf(dog) {
		t.Fatalf("expected Animal not to be a subclass of Dog")
	}
}

func TestSchedulerMicrotaskAndTimerOrdering(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.EnqueueMicrotask(func() { order = append(order, "micro1") })
	s.EnqueueMicrotask(func() { order = append(order, "micro2") })
	s.DrainMicrotasks()

	s.ScheduleTimer(10, false, func() { order = append(order, "timerA") })
	s.ScheduleTimer(5, false, func() { order = append(order, "timerB") })
	s.AdvanceTo(10)

	want := []string{"micro1", "micro2", "timerB", "timerA"}
	if len(order) != len(want) {
		t.Fatalf("unexpected order: %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected order: %v", order)
		}
	}
}

func TestPromiseResolveRunsReactionAsMicrotask(t *testing.T) {
	s := NewScheduler()
	p := NewPromise(s)
	var seen Value
	run := func(fn *Function, args []Value) (Value, error) { return fn.NativeFn(Undefined, args) }
	p.Then(NewNativeFunction("", 1, func(_ Value, args []Value) (Value, error) {
		seen = args[0]
		return Undefined, nil
	}), nil, run)
	p.Resolve(Number(42), run)
	if seen != nil {
		t.Fatalf("reaction should not run synchronously")
	}
	s.DrainMicrotasks()
	if seen != Number(42) {
		t.Fatalf("expected reaction to observe resolved value, got %v", seen)
	}
}
