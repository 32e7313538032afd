package runtime

import "github.com/mvendel/go-tsx/internal/ast"

// FunctionFlags records the function-value flags the spec requires
// (spec §3: "flags {async, generator, arrow, strict}").
type FunctionFlags struct {
	Async    bool
	Generator bool
	Arrow    bool
	Strict   bool
}

// Native is the signature native (host-provided) functions implement;
// `this` is Undefined for functions not called as a method.
type Native func(this Value, args []Value) (Value, error)

// Function is the runtime function value (spec §3): a formal-parameter
// list, a body reference, a captured environment handle, flags, an
// optional `this`-binding, and cached length/name for reflection. Either
// Body/Env (an interpreted function) or NativeFn (a host built-in) is
// set, never both.
type Function struct {
	Name     string
	Params   []*ast.Param
	Body     *ast.BlockStmt // nil for expression-bodied arrows; see ExprBody
	ExprBody ast.Expr
	Env      *Environment
	Flags    FunctionFlags
	BoundThis Value // set for arrow functions and Function.prototype.bind
	Length   int
	NativeFn Native

	// Class constructors that are implicit pass-throughs (spec §4.4:
	// "the engine synthesises a pass-through that forwards all arguments
	// to the parent") are marked here rather than carrying a synthesised
	// AST node.
	ImplicitSuperCtor bool

	// OwnerClass is set on methods/constructors built from a class body,
	// so a `super.x`/`super(...)` encountered while running this function
	// resolves against OwnerClass.Super rather than the instance's own
	// (possibly more derived) class.
	OwnerClass *Class

	// Statics holds properties hung directly off a native constructor
	// function value (e.g. Promise.resolve/reject/all/race), since such
	// constructors are Function values rather than Class values and so
	// have no StaticMethods map of their own.
	Statics map[string]*Function
}

func (*Function) TypeOf() string { return "function" }

// NewNativeFunction wraps a Go function as a runtime callable with the
// given display name and arity, used when wiring the built-in capability
// table (spec §6).
func NewNativeFunction(name string, length int, fn Native) *Function {
	return &Function{Name: name, Length: length, NativeFn: fn}
}
