package interp

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// hoistFunctionDecls pre-declares every function statement in stmts into
// env so mutually-recursive and forward-referenced functions resolve,
// matching ordinary JS function-declaration hoisting.
func hoistFunctionDecls(c ctx, stmts []ast.Stmt) {
	for _, s := range stmts {
		if fs, ok := s.(*ast.FunctionStmt); ok {
			fn := makeFunction(c, fs.Name, fs.Params, fs.Body, nil, fs.Flags)
			c.env.Declare(fs.Name, fn, runtime.DeclFunction)
		}
	}
}

// makeFunction builds a runtime.Function closing over c.env. body/exprBody
// mirror ast.ArrowFunction's split between block and expression bodies.
func makeFunction(c ctx, name string, params []*ast.Param, body *ast.BlockStmt, exprBody ast.Expr, flags ast.FuncFlags) *runtime.Function {
	return &runtime.Function{
		Name:     name,
		Params:   params,
		Body:     body,
		ExprBody: exprBody,
		Env:      c.env,
		Flags: runtime.FunctionFlags{
			Async:     flags.Async,
			Generator: flags.Generator,
			Arrow:     flags.Arrow,
		},
	}
}

// callValue invokes any callable runtime.Value (plain Function, bound
// arrow, generator, async function, or native) with the given `this`
// and arguments, dispatching generator/async bodies onto a fiber.
func (c ctx) callValue(callee runtime.Value, thisVal runtime.Value, args []runtime.Value) (runtime.Value, error) {
	fn, ok := callee.(*runtime.Function)
	if !ok {
		return nil, c.typeError("%s is not a function", runtime.TypeName(callee))
	}
	return c.callFunction(fn, thisVal, args)
}

func (c ctx) callFunction(fn *runtime.Function, thisVal runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if fn.NativeFn != nil {
		return fn.NativeFn(thisVal, args)
	}
	if c.it.depthExceeded() {
		return nil, &runtime.EngineFault{Message: "maximum call stack size exceeded"}
	}
	if fn.Flags.Generator {
		return c.it.callGeneratorFunction(fn, thisVal, args), nil
	}
	if fn.Flags.Async {
		return c.it.callAsyncFunction(fn, thisVal, args), nil
	}
	callEnv, err := bindCallEnv(fn, thisVal, args, c)
	if err != nil {
		return nil, err
	}
	cc := ctx{it: c.it, env: callEnv, fiber: c.fiber, frame: displayName(fn), ownerClass: fn.OwnerClass}
	c.it.pushFrame(cc.frame, lexer.Position{})
	defer c.it.popFrame()
	if fn.ExprBody != nil {
		return cc.evalExpr(fn.ExprBody)
	}
	comp, err := cc.execBlock(fn.Body.Statements)
	if err != nil {
		return nil, err
	}
	if comp.Kind == Return {
		return comp.Value, nil
	}
	return runtime.Undefined, nil
}

func displayName(fn *runtime.Function) string {
	if fn.Name != "" {
		return fn.Name
	}
	return "<anonymous>"
}

// bindCallEnv creates the fresh per-call environment: `this` (for
// non-arrow functions; arrows use BoundThis captured at creation and
// never get their own `this` binding), named-function-expression
// self-binding, `arguments`, and formal parameters (with defaults, rest,
// and destructuring).
func bindCallEnv(fn *runtime.Function, thisVal runtime.Value, args []runtime.Value, c ctx) (*runtime.Environment, error) {
	base := fn.Env
	if fn.Name != "" && !fn.Flags.Arrow {
		// Named function expression self-reference (spec SPEC_FULL.md §C.2):
		// a synthetic one-slot scope binding the function's own name so it
		// can recurse even when not otherwise in scope.
		self := base.NewChild()
		self.Declare(fn.Name, fn, runtime.DeclConst)
		base = self
	}
	env := base.NewChild()
	if !fn.Flags.Arrow {
		effectiveThis := thisVal
		if fn.BoundThis != nil {
			effectiveThis = fn.BoundThis
		}
		env.Declare("this", effectiveThis, runtime.DeclConst)
		env.Declare("arguments", runtime.NewArray(append([]runtime.Value{}, args...)...), runtime.DeclConst)
	}
	if err := bindParams(ctx{it: c.it, env: env, fiber: c.fiber}, fn.Params, args); err != nil {
		return nil, err
	}
	return env, nil
}

// bindParams binds each formal parameter (possibly destructured, with a
// default evaluated against the in-progress call environment, and a
// trailing rest parameter) from args.
func bindParams(c ctx, params []*ast.Param, args []runtime.Value) error {
	for i, p := range params {
		if p.Flags.Rest {
			rest := []runtime.Value{}
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			return bindPattern(c, p.Pattern, runtime.NewArray(rest...), runtime.DeclLet)
		}
		var v runtime.Value = runtime.Undefined
		if i < len(args) {
			v = args[i]
		}
		if runtime.IsUndefined(v) && p.Default != nil {
			dv, err := c.evalExpr(p.Default)
			if err != nil {
				return err
			}
			v = dv
		}
		if err := bindPattern(c, p.Pattern, v, runtime.DeclLet); err != nil {
			return err
		}
	}
	return nil
}

// callGeneratorFunction builds the iterator object backing a generator
// call: calling the function itself only allocates the fiber — the body
// starts running on the first `.next()` (spec §4.4 generator semantics).
func (it *Interpreter) callGeneratorFunction(fn *runtime.Function, thisVal runtime.Value, args []runtime.Value) *runtime.Object {
	callEnv, bindErr := bindCallEnv(fn, thisVal, args, ctx{it: it})
	var fb *fiber
	fb = newFiber(func(f *fiber) {
		if bindErr != nil {
			f.finish(nil, bindErr)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				if rs, ok := r.(returnSignal); ok {
					f.finish(rs.value, nil)
					return
				}
				panic(r)
			}
		}()
		cc := ctx{it: it, env: callEnv, fiber: f, frame: displayName(fn), ownerClass: fn.OwnerClass}
		comp, err := cc.execBlock(fn.Body.Statements)
		if err != nil {
			f.finish(nil, err)
			return
		}
		val := runtime.Value(runtime.Undefined)
		if comp.Kind == Return {
			val = comp.Value
		}
		f.finish(val, nil)
	})
	return it.wrapGenerator(fb)
}

func (it *Interpreter) wrapGenerator(fb *fiber) *runtime.Object {
	obj := runtime.NewObject()
	result := func(value runtime.Value, done bool) *runtime.Object {
		r := runtime.NewObject()
		r.Set("value", value, nil)
		r.Set("done", runtime.Boolean(done), nil)
		return r
	}
	advance := func(out fiberOut) (runtime.Value, error) {
		if out.kind == outDone {
			if out.err != nil {
				return nil, out.err
			}
			return result(out.value, true), nil
		}
		return result(out.value, false), nil
	}
	obj.Set("next", runtime.NewNativeFunction("next", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg0(args)
		var out fiberOut
		if !fb.started {
			out = fb.start()
		} else {
			out = fb.resume(fiberMsg{kind: resumeNext, value: v})
		}
		return advance(out)
	}), nil)
	obj.Set("return", runtime.NewNativeFunction("return", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg0(args)
		if !fb.started || fb.done {
			return result(v, true), nil
		}
		return advance(fb.resume(fiberMsg{kind: resumeReturn, value: v}))
	}), nil)
	obj.Set("throw", runtime.NewNativeFunction("throw", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v := arg0(args)
		if !fb.started || fb.done {
			return nil, runtime.Throw(v)
		}
		return advance(fb.resume(fiberMsg{kind: resumeThrow, value: v}))
	}), nil)
	obj.SetSymbol(runtime.SymbolIterator, runtime.NewNativeFunction("[Symbol.iterator]", 0, func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		return obj, nil
	}))
	return obj
}

func arg0(args []runtime.Value) runtime.Value {
	if len(args) > 0 {
		return args[0]
	}
	return runtime.Undefined
}

// callAsyncFunction runs fn's body on a fiber that suspends at every
// `await`, returning a Promise immediately that settles once the body
// finishes (spec §4.4/§5).
func (it *Interpreter) callAsyncFunction(fn *runtime.Function, thisVal runtime.Value, args []runtime.Value) *runtime.Promise {
	callEnv, bindErr := bindCallEnv(fn, thisVal, args, ctx{it: it})
	result := runtime.NewPromise(it.Sched)
	var fb *fiber
	fb = newFiber(func(f *fiber) {
		if bindErr != nil {
			f.finish(nil, bindErr)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				if rs, ok := r.(returnSignal); ok {
					f.finish(rs.value, nil)
					return
				}
				panic(r)
			}
		}()
		cc := ctx{it: it, env: callEnv, fiber: f, frame: displayName(fn), ownerClass: fn.OwnerClass}
		var comp Completion
		var err error
		if fn.ExprBody != nil {
			v, e := cc.evalExpr(fn.ExprBody)
			comp, err = Completion{Kind: Return, Value: v}, e
		} else {
			comp, err = cc.execBlock(fn.Body.Statements)
		}
		if err != nil {
			f.finish(nil, err)
			return
		}
		val := runtime.Value(runtime.Undefined)
		if comp.Kind == Return {
			val = comp.Value
		}
		f.finish(val, nil)
	})
	it.driveAsync(fb, result, fb.start())
	return result
}

// driveAsync feeds fiber suspension/completion events back into the
// promise driving an async call, re-entering itself (via the promise
// reaction microtask) each time the awaited value settles.
func (it *Interpreter) driveAsync(fb *fiber, result *runtime.Promise, out fiberOut) {
	switch out.kind {
	case outDone:
		if out.err != nil {
			if te, ok := out.err.(*runtime.ThrownError); ok {
				result.Reject(te.Val, it.runFunc)
			} else {
				result.Reject(runtime.String(out.err.Error()), it.runFunc)
			}
			return
		}
		result.Resolve(out.value, it.runFunc)
	case outAwait:
		awaited := it.toPromise(out.value)
		onFulfilled := runtime.NewNativeFunction("", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			next := fb.resume(fiberMsg{kind: resumeNext, value: arg0(args)})
			it.driveAsync(fb, result, next)
			return runtime.Undefined, nil
		})
		onRejected := runtime.NewNativeFunction("", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			next := fb.resume(fiberMsg{kind: resumeThrow, value: arg0(args)})
			it.driveAsync(fb, result, next)
			return runtime.Undefined, nil
		})
		awaited.Then(onFulfilled, onRejected, it.runFunc)
	case outYield:
		// A bare `yield` inside an async (non-generator) function is not
		// valid; the function's promise is rejected with a message saying so.
		result.Reject(runtime.String("yield used outside a generator"), it.runFunc)
	}
}

// runFunc adapts callFunction to the `run` signature runtime.Promise
// needs to invoke then/catch handlers without importing this package.
func (it *Interpreter) runFunc(fn *runtime.Function, args []runtime.Value) (runtime.Value, error) {
	c := ctx{it: it, env: it.Globals}
	return c.callFunction(fn, runtime.Undefined, args)
}

// toPromise wraps a plain value as an already-resolved Promise so
// `await` over a non-promise value works uniformly.
func (it *Interpreter) toPromise(v runtime.Value) *runtime.Promise {
	if p, ok := v.(*runtime.Promise); ok {
		return p
	}
	p := runtime.NewPromise(it.Sched)
	p.Resolve(v, it.runFunc)
	return p
}
