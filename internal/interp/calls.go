package interp

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// evalCall resolves the callee (a plain function, a member expression
// giving a `this`-bound method, or `super(...)`) and invokes it, honouring
// optional calls (`f?.()`) and spread arguments.
func (c ctx) evalCall(n *ast.Call) (runtime.Value, error) {
	if _, ok := n.Callee.(*ast.Super); ok {
		return c.evalSuperCall(n)
	}
	callee, thisVal, err := c.resolveCallee(n.Callee)
	if err != nil {
		return nil, err
	}
	if n.Optional && runtime.IsNullish(callee) {
		return runtime.Undefined, nil
	}
	args, err := c.evalArgs(n.Args)
	if err != nil {
		return nil, err
	}
	return c.callValue(callee, thisVal, args)
}

// resolveCallee evaluates a call's callee expression, returning both the
// callable value and the `this` a member-call form should bind (spec
// §4.4: `obj.method()` passes obj as the receiver, a bare identifier or
// parenthesised expression passes undefined).
func (c ctx) resolveCallee(callee ast.Expr) (runtime.Value, runtime.Value, error) {
	switch t := callee.(type) {
	case *ast.Get:
		if s, ok := t.Object.(*ast.Super); ok {
			fn, err := c.evalSuperGet(s, t.Name)
			return fn, c.lookupThis(), err
		}
		obj, err := c.evalExpr(t.Object)
		if err != nil {
			return nil, nil, err
		}
		if t.Optional && runtime.IsNullish(obj) {
			return runtime.Undefined, runtime.Undefined, nil
		}
		fn, err := getProperty(c, obj, t.Name)
		if err != nil {
			return nil, nil, err
		}
		return fn, obj, nil
	case *ast.GetIndex:
		obj, err := c.evalExpr(t.Object)
		if err != nil {
			return nil, nil, err
		}
		if t.Optional && runtime.IsNullish(obj) {
			return runtime.Undefined, runtime.Undefined, nil
		}
		idx, err := c.evalExpr(t.Index)
		if err != nil {
			return nil, nil, err
		}
		fn, err := getProperty(c, obj, runtime.Stringify(idx))
		if err != nil {
			return nil, nil, err
		}
		return fn, obj, nil
	default:
		v, err := c.evalExpr(callee)
		return v, runtime.Undefined, err
	}
}

func (c ctx) evalArgs(argExprs []ast.Expr) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(argExprs))
	for _, a := range argExprs {
		if sp, ok := a.(*ast.Spread); ok {
			v, err := c.evalExpr(sp.Value)
			if err != nil {
				return nil, err
			}
			items, err := c.iterateToSlice(v)
			if err != nil {
				return nil, err
			}
			args = append(args, items...)
			continue
		}
		v, err := c.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// evalSuperCall runs `super(...)` inside a derived class constructor,
// invoking the parent class's constructor body (or its own implicit
// pass-through) against the already-allocated `this`.
func (c ctx) evalSuperCall(n *ast.Call) (runtime.Value, error) {
	this := c.lookupThis()
	inst, ok := this.(*runtime.Instance)
	if !ok || c.ownerClass == nil || c.ownerClass.Super == nil {
		return nil, c.typeError("'super' keyword is only valid inside a derived class constructor")
	}
	args, err := c.evalArgs(n.Args)
	if err != nil {
		return nil, err
	}
	return runtime.Undefined, c.runConstructor(c.ownerClass.Super, inst, args)
}

// evalNew resolves n.Callee to a class handle and instantiates it.
func (c ctx) evalNew(n *ast.New) (runtime.Value, error) {
	calleeVal, err := c.evalExpr(n.Callee)
	if err != nil {
		return nil, err
	}
	args, err := c.evalArgs(n.Args)
	if err != nil {
		return nil, err
	}
	if class, ok := calleeVal.(*runtime.Class); ok {
		return c.instantiate(class, args)
	}
	// Promise and the other host constructors installed by
	// installAsyncGlobals are native functions rather than runtime.Class
	// values; `new Promise(executor)` and plain `Promise(executor)` are
	// the same native call.
	if fn, ok := calleeVal.(*runtime.Function); ok && fn.NativeFn != nil {
		return fn.NativeFn(runtime.Undefined, args)
	}
	return nil, c.typeError("%s is not a constructor", runtime.TypeName(calleeVal))
}

// instantiate allocates a new instance of class, runs every class in its
// chain's field initializers base-first, then the most-derived
// constructor (spec §4.4). Field initializer order is a deliberate
// simplification versus real JS/TS semantics (which interleave field
// initialization with super() calls level by level): all fields across
// the chain are set before any constructor body runs.
func (c ctx) instantiate(class *runtime.Class, args []runtime.Value) (result runtime.Value, err error) {
	if class.Abstract {
		return nil, c.typeError("cannot create an instance of an abstract class")
	}
	inst := runtime.NewInstance(class)
	defer func() {
		if r := recover(); r != nil {
			if fp, ok := r.(fieldInitPanic); ok {
				result, err = nil, fp.err
				return
			}
			panic(r)
		}
	}()
	if ferr := c.initFieldsChain(class, inst); ferr != nil {
		return nil, ferr
	}
	if cerr := c.runConstructor(class, inst, args); cerr != nil {
		return nil, cerr
	}
	return inst, nil
}

func (c ctx) initFieldsChain(class *runtime.Class, inst *runtime.Instance) error {
	var chain []*runtime.Class
	for k := class; k != nil; k = k.Super {
		chain = append(chain, k)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, fi := range chain[i].FieldInits {
			if fi.HasInit {
				inst.SetField(fi.Name, fi.Eval(inst))
			} else {
				inst.SetField(fi.Name, runtime.Undefined)
			}
		}
	}
	return nil
}

// runConstructor runs class's own constructor against an already
// allocated instance, or forwards straight to the superclass when class
// declares none (spec §4.4's implicit pass-through constructor).
func (c ctx) runConstructor(class *runtime.Class, inst *runtime.Instance, args []runtime.Value) error {
	if class.Ctor == nil {
		if class.Super != nil {
			return c.runConstructor(class.Super, inst, args)
		}
		return nil
	}
	if class.Ctor.NativeFn != nil {
		_, err := class.Ctor.NativeFn(inst, args)
		return err
	}
	callEnv, err := bindCallEnv(class.Ctor, inst, args, c)
	if err != nil {
		return err
	}
	cc := ctx{it: c.it, env: callEnv, fiber: c.fiber, frame: class.Name + ".constructor", ownerClass: class}
	c.it.pushFrame(cc.frame, lexer.Position{})
	defer c.it.popFrame()
	_, err = cc.execBlock(class.Ctor.Body.Statements)
	return err
}
