package interp

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// fieldInitPanic carries a thrown error out of a runtime.FieldInit.Eval
// closure, whose signature (fixed by the runtime package, spec §3) has
// no error return; instantiate recovers it and turns it back into a Go
// error.
type fieldInitPanic struct{ err error }

// evalClassDecl builds the runtime.Class handle for a class declaration
// or expression (spec §4.4). The class's own name is pre-declared in a
// child scope before members are built, so static methods/fields and
// instance methods can recurse through it the same way a named function
// expression can recurse through its own name (functions.go's
// bindCallEnv).
func (c ctx) evalClassDecl(decl *ast.ClassDecl) (*runtime.Class, error) {
	var super *runtime.Class
	if decl.SuperClass != nil {
		sv, err := c.evalExpr(decl.SuperClass)
		if err != nil {
			return nil, err
		}
		s, ok := sv.(*runtime.Class)
		if !ok {
			return nil, c.typeError("class extends value is not a constructor")
		}
		super = s
	}

	class := &runtime.Class{
		Name:              nameOf(decl.Name),
		Super:             super,
		Abstract:          decl.Abstract,
		ImplicitSuperCtor: decl.ImplicitSuperCtor,
		Methods:           map[string]*runtime.Function{},
		Getters:           map[string]*runtime.Function{},
		Setters:           map[string]*runtime.Function{},
		StaticMethods:     map[string]*runtime.Function{},
		StaticGetters:     map[string]*runtime.Function{},
		StaticSetters:     map[string]*runtime.Function{},
	}

	classEnv := c.env.NewChild()
	if decl.Name != nil {
		classEnv.Declare(decl.Name.Name, class, runtime.DeclClass)
	}
	cc := c.withEnv(classEnv)

	var staticBlocks []*ast.StaticBlockDecl
	for _, m := range decl.Members {
		switch member := m.(type) {
		case *ast.FieldDecl:
			if member.Flags.Static {
				cc.initStaticField(class, member)
			} else {
				class.FieldInits = append(class.FieldInits, cc.buildFieldInit(member))
			}
		case *ast.MethodDecl:
			cc.installMethod(class, member)
		case *ast.AutoAccessorDecl:
			cc.installAutoAccessor(class, member)
		case *ast.StaticBlockDecl:
			staticBlocks = append(staticBlocks, member)
		}
	}

	for _, blk := range staticBlocks {
		blkCtx := ctx{it: cc.it, env: classEnv.NewChild(), fiber: cc.fiber, frame: class.Name, ownerClass: class}
		blkCtx.env.Declare("this", class, runtime.DeclConst)
		if _, err := blkCtx.execBlock(blk.Body.Statements); err != nil {
			return nil, err
		}
	}

	return class, nil
}

func nameOf(id *ast.Ident) string {
	if id == nil {
		return "<anonymous>"
	}
	return id.Name
}

// buildFieldInit wraps an instance field declaration as a
// runtime.FieldInit; the Eval closure panics (fieldInitPanic) on a
// thrown initializer expression since FieldInit.Eval has no error return.
func (c ctx) buildFieldInit(fd *ast.FieldDecl) runtime.FieldInit {
	return runtime.FieldInit{
		Name:    fd.Name,
		Private: fd.Private,
		HasInit: fd.Value != nil,
		Eval: func(this *runtime.Instance) runtime.Value {
			if fd.Value == nil {
				return runtime.Undefined
			}
			fieldCtx := ctx{it: c.it, env: c.env.NewChild(), fiber: c.fiber, ownerClass: c.ownerClass}
			fieldCtx.env.Declare("this", this, runtime.DeclConst)
			v, err := fieldCtx.evalExpr(fd.Value)
			if err != nil {
				panic(fieldInitPanic{err: err})
			}
			return v
		},
	}
}

func (c ctx) initStaticField(class *runtime.Class, fd *ast.FieldDecl) {
	if class.StaticFields == nil {
		class.StaticFields = runtime.NewObject()
	}
	var v runtime.Value = runtime.Undefined
	if fd.Value != nil {
		fieldCtx := c
		fieldCtx.env = c.env.NewChild()
		fieldCtx.env.Declare("this", class, runtime.DeclConst)
		if val, err := fieldCtx.evalExpr(fd.Value); err == nil {
			v = val
		}
	}
	class.StaticFields.Set(fd.Name, v, nil)
}

func (c ctx) installMethod(class *runtime.Class, md *ast.MethodDecl) {
	fn := &runtime.Function{
		Name:       md.Name,
		Params:     md.Params,
		Body:       md.Body,
		Env:        c.env,
		OwnerClass: class,
		Flags: runtime.FunctionFlags{
			Async:     md.FuncFlags.Async,
			Generator: md.FuncFlags.Generator,
		},
	}
	if md.Kind == ast.MethodConstructor {
		class.Ctor = fn
		return
	}
	if md.Flags.Static {
		switch md.Kind {
		case ast.MethodGetter:
			class.StaticGetters[md.Name] = fn
		case ast.MethodSetter:
			class.StaticSetters[md.Name] = fn
		default:
			class.StaticMethods[md.Name] = fn
		}
		return
	}
	switch md.Kind {
	case ast.MethodGetter:
		class.Getters[md.Name] = fn
	case ast.MethodSetter:
		class.Setters[md.Name] = fn
	default:
		class.Methods[md.Name] = fn
	}
}

// installAutoAccessor models TC39 auto-accessors (`accessor x = v`) as a
// backing field plus a getter/setter pair over it, since the value
// system has no separate accessor-storage slot.
func (c ctx) installAutoAccessor(class *runtime.Class, a *ast.AutoAccessorDecl) {
	backing := "#__accessor_" + a.Name
	class.FieldInits = append(class.FieldInits, c.buildFieldInit(&ast.FieldDecl{
		Token: a.Token, Name: backing, Value: a.Value, Flags: a.Flags,
	}))
	getter := runtime.NewNativeFunction(a.Name, 0, func(this runtime.Value, _ []runtime.Value) (runtime.Value, error) {
		inst, ok := this.(*runtime.Instance)
		if !ok {
			return runtime.Undefined, nil
		}
		v, _ := inst.GetField(backing)
		return v, nil
	})
	setter := runtime.NewNativeFunction(a.Name, 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		inst, ok := this.(*runtime.Instance)
		if !ok {
			return runtime.Undefined, nil
		}
		inst.SetField(backing, arg0(args))
		return runtime.Undefined, nil
	})
	if a.Flags.Static {
		class.StaticGetters[a.Name] = getter
		class.StaticSetters[a.Name] = setter
		return
	}
	class.Getters[a.Name] = getter
	class.Setters[a.Name] = setter
}
