package interp

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// execStmt runs a single statement to its Execution Result (spec §4.4).
// Labeled break/continue targeting is threaded in via execLabeled so a
// chain of LabeledStmt wrappers around a loop/switch is collapsed before
// the loop actually runs.
func (c ctx) execStmt(stmt ast.Stmt) (Completion, error) {
	return c.execLabeled(stmt, nil)
}

func (c ctx) execLabeled(stmt ast.Stmt, labels blockLabels) (Completion, error) {
	switch s := stmt.(type) {
	case *ast.LabeledStmt:
		return c.execLabeled(s.Body, append(append(blockLabels{}, labels...), s.Label))
	case *ast.BlockStmt:
		// lowerForStmt wraps a C-style for's init statement and its
		// desugared WhileStmt in a BlockStmt, so a label on the original
		// for-loop reaches here as a label on this block rather than
		// directly on a loop node. Forward it to the block's last
		// statement, the only place a loop/switch can still be hiding.
		return c.execLabeledBlock(s, labels)
	case *ast.WhileStmt:
		return c.execWhile(s, labels)
	case *ast.DoWhileStmt:
		return c.execDoWhile(s, labels)
	case *ast.ForStmt:
		return c.execForStmt(s, labels)
	case *ast.ForOfStmt:
		return c.execForOf(s, labels)
	case *ast.ForInStmt:
		return c.execForIn(s, labels)
	case *ast.SwitchStmt:
		return c.execSwitch(s, labels)
	default:
		return c.execPlain(stmt)
	}
}

// execBlock runs stmts in the current environment (the caller is
// responsible for having already entered a child scope, if one is
// needed), propagating the first non-Normal completion.
func (c ctx) execBlock(stmts []ast.Stmt) (Completion, error) {
	var last runtime.Value = runtime.Undefined
	for _, s := range stmts {
		comp, err := c.execStmt(s)
		if err != nil {
			return Completion{}, err
		}
		if comp.Kind != Normal {
			return comp, nil
		}
		if comp.Value != nil {
			last = comp.Value
		}
	}
	return normal(last), nil
}

func (c ctx) execNestedBlock(b *ast.BlockStmt) (Completion, error) {
	bc := c.child()
	hoistFunctionDecls(bc, b.Statements)
	return bc.execBlock(b.Statements)
}

// execLabeledBlock runs a block the same way execNestedBlock does, except
// the last statement is reached through execLabeled rather than execStmt
// so labels accumulated above this block still apply to it.
func (c ctx) execLabeledBlock(b *ast.BlockStmt, labels blockLabels) (Completion, error) {
	bc := c.child()
	hoistFunctionDecls(bc, b.Statements)
	var last runtime.Value = runtime.Undefined
	for i, s := range b.Statements {
		var comp Completion
		var err error
		if i == len(b.Statements)-1 {
			comp, err = bc.execLabeled(s, labels)
		} else {
			comp, err = bc.execStmt(s)
		}
		if err != nil {
			return Completion{}, err
		}
		if comp.Kind != Normal {
			return comp, nil
		}
		if comp.Value != nil {
			last = comp.Value
		}
	}
	return normal(last), nil
}

func (c ctx) execPlain(stmt ast.Stmt) (Completion, error) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return c.execNestedBlock(s)
	case *ast.ExprStmt:
		v, err := c.evalExpr(s.Expr)
		if err != nil {
			return Completion{}, err
		}
		return normal(v), nil
	case *ast.VarStmt:
		var v runtime.Value = runtime.Undefined
		if s.Value != nil {
			val, err := c.evalExpr(s.Value)
			if err != nil {
				return Completion{}, err
			}
			v = val
		}
		if err := bindPattern(c, s.Pattern, v, varDeclKind(s.Modifier)); err != nil {
			return Completion{}, err
		}
		return normal(runtime.Undefined), nil
	case *ast.FunctionStmt:
		// Already bound by hoistFunctionDecls at block entry.
		return normal(runtime.Undefined), nil
	case *ast.IfStmt:
		cond, err := c.evalExpr(s.Cond)
		if err != nil {
			return Completion{}, err
		}
		if runtime.Truthy(cond) {
			return c.execStmt(s.Then)
		}
		if s.Else != nil {
			return c.execStmt(s.Else)
		}
		return normal(runtime.Undefined), nil
	case *ast.ReturnStmt:
		var v runtime.Value = runtime.Undefined
		if s.Value != nil {
			val, err := c.evalExpr(s.Value)
			if err != nil {
				return Completion{}, err
			}
			v = val
		}
		return Completion{Kind: Return, Value: v}, nil
	case *ast.BreakStmt:
		return Completion{Kind: Break, Label: s.Label}, nil
	case *ast.ContinueStmt:
		return Completion{Kind: Continue, Label: s.Label}, nil
	case *ast.ThrowStmt:
		v, err := c.evalExpr(s.Value)
		if err != nil {
			return Completion{}, err
		}
		return Completion{}, runtime.Throw(v)
	case *ast.TryStmt:
		return c.execTry(s)
	case *ast.ClassDecl:
		class, err := c.evalClassDecl(s)
		if err != nil {
			return Completion{}, err
		}
		if s.Name != nil {
			c.env.Declare(s.Name.Name, class, runtime.DeclClass)
		}
		return normal(runtime.Undefined), nil
	case *ast.EnumDecl:
		return c.execEnum(s)
	case *ast.NamespaceDecl:
		return c.execNamespace(s)
	case *ast.InterfaceDecl, *ast.TypeAliasDecl:
		return normal(runtime.Undefined), nil
	case *ast.ImportStmt:
		// Module-level import wiring runs in modules.go before a module's
		// body executes; reaching one here (e.g. a script with no module
		// graph) is a no-op.
		return normal(runtime.Undefined), nil
	case *ast.ExportStmt:
		if s.Decl != nil {
			return c.execStmt(s.Decl)
		}
		if s.DefaultExpr != nil {
			v, err := c.evalExpr(s.DefaultExpr)
			if err != nil {
				return Completion{}, err
			}
			c.env.Declare("default", v, runtime.DeclConst)
		}
		return normal(runtime.Undefined), nil
	default:
		return Completion{}, c.typeError("cannot execute statement node")
	}
}

func varDeclKind(m ast.VarModifier) runtime.DeclKind {
	switch m {
	case ast.ModConst:
		return runtime.DeclConst
	case ast.ModLet:
		return runtime.DeclLet
	default:
		return runtime.DeclVar
	}
}

func (c ctx) execWhile(s *ast.WhileStmt, labels blockLabels) (Completion, error) {
	for {
		cv, err := c.evalExpr(s.Cond)
		if err != nil {
			return Completion{}, err
		}
		if !runtime.Truthy(cv) {
			break
		}
		comp, err := c.execStmt(s.Body)
		if err != nil {
			return Completion{}, err
		}
		switch comp.Kind {
		case Break:
			if comp.Label == "" || labels.has(comp.Label) {
				return normal(runtime.Undefined), nil
			}
			return comp, nil
		case Continue:
			if comp.Label != "" && !labels.has(comp.Label) {
				return comp, nil
			}
		case Return:
			return comp, nil
		}
		if s.Step != nil {
			if _, err := c.evalExpr(s.Step); err != nil {
				return Completion{}, err
			}
		}
	}
	return normal(runtime.Undefined), nil
}

func (c ctx) execDoWhile(s *ast.DoWhileStmt, labels blockLabels) (Completion, error) {
	for {
		comp, err := c.execStmt(s.Body)
		if err != nil {
			return Completion{}, err
		}
		switch comp.Kind {
		case Break:
			if comp.Label == "" || labels.has(comp.Label) {
				return normal(runtime.Undefined), nil
			}
			return comp, nil
		case Continue:
			if comp.Label != "" && !labels.has(comp.Label) {
				return comp, nil
			}
		case Return:
			return comp, nil
		}
		cv, err := c.evalExpr(s.Cond)
		if err != nil {
			return Completion{}, err
		}
		if !runtime.Truthy(cv) {
			break
		}
	}
	return normal(runtime.Undefined), nil
}

// execForStmt defensively lowers a source-level `for(;;)` that reached
// the interpreter unlowered (ast.ForStmt's doc comment: the parser
// normally desugars it into Block{init; While} itself).
func (c ctx) execForStmt(s *ast.ForStmt, labels blockLabels) (Completion, error) {
	loopCtx := c.child()
	if s.Init != nil {
		if _, err := loopCtx.execStmt(s.Init); err != nil {
			return Completion{}, err
		}
	}
	for {
		if s.Test != nil {
			tv, err := loopCtx.evalExpr(s.Test)
			if err != nil {
				return Completion{}, err
			}
			if !runtime.Truthy(tv) {
				break
			}
		}
		comp, err := loopCtx.execStmt(s.Body)
		if err != nil {
			return Completion{}, err
		}
		switch comp.Kind {
		case Break:
			if comp.Label == "" || labels.has(comp.Label) {
				return normal(runtime.Undefined), nil
			}
			return comp, nil
		case Continue:
			if comp.Label != "" && !labels.has(comp.Label) {
				return comp, nil
			}
		case Return:
			return comp, nil
		}
		if s.Step != nil {
			if _, err := loopCtx.evalExpr(s.Step); err != nil {
				return Completion{}, err
			}
		}
	}
	return normal(runtime.Undefined), nil
}

// execSwitch evaluates the discriminant once, finds the first
// strictly-equal case (or default), and falls through cases until an
// (unlabeled or matching-label) break (spec §4.2).
func (c ctx) execSwitch(s *ast.SwitchStmt, labels blockLabels) (Completion, error) {
	disc, err := c.evalExpr(s.Discriminant)
	if err != nil {
		return Completion{}, err
	}
	switchCtx := c.child()
	var allStmts []ast.Stmt
	for _, cs := range s.Cases {
		allStmts = append(allStmts, cs.Statements...)
	}
	hoistFunctionDecls(switchCtx, allStmts)

	matchIdx, defaultIdx := -1, -1
	for i, cs := range s.Cases {
		if cs.Test == nil {
			defaultIdx = i
			continue
		}
		tv, err := switchCtx.evalExpr(cs.Test)
		if err != nil {
			return Completion{}, err
		}
		if valuesEqual(disc, tv, true) {
			matchIdx = i
			break
		}
	}
	start := matchIdx
	if start == -1 {
		start = defaultIdx
	}
	if start == -1 {
		return normal(runtime.Undefined), nil
	}
	for i := start; i < len(s.Cases); i++ {
		for _, st := range s.Cases[i].Statements {
			comp, err := switchCtx.execStmt(st)
			if err != nil {
				return Completion{}, err
			}
			if comp.Kind == Break {
				if comp.Label == "" || labels.has(comp.Label) {
					return normal(runtime.Undefined), nil
				}
				return comp, nil
			}
			if comp.Kind != Normal {
				return comp, nil
			}
		}
	}
	return normal(runtime.Undefined), nil
}

// execTry runs the try block, dispatching a Throw into the catch clause
// (if any) with the original error's runtime value bound to the catch
// parameter, and always running finally last; finally's own completion
// (if not Normal) supersedes whatever try/catch produced (spec §4.2).
func (c ctx) execTry(s *ast.TryStmt) (Completion, error) {
	comp, err := c.execNestedBlock(s.Block)
	if err != nil {
		if te, ok := err.(*runtime.ThrownError); ok && s.Catch != nil {
			catchCtx := c.child()
			if s.Catch.Param != nil {
				if berr := bindPattern(catchCtx, s.Catch.Param, te.Val, runtime.DeclLet); berr != nil {
					comp, err = Completion{}, berr
				} else {
					comp, err = catchCtx.execNestedBlock(s.Catch.Body)
				}
			} else {
				comp, err = catchCtx.execNestedBlock(s.Catch.Body)
			}
		}
	}
	if s.Finally != nil {
		fComp, fErr := c.execNestedBlock(s.Finally)
		if fErr != nil {
			return Completion{}, fErr
		}
		if fComp.Kind != Normal {
			return fComp, nil
		}
	}
	return comp, err
}

func (c ctx) execEnum(e *ast.EnumDecl) (Completion, error) {
	obj := runtime.NewObject()
	next := 0.0
	for _, m := range e.Members {
		var v runtime.Value
		if m.Value != nil {
			val, err := c.evalExpr(m.Value)
			if err != nil {
				return Completion{}, err
			}
			v = val
			if n, ok := v.(runtime.Number); ok {
				next = float64(n) + 1
			}
		} else {
			v = runtime.Number(next)
			next++
		}
		obj.Set(m.Name, v, nil)
		if n, ok := v.(runtime.Number); ok {
			obj.Set(runtime.Stringify(n), runtime.String(m.Name), nil)
		}
	}
	c.env.Declare(e.Name.Name, obj, runtime.DeclConst)
	return normal(runtime.Undefined), nil
}

// execNamespace runs a namespace body in its own child scope and exposes
// its top-level named declarations as properties of a namespace object
// (arbitrary inner bindings are not exposed, matching how a TS namespace
// only surfaces its own declarations).
func (c ctx) execNamespace(n *ast.NamespaceDecl) (Completion, error) {
	nsEnv := c.env.NewChild()
	nsCtx := c.withEnv(nsEnv)
	hoistFunctionDecls(nsCtx, n.Body)
	if _, err := nsCtx.execBlock(n.Body); err != nil {
		return Completion{}, err
	}
	ns := runtime.NewObject()
	for _, s := range n.Body {
		name := topLevelDeclName(s)
		if name == "" {
			continue
		}
		if v, ok := nsEnv.Get(name); ok {
			ns.Set(name, v, nil)
		}
	}
	c.env.Declare(n.Name.Name, ns, runtime.DeclConst)
	return normal(runtime.Undefined), nil
}

func topLevelDeclName(s ast.Stmt) string {
	switch t := s.(type) {
	case *ast.FunctionStmt:
		return t.Name
	case *ast.ClassDecl:
		if t.Name != nil {
			return t.Name.Name
		}
		return ""
	case *ast.VarStmt:
		switch p := t.Pattern.(type) {
		case *ast.Variable:
			return p.Name
		case *ast.Ident:
			return p.Name
		default:
			return ""
		}
	case *ast.EnumDecl:
		return t.Name.Name
	case *ast.ExportStmt:
		if t.Decl != nil {
			return topLevelDeclName(t.Decl)
		}
		return ""
	default:
		return ""
	}
}
