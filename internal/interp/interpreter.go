package interp

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// Interpreter owns the global environment, the microtask/timer scheduler,
// and the registry of built-in Error subclasses every thrown RuntimeError
// is modelled as an instance of (spec §4.4/§7).
type Interpreter struct {
	Globals      *runtime.Environment
	Sched        *runtime.Scheduler
	errorClasses map[string]*runtime.Class
	callStack    []runtime.StackFrame
	maxDepth     int
	// Strict mirrors the engine's WithStrict setting; non-strict (the
	// default) writes to a frozen/sealed property are a silent no-op,
	// strict mode throws a TypeError instead (spec §5).
	Strict bool

	// moduleNamespaces holds each already-run module's exported bindings,
	// keyed by its resolver-normalized path; moduleEnvs holds the
	// per-module environment those bindings were read out of (used only
	// while building a namespace immediately after a module body runs).
	moduleNamespaces map[string]*runtime.Object
	moduleEnvs       map[string]*runtime.Environment

	// templateStrings interns the `strings`/`raw` array built for a
	// tagged template call, keyed by the call-site AST node's own
	// identity, so repeated invocations of the same tagged template
	// observe the same array reference (spec §4.4).
	templateStrings map[*ast.TaggedTemplateLiteral]*runtime.Object
}

// New creates an Interpreter with a fresh global environment, the
// built-in Error/TypeError/RangeError/ReferenceError/SyntaxError classes,
// and the async globals (Promise, setTimeout/setInterval, queueMicrotask)
// already bound. The caller (pkg/engine) still owns wiring the rest of
// the capability table — console/Math/JSON/Object/Array — via
// InstallBuiltins, since those need an output writer the Interpreter
// itself has no opinion about.
func New(sched *runtime.Scheduler) *Interpreter {
	it := &Interpreter{
		Globals:  runtime.NewEnvironment(),
		Sched:    sched,
		maxDepth: 2000,
	}
	it.registerErrorClasses()
	it.installAsyncGlobals()
	return it
}

// SetMaxRecursionDepth overrides the default call-depth guard (spec §A.2
// `WithMaxRecursionDepth`), surfaced by pkg/engine.
func (it *Interpreter) SetMaxRecursionDepth(n int) { it.maxDepth = n }

func (it *Interpreter) rootCtx() ctx { return ctx{it: it, env: it.Globals} }

// RunProgram executes every top-level statement of prog in the global
// environment as a single synchronous job, draining microtasks once the
// whole program has run to completion rather than between sibling
// statements (spec §5/§8: a `console.log` after a fire-and-forget async
// call must still observe that call's synchronous prefix before any of
// its awaited continuations run). It returns the value of the last
// Normal completion, or a non-nil error for an uncaught Throw or
// EngineFault.
func (it *Interpreter) RunProgram(prog *ast.Program) (runtime.Value, error) {
	c := it.rootCtx()
	hoistFunctionDecls(c, prog.Statements)
	var last runtime.Value = runtime.Undefined
	for _, stmt := range prog.Statements {
		comp, err := c.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		if comp.Kind == Normal && comp.Value != nil {
			last = comp.Value
		}
	}
	it.Sched.DrainMicrotasks()
	return last, nil
}

// pushFrame/popFrame maintain the call stack used to build thrown-error
// stack traces (spec §7: "a stack of (function-name, source-position)
// frames captured at throw time").
func (it *Interpreter) pushFrame(name string, pos lexer.Position) {
	it.callStack = append(it.callStack, runtime.StackFrame{FunctionName: name, Pos: pos})
}

func (it *Interpreter) popFrame() {
	if len(it.callStack) > 0 {
		it.callStack = it.callStack[:len(it.callStack)-1]
	}
}

func (it *Interpreter) snapshotStack() []runtime.StackFrame {
	out := make([]runtime.StackFrame, len(it.callStack))
	copy(out, it.callStack)
	return out
}

func (it *Interpreter) depthExceeded() bool { return len(it.callStack) > it.maxDepth }
