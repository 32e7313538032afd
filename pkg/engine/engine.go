// Package engine is the public facade over the front-end packages
// (internal/lexer, internal/parser, internal/checker, internal/resolver)
// and the tree-walking interpreter (internal/interp): the one boundary
// spec.md §1 draws between "this engine" and an external host. A cmd/tsx
// subcommand, or any other Go program, drives the whole pipeline through
// an Engine value without importing anything under internal/.
package engine

import (
	"io"
	"sync"
	"time"

	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/checker"
	"github.com/mvendel/go-tsx/internal/interp"
	"github.com/mvendel/go-tsx/internal/lexer"
	"github.com/mvendel/go-tsx/internal/parser"
	"github.com/mvendel/go-tsx/internal/resolver"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// Engine holds one interpreter instance (globals, scheduler, registered
// host functions) across however many Parse/Compile/Eval/Run calls a
// caller makes — the same way a REPL session keeps state between inputs,
// and the same way dwscript's public Engine type keeps one Interpreter
// alive across repeated Eval calls so FFI registrations and top-level
// declarations persist.
type Engine struct {
	output       *redirectWriter
	outputTarget io.Writer
	it           *interp.Interpreter
	sched        *runtime.Scheduler

	decoratorMode         parser.DecoratorMode
	emitDecoratorMetadata bool
	preserveConstEnums    bool
	strict                bool
	typeCheck             bool
	moduleResolutionRoot  string
	maxRecursionDepth     int
	clock                 func() time.Time

	mu        sync.Mutex
	hostNames map[string]bool
}

// redirectWriter lets SetOutput retarget console output after the
// interpreter's builtins were already wired at New time, without needing
// to reinstall the whole capability table.
type redirectWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *redirectWriter) Write(p []byte) (int, error) {
	r.mu.Lock()
	w := r.w
	r.mu.Unlock()
	return w.Write(p)
}

func (r *redirectWriter) set(w io.Writer) {
	r.mu.Lock()
	r.w = w
	r.mu.Unlock()
}

// New creates an Engine with a fresh interpreter, ready to Parse, Compile,
// Eval, or Run. Unlike the teacher facade this constructs, nothing about
// assembling an Engine can fail (there is no evaluator/type-system wiring
// step that validates external state), so New returns *Engine directly
// rather than (*Engine, error).
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		typeCheck: true,
		hostNames: make(map[string]bool),
	}
	for _, opt := range defaultOptions() {
		opt(e)
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sched = runtime.NewScheduler()
	e.it = interp.New(e.sched)
	e.it.Strict = e.strict
	if e.maxRecursionDepth > 0 {
		e.it.SetMaxRecursionDepth(e.maxRecursionDepth)
	}
	e.output = &redirectWriter{w: e.outputTarget}
	e.it.InstallBuiltins(e.output)
	return e
}

// SetOutput retargets console output for subsequent Eval/Run/RunModule
// calls.
func (e *Engine) SetOutput(w io.Writer) {
	e.output.set(w)
}

// RegisterHostFunction exposes a Go function as a global callable from
// script code under name, converting arguments and the return value with
// the reflect-based marshaling convention in hostfunc.go. It returns an
// error if name is already registered or fn is not a func value this
// engine knows how to wrap.
func (e *Engine) RegisterHostFunction(name string, fn any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hostNames[name] {
		return &CompileError{Stage: "register", Errors: []*Error{{Message: "function " + name + " is already registered", Severity: SeverityError}}}
	}
	native, err := wrapHostFunc(fn)
	if err != nil {
		return err
	}
	e.hostNames[name] = true
	e.it.Globals.Declare(name, runtime.NewNativeFunction(name, 0, native), runtime.DeclConst)
	return nil
}

// Lex tokenizes source without parsing, returning every token (including
// the trailing EOF) and a *CompileError wrapping any accumulated
// LexErrors.
func (e *Engine) Lex(source string) ([]lexer.Token, error) {
	l := lexer.New(source)
	var tokens []lexer.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	if ce := fromLexErrors("lexing", l.Errors()); ce != nil {
		return tokens, ce
	}
	return tokens, nil
}

// Parse lexes and parses source, returning the syntax tree and a
// *CompileError wrapping any accumulated ParseErrors. The tree is always
// non-nil and contains every statement the parser managed to recover,
// even when err is non-nil (spec.md's parser keeps going past a syntax
// error rather than aborting).
func (e *Engine) Parse(source string) (*ast.Program, error) {
	prog, perrs := parser.Parse(source, parser.Config{DecoratorMode: e.decoratorMode})
	if ce := fromParseErrors("parsing", perrs); ce != nil {
		return prog, ce
	}
	return prog, nil
}

// Compile parses and (unless WithTypeCheck(false) was given) type-checks
// source, returning a Program ready to run or inspect. A *CompileError's
// Stage is "parsing" or "checking" depending on which pass produced it;
// checking only runs when parsing produced no errors, mirroring the
// checker's own assumption of a well-formed tree (spec §4.3).
func (e *Engine) Compile(source string) (*Program, error) {
	prog, perrs := parser.Parse(source, parser.Config{DecoratorMode: e.decoratorMode})
	if ce := fromParseErrors("parsing", perrs); ce != nil {
		return &Program{ast: prog}, ce
	}
	if !e.typeCheck {
		return &Program{ast: prog}, nil
	}
	tm, terrs := checker.Check(prog, checker.Options{Strict: e.strict})
	p := &Program{ast: prog, tm: tm}
	if ce := fromTypeCheckErrors("checking", terrs); ce != nil {
		return p, ce
	}
	return p, nil
}

// Eval compiles and runs source as a script (no module imports), returning
// the value of its last top-level expression statement. Pending timers
// scheduled during the run are fast-forwarded to completion before Eval
// returns (see RunToCompletion).
func (e *Engine) Eval(source string) (runtime.Value, error) {
	program, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	v, err := e.it.RunProgram(program.ast)
	if err != nil {
		return nil, err
	}
	e.RunToCompletion()
	return v, nil
}

// Run is Eval without the result value, for callers that only care about
// side effects (console output, host-function calls) and diagnostics.
func (e *Engine) Run(source string) error {
	_, err := e.Eval(source)
	return err
}

// RunModule resolves the import graph rooted at entry through read,
// relative to moduleResolutionRoot, parses every reachable module, and
// runs them in dependency order, returning the entry module's last
// top-level value.
func (e *Engine) RunModule(entry string, read resolver.Reader) (runtime.Value, error) {
	rootedRead := read
	if e.moduleResolutionRoot != "" {
		rootedRead = func(path string) (string, bool) {
			return read(joinModuleRoot(e.moduleResolutionRoot, path))
		}
	}
	mods, err := resolver.Resolve(entry, rootedRead)
	if err != nil {
		return nil, fromResolutionError("resolving", err)
	}
	for _, mod := range mods {
		if ce := fromParseErrors("parsing", mod.ParseErrors); ce != nil {
			return nil, ce
		}
	}
	if e.typeCheck {
		for _, mod := range mods {
			_, terrs := checker.Check(mod.Program, checker.Options{Strict: e.strict})
			if ce := fromTypeCheckErrors("checking", terrs); ce != nil {
				return nil, ce
			}
		}
	}
	v, err := e.it.RunModuleGraph(mods, mods[len(mods)-1].Path)
	if err != nil {
		return nil, err
	}
	e.RunToCompletion()
	return v, nil
}

// RunToCompletion fast-forwards the scheduler's virtual clock through
// every pending timer in due order, draining microtasks after each (spec
// §5), until none remain. It stamps no wall-clock delay between timers —
// this engine drives scripts to completion rather than simulating real
// elapsed time, the "virtual clock" posture spec §5 describes for
// deterministic tests. e.clock (Now) is exposed separately for a caller
// that wants to timestamp a Run/Eval call itself.
func (e *Engine) RunToCompletion() {
	for {
		due, ok := e.sched.NextDue()
		if !ok {
			return
		}
		e.sched.AdvanceTo(due)
	}
}

// Now returns the engine's configured clock (time.Now by default, or
// whatever WithHostClock supplied).
func (e *Engine) Now() time.Time { return e.clock() }

func joinModuleRoot(root, p string) string {
	if len(p) > 0 && p[0] == '/' {
		return p
	}
	return root + "/" + p
}
