// Package interp is the tree-walking interpreter (spec §4.4): it executes
// a checked AST against the runtime value system in internal/runtime,
// producing observable effects and propagating the tagged completion
// union every statement evaluation yields.
package interp

import (
	"github.com/mvendel/go-tsx/internal/runtime"
)

// CompletionKind is the tag of an Execution Result (spec §4.4). Throw is
// not represented here: it travels as a Go error (runtime.ThrownError)
// so that ordinary Go control flow propagates it through nested calls to
// execStmt/evalExpr without every caller threading it explicitly.
type CompletionKind int

const (
	Normal CompletionKind = iota
	Return
	Break
	Continue
)

// Completion is the non-Throw subset of the Execution Result union.
type Completion struct {
	Kind  CompletionKind
	Value runtime.Value // set for Normal/Return
	Label string        // set for labeled Break/Continue; "" otherwise
}

func normal(v runtime.Value) Completion { return Completion{Kind: Normal, Value: v} }

// ctx threads the pieces of interpreter state that change per nested
// scope/call: the active environment, the fiber driving the current
// generator/async call (nil outside of one), and the call-stack frame
// name used for RuntimeError stack traces.
type ctx struct {
	it    *Interpreter
	env   *runtime.Environment
	fiber *fiber
	frame string
	// ownerClass is the class whose method or constructor body is
	// currently executing (nil outside of one), so `super.x`/`super(...)`
	// resolve against the class that lexically owns the running body's
	// Super, not the instance's own (most-derived) class.
	ownerClass *runtime.Class
}

func (c ctx) withEnv(env *runtime.Environment) ctx {
	c2 := c
	c2.env = env
	return c2
}

func (c ctx) child() ctx { return c.withEnv(c.env.NewChild()) }

func (c ctx) withFrame(name string) ctx {
	c2 := c
	c2.frame = name
	return c2
}

// lookupThis returns the `this` binding visible from the current
// environment, or undefined when none is bound.
func (c ctx) lookupThis() runtime.Value {
	if v, ok := c.env.Get("this"); ok {
		return v
	}
	return runtime.Undefined
}

// blockLabels carries the labels (from enclosing LabeledStmt wrappers)
// that apply to the next loop/switch statement reached, consumed as
// soon as that statement is executed.
type blockLabels []string

func (ls blockLabels) has(label string) bool {
	for _, l := range ls {
		if l == label {
			return true
		}
	}
	return false
}
