package runtime

import (
	"fmt"

	"github.com/mvendel/go-tsx/internal/lexer"
)

// StackFrame is one entry of a runtime error's captured call stack
// (spec §4.4: "a stack of (function-name, source-position) frames
// captured at throw time").
type StackFrame struct {
	FunctionName string
	Pos          lexer.Position
}

// ErrorValue is the runtime representation of Error and its built-in
// subclasses (TypeError, RangeError, ReferenceError, SyntaxError),
// modelled as an Instance of the matching built-in Class so user code
// sees `instanceof Error`/`instanceof TypeError` behave structurally
// the way a plain JS Error would, while still carrying the extra
// engine bookkeeping (Stack, Cause) a plain Instance doesn't have.
type ErrorValue struct {
	*Instance
	Name    string
	Message string
	Cause   Value
	Stack   []StackFrame
}

// NewErrorValue builds an ErrorValue of the given class/name, installing
// `name`/`message`/`stack` as ordinary instance fields so property
// access (`err.message`) works through the normal Instance path.
func NewErrorValue(class *Class, name, message string, cause Value, stack []StackFrame) *ErrorValue {
	inst := NewInstance(class)
	inst.SetField("name", String(name))
	inst.SetField("message", String(message))
	inst.SetField("stack", String(formatStack(name, message, stack)))
	ev := &ErrorValue{Instance: inst, Name: name, Message: message, Cause: cause, Stack: stack}
	return ev
}

func formatStack(name, message string, stack []StackFrame) string {
	s := name
	if message != "" {
		s += ": " + message
	}
	for _, f := range stack {
		s += fmt.Sprintf("\n    at %s (%d:%d)", frameName(f.FunctionName), f.Pos.Line, f.Pos.Column)
	}
	return s
}

func frameName(n string) string {
	if n == "" {
		return "<anonymous>"
	}
	return n
}

// ThrownError wraps a runtime value being propagated as a Throw
// completion so it can travel through Go's `error` interface along
// call chains that haven't been rewritten to thread completions
// explicitly (native built-ins, for instance). Interpreter code that
// deals in completions directly does not need this wrapper.
type ThrownError struct {
	Val Value
}

func (t *ThrownError) Error() string {
	if ev, ok := t.Val.(*ErrorValue); ok {
		return ev.Name + ": " + ev.Message
	}
	return Stringify(t.Val)
}

// ThrownValue lets callers recover the original thrown value from a Go
// error, used by the promise rejection path.
func (t *ThrownError) ThrownValue() Value { return t.Val }

// Throw wraps v as a Go error carrying a Throw completion.
func Throw(v Value) error { return &ThrownError{Val: v} }

// EngineFault is a non-recoverable host-side failure (spec §4.4:
// "out-of-memory, stack overflow") distinct from a catchable Throw.
type EngineFault struct{ Message string }

func (f *EngineFault) Error() string { return f.Message }
