package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/mvendel/go-tsx/internal/runtime"
)

// installConsole binds console.log/info/warn/error/debug, each
// stringifying its arguments with the spec's console rules (spec §6)
// and joining them with a single space, one line per call.
func installConsole(env *runtime.Environment, out io.Writer) {
	console := runtime.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		console.Set(name, runtime.NewNativeFunction(name, 0, consoleWrite(out)), nil)
	}
	env.Declare("console", console, runtime.DeclConst)
}

func consoleWrite(out io.Writer) runtime.Native {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = runtime.Stringify(a)
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
		return runtime.Undefined, nil
	}
}
