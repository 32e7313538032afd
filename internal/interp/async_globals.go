package interp

import "github.com/mvendel/go-tsx/internal/runtime"

// installAsyncGlobals wires the host-provided Promise constructor and
// timer functions into the global environment (spec §4.4/§5): these sit
// alongside console/Math/JSON/etc but, unlike those, are built directly
// against the Scheduler rather than routed through internal/builtins,
// since they are inseparable from the interpreter's own call-frame
// plumbing (it.runFunc).
func (it *Interpreter) installAsyncGlobals() {
	it.Globals.Declare("Promise", it.makePromiseCtor(), runtime.DeclConst)
	it.Globals.Declare("setTimeout", runtime.NewNativeFunction("setTimeout", 1, it.timerFn(false)), runtime.DeclConst)
	it.Globals.Declare("setInterval", runtime.NewNativeFunction("setInterval", 1, it.timerFn(true)), runtime.DeclConst)
	it.Globals.Declare("clearTimeout", runtime.NewNativeFunction("clearTimeout", 1, it.clearTimerFn()), runtime.DeclConst)
	it.Globals.Declare("clearInterval", runtime.NewNativeFunction("clearInterval", 1, it.clearTimerFn()), runtime.DeclConst)
	it.Globals.Declare("queueMicrotask", runtime.NewNativeFunction("queueMicrotask", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		fn, ok := arg0(args).(*runtime.Function)
		if !ok {
			return nil, (ctx{it: it}).typeError("queueMicrotask argument must be a function")
		}
		it.Sched.EnqueueMicrotask(func() { it.runFunc(fn, nil) })
		return runtime.Undefined, nil
	}), runtime.DeclConst)
}

func (it *Interpreter) timerFn(interval bool) runtime.Native {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		fn, ok := arg0(args).(*runtime.Function)
		if !ok {
			return nil, (ctx{it: it}).typeError("setTimeout/setInterval handler must be a function")
		}
		var delay int64
		if len(args) > 1 {
			delay = int64(toFloat(args[1]))
		}
		extra := append([]runtime.Value{}, args[minInt(2, len(args)):]...)
		id := it.Sched.ScheduleTimer(delay, interval, func() { it.runFunc(fn, extra) })
		return runtime.Number(float64(id)), nil
	}
}

func (it *Interpreter) clearTimerFn() runtime.Native {
	return func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		it.Sched.CancelTimer(int(toFloat(arg0(args))))
		return runtime.Undefined, nil
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// makePromiseCtor builds the `Promise` global: calling it (with or
// without `new`, per evalNew's native-constructor branch) runs the
// executor synchronously against fresh resolve/reject natives, and its
// Statics carry resolve/reject/all/race (spec §4.4, SPEC_FULL.md §B).
func (it *Interpreter) makePromiseCtor() *runtime.Function {
	ctor := runtime.NewNativeFunction("Promise", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
		executor, ok := arg0(args).(*runtime.Function)
		if !ok {
			return nil, (ctx{it: it}).typeError("Promise resolver is not a function")
		}
		p := runtime.NewPromise(it.Sched)
		resolveFn := runtime.NewNativeFunction("resolve", 1, func(_ runtime.Value, a []runtime.Value) (runtime.Value, error) {
			p.Resolve(arg0(a), it.runFunc)
			return runtime.Undefined, nil
		})
		rejectFn := runtime.NewNativeFunction("reject", 1, func(_ runtime.Value, a []runtime.Value) (runtime.Value, error) {
			p.Reject(arg0(a), it.runFunc)
			return runtime.Undefined, nil
		})
		if _, err := it.runFunc(executor, []runtime.Value{resolveFn, rejectFn}); err != nil {
			if te, ok := err.(*runtime.ThrownError); ok {
				p.Reject(te.Val, it.runFunc)
			} else {
				p.Reject(runtime.String(err.Error()), it.runFunc)
			}
		}
		return p, nil
	})
	ctor.Statics = map[string]*runtime.Function{
		"resolve": runtime.NewNativeFunction("resolve", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return it.toPromise(arg0(args)), nil
		}),
		"reject": runtime.NewNativeFunction("reject", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			p := runtime.NewPromise(it.Sched)
			p.Reject(arg0(args), it.runFunc)
			return p, nil
		}),
		"all":  runtime.NewNativeFunction("all", 1, it.promiseAll),
		"race": runtime.NewNativeFunction("race", 1, it.promiseRace),
	}
	return ctor
}

func (it *Interpreter) promiseAll(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	c := ctx{it: it, env: it.Globals}
	items, err := c.iterateToSlice(arg0(args))
	if err != nil {
		return nil, err
	}
	result := runtime.NewPromise(it.Sched)
	if len(items) == 0 {
		result.Resolve(runtime.NewArray(), it.runFunc)
		return result, nil
	}
	values := make([]runtime.Value, len(items))
	remaining := len(items)
	settled := false
	for i, item := range items {
		i := i
		p := it.toPromise(item)
		onFulfilled := runtime.NewNativeFunction("", 1, func(_ runtime.Value, a []runtime.Value) (runtime.Value, error) {
			values[i] = arg0(a)
			remaining--
			if remaining == 0 && !settled {
				settled = true
				result.Resolve(runtime.NewArray(values...), it.runFunc)
			}
			return runtime.Undefined, nil
		})
		onRejected := runtime.NewNativeFunction("", 1, func(_ runtime.Value, a []runtime.Value) (runtime.Value, error) {
			if !settled {
				settled = true
				result.Reject(arg0(a), it.runFunc)
			}
			return runtime.Undefined, nil
		})
		p.Then(onFulfilled, onRejected, it.runFunc)
	}
	return result, nil
}

func (it *Interpreter) promiseRace(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
	c := ctx{it: it, env: it.Globals}
	items, err := c.iterateToSlice(arg0(args))
	if err != nil {
		return nil, err
	}
	result := runtime.NewPromise(it.Sched)
	settled := false
	for _, item := range items {
		p := it.toPromise(item)
		onFulfilled := runtime.NewNativeFunction("", 1, func(_ runtime.Value, a []runtime.Value) (runtime.Value, error) {
			if !settled {
				settled = true
				result.Resolve(arg0(a), it.runFunc)
			}
			return runtime.Undefined, nil
		})
		onRejected := runtime.NewNativeFunction("", 1, func(_ runtime.Value, a []runtime.Value) (runtime.Value, error) {
			if !settled {
				settled = true
				result.Reject(arg0(a), it.runFunc)
			}
			return runtime.Undefined, nil
		})
		p.Then(onFulfilled, onRejected, it.runFunc)
	}
	return result, nil
}
