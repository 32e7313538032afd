package interp

import (
	"github.com/mvendel/go-tsx/internal/ast"
	"github.com/mvendel/go-tsx/internal/runtime"
)

// evalAwait suspends the current fiber at an await point, handing the
// awaited value to whatever drives this fiber (driveAsync for async
// functions) and blocking until resumed with the settled value, a throw
// request, or a return request (spec §4.4/§5).
func (c ctx) evalAwait(n *ast.Await) (runtime.Value, error) {
	v, err := c.evalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	return c.awaitValue(v)
}

// awaitValue suspends the current fiber with v as the awaited operand;
// shared by `await <expr>` and `for await` loop iteration.
func (c ctx) awaitValue(v runtime.Value) (runtime.Value, error) {
	if c.fiber == nil {
		return nil, c.typeError("await used outside an async function")
	}
	msg := c.fiber.suspend(outAwait, v)
	switch msg.kind {
	case resumeThrow:
		return nil, runtime.Throw(msg.value)
	case resumeReturn:
		panic(returnSignal{value: msg.value})
	default:
		return msg.value, nil
	}
}

// evalYield suspends the current fiber at a yield point (or drives
// `yield*` delegation over an iterable), mirroring the generator.next/
// throw/return protocol (spec §4.4).
func (c ctx) evalYield(n *ast.Yield) (runtime.Value, error) {
	if c.fiber == nil {
		return nil, c.typeError("yield used outside a generator")
	}
	if n.Delegating {
		return c.evalYieldDelegate(n)
	}
	var v runtime.Value = runtime.Undefined
	if n.Value != nil {
		val, err := c.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		v = val
	}
	return c.doYield(v)
}

func (c ctx) doYield(v runtime.Value) (runtime.Value, error) {
	msg := c.fiber.suspend(outYield, v)
	switch msg.kind {
	case resumeThrow:
		return nil, runtime.Throw(msg.value)
	case resumeReturn:
		panic(returnSignal{value: msg.value})
	default:
		return msg.value, nil
	}
}

// evalYieldDelegate implements `yield* iterable`: it drives the inner
// iterable's iterator protocol itself, re-yielding each produced value
// out through this generator's own fiber, and returns the inner
// iterator's final return value as `yield*`'s expression result.
func (c ctx) evalYieldDelegate(n *ast.Yield) (runtime.Value, error) {
	src, err := c.evalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	it, err := c.getIterator(src)
	if err != nil {
		return nil, err
	}
	var sent runtime.Value = runtime.Undefined
	for {
		step, err := c.iteratorNext(it, sent)
		if err != nil {
			return nil, err
		}
		done, value, err := c.iteratorStepResult(step)
		if err != nil {
			return nil, err
		}
		if done {
			return value, nil
		}
		sent, err = c.doYield(value)
		if err != nil {
			return nil, err
		}
	}
}
