package interp

import "github.com/mvendel/go-tsx/internal/runtime"

// fiberMsgKind tags what the driver sends into a suspended fiber.
type fiberMsgKind int

const (
	resumeNext fiberMsgKind = iota
	resumeThrow
	resumeReturn
)

// fiberMsg is what the driver sends into a suspended fiber to resume it,
// corresponding to a generator's next(v)/throw(v)/return(v) call.
type fiberMsg struct {
	kind  fiberMsgKind
	value runtime.Value
}

// fiberOutKind tags what a fiber hands back to the driver.
type fiberOutKind int

const (
	outYield fiberOutKind = iota
	outAwait
	outDone
)

// fiberOut is what a suspended fiber sends back to the driver at a
// yield/await point, or on completion.
type fiberOut struct {
	kind  fiberOutKind
	value runtime.Value
	err   error
}

// fiber is the cooperative coroutine backing both generator and async
// function bodies (spec §5 permits "cooperative task switching" as an
// implementation strategy for the observable generator/async semantics).
// It is one goroutine plus two unbuffered channels: the driver and the
// fiber body never run concurrently, each blocking in turn, so real OS
// goroutines never break the single-threaded execution model the rest
// of the interpreter assumes.
type fiber struct {
	in      chan fiberMsg
	out     chan fiberOut
	started bool
	done    bool
}

// returnSignal is an internal panic value used inside a fiber body
// goroutine to unwind a `generator.return(v)`/`await`-return request
// out of arbitrarily deep yield/await expressions back to the point
// that started running the function body, without threading a return
// completion through every expression evaluator along the way. It never
// escapes the fiber's own goroutine.
type returnSignal struct{ value runtime.Value }

func newFiber(body func(f *fiber)) *fiber {
	f := &fiber{in: make(chan fiberMsg), out: make(chan fiberOut)}
	go func() {
		<-f.in
		body(f)
	}()
	return f
}

// start sends the initial resume and waits for the first suspension or
// completion.
func (f *fiber) start() fiberOut {
	f.started = true
	f.in <- fiberMsg{kind: resumeNext}
	out := <-f.out
	if out.kind == outDone {
		f.done = true
	}
	return out
}

// resume sends msg into a suspended fiber and waits for its next
// suspension or completion. Calling resume on a finished fiber is a
// no-op that reports done immediately.
func (f *fiber) resume(msg fiberMsg) fiberOut {
	if f.done {
		return fiberOut{kind: outDone}
	}
	f.in <- msg
	out := <-f.out
	if out.kind == outDone {
		f.done = true
	}
	return out
}

// suspend is called from inside the fiber body goroutine at a yield or
// await point: it hands value to the driver and blocks until resumed.
func (f *fiber) suspend(kind fiberOutKind, value runtime.Value) fiberMsg {
	f.out <- fiberOut{kind: kind, value: value}
	return <-f.in
}

// finish is called from inside the fiber body goroutine when the
// function body runs to completion (Normal/Return) or throws. No
// further resume is valid afterwards.
func (f *fiber) finish(value runtime.Value, err error) {
	f.out <- fiberOut{kind: outDone, value: value, err: err}
}
