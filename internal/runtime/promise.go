package runtime

// PromiseState is one of the three once-only states (spec §4.4).
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// reaction is one then/catch/finally callback pair attached to a promise.
type reaction struct {
	onFulfilled *Function
	onRejected  *Function
	result      *Promise // the promise `.then()` returned
}

// Promise is the runtime promise value (spec §4.4/§5): three states with
// once-only transitions, FIFO reaction callbacks enqueued as microtasks
// on settlement.
type Promise struct {
	State     PromiseState
	Value     Value
	reactions []reaction
	sched     *Scheduler
}

func (*Promise) TypeOf() string { return "object" }

// NewPromise allocates a pending promise bound to sched, whose Resolve/
// Reject will enqueue its reactions as microtasks.
func NewPromise(sched *Scheduler) *Promise {
	return &Promise{State: PromisePending, sched: sched}
}

// Resolve fulfils the promise with v, a once-only transition. If v is
// itself a Promise, this promise adopts its eventual state instead
// (promise chaining).
func (p *Promise) Resolve(v Value, run func(fn *Function, args []Value) (Value, error)) {
	if p.State != PromisePending {
		return
	}
	if inner, ok := v.(*Promise); ok {
		inner.Then(
			NewNativeFunction("", 1, func(_ Value, args []Value) (Value, error) {
				var val Value = Undefined
				if len(args) > 0 {
					val = args[0]
				}
				p.Resolve(val, run)
				return Undefined, nil
			}),
			NewNativeFunction("", 1, func(_ Value, args []Value) (Value, error) {
				var val Value = Undefined
				if len(args) > 0 {
					val = args[0]
				}
				p.Reject(val, run)
				return Undefined, nil
			}),
			run,
		)
		return
	}
	p.State = PromiseFulfilled
	p.Value = v
	p.settle(run)
}

// Reject rejects the promise with reason, a once-only transition.
func (p *Promise) Reject(reason Value, run func(fn *Function, args []Value) (Value, error)) {
	if p.State != PromisePending {
		return
	}
	p.State = PromiseRejected
	p.Value = reason
	p.settle(run)
}

func (p *Promise) settle(run func(fn *Function, args []Value) (Value, error)) {
	rs := p.reactions
	p.reactions = nil
	for _, r := range rs {
		r := r
		p.sched.EnqueueMicrotask(func() { p.runReaction(r, run) })
	}
}

// Then attaches a fulfillment/rejection pair and returns the derived
// promise `.then` produces, enqueuing the reaction immediately as a
// microtask if this promise is already settled (spec §5: "enqueue
// callbacks that run after the current synchronous turn").
func (p *Promise) Then(onFulfilled, onRejected *Function, run func(fn *Function, args []Value) (Value, error)) *Promise {
	result := NewPromise(p.sched)
	r := reaction{onFulfilled: onFulfilled, onRejected: onRejected, result: result}
	if p.State == PromisePending {
		p.reactions = append(p.reactions, r)
		return result
	}
	p.sched.EnqueueMicrotask(func() { p.runReaction(r, run) })
	return result
}

func (p *Promise) runReaction(r reaction, run func(fn *Function, args []Value) (Value, error)) {
	var handler *Function
	if p.State == PromiseFulfilled {
		handler = r.onFulfilled
	} else {
		handler = r.onRejected
	}
	if handler == nil {
		if p.State == PromiseFulfilled {
			r.result.Resolve(p.Value, run)
		} else {
			r.result.Reject(p.Value, run)
		}
		return
	}
	out, err := run(handler, []Value{p.Value})
	if err != nil {
		if rv, ok := err.(interface{ ThrownValue() Value }); ok {
			r.result.Reject(rv.ThrownValue(), run)
			return
		}
		r.result.Reject(String(err.Error()), run)
		return
	}
	r.result.Resolve(out, run)
}
