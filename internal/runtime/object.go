package runtime

// property is one slot of an Object: either a plain data
// value or a getter/setter accessor pair (spec §3 "object ... plus
// optional getter/setter accessors").
type property struct {
	value      Value
	getter     *Function
	setter     *Function
	hasGetSet  bool
	enumerable bool
}

// Object is the runtime mapping-of-string-keys-to-values value, plus
// optional symbol-keyed slots and a frozen/sealed bit (spec §3).
// Insertion order is preserved via keys, since for-in and the
// stringifier both enumerate in declaration order.
type Object struct {
	props   map[string]*property
	keys    []string
	symbols map[*Symbol]Value
	Frozen  bool
	Sealed  bool
}

func (*Object) TypeOf() string { return "object" }

// NewObject allocates an empty, unfrozen, unsealed object.
func NewObject() *Object {
	return &Object{props: make(map[string]*property)}
}

// Get reads a named property, evaluating its getter if it has one.
// The call argument is used to invoke getters/setters; it is supplied
// by the interpreter since Function.Call lives in the interp package's
// calling convention, not here — so Object accepts a callback instead
// of importing the interpreter (would create an import cycle).
func (o *Object) Get(name string, invokeGetter func(fn *Function) Value) (Value, bool) {
	p, ok := o.props[name]
	if !ok {
		return nil, false
	}
	if p.hasGetSet {
		if p.getter == nil {
			return Undefined, true
		}
		return invokeGetter(p.getter), true
	}
	return p.value, true
}

// Set writes a named property, honouring an existing setter and the
// frozen/sealed bits (spec §5: "enforced by every write path").
// Returns false if the write was rejected (frozen object, or sealed
// object gaining a new key).
func (o *Object) Set(name string, v Value, invokeSetter func(fn *Function, v Value)) bool {
	if p, ok := o.props[name]; ok {
		if o.Frozen {
			return false
		}
		if p.hasGetSet {
			if p.setter != nil {
				invokeSetter(p.setter, v)
			}
			return true
		}
		p.value = v
		return true
	}
	if o.Frozen || o.Sealed {
		return false
	}
	o.props[name] = &property{value: v, enumerable: true}
	o.keys = append(o.keys, name)
	return true
}

// DefineAccessor installs a getter/setter pair for name, merging with
// any existing accessor of the same name (so `get x(){}` and `set x(){}`
// declared separately combine into one property).
func (o *Object) DefineAccessor(name string, getter, setter *Function) {
	p, ok := o.props[name]
	if !ok {
		p = &property{hasGetSet: true, enumerable: true}
		o.props[name] = p
		o.keys = append(o.keys, name)
	}
	p.hasGetSet = true
	if getter != nil {
		p.getter = getter
	}
	if setter != nil {
		p.setter = setter
	}
}

// Delete removes a property unless the object is frozen or sealed
// (spec §4.4: "delete removes from an object unless frozen/sealed").
func (o *Object) Delete(name string) bool {
	if o.Frozen || o.Sealed {
		return false
	}
	if _, ok := o.props[name]; !ok {
		return false
	}
	delete(o.props, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether name is an own property key (used by the `in`
// operator over string keys).
func (o *Object) Has(name string) bool {
	_, ok := o.props[name]
	return ok
}

// Keys returns own string keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// GetSymbol reads a symbol-keyed slot.
func (o *Object) GetSymbol(s *Symbol) (Value, bool) {
	if o.symbols == nil {
		return nil, false
	}
	v, ok := o.symbols[s]
	return v, ok
}

// SetSymbol writes a symbol-keyed slot, rejected when frozen.
func (o *Object) SetSymbol(s *Symbol, v Value) bool {
	if o.Frozen {
		return false
	}
	if o.symbols == nil {
		o.symbols = make(map[*Symbol]Value)
	}
	o.symbols[s] = v
	return true
}

// Freeze sets the frozen bit; frozen implies sealed.
func (o *Object) Freeze() { o.Frozen = true; o.Sealed = true }

// Seal sets the sealed bit (no new/removed keys, existing values still writable).
func (o *Object) Seal() { o.Sealed = true }
