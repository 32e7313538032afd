package runtime

// Instance is a class instance: a class pointer plus a mapping of field
// names to values and optional symbol-keyed slots (spec §3). Private
// `#name` fields live in the same Fields map as public ones — the
// checker, not the runtime, enforces access restrictions — distinguished
// only by the leading `#` already present in their lexed name.
type Instance struct {
	Class   *Class
	Fields  map[string]Value
	fieldKeys []string
	symbols map[*Symbol]Value
	Frozen  bool
	Sealed  bool
}

func (*Instance) TypeOf() string { return "object" }

// NewInstance allocates a bare instance of class c with no fields set
// yet; the interpreter fills Fields by running FieldInits in order.
func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, Fields: make(map[string]Value)}
}

// SetField writes a field, recording first-write insertion order and
// honouring the frozen bit.
func (i *Instance) SetField(name string, v Value) bool {
	if i.Frozen {
		return false
	}
	if _, ok := i.Fields[name]; !ok {
		if i.Sealed {
			return false
		}
		i.fieldKeys = append(i.fieldKeys, name)
	}
	i.Fields[name] = v
	return true
}

// GetField reads a field, reporting whether it is present.
func (i *Instance) GetField(name string) (Value, bool) {
	v, ok := i.Fields[name]
	return v, ok
}

// FieldKeys returns field names in first-write order (used by the
// stringifier's `ClassName { k: v, ... }` rendering).
func (i *Instance) FieldKeys() []string {
	out := make([]string, len(i.fieldKeys))
	copy(out, i.fieldKeys)
	return out
}

// GetSymbol/SetSymbol mirror Object's symbol-keyed slots.
func (i *Instance) GetSymbol(s *Symbol) (Value, bool) {
	if i.symbols == nil {
		return nil, false
	}
	v, ok := i.symbols[s]
	return v, ok
}

func (i *Instance) SetSymbol(s *Symbol, v Value) bool {
	if i.Frozen {
		return false
	}
	if i.symbols == nil {
		i.symbols = make(map[*Symbol]Value)
	}
	i.symbols[s] = v
	return true
}

func (i *Instance) Freeze() { i.Frozen = true; i.Sealed = true }
func (i *Instance) Seal()   { i.Sealed = true }
