package types

// Assignable implements the checker's `assignable(expected, actual)`
// compatibility relation (spec §4.3): structural for records/functions/
// unions, nominal for classes (superclass-chain membership), structural
// for interfaces, with `any`/`never` absorption. An expected literal type
// requires an exact literal match; an actual literal is widened to its
// primitive before it is compared against any other expected type.
//
// freshObjectLiteral indicates the actual value is a fresh object literal
// expression directly assigned or passed, which triggers the excess-
// property check for Record targets (spec §4.3).
func Assignable(expected, actual *Type, freshObjectLiteral bool) bool {
	return assignableSeen(expected, actual, freshObjectLiteral, map[string]bool{})
}

func assignableSeen(expected, actual *Type, fresh bool, seen map[string]bool) bool {
	if expected == nil || actual == nil {
		return true
	}
	if expected.Kind == KindAny || actual.Kind == KindAny {
		return true
	}
	if actual.Kind == KindNever {
		return true
	}
	if expected.Kind == KindNever {
		return false
	}
	if expected.Kind == KindUnknown {
		return true
	}
	if actual.Kind == KindUnknown {
		return expected.Kind == KindUnknown
	}

	key := expected.String() + " <- " + actual.String()
	if seen[key] {
		return true // break cycles (e.g. recursive interfaces/classes) optimistically
	}
	seen[key] = true

	if actual.Kind == KindUnion {
		for _, m := range actual.Members {
			if !assignableSeen(expected, m, fresh, seen) {
				return false
			}
		}
		return true
	}
	if expected.Kind == KindUnion {
		for _, m := range expected.Members {
			if assignableSeen(m, actual, fresh, seen) {
				return true
			}
		}
		return false
	}
	if expected.Kind == KindIntersection {
		for _, m := range expected.Members {
			if !assignableSeen(m, actual, fresh, seen) {
				return false
			}
		}
		return true
	}
	if actual.Kind == KindIntersection {
		for _, m := range actual.Members {
			if assignableSeen(expected, m, fresh, seen) {
				return true
			}
		}
		return false
	}

	if expected.Kind == KindLiteral {
		if actual.Kind != KindLiteral {
			return false
		}
		return expected.LiteralValue == actual.LiteralValue
	}
	if actual.Kind == KindLiteral {
		return assignableSeen(expected, Widen(actual), fresh, seen)
	}

	switch expected.Kind {
	case KindNumber, KindString, KindBoolean, KindBigInt, KindNull, KindUndefined, KindVoid:
		return expected.Kind == actual.Kind
	case KindArray:
		return actual.Kind == KindArray && assignableSeen(expected.Element, actual.Element, fresh, seen)
	case KindTuple:
		return assignableTuple(expected, actual, seen)
	case KindRecord:
		return assignableRecord(expected, actual, fresh, seen)
	case KindFunction:
		return actual.Kind == KindFunction && assignableFunction(expected, actual, seen)
	case KindClass:
		return actual.Kind == KindClass && classChainContains(actual, expected)
	case KindInterface:
		return assignableInterfaceStructural(expected, actual, seen)
	case KindInstance:
		return assignableInstance(expected, actual, seen)
	case KindTypeReference:
		if expected.Resolved != nil {
			return assignableSeen(expected.Resolved, actual, fresh, seen)
		}
		return expected.RefName == actual.RefName
	case KindGenericParam:
		if expected.Constraint != nil {
			return assignableSeen(expected.Constraint, actual, fresh, seen)
		}
		return true
	default:
		return expected.String() == actual.String()
	}
}

func assignableTuple(expected, actual *Type, seen map[string]bool) bool {
	if actual.Kind == KindArray {
		for _, e := range expected.TupleElements {
			if !assignableSeen(e.Type, actual.Element, false, seen) {
				return false
			}
		}
		return true
	}
	if actual.Kind != KindTuple {
		return false
	}
	for i, e := range expected.TupleElements {
		if i >= len(actual.TupleElements) {
			return e.Optional || e.Rest
		}
		if !assignableSeen(e.Type, actual.TupleElements[i].Type, false, seen) {
			return false
		}
	}
	return true
}

func assignableRecord(expected, actual *Type, fresh bool, seen map[string]bool) bool {
	if actual.Kind != KindRecord {
		if actual.Kind == KindInstance && actual.Class != nil {
			return assignableInstanceToRecord(expected, actual, seen)
		}
		return false
	}
	for name, ft := range expected.Fields {
		at, ok := actual.Fields[name]
		if !ok {
			if expected.OptionalKeys[name] {
				continue
			}
			return false
		}
		if !assignableSeen(ft, at, false, seen) {
			return false
		}
	}
	if fresh {
		for name := range actual.Fields {
			if _, ok := expected.Fields[name]; !ok {
				return false // excess-property check
			}
		}
	}
	return true
}

func assignableInstanceToRecord(expected *Type, actual *Type, seen map[string]bool) bool {
	for name, ft := range expected.Fields {
		at, ok := actual.Class.InstanceMembers[name]
		if !ok {
			if expected.OptionalKeys[name] {
				continue
			}
			return false
		}
		if !assignableSeen(ft, at, false, seen) {
			return false
		}
	}
	return true
}

func assignableFunction(expected, actual *Type, seen map[string]bool) bool {
	// contravariant parameters: actual's param type must accept anything
	// expected's caller would pass, i.e. expected param assignable to actual param.
	for i, ep := range expected.Params {
		if i >= len(actual.Params) {
			if actual.Params != nil && len(actual.Params) > 0 && actual.Params[len(actual.Params)-1].Rest {
				ap := actual.Params[len(actual.Params)-1]
				if !assignableSeen(ap.Type, ep.Type, false, seen) {
					return false
				}
				continue
			}
			if ep.Optional {
				continue
			}
			return false
		}
		ap := actual.Params[i]
		if !assignableSeen(ap.Type, ep.Type, false, seen) {
			return false
		}
	}
	// covariant return
	return assignableSeen(expected.Return, actual.Return, false, seen)
}

func classChainContains(actual, expected *Type) bool {
	for c := actual; c != nil; c = c.SuperClass {
		if c.DeclSite == expected.DeclSite && c.Name == expected.Name {
			return true
		}
	}
	return false
}

func assignableInterfaceStructural(expected *Type, actual *Type, seen map[string]bool) bool {
	members := structuralMembers(actual)
	if members == nil {
		return false
	}
	for name, et := range expected.InstanceMembers {
		at, ok := members[name]
		if !ok {
			return false
		}
		if !assignableSeen(et, at, false, seen) {
			return false
		}
	}
	return true
}

func structuralMembers(t *Type) map[string]*Type {
	switch t.Kind {
	case KindInstance:
		if t.Class != nil {
			return t.Class.InstanceMembers
		}
	case KindClass, KindInterface:
		return t.InstanceMembers
	case KindRecord:
		return t.Fields
	}
	return nil
}

func assignableInstance(expected, actual *Type, seen map[string]bool) bool {
	if actual.Kind != KindInstance {
		return false
	}
	if expected.Class == nil || actual.Class == nil {
		return expected.Class == actual.Class
	}
	if !classChainContains(actual.Class, expected.Class) {
		return false
	}
	for i, ta := range expected.TypeArgs {
		if i >= len(actual.TypeArgs) {
			break
		}
		if !assignableSeen(ta, actual.TypeArgs[i], false, seen) {
			return false
		}
	}
	return true
}
