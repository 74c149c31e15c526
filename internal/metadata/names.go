package metadata

import "strconv"

// Expect narrows r to T after checking its tag. A tag mismatch, or a wrapper
// whose tag does not match its method set, is a contract fault.
func Expect[T Reference](r Reference, kind Kind) T {
	var zero T
	if r == nil {
		Faultf("Expect", "nil reference, want %s", kind)
		return zero
	}
	if r.Kind() != kind {
		Faultf("Expect", "reference is %s, want %s", r.Kind(), kind)
		return zero
	}
	out, ok := r.(T)
	if !ok {
		Faultf("Expect", "%s reference %T does not implement the %s shape", kind, r, kind)
	}
	return out
}

// MangleName returns name with the "`arity" suffix used for generic types.
func MangleName(name string, arity int) string {
	if arity <= 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}

// InheritedGenericParameterCount returns how many generic parameters a
// nested type inherits from its containing types.
func InheritedGenericParameterCount(t TypeReference) int {
	var nested NestedTypeReference
	switch t.Kind() {
	case KindSpecializedNestedType:
		nested = Expect[SpecializedNestedTypeReference](t, KindSpecializedNestedType).UnspecializedVersion()
	case KindNestedType:
		nested = Expect[NestedTypeReference](t, KindNestedType)
	default:
		return 0
	}
	count := 0
	for typ := namedType(nested.ContainingType()); typ != nil; {
		count += typ.GenericParameterCount()
		if typ.Kind() != KindNestedType && typ.Kind() != KindSpecializedNestedType {
			break
		}
		typ = namedType(typ.(NestedTypeReference).ContainingType())
	}
	return count
}

// namedType strips an instance down to its generic type.
func namedType(t TypeReference) NamedTypeReference {
	switch t.Kind() {
	case KindGenericTypeInstance:
		return Expect[GenericTypeInstanceReference](t, KindGenericTypeInstance).GenericType()
	case KindNamespaceType, KindNestedType, KindSpecializedNestedType:
		named, ok := t.(NamedTypeReference)
		if !ok {
			Faultf("InheritedGenericParameterCount", "%s reference %T is not a named type", t.Kind(), t)
		}
		return named
	default:
		return nil
	}
}
