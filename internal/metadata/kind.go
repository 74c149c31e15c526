package metadata

// Kind tags the concrete shape of a Reference. Every wrapper answers exactly
// one Kind; definitions share the Kind of their reference counterpart and
// additionally return themselves from AsDefinition.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindAssembly
	KindModule
	KindNamespaceType
	KindNestedType
	KindSpecializedNestedType
	KindGenericTypeInstance
	KindGenericTypeParameter
	KindGenericMethodParameter
	KindArrayType
	KindPointerType
	KindManagedPointerType
	KindFunctionPointerType
	KindModifiedType
	KindField
	KindSpecializedField
	KindMethod
	KindSpecializedMethod
	KindGenericMethodInstance
	KindParameter

	kindCount
)

// Kinds lists every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindAssembly; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	switch k {
	case KindAssembly:
		return "assembly"
	case KindModule:
		return "module"
	case KindNamespaceType:
		return "namespace-type"
	case KindNestedType:
		return "nested-type"
	case KindSpecializedNestedType:
		return "specialized-nested-type"
	case KindGenericTypeInstance:
		return "generic-type-instance"
	case KindGenericTypeParameter:
		return "generic-type-parameter"
	case KindGenericMethodParameter:
		return "generic-method-parameter"
	case KindArrayType:
		return "array"
	case KindPointerType:
		return "pointer"
	case KindManagedPointerType:
		return "managed-pointer"
	case KindFunctionPointerType:
		return "function-pointer"
	case KindModifiedType:
		return "modified-type"
	case KindField:
		return "field"
	case KindSpecializedField:
		return "specialized-field"
	case KindMethod:
		return "method"
	case KindSpecializedMethod:
		return "specialized-method"
	case KindGenericMethodInstance:
		return "generic-method-instance"
	case KindParameter:
		return "parameter"
	default:
		return "invalid"
	}
}

// IsType reports whether references of this kind are type references.
func (k Kind) IsType() bool {
	return k >= KindNamespaceType && k <= KindModifiedType
}

// IsTypeMember reports whether references of this kind are fields or methods.
func (k Kind) IsTypeMember() bool {
	return k >= KindField && k <= KindGenericMethodInstance
}
