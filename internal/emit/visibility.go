package emit

import (
	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// visibilityOf maps declared accessibility to member visibility.
func visibilityOf(sym *symbols.Symbol) metadata.Visibility {
	switch sym.Access {
	case symbols.AccessPrivate:
		return metadata.VisibilityPrivate
	case symbols.AccessProtectedAndInternal:
		return metadata.VisibilityFamilyAndAssembly
	case symbols.AccessProtected:
		return metadata.VisibilityFamily
	case symbols.AccessInternal:
		return metadata.VisibilityAssembly
	case symbols.AccessProtectedOrInternal:
		return metadata.VisibilityFamilyOrAssembly
	case symbols.AccessPublic:
		return metadata.VisibilityPublic
	default:
		metadata.Faultf("Visibility", "unmapped accessibility %d on %s %q", sym.Access, sym.Kind, sym.Name)
		return metadata.VisibilityDefault
	}
}

// typeVisibilityOf maps declared accessibility to the visibility bits of a
// type definition. A top-level type is only public or not public.
func typeVisibilityOf(sym *symbols.Symbol, nested bool) metadata.TypeVisibility {
	if !nested {
		if sym.Access == symbols.AccessPublic {
			return metadata.TypePublic
		}
		return metadata.TypeNotPublic
	}
	switch visibilityOf(sym) {
	case metadata.VisibilityPrivate:
		return metadata.TypeNestedPrivate
	case metadata.VisibilityFamilyAndAssembly:
		return metadata.TypeNestedFamilyAndAssembly
	case metadata.VisibilityFamily:
		return metadata.TypeNestedFamily
	case metadata.VisibilityAssembly:
		return metadata.TypeNestedAssembly
	case metadata.VisibilityFamilyOrAssembly:
		return metadata.TypeNestedFamilyOrAssembly
	default:
		return metadata.TypeNestedPublic
	}
}

func varianceOf(sym *symbols.Symbol) metadata.Variance {
	switch sym.Variance {
	case symbols.VarianceNone:
		return metadata.VarianceNonVariant
	case symbols.VarianceOut:
		return metadata.VarianceCovariant
	case symbols.VarianceIn:
		return metadata.VarianceContravariant
	default:
		metadata.Faultf("Variance", "unmapped variance %d on %q", sym.Variance, sym.Name)
		return metadata.VarianceNonVariant
	}
}

func typeCodeOf(special symbols.SpecialType) metadata.PrimitiveTypeCode {
	switch special {
	case symbols.SpecialVoid:
		return metadata.PrimitiveVoid
	case symbols.SpecialBoolean:
		return metadata.PrimitiveBoolean
	case symbols.SpecialChar:
		return metadata.PrimitiveChar
	case symbols.SpecialInt8:
		return metadata.PrimitiveInt8
	case symbols.SpecialUInt8:
		return metadata.PrimitiveUInt8
	case symbols.SpecialInt16:
		return metadata.PrimitiveInt16
	case symbols.SpecialUInt16:
		return metadata.PrimitiveUInt16
	case symbols.SpecialInt32:
		return metadata.PrimitiveInt32
	case symbols.SpecialUInt32:
		return metadata.PrimitiveUInt32
	case symbols.SpecialInt64:
		return metadata.PrimitiveInt64
	case symbols.SpecialUInt64:
		return metadata.PrimitiveUInt64
	case symbols.SpecialFloat32:
		return metadata.PrimitiveFloat32
	case symbols.SpecialFloat64:
		return metadata.PrimitiveFloat64
	case symbols.SpecialIntPtr:
		return metadata.PrimitiveIntPtr
	case symbols.SpecialUIntPtr:
		return metadata.PrimitiveUIntPtr
	case symbols.SpecialString:
		return metadata.PrimitiveString
	default:
		return metadata.PrimitiveNotPrimitive
	}
}
