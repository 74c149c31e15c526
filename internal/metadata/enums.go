package metadata

// Visibility is the writer's member visibility.
type Visibility uint8

const (
	VisibilityDefault Visibility = iota
	VisibilityPrivate
	VisibilityFamilyAndAssembly
	VisibilityAssembly
	VisibilityFamily
	VisibilityFamilyOrAssembly
	VisibilityPublic
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityFamilyAndAssembly:
		return "famandassem"
	case VisibilityAssembly:
		return "assembly"
	case VisibilityFamily:
		return "family"
	case VisibilityFamilyOrAssembly:
		return "famorassem"
	case VisibilityPublic:
		return "public"
	default:
		return "default"
	}
}

// TypeVisibility is the visibility mask of a type definition's attributes.
// Top-level types are public or not; nested types carry a member-style
// visibility of their own.
type TypeVisibility uint8

const (
	TypeNotPublic TypeVisibility = iota
	TypePublic
	TypeNestedPublic
	TypeNestedPrivate
	TypeNestedFamily
	TypeNestedAssembly
	TypeNestedFamilyAndAssembly
	TypeNestedFamilyOrAssembly
)

var typeVisibilityNames = [...]string{
	TypeNotPublic:               "notpublic",
	TypePublic:                  "public",
	TypeNestedPublic:            "nested public",
	TypeNestedPrivate:           "nested private",
	TypeNestedFamily:            "nested family",
	TypeNestedAssembly:          "nested assembly",
	TypeNestedFamilyAndAssembly: "nested famandassem",
	TypeNestedFamilyOrAssembly:  "nested famorassem",
}

func (v TypeVisibility) String() string {
	if int(v) < len(typeVisibilityNames) {
		return typeVisibilityNames[v]
	}
	return "invalid"
}

// Variance of a generic parameter as written to metadata.
type Variance uint8

const (
	VarianceNonVariant Variance = iota
	VarianceCovariant
	VarianceContravariant
)

func (v Variance) String() string {
	switch v {
	case VarianceCovariant:
		return "+"
	case VarianceContravariant:
		return "-"
	default:
		return ""
	}
}

// PrimitiveTypeCode identifies types with a dedicated signature encoding.
type PrimitiveTypeCode uint8

const (
	PrimitiveNotPrimitive PrimitiveTypeCode = iota
	PrimitiveVoid
	PrimitiveBoolean
	PrimitiveChar
	PrimitiveInt8
	PrimitiveUInt8
	PrimitiveInt16
	PrimitiveUInt16
	PrimitiveInt32
	PrimitiveUInt32
	PrimitiveInt64
	PrimitiveUInt64
	PrimitiveFloat32
	PrimitiveFloat64
	PrimitiveIntPtr
	PrimitiveUIntPtr
	PrimitiveString
	PrimitivePointer
	PrimitiveReference
)

func (c PrimitiveTypeCode) String() string {
	switch c {
	case PrimitiveVoid:
		return "void"
	case PrimitiveBoolean:
		return "bool"
	case PrimitiveChar:
		return "char"
	case PrimitiveInt8:
		return "int8"
	case PrimitiveUInt8:
		return "uint8"
	case PrimitiveInt16:
		return "int16"
	case PrimitiveUInt16:
		return "uint16"
	case PrimitiveInt32:
		return "int32"
	case PrimitiveUInt32:
		return "uint32"
	case PrimitiveInt64:
		return "int64"
	case PrimitiveUInt64:
		return "uint64"
	case PrimitiveFloat32:
		return "float32"
	case PrimitiveFloat64:
		return "float64"
	case PrimitiveIntPtr:
		return "native int"
	case PrimitiveUIntPtr:
		return "native uint"
	case PrimitiveString:
		return "string"
	case PrimitivePointer:
		return "ptr"
	case PrimitiveReference:
		return "ref"
	default:
		return ""
	}
}
