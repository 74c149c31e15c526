package symbols

// Kind classifies the semantic meaning of a symbol.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindAssembly
	KindModule
	KindNamedType
	KindField
	KindMethod
	KindParameter
	KindTypeParameter
	KindArrayType
	KindPointerType
	KindByRefType
	KindFunctionPointerType
)

func (k Kind) String() string {
	switch k {
	case KindAssembly:
		return "assembly"
	case KindModule:
		return "module"
	case KindNamedType:
		return "type"
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindParameter:
		return "param"
	case KindTypeParameter:
		return "type-param"
	case KindArrayType:
		return "array"
	case KindPointerType:
		return "pointer"
	case KindByRefType:
		return "byref"
	case KindFunctionPointerType:
		return "fnptr"
	default:
		return "invalid"
	}
}

// IsType reports whether symbols of this kind can appear in a type position.
func (k Kind) IsType() bool {
	switch k {
	case KindNamedType, KindTypeParameter, KindArrayType, KindPointerType, KindByRefType, KindFunctionPointerType:
		return true
	}
	return false
}

// Accessibility is the declared accessibility reported by the front end.
type Accessibility uint8

const (
	AccessNotApplicable Accessibility = iota
	AccessPrivate
	AccessProtectedAndInternal
	AccessProtected
	AccessInternal
	AccessProtectedOrInternal
	AccessPublic
)

func (a Accessibility) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessProtectedAndInternal:
		return "private protected"
	case AccessProtected:
		return "protected"
	case AccessInternal:
		return "internal"
	case AccessProtectedOrInternal:
		return "protected internal"
	case AccessPublic:
		return "public"
	default:
		return "n/a"
	}
}

// Variance of a generic type parameter.
type Variance uint8

const (
	VarianceNone Variance = iota
	VarianceOut
	VarianceIn
)

// TypeKind distinguishes the flavor of a named type.
type TypeKind uint8

const (
	TypeClass TypeKind = iota
	TypeStruct
	TypeInterface
	TypeEnum
	TypeDelegate
)

func (k TypeKind) String() string {
	switch k {
	case TypeStruct:
		return "struct"
	case TypeInterface:
		return "interface"
	case TypeEnum:
		return "enum"
	case TypeDelegate:
		return "delegate"
	default:
		return "class"
	}
}

// SpecialType marks well-known core library types.
type SpecialType uint8

const (
	SpecialNone SpecialType = iota
	SpecialObject
	SpecialVoid
	SpecialBoolean
	SpecialChar
	SpecialInt8
	SpecialUInt8
	SpecialInt16
	SpecialUInt16
	SpecialInt32
	SpecialUInt32
	SpecialInt64
	SpecialUInt64
	SpecialFloat32
	SpecialFloat64
	SpecialIntPtr
	SpecialUIntPtr
	SpecialString
	SpecialValueType
)

// Flags encode misc attributes for quick checks.
type Flags uint32

const (
	FlagStatic Flags = 1 << iota
	FlagAbstract
	FlagVirtual
	FlagSealed
	FlagReadOnly
	FlagConst
	FlagExtern
	FlagOut
	FlagOptional
	FlagByRef
	FlagPrimaryModule
	FlagReferenceTypeConstraint
	FlagValueTypeConstraint
	FlagConstructorConstraint
	FlagSpecialName
)

// Strings returns a slice of textual flag labels.
func (f Flags) Strings() []string {
	if f == 0 {
		return nil
	}
	names := [...]string{
		"static", "abstract", "virtual", "sealed", "readonly", "const", "extern",
		"out", "optional", "byref", "primary", "class", "struct", "new()", "specialname",
	}
	labels := make([]string, 0, 4)
	for i, name := range names {
		if f&(1<<i) != 0 {
			labels = append(labels, name)
		}
	}
	return labels
}

// CustomModifier is an optional or required modifier attached to a type use.
type CustomModifier struct {
	Modifier SymbolID
	Optional bool
}

// Symbol describes a declared or constructed program entity.
//
// Container is the containing type for members and nested types, the owning
// type or method for type parameters, the owning method for parameters, the
// module for top-level types and the assembly for modules.
type Symbol struct {
	Kind      Kind
	Name      string
	Namespace string
	Container SymbolID
	Module    SymbolID

	// Original is NoSymbolID for original definitions.
	Original SymbolID
	// ConstructedFrom is the generic symbol a constructed symbol instantiates.
	ConstructedFrom SymbolID

	Access   Accessibility
	Flags    Flags
	TypeKind TypeKind
	Special  SpecialType

	TypeParams  []SymbolID
	TypeArgs    []SymbolID
	Ordinal     int
	Variance    Variance
	Constraints []SymbolID

	// Type is the field type, parameter type, element/target type or return type.
	Type      SymbolID
	Modifiers []CustomModifier

	Params     []SymbolID
	Members    []SymbolID
	Base       SymbolID
	Interfaces []SymbolID

	// Rank is zero for single-dimensional zero-based vectors.
	Rank    int
	Version string
}

// Has reports whether all bits of f are set.
func (s *Symbol) Has(f Flags) bool { return s.Flags&f == f }
