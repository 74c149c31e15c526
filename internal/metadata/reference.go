package metadata

// Reference is any entity the metadata writer can refer to.
type Reference interface {
	// Kind returns the single shape tag of the wrapper.
	Kind() Kind
	// Dispatch calls the Visitor method matching the wrapper's most specific shape.
	Dispatch(v Visitor)
	// AsDefinition returns the wrapper itself when it is a definition, or nil.
	AsDefinition() Definition
}

// Definition is a reference to an entity declared in the module being built.
type Definition interface {
	Reference
	DeclaringModule() ModuleDefinition
}

// CustomModifier is an optional (modopt) or required (modreq) modifier.
// Modifiers are values: they are never cached by identity.
type CustomModifier struct {
	IsOptional bool
	Modifier   TypeReference
}

// TypeReference is any reference usable in a type position.
type TypeReference interface {
	Reference
	IsValueType() bool
	TypeCode() PrimitiveTypeCode
}

// NamedTypeReference is a reference to a namespace or nested type.
type NamedTypeReference interface {
	TypeReference
	Name() string
	// MangledName appends "`arity" to generic type names.
	MangledName() string
	GenericParameterCount() int
}

type NamespaceTypeReference interface {
	NamedTypeReference
	NamespaceName() string
	Unit() UnitReference
}

type NestedTypeReference interface {
	NamedTypeReference
	ContainingType() TypeReference
}

// SpecializedNestedTypeReference is a non-generic nested type seen through a
// generic container.
type SpecializedNestedTypeReference interface {
	NestedTypeReference
	UnspecializedVersion() NestedTypeReference
}

type GenericTypeInstanceReference interface {
	TypeReference
	GenericType() NamedTypeReference
	// GenericArguments lists arguments of the containing chain first,
	// outermost type first, followed by the type's own arguments.
	GenericArguments() []TypeReference
}

type GenericParameterReference interface {
	TypeReference
	Name() string
	Index() int
}

type GenericTypeParameterReference interface {
	GenericParameterReference
	DefiningType() TypeReference
}

type GenericMethodParameterReference interface {
	GenericParameterReference
	DefiningMethod() MethodReference
}

type ArrayTypeReference interface {
	TypeReference
	ElementType() TypeReference
	IsSZArray() bool
	Rank() int
}

type PointerTypeReference interface {
	TypeReference
	TargetType() TypeReference
}

type ManagedPointerTypeReference interface {
	TypeReference
	TargetType() TypeReference
}

type FunctionPointerTypeReference interface {
	TypeReference
	ReturnType() TypeReference
	Parameters() []ParameterTypeInformation
}

type ModifiedTypeReference interface {
	TypeReference
	UnmodifiedType() TypeReference
	CustomModifiers() []CustomModifier
}

type TypeMemberReference interface {
	Reference
	Name() string
	ContainingType() TypeReference
}

type FieldReference interface {
	TypeMemberReference
	Type() TypeReference
	IsStatic() bool
}

type SpecializedFieldReference interface {
	FieldReference
	UnspecializedVersion() FieldReference
}

type MethodReference interface {
	TypeMemberReference
	IsStatic() bool
	IsGeneric() bool
	GenericParameterCount() int
	ReturnType() TypeReference
	Parameters() []ParameterTypeInformation
}

type SpecializedMethodReference interface {
	MethodReference
	UnspecializedVersion() MethodReference
}

type GenericMethodInstanceReference interface {
	MethodReference
	GenericMethod() MethodReference
	GenericArguments() []TypeReference
}

type ParameterTypeInformation interface {
	Reference
	Index() int
	Type() TypeReference
	IsByRef() bool
}

type UnitReference interface {
	Reference
	Name() string
}

type AssemblyReference interface {
	UnitReference
	Version() string
}

type ModuleReference interface {
	UnitReference
	ContainingAssembly() AssemblyReference
}
