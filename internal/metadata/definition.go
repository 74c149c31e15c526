package metadata

// TypeDefinition exposes declaration-only facets of a type.
type TypeDefinition interface {
	NamedTypeReference
	Definition
	Visibility() Visibility
	// TypeVisibility is the attribute-level visibility, nested or not.
	TypeVisibility() TypeVisibility
	IsInterface() bool
	IsAbstract() bool
	IsSealed() bool
	// BaseClass is nil for interfaces and the root object type.
	BaseClass() TypeReference
	Interfaces() []TypeReference
	GenericParameters() []GenericParameterDefinition
	Fields() []FieldDefinition
	Methods() []MethodDefinition
	NestedTypes() []NestedTypeDefinition
}

type NamespaceTypeDefinition interface {
	NamespaceTypeReference
	TypeDefinition
	IsPublic() bool
}

type NestedTypeDefinition interface {
	NestedTypeReference
	TypeDefinition
}

type GenericParameterDefinition interface {
	GenericParameterReference
	Definition
	Variance() Variance
	Constraints() []TypeReference
	MustBeReferenceType() bool
	MustBeValueType() bool
	MustHaveDefaultConstructor() bool
}

type FieldDefinition interface {
	FieldReference
	Definition
	Visibility() Visibility
	IsReadOnly() bool
	IsCompileTimeConstant() bool
	MarshallingInformation() (*MarshallingInformation, error)
}

type MethodDefinition interface {
	MethodReference
	Definition
	Visibility() Visibility
	IsAbstract() bool
	IsVirtual() bool
	IsSealed() bool
	IsExternal() bool
	IsConstructor() bool
	GenericParameters() []GenericParameterDefinition
	ParameterDefinitions() []ParameterDefinition
	// Body returns nil for methods without a body.
	Body() *MethodBody
	PlatformInvokeData() (*PlatformInvokeInformation, error)
	SecurityAttributes() ([]SecurityAttribute, error)
	ReturnValueMarshallingInformation() (*MarshallingInformation, error)
}

type ParameterDefinition interface {
	ParameterTypeInformation
	Definition
	Name() string
	IsOptional() bool
	IsOut() bool
	MarshallingInformation() (*MarshallingInformation, error)
}

// ModuleDefinition is the module being built.
type ModuleDefinition interface {
	ModuleReference
	Definition
	TopLevelTypes() []NamespaceTypeDefinition
}

// MarshallingInformation describes explicit marshalling of a field,
// parameter or return value.
type MarshallingInformation struct {
	UnmanagedType uint8
}

// PlatformInvokeInformation describes an extern method import.
type PlatformInvokeInformation struct {
	ModuleName string
	EntryPoint string
}

// SecurityAttribute is a declarative security action.
type SecurityAttribute struct {
	Action    uint16
	Attribute TypeReference
}

// AllTypes lists every type definition of m, each nested type after its
// container, in declaration order.
func AllTypes(m ModuleDefinition) []TypeDefinition {
	var out []TypeDefinition
	var walk func(TypeDefinition)
	walk = func(td TypeDefinition) {
		out = append(out, td)
		for _, nested := range td.NestedTypes() {
			walk(nested)
		}
	}
	for _, td := range m.TopLevelTypes() {
		walk(td)
	}
	return out
}
