package metadata

// Visitor receives a reference with its most specific static type.
type Visitor interface {
	VisitAssemblyReference(AssemblyReference)
	VisitModuleReference(ModuleReference)
	VisitModuleDefinition(ModuleDefinition)

	VisitNamespaceTypeReference(NamespaceTypeReference)
	VisitNamespaceTypeDefinition(NamespaceTypeDefinition)
	VisitNestedTypeReference(NestedTypeReference)
	VisitNestedTypeDefinition(NestedTypeDefinition)
	VisitSpecializedNestedTypeReference(SpecializedNestedTypeReference)
	VisitGenericTypeInstanceReference(GenericTypeInstanceReference)
	VisitGenericTypeParameterReference(GenericTypeParameterReference)
	VisitGenericMethodParameterReference(GenericMethodParameterReference)
	VisitGenericParameterDefinition(GenericParameterDefinition)
	VisitArrayTypeReference(ArrayTypeReference)
	VisitPointerTypeReference(PointerTypeReference)
	VisitManagedPointerTypeReference(ManagedPointerTypeReference)
	VisitFunctionPointerTypeReference(FunctionPointerTypeReference)
	VisitModifiedTypeReference(ModifiedTypeReference)

	VisitFieldReference(FieldReference)
	VisitFieldDefinition(FieldDefinition)
	VisitSpecializedFieldReference(SpecializedFieldReference)
	VisitMethodReference(MethodReference)
	VisitMethodDefinition(MethodDefinition)
	VisitSpecializedMethodReference(SpecializedMethodReference)
	VisitGenericMethodInstanceReference(GenericMethodInstanceReference)
	VisitParameterTypeInformation(ParameterTypeInformation)
	VisitParameterDefinition(ParameterDefinition)
}

// BaseVisitor implements Visitor with no-op methods. Embed it to override
// only the shapes of interest.
type BaseVisitor struct{}

var _ Visitor = BaseVisitor{}

func (BaseVisitor) VisitAssemblyReference(AssemblyReference)                             {}
func (BaseVisitor) VisitModuleReference(ModuleReference)                                 {}
func (BaseVisitor) VisitModuleDefinition(ModuleDefinition)                               {}
func (BaseVisitor) VisitNamespaceTypeReference(NamespaceTypeReference)                   {}
func (BaseVisitor) VisitNamespaceTypeDefinition(NamespaceTypeDefinition)                 {}
func (BaseVisitor) VisitNestedTypeReference(NestedTypeReference)                         {}
func (BaseVisitor) VisitNestedTypeDefinition(NestedTypeDefinition)                       {}
func (BaseVisitor) VisitSpecializedNestedTypeReference(SpecializedNestedTypeReference)   {}
func (BaseVisitor) VisitGenericTypeInstanceReference(GenericTypeInstanceReference)       {}
func (BaseVisitor) VisitGenericTypeParameterReference(GenericTypeParameterReference)     {}
func (BaseVisitor) VisitGenericMethodParameterReference(GenericMethodParameterReference) {}
func (BaseVisitor) VisitGenericParameterDefinition(GenericParameterDefinition)           {}
func (BaseVisitor) VisitArrayTypeReference(ArrayTypeReference)                           {}
func (BaseVisitor) VisitPointerTypeReference(PointerTypeReference)                       {}
func (BaseVisitor) VisitManagedPointerTypeReference(ManagedPointerTypeReference)         {}
func (BaseVisitor) VisitFunctionPointerTypeReference(FunctionPointerTypeReference)       {}
func (BaseVisitor) VisitModifiedTypeReference(ModifiedTypeReference)                     {}
func (BaseVisitor) VisitFieldReference(FieldReference)                                   {}
func (BaseVisitor) VisitFieldDefinition(FieldDefinition)                                 {}
func (BaseVisitor) VisitSpecializedFieldReference(SpecializedFieldReference)             {}
func (BaseVisitor) VisitMethodReference(MethodReference)                                 {}
func (BaseVisitor) VisitMethodDefinition(MethodDefinition)                               {}
func (BaseVisitor) VisitSpecializedMethodReference(SpecializedMethodReference)           {}
func (BaseVisitor) VisitGenericMethodInstanceReference(GenericMethodInstanceReference)   {}
func (BaseVisitor) VisitParameterTypeInformation(ParameterTypeInformation)               {}
func (BaseVisitor) VisitParameterDefinition(ParameterDefinition)                         {}
