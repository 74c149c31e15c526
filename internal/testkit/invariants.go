// Package testkit holds invariant checks shared by tests of the emitter.
package testkit

import (
	"errors"
	"fmt"

	"ilemit/internal/metadata"
)

// kindRecorder notes the kind implied by every Visit method it receives.
type kindRecorder struct {
	metadata.BaseVisitor
	kinds []metadata.Kind
	defs  int
}

func (r *kindRecorder) saw(k metadata.Kind) { r.kinds = append(r.kinds, k) }
func (r *kindRecorder) def(k metadata.Kind) { r.saw(k); r.defs++ }

func (r *kindRecorder) VisitAssemblyReference(metadata.AssemblyReference) {
	r.saw(metadata.KindAssembly)
}
func (r *kindRecorder) VisitModuleReference(metadata.ModuleReference) { r.saw(metadata.KindModule) }
func (r *kindRecorder) VisitModuleDefinition(metadata.ModuleDefinition) {
	r.def(metadata.KindModule)
}
func (r *kindRecorder) VisitNamespaceTypeReference(metadata.NamespaceTypeReference) {
	r.saw(metadata.KindNamespaceType)
}
func (r *kindRecorder) VisitNamespaceTypeDefinition(metadata.NamespaceTypeDefinition) {
	r.def(metadata.KindNamespaceType)
}
func (r *kindRecorder) VisitNestedTypeReference(metadata.NestedTypeReference) {
	r.saw(metadata.KindNestedType)
}
func (r *kindRecorder) VisitNestedTypeDefinition(metadata.NestedTypeDefinition) {
	r.def(metadata.KindNestedType)
}
func (r *kindRecorder) VisitSpecializedNestedTypeReference(metadata.SpecializedNestedTypeReference) {
	r.saw(metadata.KindSpecializedNestedType)
}
func (r *kindRecorder) VisitGenericTypeInstanceReference(metadata.GenericTypeInstanceReference) {
	r.saw(metadata.KindGenericTypeInstance)
}
func (r *kindRecorder) VisitGenericTypeParameterReference(metadata.GenericTypeParameterReference) {
	r.saw(metadata.KindGenericTypeParameter)
}
func (r *kindRecorder) VisitGenericMethodParameterReference(metadata.GenericMethodParameterReference) {
	r.saw(metadata.KindGenericMethodParameter)
}

// VisitGenericParameterDefinition covers both parameter flavors, so the
// recorder asks the wrapper for its kind.
func (r *kindRecorder) VisitGenericParameterDefinition(p metadata.GenericParameterDefinition) {
	r.def(p.Kind())
}
func (r *kindRecorder) VisitArrayTypeReference(metadata.ArrayTypeReference) {
	r.saw(metadata.KindArrayType)
}
func (r *kindRecorder) VisitPointerTypeReference(metadata.PointerTypeReference) {
	r.saw(metadata.KindPointerType)
}
func (r *kindRecorder) VisitManagedPointerTypeReference(metadata.ManagedPointerTypeReference) {
	r.saw(metadata.KindManagedPointerType)
}
func (r *kindRecorder) VisitFunctionPointerTypeReference(metadata.FunctionPointerTypeReference) {
	r.saw(metadata.KindFunctionPointerType)
}
func (r *kindRecorder) VisitModifiedTypeReference(metadata.ModifiedTypeReference) {
	r.saw(metadata.KindModifiedType)
}
func (r *kindRecorder) VisitFieldReference(metadata.FieldReference) { r.saw(metadata.KindField) }
func (r *kindRecorder) VisitFieldDefinition(metadata.FieldDefinition) {
	r.def(metadata.KindField)
}
func (r *kindRecorder) VisitSpecializedFieldReference(metadata.SpecializedFieldReference) {
	r.saw(metadata.KindSpecializedField)
}
func (r *kindRecorder) VisitMethodReference(metadata.MethodReference) { r.saw(metadata.KindMethod) }
func (r *kindRecorder) VisitMethodDefinition(metadata.MethodDefinition) {
	r.def(metadata.KindMethod)
}
func (r *kindRecorder) VisitSpecializedMethodReference(metadata.SpecializedMethodReference) {
	r.saw(metadata.KindSpecializedMethod)
}
func (r *kindRecorder) VisitGenericMethodInstanceReference(metadata.GenericMethodInstanceReference) {
	r.saw(metadata.KindGenericMethodInstance)
}
func (r *kindRecorder) VisitParameterTypeInformation(metadata.ParameterTypeInformation) {
	r.saw(metadata.KindParameter)
}
func (r *kindRecorder) VisitParameterDefinition(metadata.ParameterDefinition) {
	r.def(metadata.KindParameter)
}

// CheckReferenceInvariants runs the shape invariants every wrapper must hold:
// 1) Kind is a valid tag
// 2) Dispatch makes exactly one visitor call, for the wrapper's own kind
// 3) a definition dispatches to its definition visit and AsDefinition returns
// the wrapper itself; a plain reference returns nil
func CheckReferenceInvariants(refs []metadata.Reference) error {
	var errs []error
	for i, ref := range refs {
		if ref == nil {
			errs = append(errs, fmt.Errorf("reference %d is nil", i))
			continue
		}
		if err := checkReference(ref); err != nil {
			errs = append(errs, fmt.Errorf("reference %d (%s): %w", i, ref.Kind(), err))
		}
	}
	return errors.Join(errs...)
}

func checkReference(ref metadata.Reference) error {
	kind := ref.Kind()
	if kind == metadata.KindInvalid || kind.String() == "invalid" {
		return fmt.Errorf("invalid kind %d", kind)
	}
	rec := &kindRecorder{}
	ref.Dispatch(rec)
	if len(rec.kinds) != 1 {
		return fmt.Errorf("dispatch made %d visitor calls", len(rec.kinds))
	}
	if rec.kinds[0] != kind {
		return fmt.Errorf("dispatch visited %s", rec.kinds[0])
	}
	def := ref.AsDefinition()
	switch {
	case def == nil && rec.defs > 0:
		return fmt.Errorf("definition visit but AsDefinition is nil")
	case def != nil && rec.defs == 0:
		return fmt.Errorf("AsDefinition set but reference visit")
	case def != nil && metadata.Reference(def) != ref:
		return fmt.Errorf("AsDefinition returned another wrapper")
	}
	return nil
}
