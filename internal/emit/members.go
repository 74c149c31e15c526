package emit

import (
	"strings"

	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// member carries what fields and methods share: a name and a containing
// type seen the way a caller outside the declaration sees it.
type member struct{ adapter }

func (m member) Name() string { return m.sym().Name }

func (m member) ContainingType() metadata.TypeReference {
	return m.t.TranslateType(m.t.syms.ContainingType(m.id), false)
}

func (m member) IsStatic() bool { return m.sym().Has(symbols.FlagStatic) }

// declaringType is the containing type of a member definition: always the
// container's own definition.
func (m member) declaringType() metadata.TypeReference {
	return m.t.unspecializedType(m.t.syms.ContainingType(m.id))
}

type fieldRef struct{ member }

func (*fieldRef) Kind() metadata.Kind           { return metadata.KindField }
func (r *fieldRef) Dispatch(v metadata.Visitor) { v.VisitFieldReference(r) }

// Type re-derives custom modifiers on every call.
func (r *fieldRef) Type() metadata.TypeReference {
	sym := r.sym()
	return r.t.typeWithModifiers(sym.Type, sym.Modifiers)
}

type fieldFacets struct{ def adapter }

func (f fieldFacets) DeclaringModule() metadata.ModuleDefinition { return f.def.t }
func (f fieldFacets) Visibility() metadata.Visibility            { return visibilityOf(f.def.sym()) }
func (f fieldFacets) IsReadOnly() bool                           { return f.def.sym().Has(symbols.FlagReadOnly) }
func (f fieldFacets) IsCompileTimeConstant() bool                { return f.def.sym().Has(symbols.FlagConst) }

func (fieldFacets) MarshallingInformation() (*metadata.MarshallingInformation, error) {
	return nil, metadata.ErrNotSupported
}

type fieldDef struct {
	fieldRef
	fieldFacets
}

func (d *fieldDef) Dispatch(v metadata.Visitor)            { v.VisitFieldDefinition(d) }
func (d *fieldDef) AsDefinition() metadata.Definition      { return d }
func (d *fieldDef) ContainingType() metadata.TypeReference { return d.declaringType() }

// specializedFieldRef is a field of a generic container, or of a container
// nested in one, seen through that container.
type specializedFieldRef struct{ fieldRef }

func (*specializedFieldRef) Kind() metadata.Kind { return metadata.KindSpecializedField }
func (r *specializedFieldRef) Dispatch(v metadata.Visitor) {
	v.VisitSpecializedFieldReference(r)
}

func (r *specializedFieldRef) UnspecializedVersion() metadata.FieldReference {
	return r.t.unspecializedField(r.t.syms.OriginalDefinition(r.id))
}

type methodRef struct{ member }

func (*methodRef) Kind() metadata.Kind           { return metadata.KindMethod }
func (r *methodRef) Dispatch(v metadata.Visitor) { v.VisitMethodReference(r) }

func (r *methodRef) IsGeneric() bool            { return r.t.syms.Arity(r.id) > 0 }
func (r *methodRef) GenericParameterCount() int { return r.t.syms.Arity(r.id) }

func (r *methodRef) ReturnType() metadata.TypeReference {
	sym := r.sym()
	return r.t.typeWithModifiers(sym.Type, sym.Modifiers)
}

func (r *methodRef) Parameters() []metadata.ParameterTypeInformation {
	return parameters(r.t, r.sym().Params)
}

func parameters(t *Translator, params []symbols.SymbolID) []metadata.ParameterTypeInformation {
	out := make([]metadata.ParameterTypeInformation, 0, len(params))
	for _, p := range params {
		out = append(out, t.TranslateParameter(p, false))
	}
	return out
}

type methodFacets struct{ def adapter }

func (f methodFacets) DeclaringModule() metadata.ModuleDefinition { return f.def.t }
func (f methodFacets) Visibility() metadata.Visibility            { return visibilityOf(f.def.sym()) }
func (f methodFacets) IsVirtual() bool                            { return f.def.sym().Has(symbols.FlagVirtual) }
func (f methodFacets) IsSealed() bool                             { return f.def.sym().Has(symbols.FlagSealed) }
func (f methodFacets) IsExternal() bool                           { return f.def.sym().Has(symbols.FlagExtern) }

// IsAbstract also holds for every method of an interface.
func (f methodFacets) IsAbstract() bool {
	sym := f.def.sym()
	if sym.Has(symbols.FlagAbstract) {
		return true
	}
	owner := f.def.t.syms.Get(f.def.t.syms.ContainingType(f.def.id))
	return owner != nil && owner.TypeKind == symbols.TypeInterface && !sym.Has(symbols.FlagStatic)
}

func (f methodFacets) IsConstructor() bool {
	sym := f.def.sym()
	return sym.Has(symbols.FlagSpecialName) && strings.HasSuffix(sym.Name, "ctor")
}

func (f methodFacets) GenericParameters() []metadata.GenericParameterDefinition {
	return genericParameterDefinitions(f.def.t, f.def.sym().TypeParams)
}

func (f methodFacets) ParameterDefinitions() []metadata.ParameterDefinition {
	params := f.def.sym().Params
	out := make([]metadata.ParameterDefinition, 0, len(params))
	for _, p := range params {
		r := f.def.t.TranslateParameter(p, true)
		out = append(out, metadata.Expect[metadata.ParameterDefinition](r, metadata.KindParameter))
	}
	return out
}

// Body is nil for abstract, extern and interface methods, and for methods
// whose body was not attached yet.
func (f methodFacets) Body() *metadata.MethodBody { return f.def.t.GetMethodBody(f.def.id) }

func (methodFacets) PlatformInvokeData() (*metadata.PlatformInvokeInformation, error) {
	return nil, metadata.ErrNotSupported
}

func (methodFacets) SecurityAttributes() ([]metadata.SecurityAttribute, error) {
	return nil, metadata.ErrNotSupported
}

func (methodFacets) ReturnValueMarshallingInformation() (*metadata.MarshallingInformation, error) {
	return nil, metadata.ErrNotSupported
}

type methodDef struct {
	methodRef
	methodFacets
}

func (d *methodDef) Dispatch(v metadata.Visitor)            { v.VisitMethodDefinition(d) }
func (d *methodDef) AsDefinition() metadata.Definition      { return d }
func (d *methodDef) ContainingType() metadata.TypeReference { return d.declaringType() }

// specializedMethodRef is a method of a generic container seen through that
// container. When the method is generic itself it stands for the
// uninstantiated method and backs GenericMethod of an instance.
type specializedMethodRef struct{ methodRef }

func (*specializedMethodRef) Kind() metadata.Kind { return metadata.KindSpecializedMethod }
func (r *specializedMethodRef) Dispatch(v metadata.Visitor) {
	v.VisitSpecializedMethodReference(r)
}

func (r *specializedMethodRef) UnspecializedVersion() metadata.MethodReference {
	return r.t.unspecializedMethod(r.t.syms.OriginalDefinition(r.id))
}

type genericMethodInstanceRef struct{ methodRef }

func (*genericMethodInstanceRef) Kind() metadata.Kind { return metadata.KindGenericMethodInstance }
func (r *genericMethodInstanceRef) Dispatch(v metadata.Visitor) {
	v.VisitGenericMethodInstanceReference(r)
}

// GenericMethod is the method being instantiated. Inside a generic container
// it is the specialized method of that container, otherwise the method's own
// unspecialized wrapper.
func (r *genericMethodInstanceRef) GenericMethod() metadata.MethodReference {
	base := r.sym().ConstructedFrom
	if !base.IsValid() {
		base = r.id
	}
	if r.t.syms.IsNestedInGeneric(base) {
		return r.t.specializedGenericMethod(base)
	}
	return r.t.unspecializedMethod(r.t.syms.OriginalDefinition(base))
}

// GenericArguments lists the type arguments, or the method's own type
// parameters when it is referenced uninstantiated.
func (r *genericMethodInstanceRef) GenericArguments() []metadata.TypeReference {
	args := r.sym().TypeArgs
	if len(args) == 0 {
		args = r.original().TypeParams
	}
	out := make([]metadata.TypeReference, 0, len(args))
	for _, arg := range args {
		out = append(out, r.t.TranslateType(arg, false))
	}
	return out
}

type paramRef struct{ adapter }

func (*paramRef) Kind() metadata.Kind           { return metadata.KindParameter }
func (r *paramRef) Dispatch(v metadata.Visitor) { v.VisitParameterTypeInformation(r) }
func (r *paramRef) Index() int                  { return r.sym().Ordinal }
func (r *paramRef) IsByRef() bool               { return r.sym().Has(symbols.FlagByRef) }

func (r *paramRef) Type() metadata.TypeReference {
	sym := r.sym()
	return r.t.typeWithModifiers(sym.Type, sym.Modifiers)
}

type paramFacets struct{ def adapter }

func (f paramFacets) DeclaringModule() metadata.ModuleDefinition { return f.def.t }
func (f paramFacets) Name() string                               { return f.def.sym().Name }
func (f paramFacets) IsOptional() bool                           { return f.def.sym().Has(symbols.FlagOptional) }
func (f paramFacets) IsOut() bool                                { return f.def.sym().Has(symbols.FlagOut) }

func (paramFacets) MarshallingInformation() (*metadata.MarshallingInformation, error) {
	return nil, metadata.ErrNotSupported
}

type paramDef struct {
	paramRef
	paramFacets
}

func (d *paramDef) Dispatch(v metadata.Visitor)       { v.VisitParameterDefinition(d) }
func (d *paramDef) AsDefinition() metadata.Definition { return d }

var (
	_ metadata.FieldDefinition                = (*fieldDef)(nil)
	_ metadata.SpecializedFieldReference      = (*specializedFieldRef)(nil)
	_ metadata.MethodDefinition               = (*methodDef)(nil)
	_ metadata.SpecializedMethodReference     = (*specializedMethodRef)(nil)
	_ metadata.GenericMethodInstanceReference = (*genericMethodInstanceRef)(nil)
	_ metadata.ParameterDefinition            = (*paramDef)(nil)
)
