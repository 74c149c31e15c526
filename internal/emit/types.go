package emit

import (
	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// adapter is the state every symbol-backed wrapper carries: a back pointer
// to the session and the symbol it stands for. Facets are computed from the
// symbol on every call.
type adapter struct {
	t  *Translator
	id symbols.SymbolID
}

func (a adapter) sym() *symbols.Symbol { return a.t.syms.MustGet(a.id) }

func (a adapter) original() *symbols.Symbol {
	return a.t.syms.MustGet(a.t.syms.OriginalDefinition(a.id))
}

func (adapter) AsDefinition() metadata.Definition { return nil }

// namedType carries the facets shared by every named type variant.
type namedType struct{ adapter }

func (n namedType) Name() string { return n.sym().Name }

func (n namedType) MangledName() string {
	return metadata.MangleName(n.sym().Name, n.GenericParameterCount())
}

// GenericParameterCount counts only the type's own parameters.
func (n namedType) GenericParameterCount() int { return len(n.original().TypeParams) }

func (n namedType) IsValueType() bool {
	switch n.original().TypeKind {
	case symbols.TypeStruct, symbols.TypeEnum:
		return true
	}
	return false
}

func (n namedType) TypeCode() metadata.PrimitiveTypeCode { return typeCodeOf(n.original().Special) }

type namespaceType struct{ namedType }

func (n namespaceType) NamespaceName() string { return n.sym().Namespace }

func (n namespaceType) Unit() metadata.UnitReference {
	mod := n.t.syms.DeclaringModule(n.id)
	if !mod.IsValid() {
		metadata.Faultf("Unit", "type %q has no declaring module", n.sym().Name)
	}
	return n.t.TranslateModule(mod)
}

type nestedType struct{ namedType }

// ContainingType of an unspecialized nested type is the unspecialized
// container: a definition when the container is declared here.
func (n nestedType) ContainingType() metadata.TypeReference {
	return n.t.unspecializedType(n.t.syms.OriginalDefinition(n.t.syms.ContainingType(n.id)))
}

type namespaceTypeRef struct{ namespaceType }

func (*namespaceTypeRef) Kind() metadata.Kind           { return metadata.KindNamespaceType }
func (r *namespaceTypeRef) Dispatch(v metadata.Visitor) { v.VisitNamespaceTypeReference(r) }

type nestedTypeRef struct{ nestedType }

func (*nestedTypeRef) Kind() metadata.Kind           { return metadata.KindNestedType }
func (r *nestedTypeRef) Dispatch(v metadata.Visitor) { v.VisitNestedTypeReference(r) }

// typeFacets holds declaration-only facets of a type definition. It keeps
// its adapter in a named field so that it can sit next to a named type
// without ambiguous selectors.
type typeFacets struct{ def adapter }

func (f typeFacets) DeclaringModule() metadata.ModuleDefinition { return f.def.t }

func (f typeFacets) Visibility() metadata.Visibility { return visibilityOf(f.def.sym()) }

func (f typeFacets) TypeVisibility() metadata.TypeVisibility {
	nested := f.def.t.syms.ContainingType(f.def.id).IsValid()
	return typeVisibilityOf(f.def.sym(), nested)
}

func (f typeFacets) IsInterface() bool { return f.def.sym().TypeKind == symbols.TypeInterface }

func (f typeFacets) IsAbstract() bool {
	sym := f.def.sym()
	return sym.Has(symbols.FlagAbstract) || sym.TypeKind == symbols.TypeInterface
}

func (f typeFacets) IsSealed() bool {
	sym := f.def.sym()
	switch sym.TypeKind {
	case symbols.TypeStruct, symbols.TypeEnum, symbols.TypeDelegate:
		return true
	}
	return sym.Has(symbols.FlagSealed)
}

func (f typeFacets) BaseClass() metadata.TypeReference {
	sym := f.def.sym()
	if sym.TypeKind == symbols.TypeInterface || !sym.Base.IsValid() {
		return nil
	}
	return f.def.t.TranslateType(sym.Base, false)
}

func (f typeFacets) Interfaces() []metadata.TypeReference {
	ifaces := f.def.sym().Interfaces
	out := make([]metadata.TypeReference, 0, len(ifaces))
	for _, iface := range ifaces {
		out = append(out, f.def.t.TranslateType(iface, false))
	}
	return out
}

func (f typeFacets) GenericParameters() []metadata.GenericParameterDefinition {
	return genericParameterDefinitions(f.def.t, f.def.sym().TypeParams)
}

func (f typeFacets) Fields() []metadata.FieldDefinition {
	var out []metadata.FieldDefinition
	for _, m := range f.members(symbols.KindField) {
		out = append(out, metadata.Expect[metadata.FieldDefinition](f.def.t.TranslateField(m, true), metadata.KindField))
	}
	return out
}

func (f typeFacets) Methods() []metadata.MethodDefinition {
	var out []metadata.MethodDefinition
	for _, m := range f.members(symbols.KindMethod) {
		out = append(out, f.def.t.MethodDefinition(m))
	}
	return out
}

func (f typeFacets) NestedTypes() []metadata.NestedTypeDefinition {
	var out []metadata.NestedTypeDefinition
	for _, m := range f.members(symbols.KindNamedType) {
		out = append(out, metadata.Expect[metadata.NestedTypeDefinition](f.def.t.TranslateType(m, true), metadata.KindNestedType))
	}
	return out
}

func (f typeFacets) members(kind symbols.Kind) []symbols.SymbolID {
	var out []symbols.SymbolID
	for _, m := range f.def.sym().Members {
		if f.def.t.syms.MustGet(m).Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type namespaceTypeDef struct {
	namespaceType
	typeFacets
}

func (*namespaceTypeDef) Kind() metadata.Kind                 { return metadata.KindNamespaceType }
func (d *namespaceTypeDef) Dispatch(v metadata.Visitor)       { v.VisitNamespaceTypeDefinition(d) }
func (d *namespaceTypeDef) AsDefinition() metadata.Definition { return d }
func (d *namespaceTypeDef) IsPublic() bool                    { return d.sym().Access == symbols.AccessPublic }

type nestedTypeDef struct {
	nestedType
	typeFacets
}

func (*nestedTypeDef) Kind() metadata.Kind                 { return metadata.KindNestedType }
func (d *nestedTypeDef) Dispatch(v metadata.Visitor)       { v.VisitNestedTypeDefinition(d) }
func (d *nestedTypeDef) AsDefinition() metadata.Definition { return d }

// specializedNestedTypeRef is a non-generic nested type seen through a
// generic container, either the open container or an instantiation of it.
type specializedNestedTypeRef struct{ nestedType }

func (*specializedNestedTypeRef) Kind() metadata.Kind { return metadata.KindSpecializedNestedType }
func (r *specializedNestedTypeRef) Dispatch(v metadata.Visitor) {
	v.VisitSpecializedNestedTypeReference(r)
}

func (r *specializedNestedTypeRef) ContainingType() metadata.TypeReference {
	return r.t.TranslateType(r.sym().Container, false)
}

func (r *specializedNestedTypeRef) UnspecializedVersion() metadata.NestedTypeReference {
	u := r.t.unspecializedType(r.t.syms.OriginalDefinition(r.id))
	return metadata.Expect[metadata.NestedTypeReference](u, metadata.KindNestedType)
}

type genericTypeInstanceRef struct{ adapter }

func (*genericTypeInstanceRef) Kind() metadata.Kind { return metadata.KindGenericTypeInstance }
func (r *genericTypeInstanceRef) Dispatch(v metadata.Visitor) {
	v.VisitGenericTypeInstanceReference(r)
}

func (r *genericTypeInstanceRef) IsValueType() bool { return namedType{r.adapter}.IsValueType() }

func (*genericTypeInstanceRef) TypeCode() metadata.PrimitiveTypeCode {
	return metadata.PrimitiveNotPrimitive
}

func (r *genericTypeInstanceRef) GenericType() metadata.NamedTypeReference {
	return r.t.unspecializedType(r.t.syms.OriginalDefinition(r.id))
}

// GenericArguments flattens the arguments of the whole containing chain. A
// level without type arguments contributes its own type parameters.
func (r *genericTypeInstanceRef) GenericArguments() []metadata.TypeReference {
	var chain []symbols.SymbolID
	for cur := r.id; cur.IsValid(); cur = r.t.syms.ContainingType(cur) {
		chain = append(chain, cur)
	}
	var out []metadata.TypeReference
	for i := len(chain) - 1; i >= 0; i-- {
		sym := r.t.syms.MustGet(chain[i])
		args := sym.TypeArgs
		if len(args) == 0 {
			args = r.t.syms.MustGet(r.t.syms.OriginalDefinition(chain[i])).TypeParams
		}
		for _, arg := range args {
			out = append(out, r.t.TranslateType(arg, false))
		}
	}
	return out
}

type genericParam struct{ adapter }

func (g genericParam) Name() string { return g.sym().Name }

func (g genericParam) IsValueType() bool { return g.sym().Has(symbols.FlagValueTypeConstraint) }

func (genericParam) TypeCode() metadata.PrimitiveTypeCode { return metadata.PrimitiveNotPrimitive }

type typeParamRef struct{ genericParam }

func (*typeParamRef) Kind() metadata.Kind { return metadata.KindGenericTypeParameter }
func (r *typeParamRef) Dispatch(v metadata.Visitor) {
	v.VisitGenericTypeParameterReference(r)
}

// Index counts the parameters inherited from containing types first.
func (r *typeParamRef) Index() int {
	sym := r.sym()
	inherited := 0
	for c := r.t.syms.ContainingType(sym.Container); c.IsValid(); c = r.t.syms.ContainingType(c) {
		inherited += r.t.syms.Arity(c)
	}
	return inherited + sym.Ordinal
}

func (r *typeParamRef) DefiningType() metadata.TypeReference {
	return r.t.unspecializedType(r.sym().Container)
}

type methodParamRef struct{ genericParam }

func (*methodParamRef) Kind() metadata.Kind { return metadata.KindGenericMethodParameter }
func (r *methodParamRef) Dispatch(v metadata.Visitor) {
	v.VisitGenericMethodParameterReference(r)
}

func (r *methodParamRef) Index() int { return r.sym().Ordinal }

func (r *methodParamRef) DefiningMethod() metadata.MethodReference {
	return r.t.unspecializedMethod(r.sym().Container)
}

type genericParamFacets struct{ def adapter }

func (f genericParamFacets) DeclaringModule() metadata.ModuleDefinition { return f.def.t }
func (f genericParamFacets) Variance() metadata.Variance                { return varianceOf(f.def.sym()) }

func (f genericParamFacets) Constraints() []metadata.TypeReference {
	cons := f.def.sym().Constraints
	out := make([]metadata.TypeReference, 0, len(cons))
	for _, c := range cons {
		out = append(out, f.def.t.TranslateType(c, false))
	}
	return out
}

func (f genericParamFacets) MustBeReferenceType() bool {
	return f.def.sym().Has(symbols.FlagReferenceTypeConstraint)
}

func (f genericParamFacets) MustBeValueType() bool {
	return f.def.sym().Has(symbols.FlagValueTypeConstraint)
}

func (f genericParamFacets) MustHaveDefaultConstructor() bool {
	return f.def.sym().Has(symbols.FlagConstructorConstraint)
}

type typeParamDef struct {
	typeParamRef
	genericParamFacets
}

func (d *typeParamDef) Dispatch(v metadata.Visitor)       { v.VisitGenericParameterDefinition(d) }
func (d *typeParamDef) AsDefinition() metadata.Definition { return d }

type methodParamDef struct {
	methodParamRef
	genericParamFacets
}

func (d *methodParamDef) Dispatch(v metadata.Visitor)       { v.VisitGenericParameterDefinition(d) }
func (d *methodParamDef) AsDefinition() metadata.Definition { return d }

func genericParameterDefinitions(t *Translator, params []symbols.SymbolID) []metadata.GenericParameterDefinition {
	out := make([]metadata.GenericParameterDefinition, 0, len(params))
	for _, p := range params {
		def, ok := t.TranslateGenericParameter(p, true).(metadata.GenericParameterDefinition)
		if !ok {
			metadata.Faultf("GenericParameters", "type parameter %d is not a definition", p)
		}
		out = append(out, def)
	}
	return out
}

func (t *Translator) newShape(kind symbols.Kind, id symbols.SymbolID) metadata.Reference {
	a := adapter{t: t, id: id}
	switch kind {
	case symbols.KindArrayType:
		return &arrayTypeRef{a}
	case symbols.KindPointerType:
		return &pointerTypeRef{a}
	case symbols.KindByRefType:
		return &managedPointerTypeRef{a}
	default:
		return &functionPointerTypeRef{a}
	}
}

type arrayTypeRef struct{ adapter }

func (*arrayTypeRef) Kind() metadata.Kind                  { return metadata.KindArrayType }
func (r *arrayTypeRef) Dispatch(v metadata.Visitor)        { v.VisitArrayTypeReference(r) }
func (*arrayTypeRef) IsValueType() bool                    { return false }
func (*arrayTypeRef) TypeCode() metadata.PrimitiveTypeCode { return metadata.PrimitiveNotPrimitive }
func (r *arrayTypeRef) ElementType() metadata.TypeReference {
	return r.t.TranslateType(r.sym().Type, false)
}
func (r *arrayTypeRef) IsSZArray() bool { return r.sym().Rank == 0 }

// Rank is 1 for vectors.
func (r *arrayTypeRef) Rank() int {
	if rank := r.sym().Rank; rank > 0 {
		return rank
	}
	return 1
}

type pointerTypeRef struct{ adapter }

func (*pointerTypeRef) Kind() metadata.Kind                  { return metadata.KindPointerType }
func (r *pointerTypeRef) Dispatch(v metadata.Visitor)        { v.VisitPointerTypeReference(r) }
func (*pointerTypeRef) IsValueType() bool                    { return false }
func (*pointerTypeRef) TypeCode() metadata.PrimitiveTypeCode { return metadata.PrimitivePointer }
func (r *pointerTypeRef) TargetType() metadata.TypeReference {
	return r.t.TranslateType(r.sym().Type, false)
}

type managedPointerTypeRef struct{ adapter }

func (*managedPointerTypeRef) Kind() metadata.Kind { return metadata.KindManagedPointerType }
func (r *managedPointerTypeRef) Dispatch(v metadata.Visitor) {
	v.VisitManagedPointerTypeReference(r)
}
func (*managedPointerTypeRef) IsValueType() bool { return false }
func (*managedPointerTypeRef) TypeCode() metadata.PrimitiveTypeCode {
	return metadata.PrimitiveReference
}
func (r *managedPointerTypeRef) TargetType() metadata.TypeReference {
	return r.t.TranslateType(r.sym().Type, false)
}

type functionPointerTypeRef struct{ adapter }

func (*functionPointerTypeRef) Kind() metadata.Kind { return metadata.KindFunctionPointerType }
func (r *functionPointerTypeRef) Dispatch(v metadata.Visitor) {
	v.VisitFunctionPointerTypeReference(r)
}
func (*functionPointerTypeRef) IsValueType() bool { return false }
func (*functionPointerTypeRef) TypeCode() metadata.PrimitiveTypeCode {
	return metadata.PrimitiveNotPrimitive
}

func (r *functionPointerTypeRef) ReturnType() metadata.TypeReference {
	sym := r.sym()
	return r.t.typeWithModifiers(sym.Type, sym.Modifiers)
}

func (r *functionPointerTypeRef) Parameters() []metadata.ParameterTypeInformation {
	return parameters(r.t, r.sym().Params)
}

// modifiedTypeRef is built fresh for every request and is not tied to a
// symbol of its own.
type modifiedTypeRef struct {
	unmodified metadata.TypeReference
	modifiers  []metadata.CustomModifier
}

func (*modifiedTypeRef) Kind() metadata.Kind                      { return metadata.KindModifiedType }
func (r *modifiedTypeRef) Dispatch(v metadata.Visitor)            { v.VisitModifiedTypeReference(r) }
func (*modifiedTypeRef) AsDefinition() metadata.Definition        { return nil }
func (r *modifiedTypeRef) IsValueType() bool                      { return r.unmodified.IsValueType() }
func (r *modifiedTypeRef) TypeCode() metadata.PrimitiveTypeCode   { return r.unmodified.TypeCode() }
func (r *modifiedTypeRef) UnmodifiedType() metadata.TypeReference { return r.unmodified }

func (r *modifiedTypeRef) CustomModifiers() []metadata.CustomModifier {
	return append([]metadata.CustomModifier(nil), r.modifiers...)
}

var (
	_ metadata.NamespaceTypeDefinition         = (*namespaceTypeDef)(nil)
	_ metadata.NestedTypeDefinition            = (*nestedTypeDef)(nil)
	_ metadata.NamespaceTypeReference          = (*namespaceTypeRef)(nil)
	_ metadata.NestedTypeReference             = (*nestedTypeRef)(nil)
	_ metadata.SpecializedNestedTypeReference  = (*specializedNestedTypeRef)(nil)
	_ metadata.GenericTypeInstanceReference    = (*genericTypeInstanceRef)(nil)
	_ metadata.GenericTypeParameterReference   = (*typeParamRef)(nil)
	_ metadata.GenericMethodParameterReference = (*methodParamRef)(nil)
	_ metadata.GenericParameterDefinition      = (*typeParamDef)(nil)
	_ metadata.GenericParameterDefinition      = (*methodParamDef)(nil)
	_ metadata.ArrayTypeReference              = (*arrayTypeRef)(nil)
	_ metadata.PointerTypeReference            = (*pointerTypeRef)(nil)
	_ metadata.ManagedPointerTypeReference     = (*managedPointerTypeRef)(nil)
	_ metadata.FunctionPointerTypeReference    = (*functionPointerTypeRef)(nil)
	_ metadata.ModifiedTypeReference           = (*modifiedTypeRef)(nil)
)
