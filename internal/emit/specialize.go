package emit

import (
	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// needsSpecialization reports whether a type or member must be represented
// by one of the specialization variants instead of its own wrapper: it is a
// constructed symbol, it is generic itself, or some containing type is.
func (t *Translator) needsSpecialization(id symbols.SymbolID) bool {
	return !t.syms.IsDefinition(id) || t.syms.Arity(id) > 0 || t.syms.IsNestedInGeneric(id)
}

// TranslateType returns the wrapper for a type symbol. With needDeclaration
// the result is the TypeDefinition of a type declared in this module.
func (t *Translator) TranslateType(id symbols.SymbolID, needDeclaration bool) metadata.TypeReference {
	const op = "TranslateType"
	sym := t.symbol(op, id)
	switch sym.Kind {
	case symbols.KindNamedType:
		if needDeclaration {
			t.requireDeclaration(op, id)
			return t.unspecializedType(id)
		}
		if t.needsSpecialization(id) {
			return t.specializedType(id)
		}
		return t.unspecializedType(id)
	case symbols.KindTypeParameter:
		return t.TranslateGenericParameter(id, needDeclaration)
	case symbols.KindArrayType, symbols.KindPointerType, symbols.KindByRefType, symbols.KindFunctionPointerType:
		t.noDeclaration(op, id, needDeclaration)
		return t.intern(t.refs, id, func() metadata.Reference { return t.newShape(sym.Kind, id) }).(metadata.TypeReference)
	}
	metadata.Faultf(op, "%s %q is not a type", sym.Kind, sym.Name)
	return nil
}

// TypeDefinition is TranslateType with needDeclaration narrowed to the
// definition interface.
func (t *Translator) TypeDefinition(id symbols.SymbolID) metadata.TypeDefinition {
	def, ok := t.TranslateType(id, true).(metadata.TypeDefinition)
	if !ok {
		metadata.Faultf("TypeDefinition", "symbol %d did not translate to a type definition", id)
	}
	return def
}

// TranslateGenericParameter returns the wrapper of a type or method type
// parameter. Parameters of generic definitions declared here are always
// definitions, whatever needDeclaration says.
func (t *Translator) TranslateGenericParameter(id symbols.SymbolID, needDeclaration bool) metadata.GenericParameterReference {
	const op = "TranslateGenericParameter"
	sym := t.symbol(op, id)
	if sym.Kind != symbols.KindTypeParameter {
		metadata.Faultf(op, "%s %q is not a type parameter", sym.Kind, sym.Name)
	}
	if needDeclaration {
		t.requireDeclaration(op, id)
	}
	owner := t.symbol(op, sym.Container)
	if owner.Kind != symbols.KindNamedType && owner.Kind != symbols.KindMethod {
		metadata.Faultf(op, "type parameter %q is owned by %s", sym.Name, owner.Kind)
	}
	declared := t.declaredHere(id)
	cache := t.refs
	if declared {
		cache = t.defs
	}
	r := t.intern(cache, id, func() metadata.Reference {
		a := adapter{t: t, id: id}
		switch {
		case owner.Kind == symbols.KindNamedType && declared:
			return &typeParamDef{typeParamRef: typeParamRef{genericParam{a}}, genericParamFacets: genericParamFacets{a}}
		case owner.Kind == symbols.KindNamedType:
			return &typeParamRef{genericParam{a}}
		case declared:
			return &methodParamDef{methodParamRef: methodParamRef{genericParam{a}}, genericParamFacets: genericParamFacets{a}}
		default:
			return &methodParamRef{genericParam{a}}
		}
	})
	return r.(metadata.GenericParameterReference)
}

// TranslateField returns the wrapper of a field symbol.
func (t *Translator) TranslateField(id symbols.SymbolID, needDeclaration bool) metadata.FieldReference {
	const op = "TranslateField"
	sym := t.symbol(op, id)
	if sym.Kind != symbols.KindField {
		metadata.Faultf(op, "%s %q is not a field", sym.Kind, sym.Name)
	}
	if needDeclaration {
		t.requireDeclaration(op, id)
		return t.unspecializedField(id)
	}
	if t.needsSpecialization(id) {
		r := t.intern(t.instances, id, func() metadata.Reference {
			return &specializedFieldRef{fieldRef{member{adapter{t: t, id: id}}}}
		})
		return r.(metadata.FieldReference)
	}
	return t.unspecializedField(id)
}

// TranslateMethod returns the wrapper of a method symbol.
func (t *Translator) TranslateMethod(id symbols.SymbolID, needDeclaration bool) metadata.MethodReference {
	const op = "TranslateMethod"
	sym := t.symbol(op, id)
	if sym.Kind != symbols.KindMethod {
		metadata.Faultf(op, "%s %q is not a method", sym.Kind, sym.Name)
	}
	if needDeclaration {
		t.requireDeclaration(op, id)
		return t.unspecializedMethod(id)
	}
	if t.needsSpecialization(id) {
		return t.specializedMethod(id)
	}
	return t.unspecializedMethod(id)
}

// MethodDefinition is TranslateMethod with needDeclaration narrowed to the
// definition interface.
func (t *Translator) MethodDefinition(id symbols.SymbolID) metadata.MethodDefinition {
	def, ok := t.TranslateMethod(id, true).(metadata.MethodDefinition)
	if !ok {
		metadata.Faultf("MethodDefinition", "symbol %d did not translate to a method definition", id)
	}
	return def
}

// TranslateParameter returns the wrapper of a method or function pointer
// parameter.
func (t *Translator) TranslateParameter(id symbols.SymbolID, needDeclaration bool) metadata.ParameterTypeInformation {
	const op = "TranslateParameter"
	sym := t.symbol(op, id)
	if sym.Kind != symbols.KindParameter {
		metadata.Faultf(op, "%s %q is not a parameter", sym.Kind, sym.Name)
	}
	if needDeclaration {
		t.requireDeclaration(op, id)
	}
	if t.syms.IsDefinition(id) && t.declaredHere(id) {
		r := t.intern(t.defs, id, func() metadata.Reference {
			a := adapter{t: t, id: id}
			return &paramDef{paramRef: paramRef{a}, paramFacets: paramFacets{a}}
		})
		return r.(metadata.ParameterTypeInformation)
	}
	r := t.intern(t.refs, id, func() metadata.Reference { return &paramRef{adapter{t: t, id: id}} })
	return r.(metadata.ParameterTypeInformation)
}

// unspecializedType is the identity mapping for a named type: its definition
// when declared here, a plain reference otherwise.
func (t *Translator) unspecializedType(id symbols.SymbolID) metadata.NamedTypeReference {
	declared := t.declaredHere(id)
	cache := t.refs
	if declared {
		cache = t.defs
	}
	r := t.intern(cache, id, func() metadata.Reference {
		a := adapter{t: t, id: id}
		nested := t.syms.ContainingType(id).IsValid()
		switch {
		case nested && declared:
			return &nestedTypeDef{nestedType: nestedType{namedType{a}}, typeFacets: typeFacets{a}}
		case declared:
			return &namespaceTypeDef{namespaceType: namespaceType{namedType{a}}, typeFacets: typeFacets{a}}
		case nested:
			return &nestedTypeRef{nestedType{namedType{a}}}
		default:
			return &namespaceTypeRef{namespaceType{namedType{a}}}
		}
	})
	return r.(metadata.NamedTypeReference)
}

// specializedType selects between the two type variants: a generic type
// instance when the type has its own type parameters, a specialized nested
// type otherwise.
func (t *Translator) specializedType(id symbols.SymbolID) metadata.TypeReference {
	r := t.intern(t.instances, id, func() metadata.Reference {
		a := adapter{t: t, id: id}
		if t.syms.Arity(id) > 0 {
			return &genericTypeInstanceRef{a}
		}
		return &specializedNestedTypeRef{nestedType{namedType{a}}}
	})
	return r.(metadata.TypeReference)
}

func (t *Translator) unspecializedField(id symbols.SymbolID) metadata.FieldReference {
	if t.declaredHere(id) {
		r := t.intern(t.defs, id, func() metadata.Reference {
			a := adapter{t: t, id: id}
			return &fieldDef{fieldRef: fieldRef{member{a}}, fieldFacets: fieldFacets{a}}
		})
		return r.(metadata.FieldReference)
	}
	r := t.intern(t.refs, id, func() metadata.Reference { return &fieldRef{member{adapter{t: t, id: id}}} })
	return r.(metadata.FieldReference)
}

func (t *Translator) unspecializedMethod(id symbols.SymbolID) metadata.MethodReference {
	if t.declaredHere(id) {
		r := t.intern(t.defs, id, func() metadata.Reference {
			a := adapter{t: t, id: id}
			return &methodDef{methodRef: methodRef{member{a}}, methodFacets: methodFacets{a}}
		})
		return r.(metadata.MethodReference)
	}
	r := t.intern(t.refs, id, func() metadata.Reference { return &methodRef{member{adapter{t: t, id: id}}} })
	return r.(metadata.MethodReference)
}

// specializedMethod selects between a generic method instance, for methods
// with their own type parameters, and a specialized method for members of a
// generic container.
func (t *Translator) specializedMethod(id symbols.SymbolID) metadata.MethodReference {
	r := t.intern(t.instances, id, func() metadata.Reference {
		a := adapter{t: t, id: id}
		if t.syms.Arity(id) > 0 {
			return &genericMethodInstanceRef{methodRef{member{a}}}
		}
		return &specializedMethodRef{methodRef{member{a}}}
	})
	return r.(metadata.MethodReference)
}

// specializedGenericMethod is the uninstantiated generic method seen through
// its generic container. It backs GenericMethod of an instance whose method
// is declared inside a generic type and lives in its own cache, because the
// same symbol already maps to a generic method instance in the instance cache.
func (t *Translator) specializedGenericMethod(id symbols.SymbolID) metadata.MethodReference {
	r := t.intern(t.open, id, func() metadata.Reference {
		return &specializedMethodRef{methodRef{member{adapter{t: t, id: id}}}}
	})
	return r.(metadata.MethodReference)
}

// typeWithModifiers translates typ and wraps it in a fresh modified type when
// mods is not empty. Modified types are values and are never cached.
func (t *Translator) typeWithModifiers(typ symbols.SymbolID, mods []symbols.CustomModifier) metadata.TypeReference {
	if !typ.IsValid() {
		return nil
	}
	ref := t.TranslateType(typ, false)
	if len(mods) == 0 {
		return ref
	}
	out := make([]metadata.CustomModifier, len(mods))
	for i, m := range mods {
		out[i] = metadata.CustomModifier{
			IsOptional: m.Optional,
			Modifier:   t.TranslateType(m.Modifier, false),
		}
	}
	return &modifiedTypeRef{unmodified: ref, modifiers: out}
}
