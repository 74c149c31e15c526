package symbols

import (
	"errors"
	"fmt"
)

// Validate walks the arena checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error
	for id, sym := range t.Symbols.All() {
		errs = t.validateSymbol(id, sym, errs)
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func (t *Table) validateSymbol(id SymbolID, sym *Symbol, errs []error) []error {
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("symbol %d (%s %q): %s", id, sym.Kind, sym.Name, fmt.Sprintf(format, args...)))
	}
	if sym.Kind == KindInvalid {
		bad("invalid kind")
		return errs
	}
	for _, ref := range []SymbolID{sym.Container, sym.Module, sym.Original, sym.ConstructedFrom, sym.Type, sym.Base} {
		if ref.IsValid() && t.Get(ref) == nil {
			bad("dangling reference %d", ref)
			return errs
		}
	}

	container := t.Get(sym.Container)
	switch sym.Kind {
	case KindAssembly:
		if container != nil {
			bad("assemblies have no container")
		}
	case KindModule:
		if container == nil || container.Kind != KindAssembly {
			bad("module must belong to an assembly")
		}
	case KindNamedType:
		if container == nil || (container.Kind != KindModule && container.Kind != KindNamedType) {
			bad("type must belong to a module or a type")
		}
	case KindField, KindMethod:
		if container == nil || container.Kind != KindNamedType {
			bad("member must belong to a type")
		}
	case KindTypeParameter:
		if container == nil || (container.Kind != KindNamedType && container.Kind != KindMethod) {
			bad("type parameter must belong to a type or a method")
		} else if sym.Original == NoSymbolID && !containsAt(container.TypeParams, sym.Ordinal, id) {
			bad("ordinal %d does not match owner", sym.Ordinal)
		}
	case KindParameter:
		if container == nil || (container.Kind != KindMethod && container.Kind != KindFunctionPointerType) {
			bad("parameter must belong to a method or a function pointer")
		}
	case KindArrayType, KindPointerType, KindByRefType:
		if !sym.Type.IsValid() {
			bad("shape without element type")
		}
		if sym.Kind == KindArrayType && sym.Rank < 0 {
			bad("negative rank %d", sym.Rank)
		}
	}

	if sym.Original.IsValid() {
		orig := t.Get(sym.Original)
		if orig.Original.IsValid() {
			bad("original %d is not a definition", sym.Original)
		}
		if orig.Kind != sym.Kind {
			bad("original is a %s", orig.Kind)
		}
	}
	if len(sym.TypeArgs) > 0 {
		if want := t.Arity(id); want != len(sym.TypeArgs) {
			bad("has %d type arguments, original declares %d", len(sym.TypeArgs), want)
		}
	}
	return errs
}

func containsAt(ids []SymbolID, i int, id SymbolID) bool {
	return i >= 0 && i < len(ids) && ids[i] == id
}
