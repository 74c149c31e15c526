package emit

import (
	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// TranslateAssembly returns the cached reference of an assembly.
func (t *Translator) TranslateAssembly(id symbols.SymbolID) metadata.AssemblyReference {
	const op = "TranslateAssembly"
	sym := t.symbol(op, id)
	if sym.Kind != symbols.KindAssembly {
		metadata.Faultf(op, "%s %q is not an assembly", sym.Kind, sym.Name)
	}
	r := t.intern(t.units, id, func() metadata.Reference { return &assemblyRef{adapter{t: t, id: id}} })
	return r.(metadata.AssemblyReference)
}

// TranslateModule maps a module to the unit the writer should reference.
// The module being built is the translator itself. The primary module of
// another assembly is referenced through that assembly, never through a
// module reference of its own.
func (t *Translator) TranslateModule(id symbols.SymbolID) metadata.UnitReference {
	const op = "TranslateModule"
	if id == t.module {
		return t
	}
	sym := t.symbol(op, id)
	if sym.Kind != symbols.KindModule {
		metadata.Faultf(op, "%s %q is not a module", sym.Kind, sym.Name)
	}
	if sym.Has(symbols.FlagPrimaryModule) {
		if !sym.Container.IsValid() {
			metadata.Faultf(op, "primary module %q has no containing assembly", sym.Name)
		}
		return t.TranslateAssembly(sym.Container)
	}
	r := t.intern(t.units, id, func() metadata.Reference { return &moduleRef{adapter{t: t, id: id}} })
	return r.(metadata.UnitReference)
}

type assemblyRef struct{ adapter }

func (*assemblyRef) Kind() metadata.Kind           { return metadata.KindAssembly }
func (r *assemblyRef) Dispatch(v metadata.Visitor) { v.VisitAssemblyReference(r) }
func (r *assemblyRef) Name() string                { return r.sym().Name }
func (r *assemblyRef) Version() string             { return r.sym().Version }

type moduleRef struct{ adapter }

func (*moduleRef) Kind() metadata.Kind           { return metadata.KindModule }
func (r *moduleRef) Dispatch(v metadata.Visitor) { v.VisitModuleReference(r) }
func (r *moduleRef) Name() string                { return r.sym().Name }

func (r *moduleRef) ContainingAssembly() metadata.AssemblyReference {
	asm := r.sym().Container
	if !asm.IsValid() {
		return nil
	}
	return r.t.TranslateAssembly(asm)
}

var (
	_ metadata.AssemblyReference = (*assemblyRef)(nil)
	_ metadata.ModuleReference   = (*moduleRef)(nil)
)
