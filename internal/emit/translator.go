// Package emit translates the front end's symbol graph into the reference and
// definition graph consumed by the metadata writer.
//
// A Translator is one emission session for one module. It owns every cache,
// so two translators never share wrappers. Translating the same symbol with
// the same needDeclaration flag always yields the identical wrapper, because
// the writer deduplicates structures by identity.
package emit

import (
	"sync"
	"sync/atomic"

	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
	"ilemit/internal/tokens"
	"ilemit/internal/trace"
)

// Options configure a Translator.
type Options struct {
	// Tracer receives a node-scope point for every wrapper created.
	Tracer trace.Tracer
}

// Stats counts the wrappers a Translator created so far.
type Stats struct {
	Definitions int
	References  int
	Instances   int
	Units       int
	Bodies      int
}

// Translator maps symbols to references and definitions for the module being
// built. Translation, token assignment and body storage are safe for
// concurrent use; the symbol table must not be mutated meanwhile.
type Translator struct {
	syms     *symbols.Table
	module   symbols.SymbolID
	assembly symbols.SymbolID
	tracer   trace.Tracer

	// mu guards the wrapper caches. Builders run under mu and only allocate,
	// so two goroutines can never publish two wrappers for one symbol.
	mu        sync.Mutex
	defs      map[symbols.SymbolID]metadata.Reference
	refs      map[symbols.SymbolID]metadata.Reference
	instances map[symbols.SymbolID]metadata.Reference
	open      map[symbols.SymbolID]metadata.Reference
	units     map[symbols.SymbolID]metadata.Reference

	bodies    sync.Map // symbols.SymbolID -> *metadata.MethodBody
	bodyCount atomic.Int64

	refTokens *tokens.Table[metadata.Reference]
	strTokens *tokens.Table[string]
}

var _ metadata.ModuleDefinition = (*Translator)(nil)

// NewTranslator starts an emission session for module, which must be a
// module symbol of syms.
func NewTranslator(syms *symbols.Table, module symbols.SymbolID, opts Options) *Translator {
	if syms == nil {
		metadata.Faultf("NewTranslator", "nil symbol table")
	}
	mod := syms.Get(module)
	if mod == nil || mod.Kind != symbols.KindModule {
		metadata.Faultf("NewTranslator", "symbol %d is not a module", module)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Translator{
		syms:      syms,
		module:    module,
		assembly:  mod.Container,
		tracer:    tracer,
		defs:      make(map[symbols.SymbolID]metadata.Reference),
		refs:      make(map[symbols.SymbolID]metadata.Reference),
		instances: make(map[symbols.SymbolID]metadata.Reference),
		open:      make(map[symbols.SymbolID]metadata.Reference),
		units:     make(map[symbols.SymbolID]metadata.Reference),
		refTokens: tokens.New[metadata.Reference](256),
		strTokens: tokens.New[string](64),
	}
}

// Symbols returns the table the translator reads from.
func (t *Translator) Symbols() *symbols.Table { return t.syms }

// ModuleSymbol returns the symbol of the module being built.
func (t *Translator) ModuleSymbol() symbols.SymbolID { return t.module }

// Translate dispatches on the symbol kind to the matching Translate* family.
func (t *Translator) Translate(id symbols.SymbolID, needDeclaration bool) metadata.Reference {
	sym := t.symbol("Translate", id)
	switch sym.Kind {
	case symbols.KindAssembly:
		t.noDeclaration("Translate", id, needDeclaration)
		return t.TranslateAssembly(id)
	case symbols.KindModule:
		// The module being built is its own definition.
		if id != t.module {
			t.noDeclaration("Translate", id, needDeclaration)
		}
		return t.TranslateModule(id)
	case symbols.KindField:
		return t.TranslateField(id, needDeclaration)
	case symbols.KindMethod:
		return t.TranslateMethod(id, needDeclaration)
	case symbols.KindParameter:
		return t.TranslateParameter(id, needDeclaration)
	default:
		if sym.Kind.IsType() {
			return t.TranslateType(id, needDeclaration)
		}
	}
	metadata.Faultf("Translate", "unexpected symbol kind %s", sym.Kind)
	return nil
}

// Stats reports cache sizes.
func (t *Translator) Stats() Stats {
	t.mu.Lock()
	s := Stats{
		Definitions: len(t.defs),
		References:  len(t.refs),
		Instances:   len(t.instances) + len(t.open),
		Units:       len(t.units),
	}
	t.mu.Unlock()
	s.Bodies = int(t.bodyCount.Load())
	return s
}

// intern returns the cached wrapper for id or publishes the one build makes.
func (t *Translator) intern(cache map[symbols.SymbolID]metadata.Reference, id symbols.SymbolID, build func() metadata.Reference) metadata.Reference {
	t.mu.Lock()
	if r, ok := cache[id]; ok {
		t.mu.Unlock()
		return r
	}
	r := t.build(build)
	cache[id] = r
	var detail string
	if t.tracer.Enabled() {
		detail = r.Kind().String() + " " + t.syms.MustGet(id).Name
	}
	t.mu.Unlock()

	if detail != "" {
		trace.Point(t.tracer, trace.ScopeNode, "wrap", detail)
	}
	return r
}

// build runs fn under the held cache lock and releases the lock if fn
// panics.
func (t *Translator) build(fn func() metadata.Reference) metadata.Reference {
	done := false
	defer func() {
		if !done {
			t.mu.Unlock()
		}
	}()
	r := fn()
	done = true
	return r
}

func (t *Translator) symbol(op string, id symbols.SymbolID) *symbols.Symbol {
	sym := t.syms.Get(id)
	if sym == nil {
		metadata.Faultf(op, "invalid symbol %d", id)
	}
	return sym
}

func (t *Translator) noDeclaration(op string, id symbols.SymbolID, needDeclaration bool) {
	if needDeclaration {
		metadata.Faultf(op, "%s %q has no declaration form", t.syms.MustGet(id).Kind, t.syms.MustGet(id).Name)
	}
}

// declaredHere reports whether the original definition of id belongs to the
// module being built.
func (t *Translator) declaredHere(id symbols.SymbolID) bool {
	mod := t.syms.DeclaringModule(t.syms.OriginalDefinition(id))
	return mod.IsValid() && mod == t.module
}

// requireDeclaration faults unless id may become a Definition.
func (t *Translator) requireDeclaration(op string, id symbols.SymbolID) {
	sym := t.symbol(op, id)
	if !t.syms.IsDefinition(id) {
		metadata.Faultf(op, "%s %q is constructed and has no declaration", sym.Kind, sym.Name)
	}
	if !t.declaredHere(id) {
		metadata.Faultf(op, "%s %q is not declared in the module being built", sym.Kind, sym.Name)
	}
}

// Module definition of the module being built: the module translates to
// the translator itself.

func (t *Translator) Kind() metadata.Kind                        { return metadata.KindModule }
func (t *Translator) Dispatch(v metadata.Visitor)                { v.VisitModuleDefinition(t) }
func (t *Translator) AsDefinition() metadata.Definition          { return t }
func (t *Translator) DeclaringModule() metadata.ModuleDefinition { return t }
func (t *Translator) Name() string                               { return t.syms.MustGet(t.module).Name }

// ContainingAssembly returns the assembly the module being built belongs to.
func (t *Translator) ContainingAssembly() metadata.AssemblyReference {
	if !t.assembly.IsValid() {
		return nil
	}
	return t.TranslateAssembly(t.assembly)
}

// TopLevelTypes lists namespace type definitions in declaration order.
func (t *Translator) TopLevelTypes() []metadata.NamespaceTypeDefinition {
	var out []metadata.NamespaceTypeDefinition
	for id, sym := range t.syms.Symbols.All() {
		if sym.Kind != symbols.KindNamedType || sym.Container != t.module || !t.syms.IsDefinition(id) {
			continue
		}
		def := t.TranslateType(id, true)
		out = append(out, metadata.Expect[metadata.NamespaceTypeDefinition](def, metadata.KindNamespaceType))
	}
	return out
}
