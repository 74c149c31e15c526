package symbols

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Symbols uint }

type shapeKey struct {
	Kind Kind
	Elem SymbolID
	Rank int
}

type instanceKey struct {
	Generic SymbolID
	ArgsKey string
}

type memberKey struct {
	Container SymbolID
	Member    SymbolID
}

// Table aggregates the symbol arena and the deduplication indexes the front
// end keeps for constructed and shape symbols.
type Table struct {
	Symbols *Symbols

	instances map[instanceKey]SymbolID
	members   map[memberKey]SymbolID
	shapes    map[shapeKey]SymbolID
	fnptrs    map[string]SymbolID
}

// NewTable builds a fresh table with optional capacity hints.
func NewTable(h Hints) *Table {
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	return &Table{
		Symbols:   NewSymbols(symCap),
		instances: make(map[instanceKey]SymbolID),
		members:   make(map[memberKey]SymbolID),
		shapes:    make(map[shapeKey]SymbolID),
		fnptrs:    make(map[string]SymbolID),
	}
}

// Get returns the symbol or nil.
func (t *Table) Get(id SymbolID) *Symbol { return t.Symbols.Get(id) }

// MustGet panics when id is invalid.
func (t *Table) MustGet(id SymbolID) *Symbol {
	sym := t.Symbols.Get(id)
	if sym == nil {
		panic(fmt.Sprintf("symbols: invalid SymbolID %d", id))
	}
	return sym
}

// Declare allocates a declared symbol and links it into its container:
// members and nested types are appended to the containing type, type
// parameters to their owner and parameters to their method. Module is
// inherited from the container when unset.
func (t *Table) Declare(sym Symbol) SymbolID {
	if sym.Container.IsValid() && !sym.Module.IsValid() {
		if c := t.Get(sym.Container); c != nil {
			sym.Module = c.Module
			if c.Kind == KindModule {
				sym.Module = sym.Container
			}
		}
	}
	if c := t.Get(sym.Container); c != nil {
		switch sym.Kind {
		case KindTypeParameter:
			sym.Ordinal = len(c.TypeParams)
		case KindParameter:
			sym.Ordinal = len(c.Params)
		}
	}
	id := t.Symbols.New(&sym)
	c := t.Get(sym.Container)
	if c == nil {
		return id
	}
	switch sym.Kind {
	case KindTypeParameter:
		c.TypeParams = append(c.TypeParams, id)
	case KindParameter:
		c.Params = append(c.Params, id)
	case KindField, KindMethod, KindNamedType:
		if c.Kind == KindNamedType {
			c.Members = append(c.Members, id)
		}
	}
	return id
}

// OriginalDefinition returns the unconstructed form of id.
func (t *Table) OriginalDefinition(id SymbolID) SymbolID {
	sym := t.Get(id)
	if sym == nil || !sym.Original.IsValid() {
		return id
	}
	return sym.Original
}

// IsDefinition reports whether id is its own original definition.
func (t *Table) IsDefinition(id SymbolID) bool {
	return t.OriginalDefinition(id) == id
}

// ContainingType returns the named type that directly contains id.
func (t *Table) ContainingType(id SymbolID) SymbolID {
	sym := t.Get(id)
	if sym == nil {
		return NoSymbolID
	}
	if c := t.Get(sym.Container); c != nil && c.Kind == KindNamedType {
		return sym.Container
	}
	return NoSymbolID
}

// DeclaringModule returns the module that declares id, or NoSymbolID for
// shape symbols such as arrays and pointers.
func (t *Table) DeclaringModule(id SymbolID) SymbolID {
	sym := t.Get(id)
	if sym == nil {
		return NoSymbolID
	}
	if sym.Kind == KindModule {
		return id
	}
	return sym.Module
}

// Arity returns the number of type parameters the original definition declares.
func (t *Table) Arity(id SymbolID) int {
	sym := t.Get(t.OriginalDefinition(id))
	if sym == nil {
		return 0
	}
	switch sym.Kind {
	case KindNamedType, KindMethod:
		return len(sym.TypeParams)
	}
	return 0
}

// IsNestedInGeneric reports whether any containing type of id, at any depth,
// is generic. Containment chains are acyclic by construction.
func (t *Table) IsNestedInGeneric(id SymbolID) bool {
	for c := t.ContainingType(id); c.IsValid(); c = t.ContainingType(c) {
		if t.Arity(c) > 0 {
			return true
		}
	}
	return false
}

// Construct returns the deduplicated instantiation of a generic type or
// method with the given type arguments.
func (t *Table) Construct(generic SymbolID, args []SymbolID) SymbolID {
	gen := t.MustGet(generic)
	if gen.Kind != KindNamedType && gen.Kind != KindMethod {
		panic(fmt.Sprintf("symbols: cannot construct %s %q", gen.Kind, gen.Name))
	}
	if want := t.Arity(generic); want != len(args) || want == 0 {
		panic(fmt.Sprintf("symbols: %q expects %d type arguments, got %d", gen.Name, want, len(args)))
	}
	key := instanceKey{Generic: generic, ArgsKey: argsKey(args)}
	if id, ok := t.instances[key]; ok {
		return id
	}
	inst := *gen
	inst.Original = t.OriginalDefinition(generic)
	inst.ConstructedFrom = generic
	inst.TypeArgs = append([]SymbolID(nil), args...)
	inst.Members = nil
	inst.Params = nil
	id := t.Symbols.New(&inst)
	t.instances[key] = id

	if inst.Kind == KindMethod {
		subst := t.substitution(id)
		t.substituteSignature(id, generic, subst)
	}
	return id
}

// SubstitutedMember returns member as seen through the constructed (or
// substituted) container, e.g. the field Value of Box<int>.
func (t *Table) SubstitutedMember(container, member SymbolID) SymbolID {
	if t.IsDefinition(container) && !t.IsNestedInGeneric(container) && t.Arity(container) == 0 {
		return member
	}
	key := memberKey{Container: container, Member: member}
	if id, ok := t.members[key]; ok {
		return id
	}
	sub := *t.MustGet(member)
	origType := sub.Type
	sub.Container = container
	sub.Original = t.OriginalDefinition(member)
	sub.Members = nil
	sub.Params = nil
	id := t.Symbols.New(&sub)
	t.members[key] = id

	// Substitute may grow the arena; take the slot pointer afterwards.
	subst := t.substitution(id)
	switch sub.Kind {
	case KindField:
		typ := t.Substitute(origType, subst)
		t.MustGet(id).Type = typ
	case KindMethod:
		t.substituteSignature(id, member, subst)
	}
	return id
}

func (t *Table) substituteSignature(id, from SymbolID, subst map[SymbolID]SymbolID) {
	src := t.MustGet(from)
	params := append([]SymbolID(nil), src.Params...)
	ret := t.Substitute(src.Type, subst)
	t.MustGet(id).Type = ret
	for _, p := range params {
		ps := *t.MustGet(p)
		ps.Container = id
		ps.Original = t.OriginalDefinition(p)
		ps.Type = t.Substitute(ps.Type, subst)
		pid := t.Symbols.New(&ps)
		owner := t.MustGet(id)
		owner.Params = append(owner.Params, pid)
	}
}

// substitution collects the type parameter to argument mapping visible from id.
func (t *Table) substitution(id SymbolID) map[SymbolID]SymbolID {
	subst := make(map[SymbolID]SymbolID)
	for cur := id; cur.IsValid(); {
		sym := t.Get(cur)
		if sym == nil {
			break
		}
		if len(sym.TypeArgs) > 0 {
			orig := t.MustGet(t.OriginalDefinition(cur))
			for i, tp := range orig.TypeParams {
				if i < len(sym.TypeArgs) {
					subst[tp] = sym.TypeArgs[i]
				}
			}
		}
		next := sym.Container
		if c := t.Get(next); c == nil || (c.Kind != KindNamedType && c.Kind != KindMethod) {
			break
		}
		cur = next
	}
	return subst
}

// Substitute replaces type parameters in typ according to subst.
func (t *Table) Substitute(typ SymbolID, subst map[SymbolID]SymbolID) SymbolID {
	if len(subst) == 0 || !typ.IsValid() {
		return typ
	}
	sym := t.Get(typ)
	if sym == nil {
		return typ
	}
	switch sym.Kind {
	case KindTypeParameter:
		if arg, ok := subst[typ]; ok {
			return arg
		}
	case KindArrayType:
		return t.ArrayOf(t.Substitute(sym.Type, subst), sym.Rank)
	case KindPointerType:
		return t.PointerTo(t.Substitute(sym.Type, subst))
	case KindByRefType:
		return t.ByRefTo(t.Substitute(sym.Type, subst))
	case KindFunctionPointerType:
		ret := t.Substitute(sym.Type, subst)
		params := make([]SymbolID, 0, len(sym.Params))
		for _, p := range sym.Params {
			params = append(params, t.Substitute(t.MustGet(p).Type, subst))
		}
		return t.FunctionPointer(ret, params)
	case KindNamedType:
		if len(sym.TypeArgs) > 0 {
			from := sym.ConstructedFrom
			args := make([]SymbolID, len(sym.TypeArgs))
			changed := false
			for i, a := range sym.TypeArgs {
				args[i] = t.Substitute(a, subst)
				changed = changed || args[i] != a
			}
			if changed {
				return t.Construct(from, args)
			}
		}
	}
	return typ
}

// ArrayOf returns the array type over elem. Rank 0 is a vector.
func (t *Table) ArrayOf(elem SymbolID, rank int) SymbolID {
	return t.shape(shapeKey{Kind: KindArrayType, Elem: elem, Rank: rank})
}

// PointerTo returns the unmanaged pointer type to target.
func (t *Table) PointerTo(target SymbolID) SymbolID {
	return t.shape(shapeKey{Kind: KindPointerType, Elem: target})
}

// ByRefTo returns the managed pointer type to target.
func (t *Table) ByRefTo(target SymbolID) SymbolID {
	return t.shape(shapeKey{Kind: KindByRefType, Elem: target})
}

func (t *Table) shape(key shapeKey) SymbolID {
	if id, ok := t.shapes[key]; ok {
		return id
	}
	id := t.Symbols.New(&Symbol{Kind: key.Kind, Type: key.Elem, Rank: key.Rank})
	t.shapes[key] = id
	return id
}

// FunctionPointer returns the function pointer type with the given signature.
func (t *Table) FunctionPointer(ret SymbolID, params []SymbolID) SymbolID {
	key := argsKey(append([]SymbolID{ret}, params...))
	if id, ok := t.fnptrs[key]; ok {
		return id
	}
	id := t.Symbols.New(&Symbol{Kind: KindFunctionPointerType, Type: ret})
	for _, p := range params {
		t.Declare(Symbol{Kind: KindParameter, Container: id, Type: p})
	}
	t.fnptrs[key] = id
	return id
}

func argsKey(args []SymbolID) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(arg), 10))
	}
	return b.String()
}
