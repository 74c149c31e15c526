package fixture

import (
	"fmt"

	"ilemit/internal/symbols"
)

func (l *loader) resolve(text string, sc scope) (symbols.SymbolID, error) {
	e, err := parseTypeExpr(text)
	if err != nil {
		return symbols.NoSymbolID, err
	}
	return l.resolveExpr(e, sc)
}

func (l *loader) resolveAll(texts []string, sc scope) ([]symbols.SymbolID, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([]symbols.SymbolID, 0, len(texts))
	for _, t := range texts {
		id, err := l.resolve(t, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (l *loader) resolveExpr(e *typeExpr, sc scope) (symbols.SymbolID, error) {
	var (
		id  symbols.SymbolID
		err error
	)
	if e.param != "" {
		id, err = l.lookupParam(e.param, e.method, sc)
	} else {
		id, err = l.resolvePath(e.path, sc)
	}
	if err != nil {
		return symbols.NoSymbolID, err
	}
	for _, s := range e.suffixes {
		switch s.kind {
		case symbols.KindArrayType:
			id = l.table.ArrayOf(id, s.rank)
		case symbols.KindPointerType:
			id = l.table.PointerTo(id)
		case symbols.KindByRefType:
			id = l.table.ByRefTo(id)
		}
	}
	return id, nil
}

func (l *loader) lookupParam(name string, method bool, sc scope) (symbols.SymbolID, error) {
	find := func(owner symbols.SymbolID) symbols.SymbolID {
		for _, tp := range l.table.MustGet(owner).TypeParams {
			if l.table.MustGet(tp).Name == name {
				return tp
			}
		}
		return symbols.NoSymbolID
	}
	if method {
		if sc.method.IsValid() {
			if tp := find(sc.method); tp.IsValid() {
				return tp, nil
			}
		}
		return symbols.NoSymbolID, fmt.Errorf("no method type parameter %q in scope", name)
	}
	for t := sc.typ; t.IsValid(); t = l.table.ContainingType(t) {
		if tp := find(t); tp.IsValid() {
			return tp, nil
		}
	}
	return symbols.NoSymbolID, fmt.Errorf("no type parameter %q in scope", name)
}

// resolvePath walks a dotted name. Segments that do not name a declared type
// are namespace parts; once a type is found every further segment must be a
// nested type, seen through the constructed container when there is one.
func (l *loader) resolvePath(path []segment, sc scope) (symbols.SymbolID, error) {
	if len(path) == 1 && len(path[0].args) == 0 {
		if _, declared := l.types[path[0].name]; !declared {
			if sp, ok := specialNames[path[0].name]; ok {
				id, ok := l.specials[sp]
				if !ok {
					return symbols.NoSymbolID, fmt.Errorf("no type declared as special %q", path[0].name)
				}
				return id, nil
			}
		}
	}

	var cur symbols.SymbolID
	full := ""
	for _, seg := range path {
		if full == "" {
			full = seg.name
		} else {
			full += "." + seg.name
		}
		def, ok := l.types[full]
		if !ok {
			if cur.IsValid() {
				return symbols.NoSymbolID, fmt.Errorf("type %s has no nested type %s", l.table.MustGet(cur).Name, seg.name)
			}
			if len(seg.args) > 0 {
				return symbols.NoSymbolID, fmt.Errorf("unknown generic type %s", full)
			}
			continue
		}
		id := def
		if cur.IsValid() && !l.table.IsDefinition(cur) {
			id = l.table.SubstitutedMember(cur, def)
		}
		if len(seg.args) > 0 {
			args, err := l.resolveArgs(seg.args, sc)
			if err != nil {
				return symbols.NoSymbolID, err
			}
			if want := l.table.Arity(def); want != len(args) {
				return symbols.NoSymbolID, fmt.Errorf("%s expects %d type arguments, got %d", full, want, len(args))
			}
			id = l.table.Construct(id, args)
		}
		cur = id
	}
	if !cur.IsValid() {
		return symbols.NoSymbolID, fmt.Errorf("unknown type %s", full)
	}
	return cur, nil
}

func (l *loader) resolveArgs(exprs []*typeExpr, sc scope) ([]symbols.SymbolID, error) {
	args := make([]symbols.SymbolID, 0, len(exprs))
	for _, a := range exprs {
		id, err := l.resolveExpr(a, sc)
		if err != nil {
			return nil, err
		}
		args = append(args, id)
	}
	return args, nil
}

// resolveMember resolves Type::name<Args> to a field or method. want narrows
// the kind; KindInvalid accepts either.
func (l *loader) resolveMember(text string, sc scope, want symbols.Kind) (symbols.SymbolID, error) {
	m, err := parseMemberExpr(text)
	if err != nil {
		return symbols.NoSymbolID, err
	}
	owner, err := l.resolveExpr(m.owner, sc)
	if err != nil {
		return symbols.NoSymbolID, err
	}
	if l.table.MustGet(owner).Kind != symbols.KindNamedType {
		return symbols.NoSymbolID, fmt.Errorf("%s is not a named type", m.owner)
	}

	var found symbols.SymbolID
	for _, mem := range l.table.MustGet(l.table.OriginalDefinition(owner)).Members {
		sym := l.table.MustGet(mem)
		if sym.Name != m.name || (sym.Kind != symbols.KindField && sym.Kind != symbols.KindMethod) {
			continue
		}
		if want != symbols.KindInvalid && sym.Kind != want {
			continue
		}
		if len(m.args) > 0 && l.table.Arity(mem) != len(m.args) {
			continue
		}
		found = mem
		break
	}
	if !found.IsValid() {
		return symbols.NoSymbolID, fmt.Errorf("%s has no member %s", m.owner, m.name)
	}

	id := found
	if !l.table.IsDefinition(owner) {
		id = l.table.SubstitutedMember(owner, found)
	}
	if len(m.args) > 0 {
		if l.table.MustGet(found).Kind != symbols.KindMethod {
			return symbols.NoSymbolID, fmt.Errorf("field %s takes no type arguments", m.name)
		}
		args, err := l.resolveArgs(m.args, sc)
		if err != nil {
			return symbols.NoSymbolID, err
		}
		id = l.table.Construct(id, args)
	}
	return id, nil
}
