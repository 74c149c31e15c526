package fixture

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"ilemit/internal/symbols"
)

var (
	// ErrModuleMissing indicates that [module].name is missing.
	ErrModuleMissing = errors.New("missing [module].name")
	// ErrDuplicate indicates two declarations with the same full name.
	ErrDuplicate = errors.New("duplicate declaration")
)

// Graph is a loaded fixture.
type Graph struct {
	Table *symbols.Table
	// Module is the module being built.
	Module symbols.SymbolID
	// Bodies maps method definitions of the built module to their bodies.
	Bodies map[symbols.SymbolID]*Body
	// Path is the file the graph was loaded from, if any.
	Path string

	loader *loader
}

// Methods returns the methods that carry a body, in declaration order.
func (g *Graph) Methods() []symbols.SymbolID {
	return slices.Sorted(maps.Keys(g.Bodies))
}

// Lookup finds a declared type or member by expression, e.g. "Demo.Box"
// or "Demo.Box::Get". It is meant for tests and tooling.
func (g *Graph) Lookup(expr string) (symbols.SymbolID, error) {
	l := g.loader
	if l == nil {
		return symbols.NoSymbolID, errors.New("graph was not produced by the loader")
	}
	if strings.Contains(expr, "::") {
		return l.resolveMember(expr, scope{}, symbols.KindInvalid)
	}
	return l.resolve(expr, scope{})
}

// LoadFile reads and loads a fixture file.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.Path = path
	return g, nil
}

// Parse loads a fixture from TOML text.
func Parse(src string) (*Graph, error) {
	var doc fileDoc
	meta, err := toml.Decode(src, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if !meta.IsDefined("module", "name") || strings.TrimSpace(doc.Module.Name) == "" {
		return nil, ErrModuleMissing
	}

	l := newLoader()
	if err := l.declareUnits(&doc); err != nil {
		return nil, err
	}
	for i := range doc.Types {
		if err := l.declareType(&doc.Types[i], symbols.NoSymbolID, ""); err != nil {
			return nil, err
		}
	}
	for _, step := range slices.Concat(l.pending, l.bodySteps) {
		if err := step(); err != nil {
			return nil, err
		}
	}
	if err := l.table.Validate(); err != nil {
		return nil, fmt.Errorf("inconsistent symbol graph: %w", err)
	}
	return &Graph{Table: l.table, Module: l.module, Bodies: l.bodies, loader: l}, nil
}

type scope struct {
	typ    symbols.SymbolID
	method symbols.SymbolID
	// locals are visible to ldloc/stloc operands inside a body.
	locals []Local
}

type loader struct {
	table    *symbols.Table
	module   symbols.SymbolID
	units    map[string]symbols.SymbolID
	types    map[string]symbols.SymbolID
	specials map[symbols.SpecialType]symbols.SymbolID
	bodies   map[symbols.SymbolID]*Body
	// pending resolves signatures once every declaration exists.
	pending []func() error
	// bodySteps run last: member references substitute finished signatures.
	bodySteps []func() error
}

func newLoader() *loader {
	return &loader{
		table:    symbols.NewTable(symbols.Hints{Symbols: 256}),
		units:    make(map[string]symbols.SymbolID),
		types:    make(map[string]symbols.SymbolID),
		specials: make(map[symbols.SpecialType]symbols.SymbolID),
		bodies:   make(map[symbols.SymbolID]*Body),
	}
}

func ident(s string) string { return norm.NFC.String(strings.TrimSpace(s)) }

func (l *loader) declareUnits(doc *fileDoc) error {
	m := doc.Module
	asmName := ident(m.Assembly)
	if asmName == "" {
		asmName = strings.TrimSuffix(ident(m.Name), ".dll")
	}
	asm := l.table.Declare(symbols.Symbol{Kind: symbols.KindAssembly, Name: asmName, Version: versionOr(m.Version)})
	l.module = l.table.Declare(symbols.Symbol{Kind: symbols.KindModule, Name: ident(m.Name), Container: asm, Flags: symbols.FlagPrimaryModule})
	l.units[""] = l.module
	l.units[asmName] = l.module

	for _, a := range doc.Assemblies {
		name := ident(a.Name)
		if name == "" {
			return errors.New("[[assembly]] without name")
		}
		if _, dup := l.units[name]; dup {
			return fmt.Errorf("assembly %s: %w", name, ErrDuplicate)
		}
		id := l.table.Declare(symbols.Symbol{Kind: symbols.KindAssembly, Name: name, Version: versionOr(a.Version)})
		l.units[name] = l.table.Declare(symbols.Symbol{Kind: symbols.KindModule, Name: name + ".dll", Container: id, Flags: symbols.FlagPrimaryModule})
		for _, mod := range a.Modules {
			key := name + "/" + ident(mod)
			if _, dup := l.units[key]; dup {
				return fmt.Errorf("module %s: %w", key, ErrDuplicate)
			}
			l.units[key] = l.table.Declare(symbols.Symbol{Kind: symbols.KindModule, Name: ident(mod), Container: id})
		}
	}
	return nil
}

func versionOr(v string) string {
	if v == "" {
		return "0.0.0.0"
	}
	return v
}

func (l *loader) declareType(doc *typeDoc, parent symbols.SymbolID, parentName string) error {
	name := ident(doc.Name)
	ns := ident(doc.Namespace)
	full := name
	switch {
	case parent.IsValid():
		full = parentName + "." + name
	case ns != "":
		full = ns + "." + name
	}
	fail := func(err error) error { return fmt.Errorf("type %s: %w", full, err) }
	if name == "" {
		return fail(errors.New("missing name"))
	}

	container := parent
	fallback := symbols.AccessPrivate
	if parent.IsValid() {
		if doc.Unit != "" || ns != "" {
			return fail(errors.New("nested types take unit and namespace from their container"))
		}
	} else {
		unit, ok := l.units[ident(doc.Unit)]
		if !ok {
			return fail(fmt.Errorf("unknown unit %q", doc.Unit))
		}
		container = unit
		fallback = symbols.AccessInternal
	}
	if _, dup := l.types[full]; dup {
		return fail(ErrDuplicate)
	}

	access, err := parseAccess(doc.Access, fallback)
	if err != nil {
		return fail(err)
	}
	flags, err := parseFlags(doc.Flags)
	if err != nil {
		return fail(err)
	}
	kind, err := parseTypeKind(doc.Kind)
	if err != nil {
		return fail(err)
	}
	special, err := parseSpecial(doc.Special)
	if err != nil {
		return fail(err)
	}

	id := l.table.Declare(symbols.Symbol{
		Kind: symbols.KindNamedType, Name: name, Namespace: ns, Container: container,
		Access: access, Flags: flags, TypeKind: kind, Special: special,
	})
	l.types[full] = id
	if special != symbols.SpecialNone {
		if prev, dup := l.specials[special]; dup {
			return fail(fmt.Errorf("special type %q already declared by %s", doc.Special, l.table.MustGet(prev).Name))
		}
		l.specials[special] = id
	}

	sc := scope{typ: id}
	if err := l.declareGenerics(id, doc.Generic, sc); err != nil {
		return fail(err)
	}
	l.pending = append(l.pending, func() error {
		var base symbols.SymbolID
		if doc.Base != "" {
			var err error
			if base, err = l.resolve(doc.Base, sc); err != nil {
				return fail(fmt.Errorf("base: %w", err))
			}
		}
		ifaces, err := l.resolveAll(doc.Interfaces, sc)
		if err != nil {
			return fail(fmt.Errorf("interfaces: %w", err))
		}
		sym := l.table.MustGet(id)
		sym.Base = base
		sym.Interfaces = ifaces
		return nil
	})

	for i := range doc.Fields {
		if err := l.declareField(id, &doc.Fields[i], sc); err != nil {
			return fail(err)
		}
	}
	for i := range doc.Methods {
		if err := l.declareMethod(id, &doc.Methods[i]); err != nil {
			return fail(err)
		}
	}
	for i := range doc.Nested {
		if err := l.declareType(&doc.Nested[i], id, full); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) declareGenerics(owner symbols.SymbolID, docs []genericDoc, sc scope) error {
	for i := range docs {
		g := &docs[i]
		name := ident(g.Name)
		if name == "" {
			return errors.New("generic parameter without name")
		}
		variance, err := parseVariance(g.Variance)
		if err != nil {
			return fmt.Errorf("generic %s: %w", name, err)
		}
		flags, err := parseFlags(g.Flags)
		if err != nil {
			return fmt.Errorf("generic %s: %w", name, err)
		}
		id := l.table.Declare(symbols.Symbol{Kind: symbols.KindTypeParameter, Name: name, Container: owner, Variance: variance, Flags: flags})
		if len(g.Constraints) == 0 {
			continue
		}
		l.pending = append(l.pending, func() error {
			cs, err := l.resolveAll(g.Constraints, sc)
			if err != nil {
				return fmt.Errorf("generic %s constraints: %w", name, err)
			}
			l.table.MustGet(id).Constraints = cs
			return nil
		})
	}
	return nil
}

func (l *loader) declareField(owner symbols.SymbolID, doc *fieldDoc, sc scope) error {
	name := ident(doc.Name)
	fail := func(err error) error { return fmt.Errorf("field %s: %w", name, err) }
	if name == "" || doc.Type == "" {
		return fail(errors.New("fields need a name and a type"))
	}
	access, err := parseAccess(doc.Access, symbols.AccessPrivate)
	if err != nil {
		return fail(err)
	}
	flags, err := parseFlags(doc.Flags)
	if err != nil {
		return fail(err)
	}
	id := l.table.Declare(symbols.Symbol{Kind: symbols.KindField, Name: name, Container: owner, Access: access, Flags: flags})
	l.pending = append(l.pending, func() error {
		typ, mods, err := l.resolveModified(doc.Type, doc.Modreq, doc.Modopt, sc)
		if err != nil {
			return fail(err)
		}
		sym := l.table.MustGet(id)
		sym.Type = typ
		sym.Modifiers = mods
		return nil
	})
	return nil
}

func (l *loader) declareMethod(owner symbols.SymbolID, doc *methodDoc) error {
	name := ident(doc.Name)
	fail := func(err error) error { return fmt.Errorf("method %s: %w", name, err) }
	if name == "" {
		return fail(errors.New("missing name"))
	}
	access, err := parseAccess(doc.Access, symbols.AccessPrivate)
	if err != nil {
		return fail(err)
	}
	flags, err := parseFlags(doc.Flags)
	if err != nil {
		return fail(err)
	}
	id := l.table.Declare(symbols.Symbol{Kind: symbols.KindMethod, Name: name, Container: owner, Access: access, Flags: flags})
	sc := scope{typ: owner, method: id}
	if err := l.declareGenerics(id, doc.Generic, sc); err != nil {
		return fail(err)
	}

	params := make([]symbols.SymbolID, len(doc.Params))
	for i := range doc.Params {
		p := &doc.Params[i]
		pflags, err := parseFlags(p.Flags)
		if err != nil {
			return fail(fmt.Errorf("param %d: %w", i, err))
		}
		if p.Type == "" {
			return fail(fmt.Errorf("param %d has no type", i))
		}
		params[i] = l.table.Declare(symbols.Symbol{Kind: symbols.KindParameter, Name: ident(p.Name), Container: id, Flags: pflags})
	}

	if doc.Body != nil && l.table.DeclaringModule(owner) != l.module {
		return fail(errors.New("only methods of the module being built have bodies"))
	}
	l.pending = append(l.pending, func() error {
		if doc.Returns != "" {
			ret, err := l.resolve(doc.Returns, sc)
			if err != nil {
				return fail(fmt.Errorf("returns: %w", err))
			}
			l.table.MustGet(id).Type = ret
		}
		for i, pid := range params {
			p := &doc.Params[i]
			typ, mods, err := l.resolveModified(p.Type, p.Modreq, p.Modopt, sc)
			if err != nil {
				return fail(fmt.Errorf("param %s: %w", p.Name, err))
			}
			sym := l.table.MustGet(pid)
			sym.Type = typ
			sym.Modifiers = mods
		}
		return nil
	})
	if doc.Body == nil {
		return nil
	}
	l.bodySteps = append(l.bodySteps, func() error {
		body, err := l.parseBody(doc.Body, sc)
		if err != nil {
			return fail(err)
		}
		l.bodies[id] = body
		return nil
	})
	return nil
}

func (l *loader) resolveModified(typ string, modreq, modopt []string, sc scope) (symbols.SymbolID, []symbols.CustomModifier, error) {
	id, err := l.resolve(typ, sc)
	if err != nil {
		return 0, nil, err
	}
	var mods []symbols.CustomModifier
	for _, group := range []struct {
		names    []string
		optional bool
	}{{modreq, false}, {modopt, true}} {
		for _, n := range group.names {
			m, err := l.resolve(n, sc)
			if err != nil {
				return 0, nil, fmt.Errorf("modifier: %w", err)
			}
			mods = append(mods, symbols.CustomModifier{Modifier: m, Optional: group.optional})
		}
	}
	return id, mods, nil
}
