// Package mdump prints a module definition as deterministic text.
//
// Everything is reached through Dispatch and Kind, the same way a metadata
// writer walks the hierarchy, so the dump doubles as a check that every
// wrapper answers the shape it claims.
package mdump

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ilemit/internal/metadata"
)

// TokenSource exposes the token tables of an emission session.
type TokenSource interface {
	ReferenceTokens() []metadata.Reference
	StringTokens() []string
}

// Options selects optional sections of the dump.
type Options struct {
	// Bodies prints IL, locals, scopes and sequence points.
	Bodies bool
	// Tokens, when set, appends the reference and string token tables.
	Tokens TokenSource
}

// Dump writes the module to w.
func Dump(w io.Writer, m metadata.ModuleDefinition, opts Options) error {
	if m == nil {
		return errors.New("mdump: nil module")
	}
	d := &dumper{opts: opts}
	m.Dispatch(d)
	for _, td := range metadata.AllTypes(m) {
		td.Dispatch(d)
	}
	if opts.Tokens != nil {
		d.tokens(opts.Tokens)
	}
	_, err := io.WriteString(w, d.b.String())
	return err
}

// String returns the dump as a string.
func String(m metadata.ModuleDefinition, opts Options) string {
	var b strings.Builder
	if err := Dump(&b, m, opts); err != nil {
		return err.Error()
	}
	return b.String()
}

type dumper struct {
	metadata.BaseVisitor
	b    strings.Builder
	opts Options
}

func (d *dumper) line(indent int, format string, args ...any) {
	d.b.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteByte('\n')
}

func (d *dumper) VisitModuleDefinition(m metadata.ModuleDefinition) {
	asm := "<none>"
	if a := m.ContainingAssembly(); a != nil {
		asm = a.Name() + " " + a.Version()
	}
	d.line(0, "module %s assembly %s", m.Name(), asm)
}

func (d *dumper) VisitNamespaceTypeDefinition(td metadata.NamespaceTypeDefinition) {
	d.typeDef(td, "public="+strconv.FormatBool(td.IsPublic()))
}

func (d *dumper) VisitNestedTypeDefinition(td metadata.NestedTypeDefinition) {
	d.typeDef(td, "nested")
}

func (d *dumper) typeDef(td metadata.TypeDefinition, note string) {
	var flags []string
	if td.IsInterface() {
		flags = append(flags, "interface")
	}
	if td.IsAbstract() {
		flags = append(flags, "abstract")
	}
	if td.IsSealed() {
		flags = append(flags, "sealed")
	}
	if td.IsValueType() {
		flags = append(flags, "valuetype")
	}
	d.line(0, "type %s %s%s (%s)", td.Visibility(), Name(td), joinFlags(flags), note)
	if base := td.BaseClass(); base != nil {
		d.line(1, "extends %s", Name(base))
	}
	for _, iface := range td.Interfaces() {
		d.line(1, "implements %s", Name(iface))
	}
	for _, gp := range td.GenericParameters() {
		gp.Dispatch(d)
	}
	for _, f := range td.Fields() {
		f.Dispatch(d)
	}
	for _, m := range td.Methods() {
		m.Dispatch(d)
	}
}

func (d *dumper) VisitGenericParameterDefinition(gp metadata.GenericParameterDefinition) {
	d.genericParam(1, gp)
}

func (d *dumper) genericParam(indent int, gp metadata.GenericParameterDefinition) {
	var flags []string
	if gp.MustBeReferenceType() {
		flags = append(flags, "class")
	}
	if gp.MustBeValueType() {
		flags = append(flags, "valuetype")
	}
	if gp.MustHaveDefaultConstructor() {
		flags = append(flags, ".ctor")
	}
	for _, c := range gp.Constraints() {
		flags = append(flags, "("+Name(c)+")")
	}
	d.line(indent, "generic %s%s %s%s", gp.Variance(), gp.Name(), Name(gp), joinFlags(flags))
}

func (d *dumper) VisitFieldDefinition(f metadata.FieldDefinition) {
	var flags []string
	if f.IsStatic() {
		flags = append(flags, "static")
	}
	if f.IsReadOnly() {
		flags = append(flags, "initonly")
	}
	if f.IsCompileTimeConstant() {
		flags = append(flags, "literal")
	}
	d.line(1, "field %s %s: %s%s", f.Visibility(), f.Name(), Name(f.Type()), joinFlags(flags))
}

func (d *dumper) VisitMethodDefinition(m metadata.MethodDefinition) {
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{m.IsStatic(), "static"},
		{m.IsAbstract(), "abstract"},
		{m.IsVirtual(), "virtual"},
		{m.IsSealed(), "final"},
		{m.IsExternal(), "extern"},
		{m.IsConstructor(), "ctor"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	params := make([]string, 0, len(m.Parameters()))
	for _, p := range m.ParameterDefinitions() {
		params = append(params, paramString(p))
	}
	arity := ""
	if m.IsGeneric() {
		arity = "`" + strconv.Itoa(m.GenericParameterCount())
	}
	d.line(1, "method %s %s%s(%s): %s%s", m.Visibility(), m.Name(), arity,
		strings.Join(params, ", "), returnName(m.ReturnType()), joinFlags(flags))
	for _, gp := range m.GenericParameters() {
		d.genericParam(2, gp)
	}
	if d.opts.Bodies {
		if body := m.Body(); body != nil {
			d.body(body)
		}
	}
}

func paramString(p metadata.ParameterDefinition) string {
	var b strings.Builder
	if p.IsOut() {
		b.WriteString("[out] ")
	}
	if p.IsOptional() {
		b.WriteString("[opt] ")
	}
	b.WriteString(Name(p))
	b.WriteByte(' ')
	b.WriteString(p.Name())
	return b.String()
}

func (d *dumper) body(body *metadata.MethodBody) {
	d.line(2, "body maxstack=%d zeroinit=%t regions=%d", body.MaxStack(), body.LocalsAreZeroed(), len(body.ExceptionRegions()))
	d.line(3, "il % X", body.Instructions())
	for _, l := range body.LocalVariables() {
		extra := ""
		if l.IsPinned {
			extra += " pinned"
		}
		if l.IsByRef {
			extra += " byref"
		}
		d.line(3, "local %d %s: %s%s", l.Slot, l.Name, Name(l.Type), extra)
	}
	for _, s := range body.LocalScopes() {
		d.line(3, "scope IL_%04X+%d", s.Offset, s.Length)
	}
	for _, sp := range body.SequencePoints() {
		d.line(3, "seq IL_%04X %s %d:%d-%d:%d", sp.Offset, sp.Document, sp.StartLine, sp.StartColumn, sp.EndLine, sp.EndColumn)
	}
}

func (d *dumper) tokens(src TokenSource) {
	refs := src.ReferenceTokens()
	strs := src.StringTokens()
	if len(refs) == 0 && len(strs) == 0 {
		return
	}
	d.line(0, "tokens")
	for i, r := range refs {
		d.line(1, "ref %d %s %s", i, r.Kind(), Name(r))
	}
	for i, s := range strs {
		d.line(1, "str %d %s", i, strconv.Quote(s))
	}
}

func joinFlags(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	return " " + strings.Join(flags, " ")
}

func returnName(t metadata.TypeReference) string {
	if t == nil {
		return "void"
	}
	return Name(t)
}
