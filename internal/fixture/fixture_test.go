package fixture

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ilemit/internal/il"
	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

func loadDemo(t *testing.T) *Graph {
	t.Helper()
	g, err := LoadFile("testdata/demo.toml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return g
}

func mustLookup(t *testing.T, g *Graph, expr string) symbols.SymbolID {
	t.Helper()
	id, err := g.Lookup(expr)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", expr, err)
	}
	return id
}

func TestLoadDemoDeclarations(t *testing.T) {
	g := loadDemo(t)
	tab := g.Table

	if got := tab.MustGet(g.Module); got.Name != "Demo.dll" || !got.Has(symbols.FlagPrimaryModule) {
		t.Fatalf("module: %+v", got)
	}
	box := mustLookup(t, g, "Demo.Box")
	inner := mustLookup(t, g, "Demo.Box.Inner")
	if tab.Arity(box) != 1 || tab.ContainingType(inner) != box || !tab.IsNestedInGeneric(inner) {
		t.Fatalf("Box/Inner shape is wrong")
	}
	pair := tab.MustGet(mustLookup(t, g, "Demo.Box.Pair"))
	if pair.Access != symbols.AccessProtected || tab.MustGet(pair.TypeParams[0]).Variance != symbols.VarianceOut {
		t.Fatalf("Pair: %+v", pair)
	}
	util := tab.MustGet(mustLookup(t, g, "Demo.Util"))
	if util.Access != symbols.AccessInternal || !util.Has(symbols.FlagAbstract|symbols.FlagSealed) {
		t.Fatalf("Util: %+v", util)
	}
	count := tab.MustGet(mustLookup(t, g, "Demo.Util::Count"))
	if count.Access != symbols.AccessPrivate || len(count.Modifiers) != 1 || count.Modifiers[0].Optional {
		t.Fatalf("Count: %+v", count)
	}
	helper := mustLookup(t, g, "Extra.Helper")
	if mod := tab.MustGet(tab.DeclaringModule(helper)); mod.Name != "Core.Extra.netmodule" || mod.Has(symbols.FlagPrimaryModule) {
		t.Fatalf("Helper module: %+v", mod)
	}
	if tab.MustGet(mustLookup(t, g, "int32")).Name != "Int32" {
		t.Fatalf("int32 alias did not resolve to System.Int32")
	}
}

func TestLoadDemoBodies(t *testing.T) {
	g := loadDemo(t)
	tab := g.Table
	get := mustLookup(t, g, "Demo.Box::Get")
	plain := mustLookup(t, g, "Demo.Util::Plain")
	id := mustLookup(t, g, "Demo.Util::Id")

	if diff := cmp.Diff([]symbols.SymbolID{get, id, plain}, g.Methods()); diff != "" {
		t.Fatalf("methods with bodies (-want +got):\n%s", diff)
	}

	body := g.Bodies[get]
	wantOps := []Instr{{Op: il.LdargS, Int: 1}, {Op: il.LdcI4}, {Op: il.Pop}, {Op: il.Ret}}
	if diff := cmp.Diff(wantOps, body.Code); diff != "" {
		t.Fatalf("Get code (-want +got):\n%s", diff)
	}
	if body.MaxStack != 2 || len(body.Locals) != 1 || tab.MustGet(body.Locals[0].Type).Name != "T" {
		t.Fatalf("Get body: %+v", body)
	}
	wantSeq := []metadata.SequencePoint{{Document: "box.src", StartLine: 3, StartColumn: 5, EndLine: 3, EndColumn: 20}}
	if diff := cmp.Diff(wantSeq, body.SequencePoints); diff != "" {
		t.Fatalf("sequence points (-want +got):\n%s", diff)
	}

	if g.Bodies[id].MaxStack != -1 || g.Bodies[id].Code[0].Int != 0 {
		t.Fatalf("static Id must address value as slot 0 and compute max stack")
	}

	code := g.Bodies[plain].Code
	field := tab.MustGet(code[2].Ref)
	if field.Kind != symbols.KindField || tab.IsDefinition(code[2].Ref) || tab.MustGet(field.Type).Name != "Int32" {
		t.Fatalf("ldfld operand: %+v", field)
	}
	if code[1].Int != 0 || code[4].Str != "plain" {
		t.Fatalf("slot/string operands: %+v %+v", code[1], code[4])
	}
	call := tab.MustGet(code[5].Ref)
	if call.Kind != symbols.KindMethod || len(call.TypeArgs) != 1 || tab.MustGet(call.TypeArgs[0]).Name != "String" {
		t.Fatalf("call operand: %+v", call)
	}
	if ret := tab.MustGet(call.Type); ret.Name != "String" {
		t.Fatalf("Id<string> returns %s", ret.Name)
	}
	mapped := tab.MustGet(code[9].Ref)
	if mapped.Name != "Map" || !tab.IsNestedInGeneric(code[9].Ref) || len(mapped.TypeArgs) != 1 {
		t.Fatalf("ldtoken operand: %+v", mapped)
	}
}

func TestTypeExpressionRoundTrip(t *testing.T) {
	for _, src := range []string{
		"Demo.Box<System.Int32,!!U>.Inner[,]*&",
		"!T[]",
		"int32[][]",
		"A.B<C.D<!X>>",
	} {
		e, err := parseTypeExpr(src)
		if err != nil {
			t.Fatalf("parseTypeExpr(%q): %v", src, err)
		}
		if got := e.String(); got != src {
			t.Errorf("round trip: got %q want %q", got, src)
		}
	}
	m, err := parseMemberExpr("Demo.Object :: .ctor")
	if err != nil || m.name != ".ctor" || m.owner.String() != "Demo.Object" {
		t.Fatalf("member expr: %+v %v", m, err)
	}
}

func TestTypeExpressionErrors(t *testing.T) {
	for _, src := range []string{"", "Box<", "Box<int32", "A..B", "!", "int32[", "Box>"} {
		if _, err := parseTypeExpr(src); err == nil {
			t.Errorf("parseTypeExpr(%q) accepted", src)
		}
	}
	for _, src := range []string{"Box", "Box::", "Box::."} {
		if _, err := parseMemberExpr(src); err == nil {
			t.Errorf("parseMemberExpr(%q) accepted", src)
		}
	}
}

func TestIdentifiersAreNFC(t *testing.T) {
	src := "[module]\nname = \"M.dll\"\n[[type]]\nname = \"Cafe\u0301\"\n"
	g, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	id := mustLookup(t, g, "Cafe\u0301")
	if got := g.Table.MustGet(id).Name; got != "Caf\u00e9" {
		t.Fatalf("name %q is not NFC", got)
	}
}

func TestParseErrors(t *testing.T) {
	const head = "[module]\nname = \"M.dll\"\n"
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing module", "[[type]]\nname = \"A\"\n", ErrModuleMissing.Error()},
		{"unknown key", head + "colour = 1\n", "unknown key"},
		{"unknown unit", head + "[[type]]\nname = \"A\"\nunit = \"Nowhere\"\n", "unknown unit"},
		{"duplicate", head + "[[type]]\nname = \"A\"\n[[type]]\nname = \"A\"\n", ErrDuplicate.Error()},
		{"bad access", head + "[[type]]\nname = \"A\"\naccess = \"friend\"\n", "unknown access"},
		{"bad flag", head + "[[type]]\nname = \"A\"\nflags = [\"shiny\"]\n", "unknown flag"},
		{"unknown base", head + "[[type]]\nname = \"A\"\nbase = \"B\"\n", "unknown type B"},
		{"arity", head + "[[type]]\nname = \"A\"\n[[type.generic]]\nname = \"T\"\n[[type]]\nname = \"B\"\nbase = \"A<A,A>\"\n", "expects 1 type arguments"},
		{"foreign body", head + "[[assembly]]\nname = \"X\"\n[[type]]\nunit = \"X\"\nname = \"A\"\n[[type.method]]\nname = \"F\"\n[type.method.body]\nil = [\"ret\"]\n", "only methods of the module being built"},
		{"opcode", head + "[[type]]\nname = \"A\"\n[[type.method]]\nname = \"F\"\n[type.method.body]\nil = [\"jmp\"]\n", "unknown opcode"},
		{"operand", head + "[[type]]\nname = \"A\"\n[[type.method]]\nname = \"F\"\n[type.method.body]\nil = [\"ret 1\"]\n", "takes no operand"},
		{"scopes", head + "[[type]]\nname = \"A\"\n[[type.method]]\nname = \"F\"\n[type.method.body]\nscopes = [1]\nil = [\"ret\"]\n", "offset/length pairs"},
		{"method param out of scope", head + "[[type]]\nname = \"A\"\n[[type.field]]\nname = \"F\"\ntype = \"!!U\"\n", "no method type parameter"},
		{"no special", head + "[[type]]\nname = \"A\"\nbase = \"object\"\n", "no type declared as special"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/absent.toml")
	if err == nil || !strings.Contains(err.Error(), "absent.toml") {
		t.Fatalf("got %v", err)
	}
	if errors.Is(err, ErrModuleMissing) {
		t.Fatalf("missing file reported as missing module")
	}
}
