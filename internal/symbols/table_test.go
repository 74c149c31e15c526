package symbols

import (
	"strings"
	"testing"
)

type boxGraph struct {
	table  *Table
	module SymbolID
	object SymbolID
	int32  SymbolID
	box    SymbolID
	t      SymbolID
	inner  SymbolID
	value  SymbolID
	get    SymbolID
}

func newBoxGraph(t *testing.T) boxGraph {
	t.Helper()
	table := NewTable(Hints{})
	asm := table.Declare(Symbol{Kind: KindAssembly, Name: "Demo"})
	mod := table.Declare(Symbol{Kind: KindModule, Name: "Demo.dll", Container: asm, Flags: FlagPrimaryModule})
	object := table.Declare(Symbol{Kind: KindNamedType, Namespace: "System", Name: "Object", Container: mod, Special: SpecialObject})
	i32 := table.Declare(Symbol{Kind: KindNamedType, Namespace: "System", Name: "Int32", Container: mod, Special: SpecialInt32, TypeKind: TypeStruct})
	box := table.Declare(Symbol{Kind: KindNamedType, Namespace: "Demo", Name: "Box", Container: mod, Access: AccessPublic, Base: object})
	tp := table.Declare(Symbol{Kind: KindTypeParameter, Name: "T", Container: box})
	inner := table.Declare(Symbol{Kind: KindNamedType, Name: "Inner", Container: box, Access: AccessPublic})
	value := table.Declare(Symbol{Kind: KindField, Name: "Value", Container: inner, Type: tp, Access: AccessPublic})
	get := table.Declare(Symbol{Kind: KindMethod, Name: "Get", Container: box, Type: tp, Access: AccessPublic})
	table.Declare(Symbol{Kind: KindParameter, Name: "fallback", Container: get, Type: table.ArrayOf(tp, 0)})
	return boxGraph{table: table, module: mod, object: object, int32: i32, box: box, t: tp, inner: inner, value: value, get: get}
}

func TestDeclareLinksContainers(t *testing.T) {
	g := newBoxGraph(t)
	box := g.table.MustGet(g.box)
	if got, want := len(box.TypeParams), 1; got != want {
		t.Fatalf("type params: got=%d want=%d", got, want)
	}
	if got, want := len(box.Members), 2; got != want {
		t.Fatalf("members: got=%d want=%d", got, want)
	}
	if got := g.table.DeclaringModule(g.value); got != g.module {
		t.Fatalf("declaring module of field: got=%d want=%d", got, g.module)
	}
	if got := g.table.MustGet(g.t).Ordinal; got != 0 {
		t.Fatalf("type param ordinal: got=%d", got)
	}
}

func TestNestedInGeneric(t *testing.T) {
	g := newBoxGraph(t)
	cases := []struct {
		name string
		id   SymbolID
		want bool
	}{
		{"box", g.box, false},
		{"inner", g.inner, true},
		{"value", g.value, true},
		{"get", g.get, true},
		{"object", g.object, false},
	}
	for _, tc := range cases {
		if got := g.table.IsNestedInGeneric(tc.id); got != tc.want {
			t.Errorf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestConstructIsDeduplicated(t *testing.T) {
	g := newBoxGraph(t)
	first := g.table.Construct(g.box, []SymbolID{g.int32})
	second := g.table.Construct(g.box, []SymbolID{g.int32})
	if first != second {
		t.Fatalf("expected Construct to reuse instance, got %d and %d", first, second)
	}
	if g.table.IsDefinition(first) {
		t.Fatalf("constructed type must not be its own definition")
	}
	if got := g.table.OriginalDefinition(first); got != g.box {
		t.Fatalf("original definition: got=%d want=%d", got, g.box)
	}
	if got := g.table.Arity(first); got != 1 {
		t.Fatalf("arity of instance: got=%d", got)
	}
}

func TestSubstitutedMemberTypes(t *testing.T) {
	g := newBoxGraph(t)
	boxInt := g.table.Construct(g.box, []SymbolID{g.int32})
	innerInt := g.table.SubstitutedMember(boxInt, g.inner)
	valueInt := g.table.SubstitutedMember(innerInt, g.value)

	if got := g.table.MustGet(valueInt).Type; got != g.int32 {
		t.Fatalf("substituted field type: got=%d want=%d", got, g.int32)
	}
	if again := g.table.SubstitutedMember(innerInt, g.value); again != valueInt {
		t.Fatalf("expected substituted member reuse")
	}

	getInt := g.table.SubstitutedMember(boxInt, g.get)
	sig := g.table.MustGet(getInt)
	if sig.Type != g.int32 {
		t.Fatalf("substituted return type: got=%d", sig.Type)
	}
	if len(sig.Params) != 1 {
		t.Fatalf("substituted params: got=%d", len(sig.Params))
	}
	if got, want := g.table.MustGet(sig.Params[0]).Type, g.table.ArrayOf(g.int32, 0); got != want {
		t.Fatalf("substituted param type: got=%d want=%d", got, want)
	}
}

func TestSubstitutedFieldSurvivesArenaGrowth(t *testing.T) {
	g := newBoxGraph(t)
	items := g.table.Declare(Symbol{Kind: KindField, Name: "Items", Container: g.box, Type: g.table.ArrayOf(g.t, 0), Access: AccessPublic})
	boxInt := g.table.Construct(g.box, []SymbolID{g.int32})

	// Leave one free slot: the substituted field takes it and int[] has to grow the arena.
	slots := &g.table.Symbols.slots
	for cap(*slots)-len(*slots) > 1 {
		g.table.Declare(Symbol{Kind: KindNamedType, Namespace: "Pad", Name: "P", Container: g.module})
	}
	before := cap(*slots)

	itemsInt := g.table.SubstitutedMember(boxInt, items)
	if cap(*slots) == before {
		t.Fatalf("arena did not grow during substitution")
	}
	if got, want := g.table.MustGet(itemsInt).Type, g.table.ArrayOf(g.int32, 0); got != want {
		t.Fatalf("Box<int>::Items type: got=%d want=%d", got, want)
	}
}

func TestShapesAreDeduplicated(t *testing.T) {
	g := newBoxGraph(t)
	if g.table.ArrayOf(g.int32, 0) != g.table.ArrayOf(g.int32, 0) {
		t.Fatalf("vector not deduplicated")
	}
	if g.table.ArrayOf(g.int32, 0) == g.table.ArrayOf(g.int32, 2) {
		t.Fatalf("vector and rank-2 array must differ")
	}
	if g.table.PointerTo(g.int32) == g.table.ByRefTo(g.int32) {
		t.Fatalf("pointer and byref must differ")
	}
	fp := g.table.FunctionPointer(g.int32, []SymbolID{g.object})
	if fp != g.table.FunctionPointer(g.int32, []SymbolID{g.object}) {
		t.Fatalf("function pointer not deduplicated")
	}
	if got := len(g.table.MustGet(fp).Params); got != 1 {
		t.Fatalf("function pointer params: got=%d", got)
	}
}

func TestValidateAcceptsWellFormedGraph(t *testing.T) {
	g := newBoxGraph(t)
	closed := g.table.Construct(g.box, []SymbolID{g.int32})
	g.table.SubstitutedMember(g.table.SubstitutedMember(closed, g.inner), g.value)
	if err := g.table.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReportsBrokenSymbols(t *testing.T) {
	g := newBoxGraph(t)
	g.table.Symbols.New(&Symbol{Kind: KindField, Name: "Orphan", Container: g.module})
	g.table.Symbols.New(&Symbol{Kind: KindArrayType})
	g.table.MustGet(g.t).Ordinal = 3

	err := g.table.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	for _, want := range []string{"member must belong to a type", "shape without element type", "ordinal 3 does not match owner"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in:\n%v", want, err)
		}
	}
}
