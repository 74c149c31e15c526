package emit

import (
	"testing"

	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// demoGraph is a two-assembly world: Core holds the well-known types in a
// primary module plus one secondary module, Demo is the module being built.
type demoGraph struct {
	table *symbols.Table

	coreAsm, coreMod, extraMod symbols.SymbolID
	object, int32, str         symbols.SymbolID
	isVolatile, helper         symbols.SymbolID

	demoAsm, demoMod symbols.SymbolID

	box, t, inner, value, get, fallback, mapM, u, x symbols.SymbolID
	pair, k                                         symbols.SymbolID

	util, count, id, idU, plain symbols.SymbolID
}

func newDemoGraph(tb testing.TB) *demoGraph {
	tb.Helper()
	g := &demoGraph{table: symbols.NewTable(symbols.Hints{Symbols: 64})}
	tab := g.table
	decl := func(sym symbols.Symbol) symbols.SymbolID { return tab.Declare(sym) }

	g.coreAsm = decl(symbols.Symbol{Kind: symbols.KindAssembly, Name: "Core", Version: "4.0.0.0"})
	g.coreMod = decl(symbols.Symbol{Kind: symbols.KindModule, Name: "Core.dll", Container: g.coreAsm, Flags: symbols.FlagPrimaryModule})
	g.extraMod = decl(symbols.Symbol{Kind: symbols.KindModule, Name: "Core.Extra.netmodule", Container: g.coreAsm})
	g.object = decl(symbols.Symbol{Kind: symbols.KindNamedType, Namespace: "System", Name: "Object", Container: g.coreMod, Access: symbols.AccessPublic, Special: symbols.SpecialObject})
	g.int32 = decl(symbols.Symbol{Kind: symbols.KindNamedType, Namespace: "System", Name: "Int32", Container: g.coreMod, Access: symbols.AccessPublic, TypeKind: symbols.TypeStruct, Special: symbols.SpecialInt32})
	g.str = decl(symbols.Symbol{Kind: symbols.KindNamedType, Namespace: "System", Name: "String", Container: g.coreMod, Access: symbols.AccessPublic, Special: symbols.SpecialString, Flags: symbols.FlagSealed})
	g.isVolatile = decl(symbols.Symbol{Kind: symbols.KindNamedType, Namespace: "System.Runtime.CompilerServices", Name: "IsVolatile", Container: g.coreMod, Access: symbols.AccessPublic})
	g.helper = decl(symbols.Symbol{Kind: symbols.KindNamedType, Namespace: "Extra", Name: "Helper", Container: g.extraMod, Access: symbols.AccessPublic})

	g.demoAsm = decl(symbols.Symbol{Kind: symbols.KindAssembly, Name: "Demo", Version: "1.0.0.0"})
	g.demoMod = decl(symbols.Symbol{Kind: symbols.KindModule, Name: "Demo.dll", Container: g.demoAsm, Flags: symbols.FlagPrimaryModule})

	g.box = decl(symbols.Symbol{Kind: symbols.KindNamedType, Namespace: "Demo", Name: "Box", Container: g.demoMod, Access: symbols.AccessPublic, Base: g.object})
	g.t = decl(symbols.Symbol{Kind: symbols.KindTypeParameter, Name: "T", Container: g.box, Variance: symbols.VarianceNone})
	g.inner = decl(symbols.Symbol{Kind: symbols.KindNamedType, Name: "Inner", Container: g.box, Access: symbols.AccessPublic, Base: g.object})
	g.value = decl(symbols.Symbol{Kind: symbols.KindField, Name: "Value", Container: g.inner, Type: g.t, Access: symbols.AccessPublic})
	g.get = decl(symbols.Symbol{Kind: symbols.KindMethod, Name: "Get", Container: g.box, Type: g.t, Access: symbols.AccessPublic})
	g.fallback = decl(symbols.Symbol{Kind: symbols.KindParameter, Name: "fallback", Container: g.get, Type: tab.ArrayOf(g.t, 0)})
	g.mapM = decl(symbols.Symbol{Kind: symbols.KindMethod, Name: "Map", Container: g.box, Access: symbols.AccessPublic})
	g.u = decl(symbols.Symbol{Kind: symbols.KindTypeParameter, Name: "U", Container: g.mapM})
	tab.MustGet(g.mapM).Type = g.u
	g.x = decl(symbols.Symbol{Kind: symbols.KindParameter, Name: "x", Container: g.mapM, Type: g.t})
	g.pair = decl(symbols.Symbol{Kind: symbols.KindNamedType, Name: "Pair", Container: g.box, Access: symbols.AccessProtected, Base: g.object})
	g.k = decl(symbols.Symbol{Kind: symbols.KindTypeParameter, Name: "K", Container: g.pair, Variance: symbols.VarianceOut})

	g.util = decl(symbols.Symbol{Kind: symbols.KindNamedType, Namespace: "Demo", Name: "Util", Container: g.demoMod, Access: symbols.AccessInternal, Base: g.object, Flags: symbols.FlagAbstract | symbols.FlagSealed})
	g.count = decl(symbols.Symbol{
		Kind: symbols.KindField, Name: "Count", Container: g.util, Type: g.int32,
		Access: symbols.AccessPrivate, Flags: symbols.FlagStatic,
		Modifiers: []symbols.CustomModifier{{Modifier: g.isVolatile}},
	})
	g.id = decl(symbols.Symbol{Kind: symbols.KindMethod, Name: "Id", Container: g.util, Access: symbols.AccessPublic, Flags: symbols.FlagStatic})
	g.idU = decl(symbols.Symbol{Kind: symbols.KindTypeParameter, Name: "U", Container: g.id})
	tab.MustGet(g.id).Type = g.idU
	decl(symbols.Symbol{Kind: symbols.KindParameter, Name: "value", Container: g.id, Type: g.idU})
	g.plain = decl(symbols.Symbol{Kind: symbols.KindMethod, Name: "Plain", Container: g.util, Type: g.int32, Access: symbols.AccessProtectedOrInternal, Flags: symbols.FlagStatic})
	return g
}

func (g *demoGraph) translator() *Translator {
	return NewTranslator(g.table, g.demoMod, Options{})
}

// expectFault runs fn and fails the test unless it raises a contract fault.
func expectFault(tb testing.TB, fn func()) *metadata.Fault {
	tb.Helper()
	var err error
	func() {
		defer metadata.Recover(&err)
		fn()
	}()
	if err == nil {
		tb.Fatalf("expected contract fault, got none")
	}
	f, ok := err.(*metadata.Fault)
	if !ok {
		tb.Fatalf("expected *metadata.Fault, got %T", err)
	}
	return f
}
