package mdump_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ilemit/internal/driver"
	"ilemit/internal/fixture"
	"ilemit/internal/mdump"
)

func emitDemo(t *testing.T) *driver.Result {
	t.Helper()
	g, err := fixture.LoadFile("../fixture/testdata/demo.toml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	res, err := driver.Emit(context.Background(), g, driver.Options{Jobs: 1})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return res
}

func section(dump, header string) []string {
	var out []string
	in := false
	for _, line := range strings.Split(dump, "\n") {
		switch {
		case strings.HasPrefix(line, header):
			in = true
		case in && line != "" && !strings.HasPrefix(line, " "):
			return out
		}
		if in && line != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestDumpBoxWithBodies(t *testing.T) {
	res := emitDemo(t)
	dump := mdump.String(res.Module, mdump.Options{Bodies: true})

	if !strings.HasPrefix(dump, "module Demo.dll assembly Demo 1.0.0.0\n") {
		t.Fatalf("header:\n%s", dump)
	}
	want := []string{
		"type public Demo.Box`1 (public=true)",
		"  extends [Core]System.Object",
		"  generic T !0",
		"  method public Get(!0[] fallback): !0",
		"    body maxstack=2 zeroinit=true regions=0",
		"      il 0E 01 20 00 00 00 00 26 2A",
		"      local 0 tmp: !0",
		"      scope IL_0000+4",
		"      seq IL_0000 box.src 3:5-3:20",
		"  method public Map`1(!0 x): !!0",
		"    generic U !!0",
	}
	if diff := cmp.Diff(want, section(dump, "type public Demo.Box`1 ")); diff != "" {
		t.Fatalf("Box section (-want +got):\n%s", diff)
	}
}

func TestDumpUtilSignatures(t *testing.T) {
	res := emitDemo(t)
	dump := mdump.String(res.Module, mdump.Options{})

	lines := section(dump, "type assembly Demo.Util")
	if len(lines) == 0 {
		t.Fatalf("no Util section:\n%s", dump)
	}
	for _, want := range []string{
		"type assembly Demo.Util abstract sealed (public=false)",
		"  field private Count: [Core]System.Int32 modreq([Core]System.Runtime.CompilerServices.IsVolatile) static",
		"  method famorassem Plain(): [Core]System.Int32 static",
	} {
		if !containsLine(lines, want) {
			t.Fatalf("missing %q in:\n%s", want, strings.Join(lines, "\n"))
		}
	}
	if strings.Contains(dump, "body maxstack") {
		t.Fatalf("bodies printed without Options.Bodies")
	}
}

func TestDumpNestedTypes(t *testing.T) {
	res := emitDemo(t)
	dump := mdump.String(res.Module, mdump.Options{})
	want := []string{
		"type public Demo.Box`1/Inner (nested)",
		"  extends [Core]System.Object",
		"  field public Value: !0",
	}
	if diff := cmp.Diff(want, section(dump, "type public Demo.Box`1/Inner ")); diff != "" {
		t.Fatalf("Inner section (-want +got):\n%s", diff)
	}
	if !strings.Contains(dump, "generic +K !1") {
		t.Fatalf("covariant parameter missing:\n%s", dump)
	}
}

func TestDumpTokens(t *testing.T) {
	res := emitDemo(t)
	dump := mdump.String(res.Module, mdump.Options{Tokens: res.Module})
	lines := section(dump, "tokens")
	if len(lines) != 6 {
		t.Fatalf("token section:\n%s", strings.Join(lines, "\n"))
	}
	if lines[1] != "  ref 0 field Demo.Util::Count" {
		t.Fatalf("first ref: %q", lines[1])
	}
	if lines[5] != `  str 0 "plain"` {
		t.Fatalf("string row: %q", lines[5])
	}
}

func TestNameOfTokenOperands(t *testing.T) {
	res := emitDemo(t)
	got := make([]string, len(res.References))
	for i, r := range res.References {
		got[i] = mdump.Name(r)
	}
	want := []string{
		"Demo.Util::Count",
		"Demo.Box`1<[Core]System.Int32>/Inner::Value",
		"Demo.Util::Id<[Core]System.String>",
		"Demo.Box`1<[Core]System.String>::Map<[Core]System.Int32>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
}

func TestDumpNilModule(t *testing.T) {
	var b strings.Builder
	if err := mdump.Dump(&b, nil, mdump.Options{}); err == nil {
		t.Fatalf("expected an error")
	}
	if mdump.Name(nil) != "<nil>" {
		t.Fatalf("nil name")
	}
}

func containsLine(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}
