package emit

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ilemit/internal/metadata"
)

func TestReferenceTokensFollowFirstSighting(t *testing.T) {
	g := newDemoGraph(t)
	tr := g.translator()
	object := tr.TranslateType(g.object, false)
	value := tr.TranslateField(g.value, false)
	get := tr.TranslateMethod(g.get, false)

	got := []uint32{
		tr.GetOrAssignReferenceToken(object),
		tr.GetOrAssignReferenceToken(value),
		tr.GetOrAssignReferenceToken(object),
		tr.GetOrAssignReferenceToken(get),
		tr.GetOrAssignReferenceToken(tr.TranslateField(g.value, false)),
	}
	if diff := cmp.Diff([]uint32{0, 1, 0, 2, 1}, got); diff != "" {
		t.Fatalf("ordinals (-want +got):\n%s", diff)
	}
	for _, r := range []metadata.Reference{object, value, get} {
		if back := tr.ResolveReferenceByToken(tr.GetOrAssignReferenceToken(r)); back != r {
			t.Fatalf("round trip returned %v, want %v", back, r)
		}
	}
	if refs := tr.ReferenceTokens(); len(refs) != 3 || refs[2] != get {
		t.Fatalf("snapshot: %v", refs)
	}
}

func TestModifiedTypesGetDistinctTokens(t *testing.T) {
	g := newDemoGraph(t)
	tr := g.translator()
	count := tr.TranslateField(g.count, false)
	first := tr.GetOrAssignReferenceToken(count.Type())
	second := tr.GetOrAssignReferenceToken(count.Type())
	if first == second {
		t.Fatalf("fresh modified types must not share a token")
	}
}

func TestStringTokensUseValueEquality(t *testing.T) {
	g := newDemoGraph(t)
	tr := g.translator()
	built := strings.Repeat("ab", 2)

	a := tr.GetOrAssignStringToken("abab")
	b := tr.GetOrAssignStringToken(built)
	c := tr.GetOrAssignStringToken("")
	if a != b {
		t.Fatalf("equal strings got ordinals %d and %d", a, b)
	}
	if c != 1 {
		t.Fatalf("empty string ordinal: got %d want 1", c)
	}
	if tr.ResolveStringByToken(b) != "abab" {
		t.Fatalf("round trip failed")
	}
	if diff := cmp.Diff([]string{"abab", ""}, tr.StringTokens()); diff != "" {
		t.Fatalf("strings (-want +got):\n%s", diff)
	}
}

func TestResolveOutOfRangeFaults(t *testing.T) {
	g := newDemoGraph(t)
	tr := g.translator()
	tr.GetOrAssignStringToken("x")
	expectFault(t, func() { tr.ResolveStringByToken(1) })
	expectFault(t, func() { tr.ResolveReferenceByToken(0) })
	expectFault(t, func() { tr.GetOrAssignReferenceToken(nil) })
}
