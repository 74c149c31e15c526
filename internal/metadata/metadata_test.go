package metadata

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stubMethod satisfies MethodDefinition without implementing any of it.
type stubMethod struct{ MethodDefinition }

// stubRef answers a fixed kind and nothing else.
type stubRef struct {
	Reference
	kind Kind
}

func (r stubRef) Kind() Kind { return r.kind }

func catchFault(t *testing.T, fn func()) *Fault {
	t.Helper()
	var err error
	func() {
		defer Recover(&err)
		fn()
	}()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected fault, got %v", err)
	}
	return f
}

func TestMethodBodyScopesFromFlatBounds(t *testing.T) {
	b := NewMethodBody(stubMethod{}, []byte{0x00, 0x2A}, 8, nil, []uint32{10, 20, 5, 30}, nil)
	want := []LocalScope{{Offset: 10, Length: 20}, {Offset: 5, Length: 30}}
	if diff := cmp.Diff(want, b.LocalScopes()); diff != "" {
		t.Fatalf("scopes (-want +got):\n%s", diff)
	}
	if !b.LocalsAreZeroed() {
		t.Errorf("locals must be zeroed")
	}
	if regions := b.ExceptionRegions(); regions == nil || len(regions) != 0 {
		t.Errorf("exception regions: %#v", regions)
	}
	if b.MaxStack() != 8 {
		t.Errorf("max stack: got %d", b.MaxStack())
	}
}

func TestMethodBodyCopiesInputs(t *testing.T) {
	il := []byte{0x02, 0x2A}
	locals := []LocalVariable{{Name: "tmp", Slot: 0}}
	b := NewMethodBody(stubMethod{}, il, 1, locals, nil, nil)
	il[0] = 0xFF
	locals[0].Name = "changed"
	if b.Instructions()[0] != 0x02 || b.LocalVariables()[0].Name != "tmp" {
		t.Fatalf("body aliases caller slices")
	}
	if len(b.LocalScopes()) != 0 {
		t.Fatalf("expected no scopes")
	}
}

func TestMethodBodyContractFaults(t *testing.T) {
	f := catchFault(t, func() { NewMethodBody(stubMethod{}, nil, 0, nil, []uint32{1, 2, 3}, nil) })
	if f.Op != "NewMethodBody" {
		t.Errorf("op: %q", f.Op)
	}
	catchFault(t, func() { NewMethodBody(nil, nil, 0, nil, nil, nil) })
}

func TestRecoverPassesForeignPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v", r)
		}
	}()
	var err error
	func() {
		defer Recover(&err)
		panic("boom")
	}()
	t.Fatalf("foreign panic was swallowed")
}

func TestIsFaultUnwraps(t *testing.T) {
	err := fmt.Errorf("unit Demo: %w", &Fault{Op: "TranslateType", Msg: "bad"})
	if !IsFault(err) {
		t.Fatalf("wrapped fault not detected")
	}
	if IsFault(ErrNotSupported) {
		t.Fatalf("ErrNotSupported is not a fault")
	}
	if got := (&Fault{Msg: "x"}).Error(); got != "contract fault: x" {
		t.Errorf("Error(): %q", got)
	}
}

func TestExpectChecksTag(t *testing.T) {
	field := stubRef{kind: KindField}
	if got := Expect[Reference](field, KindField); got != field {
		t.Fatalf("Expect returned %v", got)
	}
	f := catchFault(t, func() { Expect[Reference](field, KindMethod) })
	if f.Msg != "reference is field, want method" {
		t.Errorf("message: %q", f.Msg)
	}
	catchFault(t, func() { Expect[FieldReference](field, KindField) })
	catchFault(t, func() { Expect[Reference](nil, KindField) })
}

func TestMangleName(t *testing.T) {
	tests := []struct {
		name  string
		arity int
		want  string
	}{
		{"List", 1, "List`1"},
		{"Dictionary", 2, "Dictionary`2"},
		{"Object", 0, "Object"},
		{"Odd", -1, "Odd"},
	}
	for _, tt := range tests {
		if got := MangleName(tt.name, tt.arity); got != tt.want {
			t.Errorf("MangleName(%q, %d) = %q, want %q", tt.name, tt.arity, got, tt.want)
		}
	}
}

func TestKindClassification(t *testing.T) {
	var types, members []Kind
	for _, k := range Kinds() {
		if k.IsType() {
			types = append(types, k)
		}
		if k.IsTypeMember() {
			members = append(members, k)
		}
		if k.String() == "invalid" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if len(types) != 11 {
		t.Errorf("type kinds: %v", types)
	}
	want := []Kind{KindField, KindSpecializedField, KindMethod, KindSpecializedMethod, KindGenericMethodInstance}
	if diff := cmp.Diff(want, members); diff != "" {
		t.Errorf("member kinds (-want +got):\n%s", diff)
	}
}
