package testkit

import (
	"strings"
	"testing"

	"ilemit/internal/metadata"
)

// liar claims to be a field but visits as a method.
type liar struct{}

func (liar) Kind() metadata.Kind               { return metadata.KindField }
func (liar) Dispatch(v metadata.Visitor)       { v.VisitMethodReference(nil) }
func (liar) AsDefinition() metadata.Definition { return nil }

// silent never calls the visitor.
type silent struct{}

func (silent) Kind() metadata.Kind               { return metadata.KindArrayType }
func (silent) Dispatch(metadata.Visitor)         {}
func (silent) AsDefinition() metadata.Definition { return nil }

func TestCheckReferenceInvariantsReportsMismatches(t *testing.T) {
	err := CheckReferenceInvariants([]metadata.Reference{liar{}, silent{}, nil})
	if err == nil {
		t.Fatalf("expected errors")
	}
	for _, want := range []string{
		"reference 0 (field): dispatch visited method",
		"reference 1 (array): dispatch made 0 visitor calls",
		"reference 2 is nil",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("missing %q in:\n%v", want, err)
		}
	}
}

func TestCheckReferenceInvariantsEmpty(t *testing.T) {
	if err := CheckReferenceInvariants(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
