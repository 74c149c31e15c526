package mdump

import (
	"strconv"
	"strings"

	"ilemit/internal/metadata"
)

// Name renders any reference in an ILASM-like notation. Type and method
// parameters print by position as !N and !!N.
func Name(r metadata.Reference) string {
	if r == nil {
		return "<nil>"
	}
	n := &namer{}
	r.Dispatch(n)
	return n.b.String()
}

// namer is a Visitor that appends the name of every reference it visits.
type namer struct {
	b strings.Builder
}

var _ metadata.Visitor = (*namer)(nil)

func (n *namer) ref(r metadata.Reference) {
	if r == nil {
		n.b.WriteString("<nil>")
		return
	}
	r.Dispatch(n)
}

func (n *namer) list(refs []metadata.TypeReference) {
	for i, r := range refs {
		if i > 0 {
			n.b.WriteByte(',')
		}
		n.ref(r)
	}
}

func (n *namer) unit(u metadata.UnitReference) {
	// Types of the module being built carry no scope prefix.
	if u == nil || u.AsDefinition() != nil {
		return
	}
	n.b.WriteByte('[')
	n.b.WriteString(u.Name())
	n.b.WriteByte(']')
}

func (n *namer) VisitAssemblyReference(r metadata.AssemblyReference) {
	n.b.WriteString("[" + r.Name() + "]")
}

func (n *namer) VisitModuleReference(r metadata.ModuleReference) {
	n.b.WriteString("[.module " + r.Name() + "]")
}

func (n *namer) VisitModuleDefinition(r metadata.ModuleDefinition) {
	n.b.WriteString("[.module " + r.Name() + "]")
}

func (n *namer) VisitNamespaceTypeReference(r metadata.NamespaceTypeReference) {
	n.unit(r.Unit())
	if ns := r.NamespaceName(); ns != "" {
		n.b.WriteString(ns)
		n.b.WriteByte('.')
	}
	n.b.WriteString(r.MangledName())
}

func (n *namer) VisitNamespaceTypeDefinition(r metadata.NamespaceTypeDefinition) {
	n.VisitNamespaceTypeReference(r)
}

func (n *namer) VisitNestedTypeReference(r metadata.NestedTypeReference) {
	n.ref(r.ContainingType())
	n.b.WriteByte('/')
	n.b.WriteString(r.MangledName())
}

func (n *namer) VisitNestedTypeDefinition(r metadata.NestedTypeDefinition) {
	n.VisitNestedTypeReference(r)
}

func (n *namer) VisitSpecializedNestedTypeReference(r metadata.SpecializedNestedTypeReference) {
	n.VisitNestedTypeReference(r)
}

func (n *namer) VisitGenericTypeInstanceReference(r metadata.GenericTypeInstanceReference) {
	n.ref(r.GenericType())
	n.b.WriteByte('<')
	n.list(r.GenericArguments())
	n.b.WriteByte('>')
}

func (n *namer) VisitGenericTypeParameterReference(r metadata.GenericTypeParameterReference) {
	n.b.WriteString("!" + strconv.Itoa(r.Index()))
}

func (n *namer) VisitGenericMethodParameterReference(r metadata.GenericMethodParameterReference) {
	n.b.WriteString("!!" + strconv.Itoa(r.Index()))
}

func (n *namer) VisitGenericParameterDefinition(r metadata.GenericParameterDefinition) {
	if r.Kind() == metadata.KindGenericMethodParameter {
		n.b.WriteString("!!")
	} else {
		n.b.WriteString("!")
	}
	n.b.WriteString(strconv.Itoa(r.Index()))
}

func (n *namer) VisitArrayTypeReference(r metadata.ArrayTypeReference) {
	n.ref(r.ElementType())
	if r.IsSZArray() {
		n.b.WriteString("[]")
		return
	}
	n.b.WriteByte('[')
	n.b.WriteString(strings.Repeat(",", r.Rank()-1))
	n.b.WriteByte(']')
}

func (n *namer) VisitPointerTypeReference(r metadata.PointerTypeReference) {
	n.ref(r.TargetType())
	n.b.WriteByte('*')
}

func (n *namer) VisitManagedPointerTypeReference(r metadata.ManagedPointerTypeReference) {
	n.ref(r.TargetType())
	n.b.WriteByte('&')
}

func (n *namer) VisitFunctionPointerTypeReference(r metadata.FunctionPointerTypeReference) {
	n.b.WriteString("method ")
	n.ref(r.ReturnType())
	n.b.WriteString(" *(")
	n.params(r.Parameters())
	n.b.WriteByte(')')
}

func (n *namer) VisitModifiedTypeReference(r metadata.ModifiedTypeReference) {
	n.ref(r.UnmodifiedType())
	for _, m := range r.CustomModifiers() {
		if m.IsOptional {
			n.b.WriteString(" modopt(")
		} else {
			n.b.WriteString(" modreq(")
		}
		n.ref(m.Modifier)
		n.b.WriteByte(')')
	}
}

func (n *namer) member(r metadata.TypeMemberReference) {
	n.ref(r.ContainingType())
	n.b.WriteString("::")
	n.b.WriteString(r.Name())
}

func (n *namer) VisitFieldReference(r metadata.FieldReference)   { n.member(r) }
func (n *namer) VisitFieldDefinition(r metadata.FieldDefinition) { n.member(r) }
func (n *namer) VisitSpecializedFieldReference(r metadata.SpecializedFieldReference) {
	n.member(r)
}

func (n *namer) VisitMethodReference(r metadata.MethodReference)   { n.member(r) }
func (n *namer) VisitMethodDefinition(r metadata.MethodDefinition) { n.member(r) }
func (n *namer) VisitSpecializedMethodReference(r metadata.SpecializedMethodReference) {
	n.member(r)
}

func (n *namer) VisitGenericMethodInstanceReference(r metadata.GenericMethodInstanceReference) {
	n.member(r)
	n.b.WriteByte('<')
	n.list(r.GenericArguments())
	n.b.WriteByte('>')
}

func (n *namer) params(ps []metadata.ParameterTypeInformation) {
	for i, p := range ps {
		if i > 0 {
			n.b.WriteByte(',')
		}
		n.ref(p)
	}
}

func (n *namer) VisitParameterTypeInformation(r metadata.ParameterTypeInformation) {
	n.ref(r.Type())
	if r.IsByRef() {
		n.b.WriteByte('&')
	}
}

func (n *namer) VisitParameterDefinition(r metadata.ParameterDefinition) {
	n.VisitParameterTypeInformation(r)
}
