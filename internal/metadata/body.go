package metadata

// LocalVariable describes one local slot of a method body.
type LocalVariable struct {
	Name     string
	Slot     int
	Type     TypeReference
	IsPinned bool
	IsByRef  bool
}

// LocalScope is an IL range in which a set of locals is visible.
type LocalScope struct {
	Offset uint32
	Length uint32
}

// SequencePoint maps an IL offset to a source range.
type SequencePoint struct {
	Offset      uint32
	Document    string
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
}

// ExceptionRegion is a protected IL range. Bodies produced here never carry
// regions; the type exists so the writer sees an empty sequence.
type ExceptionRegion struct {
	TryOffset     uint32
	TryLength     uint32
	HandlerOffset uint32
	HandlerLength uint32
	CatchType     TypeReference
}

// MethodBody is the immutable result of code generation for one method.
type MethodBody struct {
	method    MethodDefinition
	il        []byte
	maxStack  uint16
	locals    []LocalVariable
	scopes    []LocalScope
	seqPoints []SequencePoint
}

// NewMethodBody builds a body. scopeBounds is a flat [offset0, length0,
// offset1, length1, ...] array; an odd length is a contract fault.
func NewMethodBody(method MethodDefinition, il []byte, maxStack uint16, locals []LocalVariable, scopeBounds []uint32, seqPoints []SequencePoint) *MethodBody {
	if method == nil {
		Faultf("NewMethodBody", "nil method")
	}
	if len(scopeBounds)%2 != 0 {
		Faultf("NewMethodBody", "local scope bounds must come in pairs, got %d values", len(scopeBounds))
	}
	scopes := make([]LocalScope, 0, len(scopeBounds)/2)
	for i := 0; i < len(scopeBounds); i += 2 {
		scopes = append(scopes, LocalScope{Offset: scopeBounds[i], Length: scopeBounds[i+1]})
	}
	return &MethodBody{
		method:    method,
		il:        append([]byte(nil), il...),
		maxStack:  maxStack,
		locals:    append([]LocalVariable(nil), locals...),
		scopes:    scopes,
		seqPoints: append([]SequencePoint(nil), seqPoints...),
	}
}

// MethodDefinition returns the owning method.
func (b *MethodBody) MethodDefinition() MethodDefinition { return b.method }

// Instructions returns the encoded IL. The slice must not be modified.
func (b *MethodBody) Instructions() []byte { return b.il }

func (b *MethodBody) MaxStack() uint16 { return b.maxStack }

// LocalVariables returns locals in declaration order.
func (b *MethodBody) LocalVariables() []LocalVariable { return b.locals }

func (b *MethodBody) LocalScopes() []LocalScope { return b.scopes }

func (b *MethodBody) SequencePoints() []SequencePoint { return b.seqPoints }

// LocalsAreZeroed is always true: locals are zero-initialized at this tier.
func (b *MethodBody) LocalsAreZeroed() bool { return true }

// ExceptionRegions is always empty and never nil.
func (b *MethodBody) ExceptionRegions() []ExceptionRegion { return []ExceptionRegion{} }
