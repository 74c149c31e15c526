package emit

import "ilemit/internal/metadata"

// GetOrAssignReferenceToken returns the ordinal of r, keyed by identity.
func (t *Translator) GetOrAssignReferenceToken(r metadata.Reference) uint32 {
	if r == nil {
		metadata.Faultf("GetOrAssignReferenceToken", "nil reference")
	}
	return t.refTokens.GetOrAssign(r)
}

// GetOrAssignStringToken returns the ordinal of text, keyed by value.
func (t *Translator) GetOrAssignStringToken(text string) uint32 {
	return t.strTokens.GetOrAssign(text)
}

func (t *Translator) ResolveReferenceByToken(ord uint32) metadata.Reference {
	r, ok := t.refTokens.Lookup(ord)
	if !ok {
		metadata.Faultf("ResolveReferenceByToken", "ordinal %d out of range [0, %d)", ord, t.refTokens.Len())
	}
	return r
}

func (t *Translator) ResolveStringByToken(ord uint32) string {
	s, ok := t.strTokens.Lookup(ord)
	if !ok {
		metadata.Faultf("ResolveStringByToken", "ordinal %d out of range [0, %d)", ord, t.strTokens.Len())
	}
	return s
}

// ReferenceTokens returns every referenced entity in ordinal order.
func (t *Translator) ReferenceTokens() []metadata.Reference { return t.refTokens.Snapshot() }

// StringTokens returns every string literal in ordinal order.
func (t *Translator) StringTokens() []string { return t.strTokens.Snapshot() }
