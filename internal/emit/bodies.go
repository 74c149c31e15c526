package emit

import (
	"ilemit/internal/metadata"
	"ilemit/internal/symbols"
)

// SetMethodBody attaches the body of a method declared in this module. A
// method accepts exactly one body; a second attempt faults even when both
// race.
func (t *Translator) SetMethodBody(method symbols.SymbolID, body *metadata.MethodBody) {
	const op = "SetMethodBody"
	if body == nil {
		metadata.Faultf(op, "nil body for method %d", method)
	}
	sym := t.symbol(op, method)
	if sym.Kind != symbols.KindMethod {
		metadata.Faultf(op, "%s %q is not a method", sym.Kind, sym.Name)
	}
	t.requireDeclaration(op, method)
	if owner := body.MethodDefinition(); owner != t.MethodDefinition(method) {
		metadata.Faultf(op, "body of %q was built for a different method", sym.Name)
	}
	if _, loaded := t.bodies.LoadOrStore(method, body); loaded {
		metadata.Faultf(op, "method %q already has a body", sym.Name)
	}
	t.bodyCount.Add(1)
}

// GetMethodBody returns the attached body, or nil when none was set.
func (t *Translator) GetMethodBody(method symbols.SymbolID) *metadata.MethodBody {
	v, ok := t.bodies.Load(method)
	if !ok {
		return nil
	}
	return v.(*metadata.MethodBody)
}
