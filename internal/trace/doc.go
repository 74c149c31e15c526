// Package trace records what the emitter is doing while it runs.
//
// Tracing answers two questions about an emission session: where the time
// goes (driver stages, per-type translation) and, when a contract fault
// aborts a unit, what the translator touched last.
//
//	ilemit --trace=- --trace-level=detail emit graph.toml
//
// Events carry a Scope. The Level of a tracer is the finest scope it keeps:
// error keeps the driver span only, phase adds the stages, detail adds one
// span per unit and debug adds a point per wrapper the translator creates.
//
// A Ring keeps the tail of the session in memory so the CLI can print it
// after a failure; a Stream writes events as they happen, as text or NDJSON.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.BeginContext(ctx, trace.ScopePass, "bodies")
//	defer span.End("")
package trace
