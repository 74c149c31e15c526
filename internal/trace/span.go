package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// send stamps ev with the next sequence number and the current time.
func send(t Tracer, ev Event) {
	ev.Seq = seqCounter.Add(1)
	ev.Time = time.Now()
	t.Emit(&ev)
}

// Span is an open begin/end pair. A nil or disabled span is inert.
type Span struct {
	tracer Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
}

// Begin opens a span under parent (0 for a root span). It returns an inert
// span when t does not keep scope.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().Keeps(scope) {
		return &Span{}
	}
	s := &Span{tracer: t, id: spanCounter.Add(1), parent: parent, scope: scope, name: name, start: time.Now()}
	send(t, Event{Kind: KindSpanBegin, Scope: scope, Span: s.id, Parent: parent, Name: name})
	return s
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	send(s.tracer, Event{Kind: KindSpanEnd, Scope: s.scope, Span: s.id, Parent: s.parent, Name: s.name, Detail: detail})
	return time.Since(s.start)
}

// ID is 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point records an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Level().Keeps(scope) {
		return
	}
	send(t, Event{Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}

type ctxKey uint8

const (
	tracerKey ctxKey = iota
	spanKey
)

// WithTracer returns ctx carrying t; nil stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// spanFromContext returns the ID of the innermost span opened with
// BeginContext, or 0.
func spanFromContext(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey).(uint64)
	return id
}

// BeginContext opens a span on ctx's tracer under ctx's current span and
// returns a context in which the new span is current.
func BeginContext(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, spanFromContext(ctx))
	if span.ID() == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey, span.ID()), span
}
