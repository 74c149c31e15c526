package trace

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindHeartbeat: "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; coarser scopes have lower values.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one emit session
	ScopePass                    // load, translate, bodies, tokens, write
	ScopeUnit                    // one type definition
	ScopeNode                    // one translated symbol
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeUnit: "unit", ScopeNode: "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Span and Parent are zero for points.
type Event struct {
	Seq    uint64
	Time   time.Time
	Kind   Kind
	Scope  Scope
	Span   uint64
	Parent uint64
	Name   string
	Detail string
}

// Format selects the encoding of events written by a Stream or a dump.
type Format uint8

const (
	FormatText Format = iota
	FormatNDJSON
)

// formatForPath picks NDJSON for .ndjson and .jsonl outputs.
func formatForPath(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// AppendFormat appends the encoded event, newline included, to buf.
func (e *Event) AppendFormat(buf []byte, f Format) []byte {
	if f == FormatNDJSON {
		return e.appendJSON(buf)
	}
	return e.appendText(buf)
}

// appendText renders "[seq] scope-indent marker name (detail)".
func (e *Event) appendText(buf []byte) []byte {
	buf = append(buf, '[')
	seq := strconv.FormatUint(e.Seq, 10)
	for i := len(seq); i < 6; i++ {
		buf = append(buf, ' ')
	}
	buf = append(buf, seq...)
	buf = append(buf, "] "...)
	if e.Scope > ScopePass {
		buf = append(buf, strings.Repeat("  ", int(e.Scope-ScopePass))...)
	}
	switch e.Kind {
	case KindSpanBegin:
		buf = append(buf, "> "...)
	case KindSpanEnd:
		buf = append(buf, "< "...)
	case KindHeartbeat:
		buf = append(buf, "~ "...)
	default:
		buf = append(buf, "* "...)
	}
	buf = append(buf, e.Name...)
	if e.Detail != "" {
		buf = append(buf, " ("...)
		buf = append(buf, e.Detail...)
		buf = append(buf, ')')
	}
	return append(buf, '\n')
}

type jsonEvent struct {
	Seq    uint64 `json:"seq"`
	Time   string `json:"time"`
	Kind   string `json:"kind"`
	Scope  string `json:"scope"`
	Span   uint64 `json:"span,omitempty"`
	Parent uint64 `json:"parent,omitempty"`
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
}

func (e *Event) appendJSON(buf []byte) []byte {
	data, err := json.Marshal(jsonEvent{
		Seq:    e.Seq,
		Time:   e.Time.UTC().Format(time.RFC3339Nano),
		Kind:   e.Kind.String(),
		Scope:  e.Scope.String(),
		Span:   e.Span,
		Parent: e.Parent,
		Name:   e.Name,
		Detail: e.Detail,
	})
	if err != nil {
		return buf
	}
	buf = append(buf, data...)
	return append(buf, '\n')
}
