package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations are safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Level is the finest scope a tracer keeps.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by Level.String, in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("unknown trace level %q (expected %s)", s, strings.Join(levelNames[:], "|"))
}

// Keeps reports whether events of scope pass this level.
func (l Level) Keeps(scope Scope) bool {
	return l > LevelOff && scope > 0 && scope <= Scope(l)
}

// Mode selects where a tracer built by New stores events.
type Mode uint8

const (
	ModeStream Mode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m Mode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name != "" && strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return ModeRing, fmt.Errorf("unknown trace mode %q (expected stream|ring|both)", s)
}

// Config describes the tracer New builds. Output wins over OutputPath;
// an empty path or "-" means stderr.
type Config struct {
	Level      Level
	Mode       Mode
	Output     io.Writer
	OutputPath string
	RingSize   int
}

// New builds the tracer cfg describes. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == ModeRing {
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeBoth {
		return nil, fmt.Errorf("unknown trace mode %d", cfg.Mode)
	}
	w := cfg.Output
	if w == nil {
		if cfg.OutputPath == "" || cfg.OutputPath == "-" {
			w = os.Stderr
		} else {
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("open trace output: %w", err)
			}
			w = f
		}
	}
	stream := NewStreamTracer(w, cfg.Level, formatForPath(cfg.OutputPath))
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop drops everything.
var Nop Tracer = nopTracer{}

// MultiTracer forwards every event to each of its children.
type MultiTracer struct {
	level    Level
	children []Tracer
}

func NewMultiTracer(level Level, children ...Tracer) *MultiTracer {
	m := &MultiTracer{level: level}
	for _, c := range children {
		if c != nil {
			m.children = append(m.children, c)
		}
	}
	return m
}

func (m *MultiTracer) Emit(ev *Event) {
	for _, c := range m.children {
		c.Emit(ev)
	}
}

// Ring returns the first RingTracer child, or nil.
func (m *MultiTracer) Ring() *RingTracer {
	for _, c := range m.children {
		if r, ok := c.(*RingTracer); ok {
			return r
		}
	}
	return nil
}

func (m *MultiTracer) Flush() error { return m.each(Tracer.Flush) }
func (m *MultiTracer) Close() error { return m.each(Tracer.Close) }

func (m *MultiTracer) each(fn func(Tracer) error) error {
	errs := make([]error, 0, len(m.children))
	for _, c := range m.children {
		errs = append(errs, fn(c))
	}
	return errors.Join(errs...)
}

func (m *MultiTracer) Level() Level  { return m.level }
func (m *MultiTracer) Enabled() bool { return m.level > LevelOff }
