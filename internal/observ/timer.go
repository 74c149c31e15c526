// Package observ records wall-clock timings of emission stages.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer collects named phases in the order they begin. Workers may begin
// and end phases concurrently.
type Timer struct {
	now func() time.Time

	mu     sync.Mutex
	starts []time.Time
	report Report
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Begin opens a phase and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	start := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.starts = append(t.starts, start)
	t.report.Phases = append(t.report.Phases, PhaseReport{Name: name})
	return len(t.starts) - 1
}

// End closes phase idx with an optional note. A bad handle is a no-op.
func (t *Timer) End(idx int, note string) {
	end := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.starts) {
		return
	}
	p := &t.report.Phases[idx]
	p.DurationMS = millis(end.Sub(t.starts[idx]))
	p.Note = note
}

// Time wraps fn in a phase; a failure becomes the phase note.
func (t *Timer) Time(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	if err != nil {
		t.End(idx, "failed: "+err.Error())
	} else {
		t.End(idx, "")
	}
	return err
}

// PhaseReport is one finished or running phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report copies the phases recorded so far and totals them.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.report.Phases) == 0 {
		return Report{}
	}
	out := Report{Phases: append([]PhaseReport(nil), t.report.Phases...)}
	for _, p := range out.Phases {
		out.TotalMS += p.DurationMS
	}
	return out
}

// Summary renders Report as an aligned table.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			fmt.Fprintf(&b, "  // %s", note)
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return b.String()
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
