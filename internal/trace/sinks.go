package trace

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// RingTracer keeps the most recent events in a fixed-size buffer.
type RingTracer struct {
	level Level

	mu     sync.Mutex
	buf    []Event
	next   int
	filled bool
}

// NewRingTracer keeps up to size events; size <= 0 means 4096.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = 4096
	}
	return &RingTracer{level: level, buf: make([]Event, size)}
}

func (r *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !r.level.Keeps(ev.Scope) {
		return
	}
	r.mu.Lock()
	r.buf[r.next] = *ev
	r.next++
	if r.next == len(r.buf) {
		r.next, r.filled = 0, true
	}
	r.mu.Unlock()
}

// Len is the number of events held.
func (r *RingTracer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.filled {
		return len(r.buf)
	}
	return r.next
}

// Events returns the held events, oldest first.
func (r *RingTracer) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.filled {
		return append([]Event(nil), r.buf[:r.next]...)
	}
	out := append([]Event(nil), r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Dump writes the held events to w, oldest first.
func (r *RingTracer) Dump(w io.Writer, f Format) error {
	var line []byte
	for _, ev := range r.Events() {
		line = ev.AppendFormat(line[:0], f)
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func (r *RingTracer) Flush() error  { return nil }
func (r *RingTracer) Close() error  { return nil }
func (r *RingTracer) Level() Level  { return r.level }
func (r *RingTracer) Enabled() bool { return r.level > LevelOff }

// StreamTracer encodes events to a buffered writer as they arrive. Write
// errors are dropped so a broken trace sink never fails emission.
type StreamTracer struct {
	level  Level
	format Format
	dst    io.Writer

	mu  sync.Mutex
	w   *bufio.Writer
	buf []byte
}

func NewStreamTracer(w io.Writer, level Level, f Format) *StreamTracer {
	return &StreamTracer{level: level, format: f, dst: w, w: bufio.NewWriter(w)}
}

func (s *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !s.level.Keeps(ev.Scope) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = ev.AppendFormat(s.buf[:0], s.format)
	_, _ = s.w.Write(s.buf)
	if ev.Kind == KindHeartbeat {
		_ = s.w.Flush()
	}
}

func (s *StreamTracer) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Close flushes and closes the destination unless it is stdout or stderr.
func (s *StreamTracer) Close() error {
	err := s.Flush()
	if c, ok := s.dst.(io.Closer); ok && s.dst != os.Stderr && s.dst != os.Stdout {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *StreamTracer) Level() Level  { return s.level }
func (s *StreamTracer) Enabled() bool { return s.level > LevelOff }
