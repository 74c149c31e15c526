package buildpipeline

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Failed returns the units that reported StatusError, sorted.
func (r *Recorder) Failed() []string {
	var units []string
	for _, evt := range r.Events() {
		if evt.Status == StatusError && evt.Unit != "" {
			units = append(units, evt.Unit)
		}
	}
	return NormalizeUnits(units)
}

// Queue announces units as queued for the first stage.
func Queue(sink ProgressSink, stage Stage, units []string) {
	if sink == nil {
		return
	}
	for _, unit := range units {
		sink.OnEvent(Event{Unit: unit, Stage: stage, Status: StatusQueued})
	}
}

// Report sends a pipeline-level event followed by one event per unit.
func Report(sink ProgressSink, units []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, unit := range units {
		sink.OnEvent(Event{Unit: unit, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}

// NormalizeUnits trims, deduplicates and sorts unit names for display.
func NormalizeUnits(units []string) []string {
	if len(units) == 0 {
		return units
	}
	normalized := make([]string, 0, len(units))
	seen := make(map[string]struct{}, len(units))
	for _, unit := range units {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}
		if _, ok := seen[unit]; ok {
			continue
		}
		seen[unit] = struct{}{}
		normalized = append(normalized, unit)
	}
	sort.Strings(normalized)
	return normalized
}
