package trace

import (
	"context"
	"strconv"
	"time"
)

// Heartbeat emits a liveness event every interval until stopped. A session
// whose heartbeats keep coming while no span ends is stuck.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHeartbeat returns nil when t is disabled or interval is not positive.
// status, when non-nil, is appended to each event's detail.
func StartHeartbeat(t Tracer, interval time.Duration, status func() string) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for n := 1; ; n++ {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
			}
			detail := "#" + strconv.Itoa(n)
			if status != nil {
				detail += " " + status()
			}
			send(t, Event{Kind: KindHeartbeat, Scope: ScopeDriver, Name: "heartbeat", Detail: detail})
		}
	}()
	return h
}

// Stop ends the heartbeat and waits for its goroutine. It is safe on nil
// and when called twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}
