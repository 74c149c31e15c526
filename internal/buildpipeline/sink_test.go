package buildpipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeUnits(t *testing.T) {
	got := NormalizeUnits([]string{"Demo.Util", " Demo.Box`1 ", "", "Demo.Util", "Demo.Box`1/Inner"})
	want := []string{"Demo.Box`1", "Demo.Box`1/Inner", "Demo.Util"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("units (-want +got):\n%s", diff)
	}
}

func TestReportFansOutToUnits(t *testing.T) {
	var rec Recorder
	Queue(&rec, StageTranslate, []string{"A", "B"})
	boom := errors.New("boom")
	Report(&rec, []string{"B"}, StageBodies, StatusError, boom, time.Millisecond)

	events := rec.Events()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Status != StatusQueued || events[0].Unit != "A" {
		t.Fatalf("first event: %+v", events[0])
	}
	if events[2].Unit != "" || events[2].Stage != StageBodies {
		t.Fatalf("pipeline event: %+v", events[2])
	}
	if diff := cmp.Diff([]string{"B"}, rec.Failed()); diff != "" {
		t.Fatalf("failed (-want +got):\n%s", diff)
	}
}

func TestChannelSinkIgnoresNilChannel(t *testing.T) {
	ChannelSink{}.OnEvent(Event{Stage: StageLoad})
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Stage: StageLoad, Status: StatusDone})
	if evt := <-ch; evt.Status != StatusDone {
		t.Fatalf("got %+v", evt)
	}
}

func TestTimingsSum(t *testing.T) {
	var tm Timings
	if tm.Has(StageLoad) {
		t.Fatalf("empty timings report a stage")
	}
	tm.Set(StageLoad, 2*time.Millisecond)
	tm.Set(StageBodies, 3*time.Millisecond)
	if got := tm.Sum(Stages()...); got != 5*time.Millisecond {
		t.Fatalf("sum: got %v", got)
	}
	if tm.Duration(StageWrite) != 0 {
		t.Fatalf("unset stage must be zero")
	}
	tm.Set(Stage("link"), time.Second)
	if tm.Has(Stage("link")) || tm.Sum(Stages()...) != 5*time.Millisecond {
		t.Fatalf("unknown stage must be ignored")
	}
}
