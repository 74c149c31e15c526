package ui

import (
	"errors"
	"strings"
	"testing"

	"ilemit/internal/buildpipeline"
)

func TestApplyEventTracksUnits(t *testing.T) {
	m := NewProgressModel("emit", []string{"Demo.Util", "Demo.Box`1"}, nil).(*progressModel)
	if m.rows[0].name != "Demo.Box`1" {
		t.Fatalf("units must be sorted, got %q first", m.rows[0].name)
	}

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageBodies, Status: buildpipeline.StatusWorking})
	if m.stage != "encoding" {
		t.Fatalf("stage label: got %q", m.stage)
	}
	m.applyEvent(buildpipeline.Event{Unit: "Demo.Util", Stage: buildpipeline.StageTranslate, Status: buildpipeline.StatusDone})
	if got := m.fraction(); got != 0.25 {
		t.Fatalf("percent: got %v want 0.25", got)
	}

	boom := errors.New("token ordinal overflow")
	m.applyEvent(buildpipeline.Event{Unit: "Demo.Box`1", Stage: buildpipeline.StageBodies, Status: buildpipeline.StatusError, Err: boom})
	m.applyEvent(buildpipeline.Event{Unit: "Demo.Box`1", Stage: buildpipeline.StageBodies, Status: buildpipeline.StatusDone})
	if m.rows[0].label != "error" || m.failures != 1 {
		t.Fatalf("error status must stick: %+v failures=%d", m.rows[0], m.failures)
	}
	m.applyEvent(buildpipeline.Event{Unit: "unknown", Stage: buildpipeline.StageBodies, Status: buildpipeline.StatusDone})
	if len(m.rows) != 2 {
		t.Fatalf("a done event must not add units, got %d", len(m.rows))
	}

	m.done = true
	view := m.View()
	for _, want := range []string{"done: emit, 2 units", "1 failed", "token ordinal overflow", "translated"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Demo.Box`1/Inner", 8); got != "Demo...." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("short", 20); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("got %q", got)
	}
}

func TestQueuedEventsAddUnits(t *testing.T) {
	m := NewProgressModel("emit", nil, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{Unit: "Demo.Util", Stage: buildpipeline.StageTranslate, Status: buildpipeline.StatusQueued})
	m.applyEvent(buildpipeline.Event{Unit: "Demo.Util", Stage: buildpipeline.StageTranslate, Status: buildpipeline.StatusWorking})
	if len(m.rows) != 1 || m.rows[0].label != "translating" {
		t.Fatalf("items: %+v", m.rows)
	}
}

func TestUnitWeight(t *testing.T) {
	cases := []struct {
		stage buildpipeline.Stage
		state buildpipeline.Status
		want  float64
	}{
		{"", "", 0},
		{buildpipeline.StageTranslate, buildpipeline.StatusQueued, 0.25},
		{buildpipeline.StageTranslate, buildpipeline.StatusDone, 0.5},
		{buildpipeline.StageBodies, buildpipeline.StatusWorking, 0.75},
		{buildpipeline.StageBodies, buildpipeline.StatusDone, 1},
		{buildpipeline.StageTranslate, buildpipeline.StatusError, 1},
		{buildpipeline.StageWrite, buildpipeline.StatusDone, 0},
	}
	for _, tc := range cases {
		if got := unitWeight(tc.stage, tc.state); got != tc.want {
			t.Errorf("unitWeight(%q, %q) = %v, want %v", tc.stage, tc.state, got, tc.want)
		}
	}
}
