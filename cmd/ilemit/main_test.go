package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"ilemit/internal/buildpipeline"
	"ilemit/internal/driver"
	"ilemit/internal/fixture"
	"ilemit/internal/project"
	"ilemit/internal/trace"
)

const demoFixture = "../../internal/fixture/testdata/demo.toml"

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color=off"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input   string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, %v", tc.input, got, err)
		}
	}
	if shouldUseTUI(uiModeOff) || !shouldUseTUI(uiModeOn) {
		t.Fatalf("explicit modes must win over terminal detection")
	}
}

func TestApplyManifest(t *testing.T) {
	m := project.Manifest{Jobs: 3, Snapshot: "/tmp/tokens.mp"}

	opts := emitOptions{jobs: 0}
	applyManifest(&opts, m, false, false)
	if opts.jobs != 3 || opts.snapshot != "/tmp/tokens.mp" {
		t.Fatalf("manifest values not applied: %+v", opts)
	}

	opts = emitOptions{jobs: 1, snapshot: "mine.mp"}
	applyManifest(&opts, m, true, true)
	if opts.jobs != 1 || opts.snapshot != "mine.mp" {
		t.Fatalf("explicit flags must win: %+v", opts)
	}
}

func TestEmitAndTokensCommands(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "tokens.mp")
	out, _, err := execute(t, "emit", demoFixture, "--ui=off", "--dump", "--jobs=1", "--snapshot", snap)
	if err != nil {
		t.Fatalf("emit: %v\n%s", err, out)
	}
	for _, want := range []string{
		"module Demo.dll assembly Demo 1.0.0.0\n",
		"emitted Demo.dll: 4 units, 3 bodies, 4 references, 1 strings\n",
		"  ref 0 field Demo.Util::Count\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("emit output missing %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, "tokens", snap)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	digest, err := project.HashFile(demoFixture)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	for _, want := range []string{
		"module Demo.dll assembly Demo\n",
		"fixture " + digest.String() + "\n",
		"0x0A000000 field Demo.Util::Count\n",
		"0x70000000 string \"plain\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("tokens output missing %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, "tokens", "--format=json", snap)
	if err != nil {
		t.Fatalf("tokens json: %v", err)
	}
	var payload tokensPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("json: %v\n%s", err, out)
	}
	if payload.Fixture != digest.String() || len(payload.References) != 4 {
		t.Fatalf("payload: %+v", payload)
	}
}

func TestEmitTimings(t *testing.T) {
	out, _, err := execute(t, "--timings", "emit", demoFixture, "--ui=off")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	for _, want := range []string{"load ", "translate ", "bodies ", "tokens ", "write ", "total "} {
		if !strings.Contains(out, want) {
			t.Fatalf("timings missing %q:\n%s", want, out)
		}
	}
}

func TestEmitUsesManifest(t *testing.T) {
	fixture, err := filepath.Abs(demoFixture)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	manifest := "[emit]\nfixture = " + strconv.Quote(fixture) + "\nsnapshot = \"out/tokens.mp\"\njobs = 2\n"
	if err := os.WriteFile(filepath.Join(dir, project.ManifestName), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if _, _, err := execute(t, "emit", "--ui=off"); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "tokens.mp")); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
}

func TestEmitWithoutFixture(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, ok, _ := project.FindManifest("."); ok {
		t.Skip("an ilemit.toml exists above the temp dir")
	}
	_, _, err := execute(t, "emit", "--ui=off")
	if err == nil || !strings.Contains(err.Error(), "no fixture given") {
		t.Fatalf("got %v", err)
	}
}

func TestEmitRejectsBadFlags(t *testing.T) {
	if _, _, err := execute(t, "emit", demoFixture, "--ui=maybe"); err == nil {
		t.Fatalf("expected --ui error")
	}
	if _, _, err := execute(t, "emit", demoFixture, "--ui=off", "--jobs=-2"); err == nil {
		t.Fatalf("expected --jobs error")
	}
	root := newRootCmd()
	root.SetArgs([]string{"--color=purple", "version"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "--color") {
		t.Fatalf("expected --color error, got %v", err)
	}
}

func TestPrintStageTimings(t *testing.T) {
	var tm buildpipeline.Timings
	tm.Set(buildpipeline.StageTranslate, 1500*time.Microsecond)
	tm.Set(buildpipeline.StageBodies, 500*time.Microsecond)
	var b bytes.Buffer
	printStageTimings(&b, tm)
	want := "translate 1.5 ms\nbodies 0.5 ms\ntotal 2.0 ms\n"
	if b.String() != want {
		t.Fatalf("got %q want %q", b.String(), want)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--format=json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("json: %v", err)
	}
	if payload.Tool != "ilemit" || payload.GitCommit == "" || payload.BuildDate == "" {
		t.Fatalf("payload: %+v", payload)
	}
	if _, _, err := execute(t, "version", "--format=xml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestDumpRing(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	trace.Point(ring, trace.ScopePass, "bodies", "boom")
	var b bytes.Buffer
	dumpRing(&b, ring)
	if !strings.Contains(b.String(), "last 1 trace events") {
		t.Fatalf("got %q", b.String())
	}
	b.Reset()
	dumpRing(&b, trace.Nop)
	if b.Len() != 0 {
		t.Fatalf("nop tracer dumped %q", b.String())
	}
}

func TestEmitWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	_, _, err := execute(t, "--cpu-profile", cpu, "--mem-profile", mem, "emit", demoFixture, "--ui=off")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	for _, path := range []string{cpu, mem} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("profile %s: %v", path, err)
		}
	}
}

func TestEmitFinishesWhenViewFails(t *testing.T) {
	graph, err := fixture.LoadFile(demoFixture)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	viewErr := errors.New("no terminal")
	type outcome struct {
		res *driver.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := runEmitWithView(context.Background(), graph, driver.Options{Jobs: 1}, 0, func(<-chan buildpipeline.Event) error {
			return viewErr
		})
		done <- outcome{res, err}
	}()

	select {
	case got := <-done:
		if !errors.Is(got.err, viewErr) {
			t.Fatalf("got error %v, want %v", got.err, viewErr)
		}
		if got.res == nil || len(got.res.Units) != 4 {
			t.Fatalf("driver result: %+v", got.res)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("emit blocked after the view stopped reading events")
	}
}
