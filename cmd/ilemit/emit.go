package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"ilemit/internal/buildpipeline"
	"ilemit/internal/driver"
	"ilemit/internal/fixture"
	"ilemit/internal/mdump"
	"ilemit/internal/observ"
	"ilemit/internal/project"
	"ilemit/internal/trace"
)

type emitOptions struct {
	fixture  string
	dump     bool
	jobs     int
	snapshot string
	ui       uiMode
	timings  bool
}

func newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [fixture.toml]",
		Short: "Translate a symbol graph fixture and attach its method bodies",
		Long: `Translate every declaration of the fixture's module, encode and attach its
method bodies, and report the token tables. Without an argument the fixture
named by [emit].fixture in the nearest ilemit.toml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: emitExecution,
	}
	cmd.Flags().Bool("dump", false, "print the module definition, bodies and token tables")
	cmd.Flags().Int("jobs", 0, "units encoded in parallel (0 = one per CPU)")
	cmd.Flags().String("snapshot", "", "write the token tables to this msgpack file")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func emitExecution(cmd *cobra.Command, args []string) error {
	opts, err := readEmitOptions(cmd, args)
	if err != nil {
		return err
	}
	return runEmit(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
}

// readEmitOptions merges flags with the project manifest. Flags the user set
// explicitly win over manifest values.
func readEmitOptions(cmd *cobra.Command, args []string) (emitOptions, error) {
	var opts emitOptions
	var err error
	if opts.dump, err = cmd.Flags().GetBool("dump"); err != nil {
		return opts, err
	}
	if opts.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.snapshot, err = cmd.Flags().GetString("snapshot"); err != nil {
		return opts, err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, err
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, err
	}
	if opts.jobs < 0 {
		return opts, fmt.Errorf("--jobs must not be negative, got %d", opts.jobs)
	}

	manifest, found, err := project.LoadManifestFrom(".")
	if err != nil && len(args) == 0 {
		return opts, err
	}
	if len(args) == 1 {
		opts.fixture = args[0]
	} else if found {
		opts.fixture = manifest.Fixture
	} else {
		return opts, fmt.Errorf("no fixture given and no %s found", project.ManifestName)
	}
	if found && err == nil {
		applyManifest(&opts, manifest, cmd.Flags().Changed("jobs"), cmd.Flags().Changed("snapshot"))
	}
	return opts, nil
}

func applyManifest(opts *emitOptions, m project.Manifest, jobsSet, snapshotSet bool) {
	if !jobsSet && m.Jobs > 0 {
		opts.jobs = m.Jobs
	}
	if !snapshotSet && m.Snapshot != "" {
		opts.snapshot = m.Snapshot
	}
}

func runEmit(ctx context.Context, out, errOut io.Writer, opts emitOptions) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tracer := trace.FromContext(ctx)
	defer func() {
		if err != nil {
			dumpRing(errOut, tracer)
		}
	}()
	timer := observ.NewTimer()

	var graph *fixture.Graph
	loadStart := time.Now()
	if err := timer.Time(string(buildpipeline.StageLoad), func() error {
		var loadErr error
		graph, loadErr = fixture.LoadFile(opts.fixture)
		return loadErr
	}); err != nil {
		return err
	}
	loadElapsed := time.Since(loadStart)

	driverOpts := driver.Options{Jobs: opts.jobs, Timer: timer}
	if driverOpts.Jobs == 0 {
		driverOpts.Jobs = defaultJobs()
	}
	var res *driver.Result
	var emitErr error
	if shouldUseTUI(opts.ui) {
		res, emitErr = runEmitWithUI(ctx, "emit "+opts.fixture, nil, graph, driverOpts)
	} else {
		res, emitErr = driver.Emit(ctx, graph, driverOpts)
	}
	if res == nil {
		return emitErr
	}
	res.Timings.Set(buildpipeline.StageLoad, loadElapsed)

	writeStart := time.Now()
	writeIdx := timer.Begin(string(buildpipeline.StageWrite))
	writeErr := writeOutputs(out, res, opts)
	timer.End(writeIdx, "")
	res.Timings.Set(buildpipeline.StageWrite, time.Since(writeStart))

	printSummary(out, res)
	if opts.timings {
		printStageTimings(out, res.Timings)
		fmt.Fprint(out, timer.Summary())
	}
	return errors.Join(emitErr, writeErr)
}

func writeOutputs(out io.Writer, res *driver.Result, opts emitOptions) error {
	if opts.dump {
		if err := mdump.Dump(out, res.Module, mdump.Options{Bodies: true, Tokens: res.Module}); err != nil {
			return err
		}
	}
	if opts.snapshot == "" {
		return nil
	}
	digest, err := project.HashFile(opts.fixture)
	if err != nil {
		return err
	}
	snap, err := driver.NewSnapshot(res, digest)
	if err != nil {
		return err
	}
	if err := driver.WriteSnapshot(opts.snapshot, snap); err != nil {
		return fmt.Errorf("%s: %w", opts.snapshot, err)
	}
	return nil
}

func printSummary(out io.Writer, res *driver.Result) {
	stats := res.Module.Stats()
	heading := okHeading
	label := "emitted"
	if len(res.Failed) > 0 {
		heading = warnHeading
		label = "emitted with failures"
	}
	heading.Fprint(out, label)
	fmt.Fprintf(out, " %s: %d units, %d bodies, %d references, %d strings\n",
		res.Module.Name(), len(res.Units), stats.Bodies, len(res.References), len(res.Strings))
	for _, f := range res.Failed {
		errorHeading.Fprint(out, "  failed ")
		fmt.Fprintln(out, f.Error())
	}
}

func defaultJobs() int {
	return max(runtime.NumCPU(), 1)
}
