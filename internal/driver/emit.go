// Package driver runs one emission session over a loaded fixture: translate
// the module's declarations, encode and attach method bodies, snapshot the
// token tables.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ilemit/internal/buildpipeline"
	"ilemit/internal/emit"
	"ilemit/internal/fixture"
	"ilemit/internal/mdump"
	"ilemit/internal/metadata"
	"ilemit/internal/observ"
	"ilemit/internal/symbols"
	"ilemit/internal/trace"
)

// Options configure Emit.
type Options struct {
	// Jobs bounds the number of units encoding bodies at once. Zero or less
	// means one.
	Jobs int
	// Progress receives per-unit events; nil disables reporting.
	Progress buildpipeline.ProgressSink
	// Timer, when set, records one phase per stage.
	Timer *observ.Timer
	// Tracer overrides the tracer carried by the context.
	Tracer trace.Tracer
}

// UnitError reports the first failure of one unit.
type UnitError struct {
	Unit   string
	Stage  buildpipeline.Stage
	Member string
	Err    error
}

func (e *UnitError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("%s: %s %s: %v", e.Stage, e.Unit, e.Member, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }

// Result is the outcome of an emission session. It is returned even when
// some units failed.
type Result struct {
	Module  *emit.Translator
	Units   []string
	Failed  []*UnitError
	Timings buildpipeline.Timings

	// Token tables as they stood after the bodies stage.
	References []metadata.Reference
	Strings    []string
}

// unit is one type definition of the module being built.
type unit struct {
	id      symbols.SymbolID
	name    string
	methods []symbols.SymbolID
	failed  bool
}

type session struct {
	graph    *fixture.Graph
	tr       *emit.Translator
	opts     Options
	units    []*unit
	byType   map[symbols.SymbolID]*unit
	result   *Result
	progress buildpipeline.ProgressSink
}

// Emit translates graph.Module and attaches every fixture body. Unit
// failures are collected in Result.Failed and joined into the returned
// error; the other units still complete.
func Emit(ctx context.Context, graph *fixture.Graph, opts Options) (res *Result, err error) {
	if graph == nil || graph.Table == nil {
		return nil, errors.New("driver: nil graph")
	}
	if opts.Tracer != nil {
		ctx = trace.WithTracer(ctx, opts.Tracer)
	}
	ctx, span := trace.BeginContext(ctx, trace.ScopeDriver, "emit")
	defer func() {
		detail := "ok"
		if err != nil {
			detail = err.Error()
		}
		span.End(detail)
	}()

	var tr *emit.Translator
	if err := func() (err error) {
		defer metadata.Recover(&err)
		tr = emit.NewTranslator(graph.Table, graph.Module, emit.Options{Tracer: trace.FromContext(ctx)})
		return nil
	}(); err != nil {
		return nil, err
	}

	s := &session{
		graph:    graph,
		tr:       tr,
		opts:     opts,
		byType:   make(map[symbols.SymbolID]*unit),
		result:   &Result{Module: tr},
		progress: opts.Progress,
	}
	s.collectUnits()
	names := make([]string, len(s.units))
	for i, u := range s.units {
		names[i] = u.name
	}
	s.result.Units = names
	buildpipeline.Queue(s.progress, buildpipeline.StageTranslate, names)

	if err := s.stage(ctx, buildpipeline.StageTranslate, s.translate); err != nil {
		return s.result, err
	}
	if err := s.stage(ctx, buildpipeline.StageBodies, s.bodies); err != nil {
		return s.result, err
	}
	if err := s.stage(ctx, buildpipeline.StageTokens, s.tokens); err != nil {
		return s.result, err
	}

	if len(s.result.Failed) > 0 {
		errs := make([]error, len(s.result.Failed))
		for i, f := range s.result.Failed {
			errs[i] = f
		}
		return s.result, errors.Join(errs...)
	}
	return s.result, nil
}

// collectUnits lists the type definitions of the module in declaration
// order and assigns every fixture body to the unit that declares its method.
func (s *session) collectUnits() {
	tab := s.graph.Table
	for id, sym := range tab.Symbols.All() {
		if sym.Kind != symbols.KindNamedType || !tab.IsDefinition(id) || tab.DeclaringModule(id) != s.graph.Module {
			continue
		}
		u := &unit{id: id, name: fmt.Sprint(id)}
		s.units = append(s.units, u)
		s.byType[id] = u
	}
	for _, m := range s.graph.Methods() {
		if u := s.byType[tab.MustGet(m).Container]; u != nil {
			u.methods = append(u.methods, m)
		}
	}
	// Names come from the translated definitions; a unit that cannot be
	// translated keeps its symbol number until the translate stage fails it.
	for _, u := range s.units {
		_ = func() (err error) {
			defer metadata.Recover(&err)
			u.name = mdump.Name(s.tr.TypeDefinition(u.id))
			return nil
		}()
	}
}

func (s *session) stage(ctx context.Context, stage buildpipeline.Stage, run func(context.Context) error) error {
	ctx, span := trace.BeginContext(ctx, trace.ScopePass, string(stage))
	idx := -1
	if s.opts.Timer != nil {
		idx = s.opts.Timer.Begin(string(stage))
	}
	start := time.Now()
	buildpipeline.Report(s.progress, nil, stage, buildpipeline.StatusWorking, nil, 0)

	err := run(ctx)

	elapsed := time.Since(start)
	s.result.Timings.Set(stage, elapsed)
	status := buildpipeline.StatusDone
	note := ""
	if err != nil {
		status = buildpipeline.StatusError
		note = err.Error()
	}
	if s.opts.Timer != nil {
		s.opts.Timer.End(idx, note)
	}
	buildpipeline.Report(s.progress, nil, stage, status, err, elapsed)
	span.End(note)
	return err
}

func (s *session) fail(u *unit, stage buildpipeline.Stage, member string, err error) {
	u.failed = true
	s.result.Failed = append(s.result.Failed, &UnitError{Unit: u.name, Stage: stage, Member: member, Err: err})
	if s.progress != nil {
		s.progress.OnEvent(buildpipeline.Event{Unit: u.name, Stage: stage, Status: buildpipeline.StatusError, Err: err})
	}
}

// translate creates the definition of every unit and walks its signature so
// that every reference a writer would ask for exists before bodies run.
func (s *session) translate(ctx context.Context) error {
	for _, u := range s.units {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, span := trace.BeginContext(ctx, trace.ScopeUnit, u.name)
		s.report(u, buildpipeline.StageTranslate, buildpipeline.StatusWorking, 0)
		start := time.Now()
		if err := translateUnit(s.tr, u.id); err != nil {
			s.fail(u, buildpipeline.StageTranslate, "", err)
			span.End(err.Error())
			continue
		}
		s.report(u, buildpipeline.StageTranslate, buildpipeline.StatusDone, time.Since(start))
		span.End("")
	}
	return nil
}

func translateUnit(tr *emit.Translator, id symbols.SymbolID) (err error) {
	defer metadata.Recover(&err)
	td := tr.TypeDefinition(id)
	td.BaseClass()
	td.Interfaces()
	for _, gp := range td.GenericParameters() {
		gp.Constraints()
	}
	for _, f := range td.Fields() {
		f.Type()
	}
	for _, m := range td.Methods() {
		m.ReturnType()
		for _, p := range m.ParameterDefinitions() {
			p.Type()
		}
		for _, gp := range m.GenericParameters() {
			gp.Constraints()
		}
	}
	return nil
}

// bodies encodes the methods of each unit on a bounded worker pool. A unit
// stops at its first failing method; other units carry on.
func (s *session) bodies(ctx context.Context) error {
	jobs := max(s.opts.Jobs, 1)
	results := make([]*UnitError, len(s.units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, u := range s.units {
		if u.failed {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, span := trace.BeginContext(gctx, trace.ScopeUnit, u.name)
			s.report(u, buildpipeline.StageBodies, buildpipeline.StatusWorking, 0)
			start := time.Now()
			for _, m := range u.methods {
				if err := encodeMethod(s.tr, m, s.graph.Bodies[m]); err != nil {
					results[i] = &UnitError{Unit: u.name, Stage: buildpipeline.StageBodies, Member: s.graph.Table.MustGet(m).Name, Err: err}
					span.End(err.Error())
					return nil
				}
			}
			s.report(u, buildpipeline.StageBodies, buildpipeline.StatusDone, time.Since(start))
			span.End("")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, ue := range results {
		if ue != nil {
			s.fail(s.units[i], ue.Stage, ue.Member, ue.Err)
		}
	}
	return nil
}

func (s *session) tokens(context.Context) error {
	s.result.References = s.tr.ReferenceTokens()
	s.result.Strings = s.tr.StringTokens()
	return nil
}

func (s *session) report(u *unit, stage buildpipeline.Stage, status buildpipeline.Status, elapsed time.Duration) {
	if s.progress == nil {
		return
	}
	s.progress.OnEvent(buildpipeline.Event{Unit: u.name, Stage: stage, Status: status, Elapsed: elapsed})
}
