// Package buildpipeline carries progress events and stage timings of an
// emission session from the driver to whoever renders them.
package buildpipeline

import (
	"slices"
	"time"
)

// Stage names one step of an emission session.
type Stage string

const (
	StageLoad      Stage = "load"      // read the fixture
	StageTranslate Stage = "translate" // wrap every declaration of the module
	StageBodies    Stage = "bodies"    // encode IL and attach bodies
	StageTokens    Stage = "tokens"    // snapshot the token tables
	StageWrite     Stage = "write"     // dump and snapshot output
)

var stageOrder = [...]Stage{StageLoad, StageTranslate, StageBodies, StageTokens, StageWrite}

// Stages lists every stage in pipeline order.
func Stages() []Stage { return slices.Clone(stageOrder[:]) }

// Status is where a unit stands within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one unit, a type definition of the module, or
// for the whole pipeline when Unit is empty.
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings records one duration per stage. The zero value is empty; stages
// outside Stages are ignored.
type Timings struct {
	d   [len(stageOrder)]time.Duration
	set [len(stageOrder)]bool
}

func stageIndex(s Stage) int { return slices.Index(stageOrder[:], s) }

func (t *Timings) Set(stage Stage, dur time.Duration) {
	if i := stageIndex(stage); t != nil && i >= 0 {
		t.d[i], t.set[i] = dur, true
	}
}

func (t Timings) Has(stage Stage) bool {
	i := stageIndex(stage)
	return i >= 0 && t.set[i]
}

func (t Timings) Duration(stage Stage) time.Duration {
	if i := stageIndex(stage); i >= 0 {
		return t.d[i]
	}
	return 0
}

// Sum adds the durations of stages; unset stages count as zero.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.Duration(s)
	}
	return total
}
