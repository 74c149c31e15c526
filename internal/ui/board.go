package ui

import "ilemit/internal/buildpipeline"

// board is the render-independent state of the progress view: one row per
// unit plus the pipeline-wide stage.
type board struct {
	rows     []row
	byName   map[string]int
	stage    string
	failures int
}

type row struct {
	name  string
	label string
	stage buildpipeline.Stage
	state buildpipeline.Status
	err   error
}

func newBoard(units []string) *board {
	units = buildpipeline.NormalizeUnits(units)
	b := &board{rows: make([]row, 0, len(units)), byName: make(map[string]int, len(units))}
	for _, u := range units {
		b.add(u)
	}
	return b
}

func (b *board) add(name string) *row {
	b.byName[name] = len(b.rows)
	b.rows = append(b.rows, row{name: name, label: "queued"})
	return &b.rows[len(b.rows)-1]
}

// apply folds ev into the board and reports whether a row changed. Units
// unknown so far join on their queued event; a row that failed keeps its
// error for the rest of the session.
func (b *board) apply(ev buildpipeline.Event) bool {
	if ev.Unit == "" {
		if name, ok := stageNames[ev.Stage]; ok && ev.Status != buildpipeline.StatusQueued {
			b.stage = name
		}
		return false
	}
	var r *row
	if i, ok := b.byName[ev.Unit]; ok {
		r = &b.rows[i]
	} else if ev.Status == buildpipeline.StatusQueued {
		r = b.add(ev.Unit)
	} else {
		return false
	}
	if r.state == buildpipeline.StatusError {
		return false
	}
	r.label = rowLabel(ev.Stage, ev.Status)
	r.stage, r.state = ev.Stage, ev.Status
	if ev.Status == buildpipeline.StatusError {
		r.err = ev.Err
		b.failures++
	}
	return true
}

// fraction is the mean unit progress. A unit only moves through translate
// and bodies; failed units count as finished.
func (b *board) fraction() float64 {
	if len(b.rows) == 0 {
		return 1
	}
	var sum float64
	for _, r := range b.rows {
		sum += unitWeight(r.stage, r.state)
	}
	return sum / float64(len(b.rows))
}

func unitWeight(stage buildpipeline.Stage, state buildpipeline.Status) float64 {
	if state == buildpipeline.StatusError {
		return 1
	}
	var base float64
	switch stage {
	case buildpipeline.StageTranslate:
	case buildpipeline.StageBodies:
		base = 0.5
	default:
		return 0
	}
	if state == buildpipeline.StatusDone {
		return base + 0.5
	}
	return base + 0.25
}

var stageNames = map[buildpipeline.Stage]string{
	buildpipeline.StageLoad:      "loading",
	buildpipeline.StageTranslate: "translating",
	buildpipeline.StageBodies:    "encoding",
	buildpipeline.StageTokens:    "tokens",
	buildpipeline.StageWrite:     "writing",
}

func rowLabel(stage buildpipeline.Stage, state buildpipeline.Status) string {
	switch state {
	case buildpipeline.StatusWorking:
		return stageNames[stage]
	case buildpipeline.StatusDone:
		if stage == buildpipeline.StageTranslate {
			return "translated"
		}
		return "done"
	}
	return string(state)
}
