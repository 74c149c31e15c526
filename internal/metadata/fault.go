package metadata

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned for facets this back end never populates
// (platform invoke data, explicit marshalling, security attributes).
var ErrNotSupported = errors.New("metadata: facet not supported by this back end")

// Fault is a contract violation between the front end, the translator and
// the writer. Faults are raised with panic and are never recovered except at
// the boundary of a compilation unit.
type Fault struct {
	Op  string
	Msg string
}

func (f *Fault) Error() string {
	if f.Op == "" {
		return "contract fault: " + f.Msg
	}
	return fmt.Sprintf("contract fault in %s: %s", f.Op, f.Msg)
}

// Faultf panics with a *Fault.
func Faultf(op, format string, args ...any) {
	panic(&Fault{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// Recover turns a *Fault panic into an error stored in errp. Any other panic
// is re-raised. Use as: defer metadata.Recover(&err).
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	f, ok := r.(*Fault)
	if !ok {
		panic(r)
	}
	if errp != nil {
		*errp = f
	}
}

// IsFault reports whether err is, or wraps, a contract fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}
