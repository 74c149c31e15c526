// Package prof wraps the runtime profilers behind the CLI's profiling flags.
package prof

import (
	"errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session owns the files of the profilers it started.
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
	memPath   string
}

// StartCPU enables CPU profiling and writes samples to the provided path.
func (s *Session) StartCPU(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	s.cpuFile = f
	return nil
}

// StartTrace writes runtime trace data to the provided path.
func (s *Session) StartTrace(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return err
	}
	s.traceFile = f
	return nil
}

// WriteMemOnStop records a heap profile to path when the session stops.
func (s *Session) WriteMemOnStop(path string) { s.memPath = path }

// Stop ends every profiler the session started and writes the heap profile.
// It is safe to call more than once.
func (s *Session) Stop() error {
	var errs []error
	if s.traceFile != nil {
		trace.Stop()
		errs = append(errs, s.traceFile.Close())
		s.traceFile = nil
	}
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpuFile.Close())
		s.cpuFile = nil
	}
	if s.memPath != "" {
		errs = append(errs, writeMem(s.memPath))
		s.memPath = ""
	}
	return errors.Join(errs...)
}

func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
