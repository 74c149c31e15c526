package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ilemit/internal/prof"
)

// setupProfiling inspects persistent profiling flags and enables the
// corresponding profilers. The returned stop function is safe to call
// multiple times.
func setupProfiling(cmd *cobra.Command) (func() error, error) {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	s := &prof.Session{}
	if cpuProfile != "" {
		if err := s.StartCPU(cpuProfile); err != nil {
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
	}
	if tracePath != "" {
		if err := s.StartTrace(tracePath); err != nil {
			_ = s.Stop()
			return nil, fmt.Errorf("failed to start trace: %w", err)
		}
	}
	if memProfile != "" {
		s.WriteMemOnStop(memProfile)
	}
	return s.Stop, nil
}
