package main

import (
	"fmt"
	"io"
	"time"

	"ilemit/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range buildpipeline.Stages() {
		if !timings.Has(stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", stage, toMillis(timings.Duration(stage))); err != nil {
			panic(err)
		}
	}
	if _, err := fmt.Fprintf(out, "total %.1f ms\n", toMillis(timings.Sum(buildpipeline.Stages()...))); err != nil {
		panic(err)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
