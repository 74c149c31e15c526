// Package main implements the ilemit CLI.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ilemit/internal/version"
)

// newRootCmd wires every subcommand and the persistent flags.
func newRootCmd() *cobra.Command {
	var (
		cleanup     func()
		stopProfile func() error
	)
	root := &cobra.Command{
		Use:           "ilemit",
		Short:         "Symbol graph to metadata emitter",
		Long:          `ilemit translates a symbol graph into the reference and definition graph a metadata writer consumes.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := setupColor(cmd); err != nil {
				return err
			}
			var err error
			if stopProfile, err = setupProfiling(cmd); err != nil {
				return err
			}
			cleanup, err = setupTracing(cmd)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if cleanup != nil {
				cleanup()
			}
			if stopProfile != nil {
				return stopProfile()
			}
			return nil
		},
	}

	root.AddCommand(newEmitCmd())
	root.AddCommand(newTokensCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "heartbeat interval while tracing (0 disables)")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a runtime trace to file")
	return root
}

// main executes the root command and exits with status 1 on error.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		errorHeading.Fprint(os.Stderr, "error: ")
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

var (
	okHeading    = color.New(color.FgGreen, color.Bold)
	warnHeading  = color.New(color.FgYellow, color.Bold)
	errorHeading = color.New(color.FgRed, color.Bold)
)

func setupColor(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	mode, err := parseSwitch("--color", value)
	if err != nil {
		return err
	}
	color.NoColor = !mode.enabled(os.Stdout)
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type flagError struct {
	flag, value, want string
}

func (e *flagError) Error() string {
	return "invalid " + e.flag + " value \"" + e.value + "\" (expected " + e.want + ")"
}
