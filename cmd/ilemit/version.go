package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ilemit/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var hash, date, full bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show ilemit build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := wantJSON(cmd)
			if err != nil {
				return err
			}
			p := versionPayload{Tool: "ilemit", Version: orDefault(version.Version, "dev")}
			if hash || full {
				p.GitCommit = orDefault(version.GitCommit, "unknown")
			}
			if date || full {
				p.BuildDate = orDefault(version.BuildDate, "unknown")
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, p)
			}
			fmt.Fprintln(out, "ilemit "+version.Colored())
			if p.GitCommit != "" {
				fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
			}
			if p.BuildDate != "" {
				fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hash, "hash", false, "include git commit hash")
	cmd.Flags().BoolVar(&date, "date", false, "include build timestamp")
	cmd.Flags().BoolVar(&full, "full", false, "show every recorded bit of build metadata")
	addFormatFlag(cmd)
	return cmd
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}
