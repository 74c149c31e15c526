package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"ilemit/internal/driver"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <snapshot.mp>",
		Short: "Print a token snapshot written by emit --snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := wantJSON(cmd)
			if err != nil {
				return err
			}
			snap, err := driver.ReadSnapshot(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tokensPayload{
					Module:     snap.Module,
					Assembly:   snap.Assembly,
					Fixture:    snap.Fixture.String(),
					References: snap.References,
					Strings:    snap.Strings,
				})
			}
			renderTokensPretty(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func renderTokensPretty(out io.Writer, snap *driver.Snapshot) {
	okHeading.Fprint(out, "module")
	fmt.Fprintf(out, " %s assembly %s\n", snap.Module, snap.Assembly)
	if snap.Fixture.IsZero() {
		fmt.Fprintln(out, "fixture unknown")
	} else {
		fmt.Fprintf(out, "fixture %s\n", snap.Fixture)
	}
	for _, e := range snap.References {
		fmt.Fprintf(out, "0x%08X %s %s\n", e.Token, e.Kind, e.Value)
	}
	for _, e := range snap.Strings {
		fmt.Fprintf(out, "0x%08X %s %s\n", e.Token, e.Kind, strconv.Quote(e.Value))
	}
}

type tokensPayload struct {
	Module     string              `json:"module"`
	Assembly   string              `json:"assembly"`
	Fixture    string              `json:"fixture"`
	References []driver.TokenEntry `json:"references"`
	Strings    []driver.TokenEntry `json:"strings"`
}
