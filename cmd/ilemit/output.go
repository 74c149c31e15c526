package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// addFormatFlag registers --format on commands that print pretty or JSON.
func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// wantJSON reads --format; anything but pretty or json is an error.
func wantJSON(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Flags().GetString("format")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(value) {
	case "pretty":
		return false, nil
	case "json":
		return true, nil
	}
	return false, fmt.Errorf("unsupported format %q (must be pretty or json)", value)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
