package main

import (
	"os"
	"strings"
)

// uiMode is an auto|on|off flag value; --color and --ui share it.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func parseSwitch(flag, value string) (uiMode, error) {
	v := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch v {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return v, nil
	}
	return "", &flagError{flag: flag, value: value, want: "auto|on|off"}
}

func readUIMode(value string) (uiMode, error) { return parseSwitch("--ui", value) }

// enabled resolves auto by asking whether f is a terminal.
func (m uiMode) enabled(f *os.File) bool {
	if m == uiModeAuto {
		return isTerminal(f)
	}
	return m == uiModeOn
}

func shouldUseTUI(mode uiMode) bool { return mode.enabled(os.Stdout) }
