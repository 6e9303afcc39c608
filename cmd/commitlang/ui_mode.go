package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// uiMode controls whether lint runs attach the interactive progress view.
type uiMode int

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

func parseUIMode(value string) (uiMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return uiAuto, nil
	case "on":
		return uiOn, nil
	case "off":
		return uiOff, nil
	}
	return uiAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// enabled reports whether the progress view should render on out.
func (m uiMode) enabled(out *os.File) bool {
	switch m {
	case uiOn:
		return true
	case uiOff:
		return false
	}
	return isTerminal(out)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
