// Package output renders command results for terminals, markdown, JSON, CSV
// and YAML consumers.
package output

import (
	"fmt"
	"strings"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto" // TTY=text, otherwise markdown
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeYAML     Mode = "yaml"
)

// Modes lists every accepted mode, for flag completion.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON), string(ModeCSV), string(ModeYAML)}
}

// ParseMode validates s. The empty string and "md" are accepted as auto and
// markdown.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case "md":
		return ModeMarkdown, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeCSV, ModeYAML:
		return m, nil
	default:
		return "", fmt.Errorf("invalid output mode %q (want one of %s)", s, strings.Join(Modes(), ", "))
	}
}
