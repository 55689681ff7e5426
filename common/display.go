// Package common provides the logging, configuration and terminal styling
// shared by tablog commands.
package common

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// Default colors for display styles
	InfoColor       = lipgloss.Color("#6B97F7") // Light Blue
	WarningColor    = lipgloss.Color("#F5B041") // Yellow
	ErrorColor      = lipgloss.Color("#FF0000") // Bright Red
	NormalTextColor = lipgloss.Color("#FFFFFF") // White
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ParseColorMode validates a --color value. An empty value means auto.
func ParseColorMode(mode string) (string, error) {
	switch mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	}
	return "", fmt.Errorf("invalid color mode %q (choose from auto, always, never)", mode)
}

// Styles renders severity labels for one output stream.
type Styles struct {
	renderer *lipgloss.Renderer
	enabled  bool

	info    lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	unknown lipgloss.Style
}

// NewStyles builds styles bound to w. In auto mode colors are used only when
// w is a terminal and NO_COLOR is not set.
func NewStyles(w io.Writer, mode string) *Styles {
	renderer := lipgloss.NewRenderer(w)

	enabled := false
	switch mode {
	case ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
		enabled = true
	case ColorAuto:
		if !noColorEnv() {
			enabled = renderer.ColorProfile() != termenv.Ascii
		}
	}

	return &Styles{
		renderer: renderer,
		enabled:  enabled,
		info:     renderer.NewStyle().Foreground(InfoColor),
		warn:     renderer.NewStyle().Foreground(WarningColor).Bold(true),
		err:      renderer.NewStyle().Foreground(ErrorColor).Bold(true),
		unknown:  renderer.NewStyle().Foreground(NormalTextColor),
	}
}

// Enabled reports whether output should be styled at all.
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Severity returns the style for a severity label.
func (s *Styles) Severity(sev string) lipgloss.Style {
	switch sev {
	case "info":
		return s.info
	case "warn":
		return s.warn
	case "error":
		return s.err
	default:
		return s.unknown
	}
}

func noColorEnv() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	v := os.Getenv("TABLOG_NOCOLOR")
	return v == "true" || v == "1"
}
