package ui

import "github.com/charmbracelet/lipgloss"

// Color palette (ANSI 256).
const (
	ColorLime     = "154"
	ColorCyan     = "44"
	ColorGray     = "245"
	ColorDarkGray = "238"
	ColorRed      = "196"
	ColorYellow   = "220"
)

// Styles holds the styles the log viewer renders with.
type Styles struct {
	Trace  lipgloss.Style
	Debug  lipgloss.Style
	Info   lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
	Source lipgloss.Style
	Time   lipgloss.Style
}

// DefaultStyles returns coloured styles for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Trace:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Debug:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Info:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		Source: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
		Time:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Trace:  lipgloss.NewStyle(),
		Debug:  lipgloss.NewStyle(),
		Info:   lipgloss.NewStyle(),
		Warn:   lipgloss.NewStyle(),
		Error:  lipgloss.NewStyle(),
		Source: lipgloss.NewStyle(),
		Time:   lipgloss.NewStyle(),
	}
}

// ForLevel picks the style for an upper- or lower-case level name.
func (s Styles) ForLevel(level string) lipgloss.Style {
	switch level {
	case "TRACE", "trace":
		return s.Trace
	case "DEBUG", "debug":
		return s.Debug
	case "INFO", "info":
		return s.Info
	case "WARN", "warn", "WARNING", "warning":
		return s.Warn
	case "ERROR", "error":
		return s.Error
	default:
		return lipgloss.NewStyle()
	}
}
