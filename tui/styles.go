// Package tui renders CLI output: styled notices, prompts and the tech sphere.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorAccent  = lipgloss.Color("#6366F1")
	ColorSuccess = lipgloss.Color("#22C55E")
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorMuted   = lipgloss.Color("#94A3B8")
	ColorText    = lipgloss.Color("#F8FAFC")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// label styles by distance to the camera, nearest first
	NearLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	MidLabelStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	FarLabelStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
)

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconVideo   = "▶"
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func RenderSuccess(msg string) string {
	return SuccessStyle.Render(IconSuccess+" ") + msg
}

func RenderError(msg string) string {
	return ErrorStyle.Render(IconError+" ") + msg
}

func RenderWarning(msg string) string {
	return WarningStyle.Render(IconWarning+" ") + msg
}

func RenderInfo(msg string) string {
	return MutedStyle.Render(IconInfo+" ") + msg
}
