// Package style provides semantic terminal styling using lipgloss.
//
// This package is the only place where lipgloss is imported. All styling
// is semantic (Success, Warning, Error, etc.) rather than visual.
//
// When disabled, all helpers return the input string unchanged with no
// ANSI codes.
package style

import (
	"hash/fnv"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	enabled bool

	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
	headerStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
	promptStyle  lipgloss.Style

	// streamStyles color agent stream prefixes; assignment is by name
	// hash so a given agent type keeps its color across sessions.
	streamStyles []lipgloss.Style
)

// streamPalette holds ANSI256 colors distinct enough to tell interleaved
// streams apart on both dark and light terminals.
var streamPalette = []string{"75", "114", "179", "170", "80", "216", "141"}

// Init configures styling once, before any output. It respects the
// NO_COLOR convention: if the variable is set to any non-empty value,
// styling stays off regardless of enable.
func Init(enable bool) {
	if os.Getenv("NO_COLOR") != "" {
		enabled = false
		return
	}
	enabled = enable
	if !enabled {
		return
	}

	// Force ANSI256 regardless of TTY detection; readline owns the
	// terminal and lipgloss cannot probe it reliably.
	lipgloss.SetColorProfile(termenv.ANSI256)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true)

	streamStyles = make([]lipgloss.Style, len(streamPalette))
	for i, c := range streamPalette {
		streamStyles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
}

// Enabled returns whether styling is currently enabled.
func Enabled() bool {
	return enabled
}

// Success styles text for successful operations.
func Success(text string) string {
	if !enabled {
		return text
	}
	return successStyle.Render(text)
}

// Warning styles text for warning messages.
func Warning(text string) string {
	if !enabled {
		return text
	}
	return warningStyle.Render(text)
}

// Error styles text for error messages.
func Error(text string) string {
	if !enabled {
		return text
	}
	return errorStyle.Render(text)
}

// Info styles text for informational messages.
func Info(text string) string {
	if !enabled {
		return text
	}
	return infoStyle.Render(text)
}

// Header styles text for section headers or titles.
func Header(text string) string {
	if !enabled {
		return text
	}
	return headerStyle.Render(text)
}

// Muted styles text for less important or secondary information.
func Muted(text string) string {
	if !enabled {
		return text
	}
	return mutedStyle.Render(text)
}

// Prompt styles the interactive prompt.
func Prompt(text string) string {
	if !enabled {
		return text
	}
	return promptStyle.Render(text)
}

// StreamPrefix returns the colored "[agentType] " prefix for interleaved
// agent log streams. The color is stable for a given agent type.
func StreamPrefix(agentType string) string {
	label := "[" + agentType + "] "
	if !enabled || len(streamStyles) == 0 {
		return label
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(agentType))
	return streamStyles[h.Sum32()%uint32(len(streamStyles))].Render(label)
}
