// Package theme defines the light and dark color schemes used by the
// terminal views.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Name identifies a theme. It is persisted verbatim.
type Name string

const (
	Light Name = "light"
	Dark  Name = "dark"
)

// Parse accepts "light" or "dark", case-insensitively.
func Parse(s string) (Name, error) {
	switch Name(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme '%s', expected light or dark", s)
	}
}

// Toggle returns the other theme. Anything that is not dark toggles to dark.
func (n Name) Toggle() Name {
	if n == Dark {
		return Light
	}
	return Dark
}

// Palette holds the colors a view needs.
type Palette struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Danger     lipgloss.Color
	Warning    lipgloss.Color
	Success    lipgloss.Color
	IsDark     bool
}

var (
	lightPalette = Palette{
		Foreground: lipgloss.Color("#101F38"),
		Muted:      lipgloss.Color("#6B7280"),
		Accent:     lipgloss.Color("#4F46E5"),
		Danger:     lipgloss.Color("#DC2626"),
		Warning:    lipgloss.Color("#B45309"),
		Success:    lipgloss.Color("#15803D"),
	}
	darkPalette = Palette{
		Foreground: lipgloss.Color("#F2F2F2"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Accent:     lipgloss.Color("#818CF8"),
		Danger:     lipgloss.Color("#F87171"),
		Warning:    lipgloss.Color("#FBBF24"),
		Success:    lipgloss.Color("#4ADE80"),
		IsDark:     true,
	}
)

// Palette returns the colors for n, defaulting to light.
func (n Name) Palette() Palette {
	if n == Dark {
		return darkPalette
	}
	return lightPalette
}
