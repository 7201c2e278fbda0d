// Package ui holds the styles of the terminal host.
package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme is built from.
type Palette struct {
	Primary lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor
	TitleBg lipgloss.Color
}

// Theme defines the styles of the terminal host
type Theme struct {
	Name string
	Palette

	Title     lipgloss.Style // App title with background
	Prompt    lipgloss.Style // Command entry trigger
	Buffer    lipgloss.Style // Command entry text
	Cursor    lipgloss.Style
	Hint      lipgloss.Style // Normal mode hint line
	Selection lipgloss.Style
	Separator lipgloss.Style
}

var palettes = map[string]Palette{
	"charm": {
		Primary: lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"},
		Accent:  lipgloss.AdaptiveColor{Light: "#F780E2", Dark: "#F780E2"},
		Muted:   lipgloss.AdaptiveColor{Light: "243", Dark: "243"},
		Error:   lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"},
		Success: lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"},
		Border:  lipgloss.AdaptiveColor{Light: "240", Dark: "240"},
		TitleBg: lipgloss.Color("235"),
	},
	"dracula": {
		Primary: lipgloss.AdaptiveColor{Light: "#bd93f9", Dark: "#bd93f9"},
		Accent:  lipgloss.AdaptiveColor{Light: "#ff79c6", Dark: "#ff79c6"},
		Muted:   lipgloss.AdaptiveColor{Light: "#6272a4", Dark: "#6272a4"},
		Error:   lipgloss.AdaptiveColor{Light: "#ff5555", Dark: "#ff5555"},
		Success: lipgloss.AdaptiveColor{Light: "#50fa7b", Dark: "#50fa7b"},
		Border:  lipgloss.AdaptiveColor{Light: "61", Dark: "61"},
		TitleBg: lipgloss.Color("#44475a"),
	},
	"nord": {
		Primary: lipgloss.AdaptiveColor{Light: "#5e81ac", Dark: "#88c0d0"},
		Accent:  lipgloss.AdaptiveColor{Light: "#b48ead", Dark: "#b48ead"},
		Muted:   lipgloss.AdaptiveColor{Light: "#4c566a", Dark: "#4c566a"},
		Error:   lipgloss.AdaptiveColor{Light: "#bf616a", Dark: "#bf616a"},
		Success: lipgloss.AdaptiveColor{Light: "#a3be8c", Dark: "#a3be8c"},
		Border:  lipgloss.AdaptiveColor{Light: "#d8dee9", Dark: "#3b4252"},
		TitleBg: lipgloss.Color("#3b4252"),
	},
	"gruvbox": {
		Primary: lipgloss.AdaptiveColor{Light: "#d65d0e", Dark: "#fe8019"},
		Accent:  lipgloss.AdaptiveColor{Light: "#b16286", Dark: "#d3869b"},
		Muted:   lipgloss.AdaptiveColor{Light: "#7c6f64", Dark: "#928374"},
		Error:   lipgloss.AdaptiveColor{Light: "#cc241d", Dark: "#fb4934"},
		Success: lipgloss.AdaptiveColor{Light: "#98971a", Dark: "#b8bb26"},
		Border:  lipgloss.AdaptiveColor{Light: "#d5c4a1", Dark: "#504945"},
		TitleBg: lipgloss.Color("#3c3836"),
	},
}

// DefaultTheme is used for unknown theme names.
const DefaultTheme = "charm"

// NewTheme builds the styles for a palette.
func NewTheme(name string, p Palette) *Theme {
	return &Theme{
		Name:    name,
		Palette: p,
		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Background(p.TitleBg).
			Bold(true).
			Padding(0, 1),
		Prompt:    lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Buffer:    lipgloss.NewStyle(),
		Cursor:    lipgloss.NewStyle().Foreground(p.Accent),
		Hint:      lipgloss.NewStyle().Foreground(p.Muted),
		Selection: lipgloss.NewStyle().Foreground(p.Primary),
		Separator: lipgloss.NewStyle().Foreground(p.Border),
	}
}

// GetTheme returns a theme by name, defaulting to charm
func GetTheme(name string) *Theme {
	p, ok := palettes[name]
	if !ok {
		name = DefaultTheme
		p = palettes[name]
	}
	return NewTheme(name, p)
}

// AvailableThemes returns the theme names, sorted
func AvailableThemes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HelpStyles styles bubbles help with the theme colors.
func (t *Theme) HelpStyles() help.Styles {
	key := lipgloss.NewStyle().Foreground(t.Primary)
	desc := lipgloss.NewStyle().Foreground(t.Muted)
	sep := lipgloss.NewStyle().Foreground(t.Border)
	return help.Styles{
		ShortKey:       key,
		ShortDesc:      desc,
		ShortSeparator: sep,
		Ellipsis:       sep,
		FullKey:        key,
		FullDesc:       desc,
		FullSeparator:  sep,
	}
}
