package actions

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ShortcutEntry is one line of the shortcut listing.
type ShortcutEntry struct {
	Name        string
	Alias       string
	Shortcuts   []string
	Description string
	Enabled     bool
}

func entryFor(a *Action) ShortcutEntry {
	return ShortcutEntry{
		Name:        a.Name,
		Alias:       a.Alias,
		Shortcuts:   append([]string(nil), a.Shortcuts...),
		Description: a.Description,
		Enabled:     a.enabled,
	}
}

// Shortcut joins the entry's chords for display. It is empty when the
// action has no shortcut.
func (e ShortcutEntry) Shortcut() string {
	labels := make([]string, len(e.Shortcuts))
	for i, s := range e.Shortcuts {
		if s == " " {
			s = "space"
		}
		labels[i] = s
	}
	return strings.Join(labels, ", ")
}

// FormatShortcuts renders entries as an aligned "name : alias : shortcut"
// table, one action per line, in the order given.
func FormatShortcuts(entries []ShortcutEntry) string {
	nameWidth, aliasWidth := 0, 0
	for _, e := range entries {
		nameWidth = max(nameWidth, lipgloss.Width(e.Name))
		aliasWidth = max(aliasWidth, lipgloss.Width(e.Alias))
	}

	var b strings.Builder
	for _, e := range entries {
		line := pad(e.Name, nameWidth) + " : " + pad(e.Alias, aliasWidth) + " : " + e.Shortcut()
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
