package keyboard

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"
)

// Keys holds the key strings the mode controller reacts to.
// Values use bubbletea key names (tea.KeyMsg.String()).
type Keys struct {
	// Command entry
	Trigger   string `json:"trigger,omitempty"`   // Enter command entry from normal mode
	Submit    string `json:"submit,omitempty"`    // Commit the command buffer
	Cancel    string `json:"cancel,omitempty"`    // Discard the command buffer
	Backspace string `json:"backspace,omitempty"` // Delete the last buffer character
	Complete  string `json:"complete,omitempty"`  // Complete the action token

	// History
	HistoryPrev string `json:"historyPrev,omitempty"` // Older command
	HistoryNext string `json:"historyNext,omitempty"` // Newer command

	// Global
	Quit string `json:"quit,omitempty"` // Quit the terminal host
}

// Default returns the default key configuration
func Default() *Keys {
	return &Keys{
		Trigger:   ":",
		Submit:    "enter",
		Cancel:    "esc",
		Backspace: "backspace",
		Complete:  "tab",

		HistoryPrev: "up",
		HistoryNext: "down",

		Quit: "ctrl+c",
	}
}

// merge overrides non-empty fields of k with the ones in o.
func (k *Keys) merge(o Keys) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = Normalize(v)
		}
	}
	set(&k.Trigger, o.Trigger)
	set(&k.Submit, o.Submit)
	set(&k.Cancel, o.Cancel)
	set(&k.Backspace, o.Backspace)
	set(&k.Complete, o.Complete)
	set(&k.HistoryPrev, o.HistoryPrev)
	set(&k.HistoryNext, o.HistoryNext)
	set(&k.Quit, o.Quit)
}

// Keymap is the on-disk keymap file: controller keys plus per-action
// shortcut overrides.
//
//	keys:
//	  trigger: ";"
//	shortcuts:
//	  select: ["ctrl+s"]
//	  undo: ["ctrl+z", "alt+u"]
type Keymap struct {
	Keys      Keys                `json:"keys"`
	Shortcuts map[string][]string `json:"shortcuts"`
}

// LoadKeymap reads a YAML keymap file. A missing file yields the defaults.
func LoadKeymap(path string) (*Keys, map[string][]string, error) {
	keys := Default()
	if path == "" {
		return keys, nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return keys, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read keymap: %w", err)
	}

	km, err := ParseKeymap(data)
	if err != nil {
		return nil, nil, err
	}
	keys.merge(km.Keys)
	return keys, km.Shortcuts, nil
}

// ParseKeymap decodes keymap YAML and normalizes every chord in it.
func ParseKeymap(data []byte) (*Keymap, error) {
	var km Keymap
	if err := yaml.Unmarshal(data, &km); err != nil {
		return nil, fmt.Errorf("failed to parse keymap: %w", err)
	}
	for name, chords := range km.Shortcuts {
		km.Shortcuts[name] = NormalizeAll(chords)
	}
	return &km, nil
}

// modifierOrder matches the order bubbletea prints modifiers in.
var modifierOrder = map[string]int{"alt": 0, "ctrl": 1, "shift": 2}

// Normalize canonicalizes a key chord: modifiers are lower-cased and sorted
// as alt, ctrl, shift. The final key keeps its case ("G" differs from "g").
// A chord ending in "+" binds the plus key itself ("ctrl+alt++").
func Normalize(chord string) string {
	if chord == " " {
		return chord
	}
	chord = strings.TrimSpace(chord)
	if strings.EqualFold(chord, "space") {
		return " "
	}
	if chord == "" {
		return ""
	}
	if len(chord) == 1 {
		return chord
	}

	var last string
	body := chord
	if strings.HasSuffix(chord, "++") {
		last = "+"
		body = strings.TrimSuffix(chord, "++")
	} else if i := strings.LastIndex(chord, "+"); i >= 0 {
		last = chord[i+1:]
		body = chord[:i]
	} else {
		return strings.ToLower(chord)
	}

	var mods []string
	if body != "" {
		for _, m := range strings.Split(body, "+") {
			m = strings.ToLower(strings.TrimSpace(m))
			if m == "" {
				continue
			}
			if m == "control" {
				m = "ctrl"
			}
			mods = append(mods, m)
		}
	}
	sort.SliceStable(mods, func(i, j int) bool {
		oi, iok := modifierOrder[mods[i]]
		oj, jok := modifierOrder[mods[j]]
		if iok && jok {
			return oi < oj
		}
		return iok && !jok
	})

	// Terminals report ctrl chords without case.
	if len(last) > 1 || slices.Contains(mods, "ctrl") {
		last = strings.ToLower(last)
	}
	if len(mods) == 0 {
		return last
	}
	return strings.Join(mods, "+") + "+" + last
}

// NormalizeAll normalizes chords, dropping empties and duplicates.
func NormalizeAll(chords []string) []string {
	out := make([]string, 0, len(chords))
	seen := make(map[string]bool)
	for _, c := range chords {
		n := Normalize(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
