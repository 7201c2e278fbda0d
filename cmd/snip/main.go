package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/renato0307/snip/internal/app"
	"github.com/renato0307/snip/internal/status"
	"github.com/renato0307/snip/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flags are the persistent flags shared by every command. Empty values
// fall back to the configuration file.
type flags struct {
	config  string
	state   string
	plugins string
	keymap  string
	theme   string
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "snip",
		Short:         "Command shell with keyboard shortcuts and scriptable plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(&f)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "config file (default: $XDG_CONFIG_HOME/snip/config.toml)")
	pf.StringVar(&f.state, "state", "", "session state file")
	pf.StringVar(&f.plugins, "plugins", "", "directory of Lua plugins")
	pf.StringVar(&f.keymap, "keymap", "", "keymap YAML file")
	pf.StringVar(&f.theme, "theme", "", fmt.Sprintf("theme to use %v", ui.AvailableThemes()))

	root.AddCommand(newExecCmd(&f))
	root.AddCommand(newShortcutsCmd(&f))
	return root
}

func runTUI(f *flags) error {
	events := &status.Recorder{}
	env, err := open(f, events)
	if err != nil {
		return err
	}
	defer env.close()

	model := app.NewModel(env.session, events, ui.GetTheme(env.config.UI.Theme))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
