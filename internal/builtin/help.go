package builtin

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/renato0307/snip/internal/actions"
	"github.com/renato0307/snip/internal/args"
	"github.com/renato0307/snip/internal/capability"
	"github.com/renato0307/snip/internal/plugin"
	"github.com/renato0307/snip/internal/state"
	"github.com/renato0307/snip/internal/status"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// HelpPlugin adds help, which posts the shortcut table, and
// copy-shortcuts, which puts it on the clipboard.
func HelpPlugin() plugin.Plugin {
	return plugin.Func("help", func(host plugin.Host, _ *capability.View, _ *state.Store) error {
		reg := host.Actions()
		if _, err := reg.Add(actions.Spec{
			Name:        "help",
			Shortcuts:   []string{"f1"},
			Menu:        "&Help",
			Description: "Show keyboard shortcuts",
			Callback: func(args.List) error {
				host.Status().Status(status.Info(host.ShortcutHelp()))
				return nil
			},
		}); err != nil {
			return err
		}

		_, err := reg.Add(actions.Spec{
			Name:        "copy-shortcuts",
			Description: "Copy keyboard shortcuts to the clipboard",
			Callback: func(args.List) error {
				if err := writeClipboard(host.ShortcutHelp()); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				host.Status().Status(status.Success("shortcuts copied to clipboard"))
				return nil
			},
		})
		return err
	})
}

// Defaults returns the builtin plugins in attachment order.
func Defaults() []plugin.Plugin {
	return []plugin.Plugin{
		SelectionPlugin(),
		HistoryPlugin(),
		GroupsPlugin(),
		HelpPlugin(),
	}
}
