package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/renato0307/snip/internal/status"
)

// printSink writes status lines as plain text. Errors go to errOut.
type printSink struct {
	out    io.Writer
	errOut io.Writer
}

func (p printSink) Status(m status.Msg) {
	switch m.Type {
	case status.MessageTypeBuffer:
	case status.MessageTypeError:
		_, _ = fmt.Fprintln(p.errOut, "error: "+m.Text)
	default:
		_, _ = fmt.Fprintln(p.out, m.Text)
	}
}

func (printSink) SelectionChanged(status.Selection) {}

func newExecCmd(f *flags) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "exec [line...]",
		Short: "Execute command lines, one per argument or one per stdin line",
		Example: `  snip exec "select 3-6" "move done"
  echo "c 1,2" | snip exec`,
		RunE: func(cmd *cobra.Command, lines []string) error {
			if len(lines) == 0 {
				var err error
				if lines, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			e, err := open(f, printSink{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}

			failed := 0
			for i, line := range lines {
				if err := e.session.Execute(line); err != nil {
					failed++
					if !keepGoing {
						_ = e.close()
						return fmt.Errorf("line %d failed", i+1)
					}
				}
			}
			if err := e.close(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lines failed", failed, len(lines))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "continue after a failing line")
	return cmd
}

func newShortcutsCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "shortcuts",
		Short: "Print every action with its alias and shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(f, status.Discard{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), e.session.ShortcutHelp())
			return e.close()
		},
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commands: %w", err)
	}
	return lines, nil
}
