package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/ustr"
)

func newInspectCmd(a *app) *cobra.Command {
	var strict, wrap bool
	cmd := &cobra.Command{
		Use:   "inspect [TEXT]",
		Short: "Show how a string is stored and segmented",
		Long: `Show the storage kind, flags, counts, scalars, UTF-16 code units and
character clusters of TEXT, or of standard input when TEXT is omitted or "-".

Malformed UTF-8 is repaired with U+FFFD unless --strict is given. With
--foreign the text is re-encoded as UTF-16 and wrapped in foreign storage,
the way strings owned by another runtime are held.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.input(args)
			if err != nil {
				return err
			}

			var s ustr.String
			if strict {
				if s, err = ustr.FromBytes(input); err != nil {
					return err
				}
			} else {
				s = ustr.Repairing(input)
			}
			if wrap {
				s = ustr.FromForeign(ustr.NewUTF16Buffer(s.UTF16Units()))
			}

			js, err := describe(s, a.cfg.Inspect)
			if err != nil {
				return err
			}
			a.logger.Debug("inspected", "bytes", len(input), "kind", s.Kind().String())
			return a.emit(js, renderInspect)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject malformed UTF-8")
	cmd.Flags().BoolVar(&wrap, "foreign", false, "inspect the text held in foreign UTF-16 storage")
	return cmd
}

// input returns the single argument, or standard input for none or "-".
func (a *app) input(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	b, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, fmt.Errorf("reading standard input: %w", err)
	}
	return b, nil
}

// emit writes a report as JSON or through its text renderer.
func (a *app) emit(js string, text func(io.Writer, string)) error {
	if a.cfg.Inspect.Format == "json" {
		_, err := fmt.Fprintln(a.stdout, js)
		return err
	}
	text(a.stdout, js)
	return nil
}
