package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/smazurov/lichtwerk/internal/effects"
	"github.com/spf13/cobra"
)

// CreateEffectsCmd creates the effects command.
func CreateEffectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "effects",
		Short: "List built-in effects and their options",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return printEffects(c.OutOrStdout(), effects.Builtin())
		},
	}
}

func printEffects(w io.Writer, registry *effects.Registry) error {
	for _, desc := range registry.List() {
		if _, err := fmt.Fprintf(w, "%-14s %s\n", desc.ID, desc.DisplayName); err != nil {
			return err
		}
		for _, opt := range desc.Options {
			line := fmt.Sprintf("  %-12s %-5s default=%v", opt.Key, opt.Kind, opt.Default)
			switch {
			case len(opt.Choices) > 0:
				line += " choices=" + strings.Join(opt.Choices, "|")
			case opt.Kind == effects.KindInt:
				line += fmt.Sprintf(" range=%d..%d", opt.Min, opt.Max)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
