package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTransformersCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transformers",
		Short: "List registered transformers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}

			reg, err := g.registry(logger)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSTRATEGY\tCONDITION\tDESCRIPTION")

			for _, t := range reg.All() {
				cond := "-"
				if t.When != nil {
					cond = t.When.String()
					if t.ConditionTarget != "" {
						cond = string(t.ConditionTarget) + ": " + cond
					}
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Key, t.Strategy, cond, t.Description)
			}

			fmt.Fprintf(tw, "%s<expr>\t%s\t-\t%s\n", "transformer-template-", "add-missing-only", "value of a template expression")

			return tw.Flush()
		},
	}
}
