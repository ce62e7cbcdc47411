package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/the-project-b/ritagraph-sub004/internal/template"
)

type templateOptions struct {
	start   string
	end     string
	verbose bool
}

func newTemplateCmd(g *globalOptions) *cobra.Command {
	opts := &templateOptions{}

	cmd := &cobra.Command{
		Use:   "template [text...]",
		Short: "Replace {{expression}} tokens such as {{currentMonth+1}} in text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := g.clock()
			if err != nil {
				return err
			}

			engine := template.New(template.WithDelimiters(template.Delimiters{Start: opts.start, End: opts.end}))
			res := engine.Process(strings.Join(args, " "), template.NewContext(now()))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Text)

			if opts.verbose {
				for _, r := range res.Replacements {
					fmt.Fprintf(out, "[%d,%d) %s -> %q (data %v)\n",
						r.StartIndex, r.EndIndex, r.Expression, r.Result.DisplayValue, r.Result.DataValue)
				}
			}

			return nil
		},
	}

	d := template.DefaultDelimiters()
	cmd.Flags().StringVar(&opts.start, "start", d.Start, "opening delimiter")
	cmd.Flags().StringVar(&opts.end, "end", d.End, "closing delimiter")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "list every replacement")

	return cmd
}
