package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/the-project-b/ritagraph-sub004/internal/diagnostic"
	"github.com/the-project-b/ritagraph-sub004/internal/validation"
)

var errInvalidConfig = errors.New("configuration has errors")

func newCheckConfigCmd(g *globalOptions) *cobra.Command {
	var casePath string

	cmd := &cobra.Command{
		Use:   "check-config [config-file]",
		Short: "Validate a validation config file and optional case overrides",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}

			reg, err := g.registry(logger)
			if err != nil {
				return err
			}

			diags := &diagnostic.Diagnostics{}

			if len(args) == 1 {
				f, err := validation.LoadFile(args[0])
				if err != nil {
					return err
				}

				diags.Merge(*validation.Validate(f.Global(), reg, "global"))

				ids := make([]string, 0, len(f.Examples))
				for id := range f.Examples {
					ids = append(ids, id)
				}

				sort.Strings(ids)

				for _, id := range ids {
					diags.Merge(*validation.Validate(f.Examples[id], reg, "example "+id))
				}
			}

			if casePath != "" {
				c, err := loadCase(casePath)
				if err != nil {
					return err
				}

				example, err := validation.FromMetadata(c.Metadata, validation.DefaultMetadataKey)
				if err != nil {
					diags.AddError(validation.CodeInvalidOverride, err.Error(), "metadata", validation.DefaultMetadataKey)
				} else {
					diags.Merge(*validation.Validate(example, reg, "metadata"))
				}

				diags.Merge(*validation.ValidateRecords(c.Expected, reg))
			}

			out := cmd.OutOrStdout()
			for _, d := range diags.All() {
				fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
			}

			fmt.Fprintln(out, diags.Summary())

			if diags.HasErrors() {
				return errInvalidConfig
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&casePath, "case", "", "case file whose metadata and record overrides are checked too")

	return cmd
}
