package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/the-project-b/ritagraph-sub004/internal/compare"
	"github.com/the-project-b/ritagraph-sub004/internal/validation"
)

var errMismatch = errors.New("proposals do not match")

type compareOptions struct {
	casePath     string
	expectedPath string
	actualPath   string
	configPath   string
	exampleID    string
	metadataKey  string
}

func newCompareCmd(g *globalOptions) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare expected and actual proposals and print a diff on mismatch",
		Long: `Compare reads a case file (id, metadata, expected, actual) or separate
expected/actual record files, applies the global, example and per-record
validation layers and reports whether both sides match as sets.

Exits non-zero on a mismatch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, g, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.casePath, "case", "", "case file with expected and actual proposals")
	f.StringVar(&opts.expectedPath, "expected", "", "expected records file (instead of --case)")
	f.StringVar(&opts.actualPath, "actual", "", "actual records file (instead of --case)")
	f.StringVar(&opts.configPath, "config", "", "validation config file (global layer plus examples)")
	f.StringVar(&opts.exampleID, "example", "", "example id to pick from the config file (default: case id)")
	f.StringVar(&opts.metadataKey, "metadata-key", validation.DefaultMetadataKey, "case metadata key holding the example layer")
	cmd.MarkFlagsMutuallyExclusive("case", "expected")
	cmd.MarkFlagsMutuallyExclusive("case", "actual")
	cmd.MarkFlagsRequiredTogether("expected", "actual")

	return cmd
}

func runCompare(cmd *cobra.Command, g *globalOptions, opts *compareOptions) error {
	logger, err := g.logger(cmd)
	if err != nil {
		return err
	}

	reg, err := g.registry(logger)
	if err != nil {
		return err
	}

	c, err := opts.load()
	if err != nil {
		return err
	}

	layers, err := opts.layers(c)
	if err != nil {
		return err
	}

	ev := compare.NewReconciler(reg, compare.WithLogger(logger)).Evaluate(c.Expected, c.Actual, layers...)

	if g.debug {
		spew.Fdump(cmd.ErrOrStderr(), ev)
	}

	printEvaluation(cmd.OutOrStdout(), ev)

	if ev.ReportErr != nil {
		return ev.ReportErr
	}

	if !ev.Result.Matches {
		return errMismatch
	}

	return nil
}

func (o *compareOptions) load() (*caseFile, error) {
	if o.casePath != "" {
		return loadCase(o.casePath)
	}

	if o.expectedPath == "" {
		return nil, errors.New("either --case or --expected and --actual is required")
	}

	expected, err := loadRecords(o.expectedPath)
	if err != nil {
		return nil, err
	}

	actual, err := loadRecords(o.actualPath)
	if err != nil {
		return nil, err
	}

	return &caseFile{Expected: expected, Actual: actual}, nil
}

// layers returns the global and example layers. The example layer comes from
// the case metadata when present, otherwise from the config file.
func (o *compareOptions) layers(c *caseFile) ([]*validation.Config, error) {
	var file *validation.File

	if o.configPath != "" {
		f, err := validation.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}

		file = f
	}

	example, err := validation.FromMetadata(c.Metadata, o.metadataKey)
	if err != nil {
		return nil, err
	}

	if example == nil {
		id := o.exampleID
		if id == "" {
			id = c.ID
		}

		example = file.Example(id)
	}

	return []*validation.Config{file.Global(), example}, nil
}

func printEvaluation(w io.Writer, ev compare.Evaluation) {
	res := ev.Result

	if res.Matches {
		fmt.Fprintf(w, "MATCH (%d expected, %d actual)\n", len(ev.Expected), len(ev.Actual))
	} else {
		fmt.Fprintf(w, "MISMATCH: %d missing in actual, %d unexpected in actual\n",
			len(res.MissingInActual), len(res.UnexpectedInActual))
	}

	if len(res.Duplicates) > 0 {
		fmt.Fprintf(w, "note: %d duplicate record(s) collapsed by set comparison\n", len(res.Duplicates))
	}

	for i, paths := range ev.Added {
		for _, p := range paths {
			fmt.Fprintf(w, "added expected[%d].%s for comparison\n", i, p)
		}
	}

	if ev.Report != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, ev.Report.Text())
	}
}
