package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/the-project-b/ritagraph-sub004/internal/transform"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	logLevel        string
	now             string
	transformerDefs string
	debug           bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "proposal-recon",
		Short:         "Reconcile expected and actual change proposals",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.now, "now", "", "clock override, YYYY-MM-DD or RFC 3339 (default: current time)")
	pf.StringVar(&opts.transformerDefs, "transformers-file", "", "YAML file with additional transformer definitions")
	pf.BoolVar(&opts.debug, "debug", false, "dump intermediate values to stderr")

	root.AddCommand(
		newCompareCmd(opts),
		newTemplateCmd(opts),
		newTransformersCmd(opts),
		newCheckConfigCmd(opts),
	)

	return root
}

func (o *globalOptions) logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), nil
}

func (o *globalOptions) clock() (func() time.Time, error) {
	if o.now == "" {
		return time.Now, nil
	}

	t, err := parseNow(o.now)
	if err != nil {
		return nil, err
	}

	return func() time.Time { return t }, nil
}

func parseNow(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid --now %q: want YYYY-MM-DD or RFC 3339", s)
}

// registry builds the transformer registry, loading --transformers-file when
// given.
func (o *globalOptions) registry(logger *slog.Logger) (*transform.Registry, error) {
	now, err := o.clock()
	if err != nil {
		return nil, err
	}

	reg := transform.NewRegistry(transform.WithClock(now), transform.WithLogger(logger))

	if o.transformerDefs == "" {
		return reg, nil
	}

	defs, err := transform.LoadDefinitions(o.transformerDefs)
	if err != nil {
		return nil, err
	}

	if err := reg.RegisterDefinitions(defs); err != nil {
		return nil, fmt.Errorf("failed to register transformer definitions: %w", err)
	}

	logger.Debug("loaded transformer definitions", "file", o.transformerDefs, "count", len(defs))

	return reg, nil
}
