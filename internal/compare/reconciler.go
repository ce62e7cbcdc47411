package compare

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/the-project-b/ritagraph-sub004/internal/record"
	"github.com/the-project-b/ritagraph-sub004/internal/transform"
	"github.com/the-project-b/ritagraph-sub004/internal/validation"
)

// Evaluation is the outcome of Reconciler.Evaluate.
type Evaluation struct {
	Result Result
	// Expected and Actual are the records as compared, after transformers,
	// ignore stripping and normalization.
	Expected []record.Record
	Actual   []record.Record
	// Added lists, per expected record, the paths filled by add transformers.
	// They exist for comparison only and are never reported as mismatches on
	// their own: a path the counterpart lacks is removed from Expected.
	Added [][]string
	// Pairs and Report are set only when Result.Matches is false.
	Pairs  []Pair
	Report *Report
	// ReportErr is set when the diff could not be rendered. The verdict in
	// Result is still valid.
	ReportErr error
}

// Reconciler runs the full comparison pipeline.
type Reconciler struct {
	registry *transform.Registry
	aligner  Aligner
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithAligner replaces the default GreedyAligner.
func WithAligner(a Aligner) Option {
	return func(r *Reconciler) {
		if a != nil {
			r.aligner = a
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the clock used by date transformers.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReconciler returns a Reconciler resolving transformer keys in reg. A nil
// registry gets the built-in transformers.
func NewReconciler(reg *transform.Registry, opts ...Option) *Reconciler {
	if reg == nil {
		reg = transform.NewRegistry()
	}

	r := &Reconciler{
		registry: reg,
		aligner:  NewGreedyAligner(),
		logger:   slog.Default(),
		now:      reg.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Registry returns the transformer registry in use.
func (r *Reconciler) Registry() *transform.Registry {
	return r.registry
}

// Evaluate compares expected and actual under the configuration layers,
// ordered from least to most specific (typically global then example). Each
// expected record may add its own "_validation" layer on top.
//
// Expected records get add transformers first; then both sides have ignored
// paths stripped, existing-value transformers applied and normalization run
// before the set comparison. Counterparts pair by content through the
// aligner, so record order on either side does not matter. An added field is
// dropped from the compared record when its counterpart lacks it.
func (r *Reconciler) Evaluate(expected, actual []record.Record, layers ...*validation.Config) Evaluation {
	now := r.now()
	base := validation.Resolve(layers...)

	overrides := make([]*validation.Config, len(expected))
	for i, rec := range expected {
		o, err := validation.RecordOverride(rec)
		if err != nil {
			r.logger.Warn("ignoring record override", "index", i, "error", err)
			continue
		}

		overrides[i] = o
	}

	expPeer, actPeer := r.counterparts(expected, actual)

	added := validation.ApplyAddTransformers(r.registry, expected, base, true, peers(actual, expPeer), now)

	ev := Evaluation{
		Expected: make([]record.Record, len(expected)),
		Actual:   make([]record.Record, len(actual)),
		Added:    added.Added,
	}

	for i, rec := range added.Records {
		cfg := base
		if overrides[i] != nil {
			cfg = validation.Resolve(&base, overrides[i])
		}

		ev.Expected[i] = r.prepare(rec, base, cfg, true, pick(actual, expPeer[i]), now)
	}

	for j, rec := range actual {
		ev.Actual[j] = r.prepare(rec, base, base, false, pick(expected, actPeer[j]), now)
	}

	for i, paths := range ev.Added {
		peer := pick(ev.Actual, expPeer[i])

		for _, path := range paths {
			dropAdded(ev.Expected[i], peer, path)
		}
	}

	ev.Result = CompareProposals(ev.Expected, ev.Actual)

	if len(ev.Result.Duplicates) > 0 {
		r.logger.Warn("duplicate records collapse under set comparison",
			"duplicates", len(ev.Result.Duplicates))
	}

	r.logger.Debug("compared proposals",
		"expected", len(expected),
		"actual", len(actual),
		"matches", ev.Result.Matches,
		"missing", len(ev.Result.MissingInActual),
		"unexpected", len(ev.Result.UnexpectedInActual))

	if ev.Result.Matches {
		return ev
	}

	ev.Pairs = r.aligner.Align(ev.Expected, ev.Actual)

	report, err := RenderDiff(ev.Expected, ev.Actual, ev.Pairs)
	if err != nil {
		ev.ReportErr = errors.Join(ErrReport, err)
		r.logger.Error("failed to render diff", "error", err)

		return ev
	}

	ev.Report = &report

	return ev
}

// ErrReport wraps failures to render the mismatch report.
var ErrReport = errors.New("diff report unavailable")

// prepare strips ignored paths using the shared config, so both sides lose
// the same fields, and transforms using the record's own config.
func (r *Reconciler) prepare(
	rec record.Record,
	shared, own validation.Config,
	isExpected bool,
	counterpart record.Record,
	now time.Time,
) record.Record {
	out := validation.StripIgnored(rec.Content(), shared)
	out = validation.ApplyExistingTransformers(r.registry, out, own, isExpected, counterpart, now)

	return validation.Normalize(out, shared.Normalization)
}

// dropAdded removes an added path the peer lacks, along with any ancestor
// left empty by the removal.
func dropAdded(rec, peer record.Record, path string) {
	for p := path; p != ""; p = parentPath(p) {
		if peer.Has(p) {
			return
		}

		if p != path {
			v, _ := rec.Lookup(p)
			if m, ok := record.AsMap(v); !ok || len(m) > 0 {
				return
			}
		}

		rec.Delete(p)
	}
}

func parentPath(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return ""
	}

	return path[:i]
}

// counterparts pairs records by content with the aligner so transformers
// that read the other side see the matching record regardless of order.
// Indices are NoIndex for records without a counterpart.
func (r *Reconciler) counterparts(expected, actual []record.Record) (expPeer, actPeer []int) {
	expPeer = noIndices(len(expected))
	actPeer = noIndices(len(actual))

	for _, p := range r.aligner.Align(contents(expected), contents(actual)) {
		if !p.IsMatched() || p.ExpectedIndex >= len(expected) || p.ActualIndex >= len(actual) {
			continue
		}

		if expPeer[p.ExpectedIndex] != NoIndex || actPeer[p.ActualIndex] != NoIndex {
			continue
		}

		expPeer[p.ExpectedIndex] = p.ActualIndex
		actPeer[p.ActualIndex] = p.ExpectedIndex
	}

	return expPeer, actPeer
}

func noIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = NoIndex
	}

	return out
}

func contents(records []record.Record) []record.Record {
	out := make([]record.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Content()
	}

	return out
}

func peers(records []record.Record, idx []int) []record.Record {
	out := make([]record.Record, len(idx))
	for i, j := range idx {
		out[i] = pick(records, j)
	}

	return out
}
