package validation

import (
	"time"

	"github.com/the-project-b/ritagraph-sub004/internal/common"
	"github.com/the-project-b/ritagraph-sub004/internal/record"
	"github.com/the-project-b/ritagraph-sub004/internal/transform"
)

// Input describes one field about to be transformed.
type Input struct {
	// Value is the current value; meaningful only when Present.
	Value   any
	Present bool
	Path    string
	// Expected is true when the field belongs to the expected record.
	Expected bool
	// Self is the record owning the field; Counterpart is the record on the
	// other side, if known.
	Self        record.Record
	Counterpart record.Record
	// Now overrides the registry clock when non-zero.
	Now time.Time
}

// Outcome is the result of ApplyTransformer.
type Outcome struct {
	Value   any
	Present bool
	// WasAdded is true when an absent expected field was populated.
	WasAdded bool
	// Applied is true when a transformer fired at all.
	Applied bool
}

// ApplyTransformer applies the transformer configured for in.Path according
// to its strategy:
//
//	strategy            expected side                        actual side
//	add-missing-only    write only when the field is absent   untouched
//	transform-always    replace when present                  replace when present
//	transform-existing  replace when present                  replace when present
//	add-if-actual-has   write iff actual has the field        untouched
//
// Unknown keys, failed conditions and ignored paths leave the input unchanged.
func ApplyTransformer(reg *transform.Registry, cfg Config, in Input) Outcome {
	out := Outcome{Value: in.Value, Present: in.Present}

	if ShouldIgnorePath(in.Path, cfg) {
		return out
	}

	key, ok := cfg.Transformers[in.Path]
	if !ok {
		return out
	}

	t, ok := reg.Get(key)
	if !ok {
		return out
	}

	gate := transform.Gate{Self: in.Self, Expected: in.Self, Actual: in.Counterpart}
	if !in.Expected {
		gate.Expected, gate.Actual = in.Counterpart, in.Self
	}

	if !reg.Allows(t, gate) {
		return out
	}

	now := in.Now
	if now.IsZero() {
		now = reg.Now()
	}

	ctx := transform.Context{
		Now:         now,
		Path:        in.Path,
		Expected:    in.Expected,
		Self:        in.Self,
		Counterpart: in.Counterpart,
	}

	switch t.Strategy {
	case transform.StrategyAddMissingOnly:
		if !in.Expected || in.Present {
			return out
		}

	case transform.StrategyAddIfActualHas:
		if !in.Expected || in.Present || !in.Counterpart.Has(in.Path) {
			return out
		}

	case transform.StrategyTransformAlways, transform.StrategyTransformExisting:
		if !in.Present {
			return out
		}

		return Outcome{Value: t.Transform(in.Value, ctx), Present: true, Applied: true}

	default:
		return out
	}

	return Outcome{Value: t.Transform(nil, ctx), Present: true, WasAdded: true, Applied: true}
}

// AddResult is the result of ApplyAddTransformers.
type AddResult struct {
	Records []record.Record
	// Added lists, per record, the paths that were populated.
	Added [][]string
}

// ApplyAddTransformers runs add-strategy transformers over expected records.
// Each record resolves cfg against its own "_validation" override. Existing
// fields are never overwritten and actual records are returned as copies.
// counterparts[i] is the record paired with records[i], or nil; callers pair
// them by content. Input records are not modified.
func ApplyAddTransformers(
	reg *transform.Registry,
	records []record.Record,
	cfg Config,
	isExpected bool,
	counterparts []record.Record,
	now time.Time,
) AddResult {
	res := AddResult{
		Records: make([]record.Record, len(records)),
		Added:   make([][]string, len(records)),
	}

	for i, rec := range records {
		out := rec.Clone()
		res.Records[i] = out

		if !isExpected {
			continue
		}

		var counterpart record.Record
		if i < len(counterparts) {
			counterpart = counterparts[i]
		}

		rc := cfg
		if override, err := RecordOverride(rec); err == nil && override != nil {
			rc = Resolve(&cfg, override)
		}

		for _, path := range rc.TransformerPaths() {
			if out.Has(path) {
				continue
			}

			t, ok := reg.Get(rc.Transformers[path])
			if !ok || !t.Strategy.IsAdd() {
				continue
			}

			o := ApplyTransformer(reg, rc, Input{
				Path:        path,
				Expected:    true,
				Self:        out,
				Counterpart: counterpart,
				Now:         now,
			})
			if o.WasAdded && out.Set(path, o.Value) {
				res.Added[i] = append(res.Added[i], path)
			}
		}
	}

	return res
}

// ApplyExistingTransformers runs transform-strategy transformers over the
// fields present in rec and returns the transformed copy.
func ApplyExistingTransformers(
	reg *transform.Registry,
	rec record.Record,
	cfg Config,
	isExpected bool,
	counterpart record.Record,
	now time.Time,
) record.Record {
	out := rec.Clone()

	for _, path := range cfg.TransformerPaths() {
		v, ok := out.Lookup(path)
		if !ok {
			continue
		}

		t, ok := reg.Get(cfg.Transformers[path])
		if !ok || t.Strategy.IsAdd() {
			continue
		}

		o := ApplyTransformer(reg, cfg, Input{
			Value:       v,
			Present:     true,
			Path:        path,
			Expected:    isExpected,
			Self:        out,
			Counterpart: counterpart,
			Now:         now,
		})
		if o.Applied {
			out.Set(path, o.Value)
		}
	}

	return out
}

// StripIgnored returns a copy of rec without the paths cfg ignores.
func StripIgnored(rec record.Record, cfg Config) record.Record {
	out := rec.Clone()
	if common.IsEmpty(cfg.IgnorePaths) {
		return out
	}

	var drop []string

	rec.Walk(func(path string, _ any) bool {
		if ShouldIgnorePath(path, cfg) {
			drop = append(drop, path)
			return false
		}

		return true
	})

	for _, path := range drop {
		out.Delete(path)
	}

	return out
}
