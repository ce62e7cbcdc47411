package transform

import (
	"time"

	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

// Strategy governs when and on which side a transformer fires.
type Strategy string

const (
	// StrategyAddMissingOnly writes the transform result into the expected
	// record only when the field is absent. The actual side is never touched.
	StrategyAddMissingOnly Strategy = "add-missing-only"
	// StrategyTransformAlways replaces a present value on either side.
	// Absent fields stay absent.
	StrategyTransformAlways Strategy = "transform-always"
	// StrategyTransformExisting behaves exactly like StrategyTransformAlways.
	StrategyTransformExisting Strategy = "transform-existing"
	// StrategyAddIfActualHas adds the transform result to the expected record
	// iff the actual record has the field. The actual side is never touched.
	StrategyAddIfActualHas Strategy = "add-if-actual-has"
)

// IsValid returns true if the strategy is a recognized value.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyAddMissingOnly, StrategyTransformAlways, StrategyTransformExisting, StrategyAddIfActualHas:
		return true
	default:
		return false
	}
}

// IsAdd returns true for strategies that populate absent expected fields.
func (s Strategy) IsAdd() bool {
	return s == StrategyAddMissingOnly || s == StrategyAddIfActualHas
}

// ConditionTarget selects the record a condition is evaluated against.
type ConditionTarget string

const (
	TargetSelf     ConditionTarget = "self"
	TargetActual   ConditionTarget = "actual"
	TargetExpected ConditionTarget = "expected"
)

// IsValid returns true if the target is a recognized value. Empty means self.
func (t ConditionTarget) IsValid() bool {
	switch t {
	case "", TargetSelf, TargetActual, TargetExpected:
		return true
	default:
		return false
	}
}

// Context is passed to a transform function.
type Context struct {
	// Now is the call-time clock.
	Now time.Time
	// Path is the field being transformed.
	Path string
	// Expected is true when the value belongs to the expected record.
	Expected bool
	// Self is the record owning the field; Counterpart is the record on the
	// other side, if known.
	Self        record.Record
	Counterpart record.Record
}

// CounterpartValue returns the counterpart's value at Path.
func (c Context) CounterpartValue() (any, bool) {
	return c.Counterpart.Lookup(c.Path)
}

// Func computes a transformed value. For add strategies value is nil.
type Func func(value any, ctx Context) any

// Transformer is a named value transform.
type Transformer struct {
	Key             string
	Description     string
	Strategy        Strategy
	Transform       Func
	When            *Condition
	ConditionTarget ConditionTarget
}
