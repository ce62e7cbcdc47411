package transform

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	for _, key := range []string{
		KeyLowercase, KeyUppercase, KeyTrim, KeyDateOnly, KeyToNumber, KeyToBoolean,
		KeyEmptyToNull, KeySortArray, KeyCurrentDate, KeyCurrentDateOnChange, KeyAcceptActual,
	} {
		assert.True(t, r.Has(key), key)
	}

	keys := r.Keys()
	assert.IsNonDecreasing(t, keys)
	assert.Len(t, r.All(), len(keys))

	assert.Empty(t, NewRegistry(WithoutBuiltins()).Keys())
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(WithoutBuiltins())
	identity := func(v any, _ Context) any { return v }

	require.NoError(t, r.Register(&Transformer{Key: "id", Strategy: StrategyTransformAlways, Transform: identity}))
	assert.True(t, r.Has("id"))

	tests := []struct {
		name string
		t    *Transformer
		err  error
	}{
		{"nil", nil, ErrEmptyKey},
		{"empty key", &Transformer{Strategy: StrategyTransformAlways, Transform: identity}, ErrEmptyKey},
		{"reserved", &Transformer{Key: TemplateKeyPrefix + "today", Strategy: StrategyAddMissingOnly, Transform: identity}, ErrReservedKey},
		{"strategy", &Transformer{Key: "x", Strategy: "sometimes", Transform: identity}, ErrInvalidStrategy},
		{"target", &Transformer{Key: "x", Strategy: StrategyAddMissingOnly, Transform: identity, ConditionTarget: "other"}, ErrInvalidTarget},
		{"no func", &Transformer{Key: "x", Strategy: StrategyAddMissingOnly}, ErrNilTransform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.Register(tt.t), tt.err)
		})
	}
}

func TestRegistry_RegisterRejectsBadExpression(t *testing.T) {
	r := NewRegistry(WithoutBuiltins())

	err := r.Register(&Transformer{
		Key:       "bad",
		Strategy:  StrategyAddMissingOnly,
		Transform: func(any, Context) any { return 1 },
		When:      &Condition{Expr: "actual.changeType =="},
	})
	require.Error(t, err)
	assert.False(t, r.Has("bad"))
}

func TestRegistry_TemplateKeys(t *testing.T) {
	r := NewRegistry(WithClock(fixedClock(time.Date(2024, 9, 18, 0, 0, 0, 0, time.UTC))))

	tr, ok := r.Get(TemplateKeyPrefix + "currentMonth+1")
	require.True(t, ok)
	assert.Equal(t, StrategyAddMissingOnly, tr.Strategy)
	assert.Equal(t, TemplateKeyPrefix+"currentMonth+1", tr.Key)

	for _, bad := range []string{"currentMonth++1", "today+1", "nope", ""} {
		assert.False(t, r.Has(TemplateKeyPrefix+bad), bad)
	}

	assert.NotContains(t, r.Keys(), TemplateKeyPrefix+"currentMonth+1")
}

func TestRegistry_TemplateValueUsesCallTimeClock(t *testing.T) {
	r := NewRegistry(WithClock(fixedClock(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))))

	tr, ok := r.Get(TemplateKeyPrefix + "currentMonth")
	require.True(t, ok)

	assert.Equal(t, "2024-03-01T00:00:00.000Z",
		tr.Transform(nil, Context{Now: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}))
	assert.Equal(t, "2024-01-01T00:00:00.000Z", tr.Transform(nil, Context{}),
		"zero call-time clock falls back to the registry clock")

	again, ok := r.Get(TemplateKeyPrefix + "currentMonth")
	require.True(t, ok)
	assert.Same(t, tr, again, "synthesized transformers are memoized")
}

func TestRegistry_TemplateCacheIsBounded(t *testing.T) {
	r := NewRegistry(WithCacheSize(2))

	for _, expr := range []string{"currentDay+1", "currentDay+2", "currentDay+3"} {
		assert.True(t, r.Has(TemplateKeyPrefix+expr))
	}

	assert.Equal(t, 2, r.dynamic.Len())
	// Evicted keys are synthesized again on demand.
	assert.True(t, r.Has(TemplateKeyPrefix+"currentDay+1"))
}

func TestRegistry_ConcurrentTemplateLookups(t *testing.T) {
	r := NewRegistry()
	key := TemplateKeyPrefix + "currentYear"

	var wg sync.WaitGroup

	results := make([]*Transformer, 16)
	for i := range results {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			results[i], _ = r.Get(key)
		}(i)
	}

	wg.Wait()

	for _, tr := range results {
		require.NotNil(t, tr)
		assert.Equal(t, key, tr.Key)
	}
}

func TestRegistry_Allows(t *testing.T) {
	r := NewRegistry()
	gated, ok := r.Get(KeyCurrentDateOnChange)
	require.True(t, ok)

	expected := record.Record{"changedField": "salary"}

	assert.True(t, r.Allows(gated, Gate{Self: expected, Expected: expected, Actual: record.Record{"changeType": "change"}}))
	assert.False(t, r.Allows(gated, Gate{Self: expected, Expected: expected, Actual: record.Record{"changeType": "creation"}}))
	assert.False(t, r.Allows(gated, Gate{Self: expected, Expected: expected}), "missing target record fails")

	plain, _ := r.Get(KeyLowercase)
	assert.True(t, r.Allows(plain, Gate{}))
}

func TestRegistry_AllowsExpression(t *testing.T) {
	r := NewRegistry()
	tr := &Transformer{
		Key:             "big-raise",
		Strategy:        StrategyAddMissingOnly,
		Transform:       func(any, Context) any { return true },
		When:            &Condition{Expr: `actual.changeType == "change" && expected.changedField == "salary"`},
		ConditionTarget: TargetActual,
	}
	require.NoError(t, r.Register(tr))

	g := Gate{
		Expected: record.Record{"changedField": "salary"},
		Actual:   record.Record{"changeType": "change"},
	}
	g.Self = g.Expected
	assert.True(t, r.Allows(tr, g))

	g.Expected = record.Record{"changedField": "title"}
	assert.False(t, r.Allows(tr, g))

	// Runtime errors (missing key) count as a failed gate.
	g.Actual = record.Record{}
	assert.False(t, r.Allows(tr, g))
}

func TestCondition_MatchPath(t *testing.T) {
	yes, no := true, false
	r := record.Record{"changeType": "change", "amount": 10, "empty": nil}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"no path", Condition{}, true},
		{"path only present", Condition{Path: "changeType"}, true},
		{"path only absent", Condition{Path: "missing"}, false},
		{"equals", Condition{Path: "changeType", Equals: "change"}, true},
		{"equals mismatch", Condition{Path: "changeType", Equals: "creation"}, false},
		{"equals absent", Condition{Path: "missing", Equals: "x"}, false},
		{"equals number", Condition{Path: "amount", Equals: 10.0}, true},
		{"not equals", Condition{Path: "changeType", NotEquals: "creation"}, true},
		{"not equals mismatch", Condition{Path: "changeType", NotEquals: "change"}, false},
		{"not equals absent", Condition{Path: "missing", NotEquals: "change"}, true},
		{"exists true", Condition{Path: "empty", Exists: &yes}, true},
		{"exists false", Condition{Path: "missing", Exists: &no}, true},
		{"exists false present", Condition{Path: "amount", Exists: &no}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.matchPath(r))
		})
	}
}

func TestStrategy(t *testing.T) {
	assert.True(t, StrategyAddMissingOnly.IsAdd())
	assert.True(t, StrategyAddIfActualHas.IsAdd())
	assert.False(t, StrategyTransformAlways.IsAdd())
	assert.False(t, StrategyTransformExisting.IsAdd())
	assert.False(t, Strategy("x").IsValid())
	assert.True(t, ConditionTarget("").IsValid())
}

func TestCondition_String(t *testing.T) {
	no := false

	assert.Equal(t, `changeType == "change"`, (&Condition{Path: "changeType", Equals: "change"}).String())
	assert.Equal(t, `amount != 0`, (&Condition{Path: "amount", NotEquals: 0}).String())
	assert.Equal(t, "has(x)", (&Condition{Path: "x"}).String())
	assert.Equal(t, "!has(x)", (&Condition{Path: "x", Exists: &no}).String())
	assert.Equal(t, `has(x) && self.y > 1`, (&Condition{Path: "x", Expr: "self.y > 1"}).String())
	assert.Empty(t, (*Condition)(nil).String())

	yes := true
	combined := &Condition{Path: "changeType", Exists: &yes, Equals: "change", NotEquals: "creation", Expr: "self.y > 1"}
	assert.Equal(t, `has(changeType) && changeType == "change" && changeType != "creation" && self.y > 1`, combined.String())
}
