// Package transform provides the catalog of named value transformers used to
// normalize expected and actual records before comparison.
//
// # Strategies
//
// Each transformer carries a Strategy that decides where it fires:
//
//	strategy            expected side                        actual side
//	add-missing-only    write only when the field is absent   untouched
//	transform-always    replace when present                  replace when present
//	transform-existing  replace when present                  replace when present
//	add-if-actual-has   write iff actual has the field        untouched
//
// # Conditions
//
// A transformer may carry a Condition evaluated against the record chosen by
// its ConditionTarget (self, actual or expected). The transformer only applies
// when the condition passes.
//
// # Template-backed keys
//
// Looking up "transformer-template-<expr>" evaluates <expr> with the template
// engine. A valid expression yields an add-missing-only transformer whose value
// is computed from the clock at call time; an invalid one yields no transformer.
// Synthesized transformers are memoized in a bounded LRU cache.
package transform
