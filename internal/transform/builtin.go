package transform

import (
	"strconv"
	"strings"
	"time"

	"github.com/the-project-b/ritagraph-sub004/internal/canon"
	"github.com/the-project-b/ritagraph-sub004/internal/template"
)

// Built-in transformer keys.
const (
	KeyLowercase           = "lowercase"
	KeyUppercase           = "uppercase"
	KeyTrim                = "trim"
	KeyDateOnly            = "date-only"
	KeyToNumber            = "to-number"
	KeyToBoolean           = "to-boolean"
	KeyEmptyToNull         = "empty-to-null"
	KeySortArray           = "sort-array"
	KeyCurrentDate         = "current-date"
	KeyCurrentDateOnChange = "current-date-on-change"
	KeyAcceptActual        = "accept-actual"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func builtins(r *Registry) []*Transformer {
	changeOnly := &Condition{Path: "changeType", Equals: "change"}

	return []*Transformer{
		{
			Key:         KeyLowercase,
			Description: "lowercases string values",
			Strategy:    StrategyTransformExisting,
			Transform:   mapString(strings.ToLower),
		},
		{
			Key:         KeyUppercase,
			Description: "uppercases string values",
			Strategy:    StrategyTransformExisting,
			Transform:   mapString(strings.ToUpper),
		},
		{
			Key:         KeyTrim,
			Description: "trims surrounding whitespace from string values",
			Strategy:    StrategyTransformExisting,
			Transform:   mapString(strings.TrimSpace),
		},
		{
			Key:         KeyDateOnly,
			Description: "reduces date-time strings to YYYY-MM-DD",
			Strategy:    StrategyTransformExisting,
			Transform:   dateOnly,
		},
		{
			Key:         KeyToNumber,
			Description: "parses numeric strings into numbers",
			Strategy:    StrategyTransformExisting,
			Transform:   toNumber,
		},
		{
			Key:         KeyToBoolean,
			Description: "parses true/false, yes/no, on/off and 1/0 strings into booleans",
			Strategy:    StrategyTransformExisting,
			Transform:   toBoolean,
		},
		{
			Key:         KeyEmptyToNull,
			Description: "replaces empty strings with null",
			Strategy:    StrategyTransformExisting,
			Transform: func(v any, _ Context) any {
				if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
					return nil
				}

				return v
			},
		},
		{
			Key:         KeySortArray,
			Description: "sorts array elements by canonical text",
			Strategy:    StrategyTransformExisting,
			Transform:   sortArray,
		},
		{
			Key:         KeyCurrentDate,
			Description: "adds today's date (UTC midnight) when missing",
			Strategy:    StrategyAddMissingOnly,
			Transform:   r.todayValue,
		},
		{
			Key:             KeyCurrentDateOnChange,
			Description:     "adds today's date when missing and the actual record is a change",
			Strategy:        StrategyAddMissingOnly,
			Transform:       r.todayValue,
			When:            changeOnly,
			ConditionTarget: TargetActual,
		},
		{
			Key:         KeyAcceptActual,
			Description: "accepts whatever value the actual record has",
			Strategy:    StrategyAddIfActualHas,
			Transform: func(_ any, ctx Context) any {
				v, _ := ctx.CounterpartValue()
				return v
			},
		},
	}
}

func (r *Registry) todayValue(_ any, ctx Context) any {
	now := ctx.Now
	if now.IsZero() {
		now = r.now()
	}

	res, ok := r.templates.Evaluate(template.VarToday, template.NewContext(now))
	if !ok {
		return nil
	}

	return res.DataValue
}

func mapString(fn func(string) string) Func {
	return func(v any, _ Context) any {
		if s, ok := v.(string); ok {
			return fn(s)
		}

		return v
	}
}

func dateOnly(v any, _ Context) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}

	return v
}

func toNumber(v any, _ Context) any {
	switch t := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return v
		}

		return f
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func toBoolean(v any, _ Context) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return v
	}
}

func sortArray(v any, _ Context) any {
	arr, ok := v.([]any)
	if !ok {
		return v
	}

	return canon.SortValues(arr)
}
