package template

import (
	"regexp"
	"strconv"
	"time"
)

// Context is the evaluation-time clock.
type Context struct {
	CurrentDate time.Time
}

// NewContext returns a Context for the given instant.
func NewContext(now time.Time) Context {
	return Context{CurrentDate: now}
}

// Result is the outcome of resolving one expression.
type Result struct {
	// DisplayValue is the human readable replacement text.
	DisplayValue string
	// DataValue is an ISO-8601 UTC timestamp string or an int year.
	DataValue any
}

// Expression is a parsed "name[+|-]N" expression.
type Expression struct {
	Variable  string
	Offset    int
	HasOffset bool
}

// String renders the expression back to its source form.
func (e Expression) String() string {
	if !e.HasOffset {
		return e.Variable
	}

	if e.Offset < 0 {
		return e.Variable + strconv.Itoa(e.Offset)
	}

	return e.Variable + "+" + strconv.Itoa(e.Offset)
}

// Evaluator resolves a variable against a context. Returning false means the
// expression has no result.
type Evaluator func(ctx Context, expr Expression) (Result, bool)

var expressionPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:([+-])([0-9]+))?$`)

// ParseExpression parses "name", "name+N" or "name-N".
// Anything else (whitespace, double signs, a sign without digits, a missing
// name) is rejected.
func ParseExpression(s string) (Expression, bool) {
	m := expressionPattern.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, false
	}

	expr := Expression{Variable: m[1]}
	if m[2] == "" {
		return expr, true
	}

	n, err := strconv.Atoi(m[3])
	if err != nil {
		return Expression{}, false
	}

	if m[2] == "-" {
		n = -n
	}

	expr.Offset = n
	expr.HasOffset = true

	return expr, true
}

// isoLayout matches the millisecond UTC timestamps the evaluation platform stores.
const isoLayout = "2006-01-02T15:04:05.000Z"

// FormatISO renders t at UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func evalCurrentMonth(ctx Context, expr Expression) (Result, bool) {
	now := ctx.CurrentDate.UTC()
	target := time.Date(now.Year(), now.Month()+time.Month(expr.Offset), 1, 0, 0, 0, 0, time.UTC)

	display := target.Month().String()
	if target.Year() != now.Year() {
		display += " " + strconv.Itoa(target.Year())
	}

	return Result{DisplayValue: display, DataValue: FormatISO(target)}, true
}

func evalCurrentYear(ctx Context, expr Expression) (Result, bool) {
	year := ctx.CurrentDate.UTC().Year() + expr.Offset

	return Result{DisplayValue: strconv.Itoa(year), DataValue: year}, true
}

func evalCurrentDay(ctx Context, expr Expression) (Result, bool) {
	base := utcMidnight(ctx.CurrentDate)
	target := base.AddDate(0, 0, expr.Offset)

	var display string

	switch {
	case target.Year() != base.Year():
		display = target.Format("January 2, 2006")
	case target.Month() != base.Month():
		display = target.Format("January 2")
	default:
		display = strconv.Itoa(target.Day())
	}

	return Result{DisplayValue: display, DataValue: FormatISO(target)}, true
}

func evalToday(ctx Context, expr Expression) (Result, bool) {
	if expr.HasOffset {
		return Result{}, false
	}

	day := utcMidnight(ctx.CurrentDate)

	return Result{
		DisplayValue: strconv.Itoa(int(day.Month())) + "/" + strconv.Itoa(day.Day()) + "/" + strconv.Itoa(day.Year()),
		DataValue:    FormatISO(day),
	}, true
}

// Built-in variable names.
const (
	VarCurrentMonth = "currentMonth"
	VarCurrentYear  = "currentYear"
	VarCurrentDay   = "currentDay"
	VarToday        = "today"
)

func builtinVariables() map[string]Evaluator {
	return map[string]Evaluator{
		VarCurrentMonth: evalCurrentMonth,
		VarCurrentYear:  evalCurrentYear,
		VarCurrentDay:   evalCurrentDay,
		VarToday:        evalToday,
	}
}
