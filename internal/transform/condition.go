package transform

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/the-project-b/ritagraph-sub004/internal/canon"
	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

// Condition gates a transformer on the content of a record.
//
// Every operator that is set must pass. A condition with only Path set
// checks that the path exists. Expr is a CEL boolean expression over the
// variables self, actual and expected.
//
//	when:
//	  path: changeType
//	  equals: change
//	conditionTarget: actual
type Condition struct {
	Path      string `yaml:"path,omitempty" mapstructure:"path"`
	Equals    any    `yaml:"equals,omitempty" mapstructure:"equals"`
	NotEquals any    `yaml:"notEquals,omitempty" mapstructure:"notEquals"`
	Exists    *bool  `yaml:"exists,omitempty" mapstructure:"exists"`
	Expr      string `yaml:"expr,omitempty" mapstructure:"expr"`
}

// String renders the condition compactly, e.g. `changeType == "change"`.
func (c *Condition) String() string {
	if c == nil {
		return ""
	}

	var parts []string

	if c.Path != "" {
		if c.Exists != nil {
			if *c.Exists {
				parts = append(parts, "has("+c.Path+")")
			} else {
				parts = append(parts, "!has("+c.Path+")")
			}
		}

		if c.Equals != nil {
			parts = append(parts, fmt.Sprintf("%s == %s", c.Path, canon.ToCanonicalText(c.Equals)))
		}

		if c.NotEquals != nil {
			parts = append(parts, fmt.Sprintf("%s != %s", c.Path, canon.ToCanonicalText(c.NotEquals)))
		}

		if len(parts) == 0 {
			parts = append(parts, "has("+c.Path+")")
		}
	}

	if c.Expr != "" {
		parts = append(parts, c.Expr)
	}

	return strings.Join(parts, " && ")
}

// Gate carries the records a condition may be evaluated against.
type Gate struct {
	Self     record.Record
	Expected record.Record
	Actual   record.Record
}

func (g Gate) target(t ConditionTarget) record.Record {
	switch t {
	case TargetActual:
		return g.Actual
	case TargetExpected:
		return g.Expected
	default:
		return g.Self
	}
}

// matchPath evaluates the path-based operators against r.
func (c *Condition) matchPath(r record.Record) bool {
	if c.Path == "" {
		return true
	}

	value, present := r.Lookup(c.Path)

	onlyPath := c.Equals == nil && c.NotEquals == nil && c.Exists == nil
	if onlyPath {
		return present
	}

	if c.Exists != nil && *c.Exists != present {
		return false
	}

	if c.Equals != nil && (!present || !canon.Equal(value, c.Equals)) {
		return false
	}

	if c.NotEquals != nil && present && canon.Equal(value, c.NotEquals) {
		return false
	}

	return true
}

// celConditions compiles and caches CEL programs for Condition.Expr.
type celConditions struct {
	env      *cel.Env
	mu       sync.RWMutex
	programs map[string]cel.Program
}

func newCELConditions() (*celConditions, error) {
	env, err := cel.NewEnv(
		cel.Variable(string(TargetSelf), cel.DynType),
		cel.Variable(string(TargetActual), cel.DynType),
		cel.Variable(string(TargetExpected), cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &celConditions{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile checks an expression and caches its program.
func (c *celConditions) Compile(expr string) (cel.Program, error) {
	c.mu.RLock()
	prog, ok := c.programs[expr]
	c.mu.RUnlock()

	if ok {
		return prog, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	prog, err := c.env.Program(ast, cel.CostLimit(100000))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}

	c.mu.Lock()
	c.programs[expr] = prog
	c.mu.Unlock()

	return prog, nil
}

// Eval evaluates expr. Non-boolean results count as false.
func (c *celConditions) Eval(expr string, g Gate) (bool, error) {
	prog, err := c.Compile(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prog.Eval(map[string]any{
		string(TargetSelf):     asActivation(g.Self),
		string(TargetActual):   asActivation(g.Actual),
		string(TargetExpected): asActivation(g.Expected),
	})
	if err != nil {
		return false, err
	}

	matched, _ := out.Value().(bool)

	return matched, nil
}

func asActivation(r record.Record) map[string]any {
	if r == nil {
		return map[string]any{}
	}

	return map[string]any(r)
}
