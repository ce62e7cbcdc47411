package template

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Delimiters bound an expression token inside free text.
type Delimiters struct {
	Start string `yaml:"start" mapstructure:"start"`
	End   string `yaml:"end" mapstructure:"end"`
}

// DefaultDelimiters returns the "{{" / "}}" pair.
func DefaultDelimiters() Delimiters {
	return Delimiters{Start: "{{", End: "}}"}
}

// IsZero returns true if neither delimiter is set.
func (d Delimiters) IsZero() bool {
	return d.Start == "" && d.End == ""
}

// Replacement records one substitution performed by Process.
//
// StartIndex is the byte offset of the substituted text in the processed
// string, corrected for the length drift of every earlier replacement.
// EndIndex is StartIndex plus the length of the original token.
type Replacement struct {
	Original   string
	Expression string
	Result     Result
	StartIndex int
	EndIndex   int
}

// ProcessingResult is the output of Process.
type ProcessingResult struct {
	Text         string
	Replacements []Replacement
	// Results maps expression text to its evaluation; the last occurrence wins.
	Results map[string]Result
}

// Engine evaluates expressions and substitutes them into text.
// The variable catalog may be extended concurrently with evaluation.
type Engine struct {
	mu         sync.RWMutex
	variables  map[string]Evaluator
	delimiters Delimiters
	token      *regexp.Regexp
}

// Option configures an Engine.
type Option func(*Engine)

// WithDelimiters sets the token delimiters. Delimiters are matched literally.
// A zero or half-empty pair keeps the defaults.
func WithDelimiters(d Delimiters) Option {
	return func(e *Engine) {
		if d.Start == "" || d.End == "" {
			return
		}

		e.delimiters = d
	}
}

// WithVariable registers an additional variable.
func WithVariable(name string, fn Evaluator) Option {
	return func(e *Engine) {
		e.variables[name] = fn
	}
}

// New creates an Engine with the built-in variables.
func New(opts ...Option) *Engine {
	e := &Engine{
		variables:  builtinVariables(),
		delimiters: DefaultDelimiters(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.token = compileToken(e.delimiters)

	return e
}

func compileToken(d Delimiters) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(d.Start) + `(.*?)` + regexp.QuoteMeta(d.End))
}

// Delimiters returns the engine's delimiter pair.
func (e *Engine) Delimiters() Delimiters {
	return e.delimiters
}

// WithDelimiters returns a new engine sharing a copy of this engine's
// variables but using different delimiters.
func (e *Engine) WithDelimiters(d Delimiters) *Engine {
	e.mu.RLock()
	vars := make(map[string]Evaluator, len(e.variables))
	for k, v := range e.variables {
		vars[k] = v
	}
	e.mu.RUnlock()

	out := &Engine{variables: vars, delimiters: e.delimiters}
	WithDelimiters(d)(out)
	out.token = compileToken(out.delimiters)

	return out
}

// Register adds or replaces a variable.
func (e *Engine) Register(name string, fn Evaluator) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.variables[name] = fn
}

// Variables returns the registered variable names, sorted.
func (e *Engine) Variables() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.variables))
	for name := range e.variables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Evaluate resolves an expression. Malformed expressions and unknown
// variables yield false.
func (e *Engine) Evaluate(expression string, ctx Context) (Result, bool) {
	expr, ok := ParseExpression(expression)
	if !ok {
		return Result{}, false
	}

	e.mu.RLock()
	fn, ok := e.variables[expr.Variable]
	e.mu.RUnlock()

	if !ok {
		return Result{}, false
	}

	return fn(ctx, expr)
}

// Process replaces every evaluable token in text with its display value.
// Tokens that fail to parse or evaluate are left verbatim.
func (e *Engine) Process(text string, ctx Context) ProcessingResult {
	res := ProcessingResult{Results: map[string]Result{}}

	matches := e.token.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		res.Text = text
		return res
	}

	var (
		out   strings.Builder
		last  int
		drift int
	)

	for _, m := range matches {
		original := text[m[0]:m[1]]
		expression := strings.TrimSpace(text[m[2]:m[3]])

		out.WriteString(text[last:m[0]])
		last = m[1]

		value, ok := e.Evaluate(expression, ctx)
		if !ok {
			out.WriteString(original)
			continue
		}

		out.WriteString(value.DisplayValue)

		start := m[0] + drift
		res.Replacements = append(res.Replacements, Replacement{
			Original:   original,
			Expression: expression,
			Result:     value,
			StartIndex: start,
			EndIndex:   start + len(original),
		})
		res.Results[expression] = value

		drift += len(value.DisplayValue) - len(original)
	}

	out.WriteString(text[last:])
	res.Text = out.String()

	return res
}

// HasTemplates reports whether text contains at least one token whose inner
// text is a well-formed expression.
func (e *Engine) HasTemplates(text string) bool {
	for _, m := range e.token.FindAllStringSubmatch(text, -1) {
		if _, ok := ParseExpression(strings.TrimSpace(m[1])); ok {
			return true
		}
	}

	return false
}

// ExtractExpressions returns the well-formed expressions in text in order of
// appearance, duplicates included.
func (e *Engine) ExtractExpressions(text string) []string {
	var out []string

	for _, m := range e.token.FindAllStringSubmatch(text, -1) {
		inner := strings.TrimSpace(m[1])
		if _, ok := ParseExpression(inner); ok {
			out = append(out, inner)
		}
	}

	return out
}

var defaultEngine = New()

// Evaluate resolves an expression with the built-in variables.
func Evaluate(expression string, ctx Context) (Result, bool) {
	return defaultEngine.Evaluate(expression, ctx)
}

// Process substitutes expressions in text using the built-in variables and
// the default delimiters.
func Process(text string, ctx Context) ProcessingResult {
	return defaultEngine.Process(text, ctx)
}
