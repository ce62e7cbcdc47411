package transform

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/the-project-b/ritagraph-sub004/internal/template"
)

// Definition declares a transformer in YAML. Exactly one of Base, Template or
// Value supplies the transform:
//
//	transformers:
//	  - key: salary-start
//	    strategy: add-missing-only
//	    template: currentMonth+1
//	    when:
//	      path: changeType
//	      equals: change
//	    conditionTarget: actual
//	  - key: name-normalized
//	    strategy: transform-existing
//	    base: lowercase
type Definition struct {
	Key             string          `yaml:"key"`
	Description     string          `yaml:"description,omitempty"`
	Strategy        Strategy        `yaml:"strategy"`
	Base            string          `yaml:"base,omitempty"`
	Template        string          `yaml:"template,omitempty"`
	Value           any             `yaml:"value,omitempty"`
	When            *Condition      `yaml:"when,omitempty"`
	ConditionTarget ConditionTarget `yaml:"conditionTarget,omitempty"`
}

// DefinitionFile is the root of a transformer definitions file.
type DefinitionFile struct {
	Transformers []Definition `yaml:"transformers"`
}

// ParseDefinitions parses YAML transformer definitions.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var df DefinitionFile

	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("failed to parse transformer definitions: %w", err)
	}

	return df.Transformers, nil
}

// LoadDefinitions reads transformer definitions from path.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transformer definitions %s: %w", path, err)
	}

	return ParseDefinitions(data)
}

// Build turns a definition into a transformer using r for base lookups and
// template evaluation.
func (d Definition) Build(r *Registry) (*Transformer, error) {
	sources := 0
	for _, set := range []bool{d.Base != "", d.Template != "", d.Value != nil} {
		if set {
			sources++
		}
	}

	if sources != 1 {
		return nil, fmt.Errorf("transformer %q: exactly one of base, template or value is required", d.Key)
	}

	t := &Transformer{
		Key:             d.Key,
		Description:     d.Description,
		Strategy:        d.Strategy,
		When:            d.When,
		ConditionTarget: d.ConditionTarget,
	}

	switch {
	case d.Base != "":
		base, ok := r.Get(d.Base)
		if !ok {
			return nil, fmt.Errorf("transformer %q: unknown base %q", d.Key, d.Base)
		}

		t.Transform = base.Transform

		if t.Strategy == "" {
			t.Strategy = base.Strategy
		}

	case d.Template != "":
		if _, ok := template.ParseExpression(d.Template); !ok {
			return nil, fmt.Errorf("transformer %q: invalid template expression %q", d.Key, d.Template)
		}

		expression := d.Template
		t.Transform = func(_ any, ctx Context) any {
			now := ctx.Now
			if now.IsZero() {
				now = r.Now()
			}

			res, ok := r.Templates().Evaluate(expression, template.NewContext(now))
			if !ok {
				return nil
			}

			return res.DataValue
		}

	default:
		value := d.Value
		t.Transform = func(any, Context) any { return value }
	}

	return t, nil
}

// RegisterDefinitions builds and registers every definition in order, so later
// definitions may use earlier ones as a base. All failures are returned joined.
func (r *Registry) RegisterDefinitions(defs []Definition) error {
	var errs []error

	for _, d := range defs {
		t, err := d.Build(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := r.Register(t); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
