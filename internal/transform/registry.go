package transform

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/the-project-b/ritagraph-sub004/internal/template"
)

// TemplateKeyPrefix marks keys whose transformer is synthesized from a
// template expression at lookup time, e.g. "transformer-template-currentMonth+1".
const TemplateKeyPrefix = "transformer-template-"

// DefaultCacheSize bounds the number of memoized template-backed transformers.
const DefaultCacheSize = 256

// Registry errors.
var (
	ErrEmptyKey        = errors.New("transformer key is empty")
	ErrReservedKey     = errors.New("transformer key uses the reserved template prefix")
	ErrInvalidStrategy = errors.New("invalid transformer strategy")
	ErrInvalidTarget   = errors.New("invalid condition target")
	ErrNilTransform    = errors.New("transformer has no transform function")
)

// Registry holds registered transformers and synthesizes template-backed ones
// on demand. It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	transformers map[string]*Transformer

	dynamic   *lru.Cache[string, *Transformer]
	templates *template.Engine
	now       func() time.Time
	cel       *celConditions
	logger    *slog.Logger
}

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	cacheSize int
	templates *template.Engine
	now       func() time.Time
	logger    *slog.Logger
	builtins  bool
}

// WithClock sets the clock used when no call-time clock is supplied.
func WithClock(now func() time.Time) Option {
	return func(c *registryConfig) { c.now = now }
}

// WithTemplateEngine sets the engine used for template-backed transformers.
func WithTemplateEngine(e *template.Engine) Option {
	return func(c *registryConfig) { c.templates = e }
}

// WithCacheSize bounds the template-backed transformer cache.
func WithCacheSize(n int) Option {
	return func(c *registryConfig) { c.cacheSize = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *registryConfig) { c.logger = l }
}

// WithoutBuiltins skips registration of the built-in transformers.
func WithoutBuiltins() Option {
	return func(c *registryConfig) { c.builtins = false }
}

// NewRegistry creates a registry populated with the built-in transformers.
func NewRegistry(opts ...Option) *Registry {
	cfg := registryConfig{
		cacheSize: DefaultCacheSize,
		now:       time.Now,
		logger:    slog.Default(),
		builtins:  true,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.cacheSize < 1 {
		cfg.cacheSize = 1
	}

	if cfg.templates == nil {
		cfg.templates = template.New()
	}

	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New[string, *Transformer](cfg.cacheSize)

	r := &Registry{
		transformers: make(map[string]*Transformer),
		dynamic:      cache,
		templates:    cfg.templates,
		now:          cfg.now,
		logger:       cfg.logger,
	}

	conds, err := newCELConditions()
	if err != nil {
		r.logger.Warn("expression conditions disabled", "error", err)
	} else {
		r.cel = conds
	}

	if cfg.builtins {
		for _, t := range builtins(r) {
			if err := r.Register(t); err != nil {
				r.logger.Error("failed to register built-in transformer", "key", t.Key, "error", err)
			}
		}
	}

	return r
}

// Now returns the registry clock.
func (r *Registry) Now() time.Time {
	return r.now()
}

// Templates returns the template engine backing dynamic transformers.
func (r *Registry) Templates() *template.Engine {
	return r.templates
}

// Register adds or replaces a transformer.
func (r *Registry) Register(t *Transformer) error {
	if t == nil || t.Key == "" {
		return ErrEmptyKey
	}

	if strings.HasPrefix(t.Key, TemplateKeyPrefix) {
		return fmt.Errorf("%w: %q", ErrReservedKey, t.Key)
	}

	if !t.Strategy.IsValid() {
		return fmt.Errorf("transformer %q: %w %q", t.Key, ErrInvalidStrategy, t.Strategy)
	}

	if !t.ConditionTarget.IsValid() {
		return fmt.Errorf("transformer %q: %w %q", t.Key, ErrInvalidTarget, t.ConditionTarget)
	}

	if t.Transform == nil {
		return fmt.Errorf("transformer %q: %w", t.Key, ErrNilTransform)
	}

	if t.When != nil && t.When.Expr != "" && r.cel != nil {
		if _, err := r.cel.Compile(t.When.Expr); err != nil {
			return fmt.Errorf("transformer %q: condition: %w", t.Key, err)
		}
	}

	r.mu.Lock()
	r.transformers[t.Key] = t
	r.mu.Unlock()

	return nil
}

// Get returns the transformer for key. Keys with the template prefix are
// synthesized when their expression evaluates; otherwise they do not exist.
func (r *Registry) Get(key string) (*Transformer, bool) {
	r.mu.RLock()
	t, ok := r.transformers[key]
	r.mu.RUnlock()

	if ok {
		return t, true
	}

	expression, isTemplate := strings.CutPrefix(key, TemplateKeyPrefix)
	if !isTemplate {
		return nil, false
	}

	if cached, ok := r.dynamic.Get(key); ok {
		return cached, true
	}

	if _, ok := r.templates.Evaluate(expression, template.NewContext(r.now())); !ok {
		return nil, false
	}

	synthesized := r.templateTransformer(key, expression)

	// Concurrent first lookups may both synthesize; the first insert wins and
	// both values are equivalent.
	if prev, found, _ := r.dynamic.PeekOrAdd(key, synthesized); found {
		return prev, true
	}

	r.logger.Debug("synthesized template transformer", "key", key)

	return synthesized, true
}

// templateTransformer builds an add-missing-only transformer whose value is
// evaluated against the call-time clock.
func (r *Registry) templateTransformer(key, expression string) *Transformer {
	return &Transformer{
		Key:         key,
		Description: fmt.Sprintf("adds the value of {{%s}} when missing", expression),
		Strategy:    StrategyAddMissingOnly,
		Transform: func(_ any, ctx Context) any {
			now := ctx.Now
			if now.IsZero() {
				now = r.now()
			}

			res, ok := r.templates.Evaluate(expression, template.NewContext(now))
			if !ok {
				return nil
			}

			return res.DataValue
		},
	}
}

// Has returns true if Get would find key.
func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the registered keys, sorted. Template-backed keys are not listed.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.transformers))
	for k := range r.transformers {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// All returns the registered transformers ordered by key.
func (r *Registry) All() []*Transformer {
	keys := r.Keys()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Transformer, 0, len(keys))
	for _, k := range keys {
		if t, ok := r.transformers[k]; ok {
			out = append(out, t)
		}
	}

	return out
}

// Allows evaluates the transformer's gate. Transformers without a condition
// always pass; a condition whose target record is missing fails.
func (r *Registry) Allows(t *Transformer, g Gate) bool {
	if t == nil || t.When == nil {
		return true
	}

	target := g.target(t.ConditionTarget)
	if target == nil {
		return false
	}

	if !t.When.matchPath(target) {
		return false
	}

	if t.When.Expr == "" {
		return true
	}

	if r.cel == nil {
		return false
	}

	ok, err := r.cel.Eval(t.When.Expr, g)
	if err != nil {
		r.logger.Debug("condition evaluation failed", "key", t.Key, "expr", t.When.Expr, "error", err)
		return false
	}

	return ok
}
