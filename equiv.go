// Package equiv tells whether two algebraic expressions over x, y, and z behave the same.
//
// Expressions are evaluated at every combination of a curated catalogue of test points and compared within a tolerance.
// It never proves equivalence. It falsifies inequivalence with high confidence.
package equiv

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ichiban/equiv/engine"
)

var errUnknownVariable = errors.New("unknown variable")

// Checker is an equivalence checker. The zero value is a valid checker with the default catalogue and tolerance.
type Checker struct {
	engine.Oracle
}

// New creates a new checker configured by cfg.
func New(cfg Config) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var c Checker
	c.Tolerance = cfg.Tolerance
	c.MaxBindings = cfg.MaxBindings
	c.Workers = cfg.Workers
	c.ExactDecimals = cfg.ExactDecimals

	if cfg.Trace != "" {
		t, err := engine.ParseTraceMode(cfg.Trace)
		if err != nil {
			return nil, err
		}
		c.Trace = t
	}

	if len(cfg.Catalogue) > 0 {
		cat, err := engine.ParseCatalogue(cfg.Catalogue)
		if err != nil {
			return nil, err
		}
		c.Catalogue = cat
	}

	return &c, nil
}

// CheckEquivalence checks if the expressions a and b are equivalent.
func (c *Checker) CheckEquivalence(a, b string) (*engine.Verdict, error) {
	return c.CheckEquivalenceContext(context.Background(), a, b)
}

// CheckEquivalenceContext checks if the expressions a and b are equivalent with context.
func (c *Checker) CheckEquivalenceContext(ctx context.Context, a, b string) (*engine.Verdict, error) {
	v, err := c.Oracle.Check(ctx, a, b)
	observe(v, err)
	return v, err
}

// Evaluate evaluates the expression with the variables assigned to textual numbers such as "3", "-1/2", or "0.25".
func (c *Checker) Evaluate(expression string, assignments map[string]string) (engine.Number, error) {
	e, err := c.Parse(expression)
	if err != nil {
		return nil, err
	}

	m := make(map[engine.Variable]engine.Number, len(assignments))
	for name, value := range assignments {
		v := engine.Variable(name)
		if !v.Known() {
			return nil, fmt.Errorf("%w: %q", errUnknownVariable, name)
		}
		n, err := engine.ParseNumber(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		m[v] = n
	}

	return engine.Evaluate(e, engine.NewBinding(m))
}

var defaultChecker Checker

// ExtractVariables returns the sorted names of the variables which appear in the expression.
func ExtractVariables(expression string) ([]string, error) {
	vs, err := engine.ExtractVariables(expression)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = string(v)
	}
	sort.Strings(names)
	return names, nil
}

// CheckEquivalence checks if the expressions a and b are equivalent with the default settings.
func CheckEquivalence(a, b string) (*engine.Verdict, error) {
	return defaultChecker.CheckEquivalence(a, b)
}

// Evaluate evaluates the expression with the default settings.
func Evaluate(expression string, assignments map[string]string) (engine.Number, error) {
	return defaultChecker.Evaluate(expression, assignments)
}
