package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTolerance is the absolute difference below which two values match.
	DefaultTolerance = 1e-10

	// DefaultMaxBindings is the default cap on the number of bindings per check.
	DefaultMaxBindings = 1 << 20

	// chunkPerWorker is the number of bindings each worker evaluates before the results are reduced.
	chunkPerWorker = 64
)

var errEmptyCatalogue = errors.New("empty catalogue")

// TraceMode decides which comparison results a Verdict keeps.
type TraceMode uint8

// TraceMode is one of these values.
const (
	// TraceAll keeps every comparison result in order.
	TraceAll TraceMode = iota

	// TraceMismatches keeps only the results which didn't match.
	TraceMismatches

	// TraceNone keeps counts only.
	TraceNone

	traceModeLen
)

func (m TraceMode) String() string {
	return [traceModeLen]string{
		TraceAll:        "all",
		TraceMismatches: "mismatches",
		TraceNone:       "none",
	}[m]
}

// ParseTraceMode returns the TraceMode named s.
func ParseTraceMode(s string) (TraceMode, error) {
	for m := TraceMode(0); m < traceModeLen; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown trace mode: %q", s)
}

// ComparisonResult is the outcome of evaluating both expressions with one binding.
type ComparisonResult struct {
	// Index is the position of the binding in the sequence.
	Index int

	Binding Binding

	// A and B are the values of the first and the second expression.
	A, B Number

	// ApproxA and ApproxB are A and B coerced into float64.
	ApproxA, ApproxB float64

	Match bool
}

func (r ComparisonResult) String() string {
	sign := "=="
	if !r.Match {
		sign = "!="
	}
	return fmt.Sprintf("%s: %s %s %s", r.Binding, r.A, sign, r.B)
}

// Verdict is the outcome of an equivalence check.
type Verdict struct {
	// Equivalent is true iff every comparison matched.
	Equivalent bool

	// Variables are the variables both expressions share.
	Variables []Variable

	// Evaluated is the number of bindings both expressions were evaluated with.
	Evaluated int

	// Mismatches is the number of bindings at which the expressions differed.
	Mismatches int

	// FirstMismatch is the first result which didn't match, if any. It's kept regardless of the trace mode.
	FirstMismatch *ComparisonResult

	// Results are the comparison results in sequence order, filtered by the trace mode.
	Results []ComparisonResult
}

func (v *Verdict) String() string {
	if v.Equivalent {
		return fmt.Sprintf("Equivalent (%d bindings)", v.Evaluated)
	}
	return fmt.Sprintf("NotEquivalent (%d of %d bindings differ)", v.Mismatches, v.Evaluated)
}

// Oracle checks equivalence of expressions by evaluating them at every combination of test points.
// The zero value is an Oracle with DefaultCatalogue, DefaultTolerance, and DefaultMaxBindings.
type Oracle struct {
	// Catalogue is the test points. If it's the zero value, DefaultCatalogue is used.
	Catalogue Catalogue

	// Tolerance is the absolute difference below which two values match. If it's 0, DefaultTolerance is used.
	Tolerance float64

	// MaxBindings caps the number of bindings. If it's 0, DefaultMaxBindings is used. If it's negative, there's no cap.
	MaxBindings int

	// Workers is the number of goroutines to evaluate bindings with. If it's less than 2, bindings are evaluated one by one.
	Workers int

	// Trace decides which comparison results the Verdict keeps.
	Trace TraceMode

	// ExactDecimals makes decimal literals exact Rationals instead of Floats.
	ExactDecimals bool

	// OnResult is called with every comparison result in sequence order.
	OnResult func(ComparisonResult)
}

func (o *Oracle) catalogue() Catalogue {
	if o.Catalogue.points == nil {
		return DefaultCatalogue()
	}
	return o.Catalogue
}

func (o *Oracle) tolerance() float64 {
	if o.Tolerance == 0 {
		return DefaultTolerance
	}
	return o.Tolerance
}

func (o *Oracle) maxBindings() int {
	if o.MaxBindings == 0 {
		return DefaultMaxBindings
	}
	return o.MaxBindings
}

// Parse parses the expression with the oracle's settings.
func (o *Oracle) Parse(expression string) (Expr, error) {
	p := NewParser(expression)
	p.ExactDecimals = o.ExactDecimals
	return p.Expr()
}

// Check checks if the expressions a and b are equivalent.
// Any evaluation failure aborts the check and is returned as *EvaluationError with the binding at fault.
// Failures are never turned into a NotEquivalent verdict.
func (o *Oracle) Check(ctx context.Context, a, b string) (*Verdict, error) {
	va, err := ExtractVariables(a)
	if err != nil {
		return nil, err
	}
	vb, err := ExtractVariables(b)
	if err != nil {
		return nil, err
	}
	if !SameVariables(va, vb) {
		return nil, &VariableMismatchError{A: va, B: vb}
	}

	ea, err := o.Parse(a)
	if err != nil {
		return nil, err
	}
	eb, err := o.Parse(b)
	if err != nil {
		return nil, err
	}

	c := o.catalogue()
	if c.Len() == 0 {
		return nil, errEmptyCatalogue
	}
	cs := NewCombinations(va, c)
	if err := cs.Check(o.maxBindings()); err != nil {
		return nil, err
	}

	v := Verdict{
		Equivalent: true,
		Variables:  va,
	}
	if o.Workers > 1 {
		err = o.checkConcurrently(ctx, cs, ea, eb, &v)
	} else {
		err = o.checkSequentially(ctx, cs, ea, eb, &v)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (o *Oracle) checkSequentially(ctx context.Context, cs *Combinations, ea, eb Expr, v *Verdict) error {
	for cs.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := o.compare(ea, eb, cs.Index(), cs.Binding())
		if err != nil {
			return err
		}
		o.record(v, r)
	}
	return nil
}

// checkConcurrently evaluates bindings chunk by chunk. Within a chunk, bindings are evaluated concurrently but
// reduced in sequence order so that the reported failure is always the earliest one, just like checkSequentially.
func (o *Oracle) checkConcurrently(ctx context.Context, cs *Combinations, ea, eb Expr, v *Verdict) error {
	size := o.Workers * chunkPerWorker
	var (
		indices  = make([]int, 0, size)
		bindings = make([]Binding, 0, size)
		results  = make([]ComparisonResult, size)
		errs     = make([]error, size)
	)
	for {
		indices, bindings = indices[:0], bindings[:0]
		for len(bindings) < size && cs.Next() {
			indices = append(indices, cs.Index())
			bindings = append(bindings, cs.Binding())
		}
		if len(bindings) == 0 {
			return nil
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.Workers)
		for i := range bindings {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i], errs[i] = o.compare(ea, eb, indices[i], bindings[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i := range bindings {
			if errs[i] != nil {
				return errs[i]
			}
			o.record(v, results[i])
		}
	}
}

func (o *Oracle) compare(ea, eb Expr, index int, b Binding) (ComparisonResult, error) {
	x, err := Evaluate(ea, b)
	if err != nil {
		return ComparisonResult{}, at(err, ea, b)
	}
	y, err := Evaluate(eb, b)
	if err != nil {
		return ComparisonResult{}, at(err, eb, b)
	}

	fx, err := Approximate(x)
	if err != nil {
		return ComparisonResult{}, at(err, ea, b)
	}
	fy, err := Approximate(y)
	if err != nil {
		return ComparisonResult{}, at(err, eb, b)
	}

	return ComparisonResult{
		Index:   index,
		Binding: b,
		A:       x,
		B:       y,
		ApproxA: fx,
		ApproxB: fy,
		Match:   math.Abs(fx-fy) < o.tolerance(),
	}, nil
}

func (o *Oracle) record(v *Verdict, r ComparisonResult) {
	v.Evaluated++
	if !r.Match {
		v.Equivalent = false
		v.Mismatches++
		if v.FirstMismatch == nil {
			r := r
			v.FirstMismatch = &r
		}
	}

	switch o.Trace {
	case TraceAll:
		v.Results = append(v.Results, r)
	case TraceMismatches:
		if !r.Match {
			v.Results = append(v.Results, r)
		}
	}

	if o.OnResult != nil {
		o.OnResult(r)
	}
}

// at attaches the binding to an evaluation error. An exceptional value is blamed on the whole expression.
func at(err error, e Expr, b Binding) error {
	var ee *EvaluationError
	if errors.As(err, &ee) {
		c := *ee
		c.Binding = b
		return &c
	}
	var ev ExceptionalValue
	if errors.As(err, &ev) {
		return &EvaluationError{Cause: ev, Culprit: e, Binding: b}
	}
	return err
}
