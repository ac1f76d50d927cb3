package equiv

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ichiban/equiv/engine"
)

var (
	// checksTotal counts completed checks by verdict.
	// Labels: "equivalent", "not_equivalent"
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equiv_checks_total",
		Help: "Total equivalence checks by verdict",
	}, []string{"verdict"})

	bindingsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "equiv_bindings_evaluated_total",
		Help: "Total bindings both expressions were evaluated with",
	})

	// checkErrors counts aborted checks by error kind.
	// Labels: "syntax", "no_variables", "variable_mismatch", "combinatorial_limit", "canceled", "other",
	// or the exceptional value of an evaluation error such as "zero_divisor".
	checkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "equiv_check_errors_total",
		Help: "Total equivalence checks aborted by error kind",
	}, []string{"kind"})
)

func observe(v *engine.Verdict, err error) {
	if err != nil {
		checkErrors.WithLabelValues(errorKind(err)).Inc()
		return
	}
	bindingsEvaluated.Add(float64(v.Evaluated))
	if v.Equivalent {
		checksTotal.WithLabelValues("equivalent").Inc()
	} else {
		checksTotal.WithLabelValues("not_equivalent").Inc()
	}
}

func errorKind(err error) string {
	var (
		se  *engine.SyntaxError
		nve *engine.NoVariablesError
		vme *engine.VariableMismatchError
		cle *engine.CombinatorialLimitError
		ee  *engine.EvaluationError
	)
	switch {
	case errors.As(err, &se):
		return "syntax"
	case errors.As(err, &nve):
		return "no_variables"
	case errors.As(err, &vme):
		return "variable_mismatch"
	case errors.As(err, &cle):
		return "combinatorial_limit"
	case errors.As(err, &ee):
		return ee.Cause.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
