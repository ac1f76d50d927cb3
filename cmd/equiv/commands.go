package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ichiban/equiv"
	"github.com/ichiban/equiv/engine"
)

var errAssignment = errors.New("assignment must be in the form of name=value")

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check A B",
		Short: "Checks if two expressions are equivalent",
		Example: `  equiv check 'x*x' 'x**2'
  equiv check --trace all '(x + y)**2' 'x**2 + 2*x*y + y**2'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.checker(cmd)
			if err != nil {
				return err
			}
			v, err := c.CheckEquivalenceContext(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeVerdict(cmd.OutOrStdout(), v, opts.showTrace)
		},
	}
}

func writeVerdict(w io.Writer, v *engine.Verdict, trace bool) error {
	if _, err := fmt.Fprintln(w, v); err != nil {
		return err
	}
	if trace {
		for _, r := range v.Results {
			if _, err := fmt.Fprintf(w, "  %s\n", r); err != nil {
				return err
			}
		}
		return nil
	}
	if v.FirstMismatch != nil {
		if _, err := fmt.Fprintf(w, "  first mismatch: %s\n", v.FirstMismatch); err != nil {
			return err
		}
	}
	return nil
}

func newVarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vars E",
		Short: "Prints the variables of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := equiv.ExtractVariables(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(vs, ", "))
			return err
		},
	}
}

func newEvalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "eval E [name=value ...]",
		Short:   "Evaluates an expression",
		Example: `  equiv eval 'x**2 + y' x=1/2 y=-3`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.checker(cmd)
			if err != nil {
				return err
			}
			return eval(cmd.OutOrStdout(), c, args[0], args[1:])
		},
	}
}

func eval(w io.Writer, c *equiv.Checker, expression string, assignments []string) error {
	m := make(map[string]string, len(assignments))
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("%w: %q", errAssignment, a)
		}
		m[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	n, err := c.Evaluate(expression, m)
	if err != nil {
		return err
	}

	if _, ok := n.(engine.Rational); ok {
		f, err := engine.Approximate(n)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s (%s)\n", n, engine.Float(f))
		return err
	}
	_, err = fmt.Fprintln(w, n)
	return err
}

func newCatalogueCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "catalogue",
		Short: "Prints the test points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.checker(cmd)
			if err != nil {
				return err
			}
			return writeCatalogue(cmd.OutOrStdout(), c)
		},
	}
}

func writeCatalogue(w io.Writer, c *equiv.Checker) error {
	cat := c.Catalogue
	if cat.Len() == 0 {
		cat = engine.DefaultCatalogue()
		if _, err := fmt.Fprintf(w, "# default catalogue version %d\n", engine.CatalogueVersion); err != nil {
			return err
		}
	}
	for i, p := range cat.Points() {
		if _, err := fmt.Fprintf(w, "%3d  %-12s %s\n", i, p.Value, p.Class); err != nil {
			return err
		}
	}

	classes := cat.Classes()
	summary := make([]string, 0, len(classes))
	for c := engine.PointClassZero; c <= engine.PointClassTiny; c++ {
		if n := classes[c]; n > 0 {
			summary = append(summary, fmt.Sprintf("%s %d", c, n))
		}
	}
	_, err := fmt.Fprintf(w, "# total %d: %s\n", cat.Len(), strings.Join(summary, ", "))
	return err
}
