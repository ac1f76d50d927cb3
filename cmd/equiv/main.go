package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ichiban/equiv"
	"github.com/ichiban/equiv/engine"
)

// Version is a version of this build.
var Version = "equiv/0.1"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	config      string
	verbose     bool
	trace       string
	workers     int
	tolerance   float64
	exact       bool
	metricsAddr string

	// showTrace is set by checker if a trace mode other than none was configured anywhere.
	showTrace bool
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:     "equiv",
		Short:   "Tells whether two algebraic expressions are equivalent",
		Long:    `Evaluates two expressions over x, y, and z at every combination of curated test points and compares the results.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.metricsAddr != "" {
				serveMetrics(opts.metricsAddr)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.checker(cmd)
			if err != nil {
				return err
			}
			return runREPL(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	opts.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newCheckCmd(&opts),
		newVarsCmd(),
		newEvalCmd(&opts),
		newCatalogueCmd(&opts),
		newREPLCmd(&opts),
	)

	return rootCmd
}

func (o *options) register(f *pflag.FlagSet) {
	f.StringVarP(&o.config, "config", "c", "", `YAML config file`)
	f.BoolVarP(&o.verbose, "verbose", "v", false, `log every comparison`)
	f.StringVarP(&o.trace, "trace", "t", "", `print comparisons: all, mismatches, or none`)
	f.IntVarP(&o.workers, "workers", "w", 1, `goroutines evaluating bindings`)
	f.Float64Var(&o.tolerance, "tolerance", 0, `absolute tolerance`)
	f.BoolVar(&o.exact, "exact-decimals", false, `read decimal literals as exact fractions`)
	f.StringVar(&o.metricsAddr, "metrics-addr", "", `address to serve Prometheus metrics on, e.g. :9090`)
}

// checker creates a checker from the config file, environment variables, and command line flags in this order.
func (o *options) checker(cmd *cobra.Command) (*equiv.Checker, error) {
	cfg, err := equiv.LoadConfig(o.config)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("trace") {
		cfg.Trace = o.trace
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
	if f.Changed("tolerance") {
		cfg.Tolerance = o.tolerance
	}
	if f.Changed("exact-decimals") {
		cfg.ExactDecimals = o.exact
	}

	c, err := equiv.New(cfg)
	if err != nil {
		return nil, err
	}
	o.showTrace = cfg.Trace != "" && c.Trace != engine.TraceNone
	if o.verbose {
		c.OnResult = func(r engine.ComparisonResult) {
			log.Printf("%s", r)
		}
	}
	return c, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("failed to serve metrics: %v", err)
		}
	}()
}
