package equiv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ichiban/equiv/engine"
)

// Config is a configuration of Checker. It can be written in YAML.
//
//	tolerance: 1e-10
//	max_bindings: 1048576
//	workers: 4
//	trace: mismatches
//	exact_decimals: false
//	catalogue: ["0", "1", "-1", "1/2"]
type Config struct {
	// Tolerance is the absolute difference below which two values match.
	Tolerance float64 `yaml:"tolerance"`

	// MaxBindings caps the number of bindings per check. Negative means no cap.
	MaxBindings int `yaml:"max_bindings"`

	// Workers is the number of goroutines evaluating bindings.
	Workers int `yaml:"workers"`

	// Trace is either all, mismatches, or none. Empty means all but also that no trace was asked for.
	Trace string `yaml:"trace"`

	// ExactDecimals reads decimal literals as exact fractions.
	ExactDecimals bool `yaml:"exact_decimals"`

	// Catalogue overrides the default test points.
	Catalogue []string `yaml:"catalogue"`
}

// DefaultConfig returns the configuration a zero value Checker has.
func DefaultConfig() Config {
	return Config{
		Tolerance:   engine.DefaultTolerance,
		MaxBindings: engine.DefaultMaxBindings,
		Workers:     1,
	}
}

// LoadConfig loads the configuration from the YAML file at path and then from EQUIV_* environment variables.
// Unspecified values default to DefaultConfig. If path is empty, only the environment variables are read.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadConfigFromEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadConfigFromEnv(cfg *Config) error {
	if v := os.Getenv("EQUIV_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("EQUIV_TOLERANCE: %w", err)
		}
		cfg.Tolerance = f
	}
	if v := os.Getenv("EQUIV_MAX_BINDINGS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EQUIV_MAX_BINDINGS: %w", err)
		}
		cfg.MaxBindings = i
	}
	if v := os.Getenv("EQUIV_WORKERS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EQUIV_WORKERS: %w", err)
		}
		cfg.Workers = i
	}
	if v := os.Getenv("EQUIV_TRACE"); v != "" {
		cfg.Trace = v
	}
	if v := os.Getenv("EQUIV_EXACT_DECIMALS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("EQUIV_EXACT_DECIMALS: %w", err)
		}
		cfg.ExactDecimals = b
	}
	if v := os.Getenv("EQUIV_CATALOGUE"); v != "" {
		cfg.Catalogue = strings.Split(v, ",")
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0: %g", c.Tolerance)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0: %d", c.Workers)
	}
	if c.Trace != "" {
		if _, err := engine.ParseTraceMode(c.Trace); err != nil {
			return err
		}
	}
	if len(c.Catalogue) > 0 {
		if _, err := engine.ParseCatalogue(c.Catalogue); err != nil {
			return fmt.Errorf("catalogue: %w", err)
		}
	}
	return nil
}
