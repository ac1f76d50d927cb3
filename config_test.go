package equiv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "equiv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		cfg, err := LoadConfig("")
		assert.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file", func(t *testing.T) {
		path := writeConfig(t, `
tolerance: 1e-6
max_bindings: 5000
workers: 4
trace: mismatches
exact_decimals: true
catalogue: ["0", "1", "-1", 1/2, 0.25]
`)
		cfg, err := LoadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, Config{
			Tolerance:     1e-6,
			MaxBindings:   5000,
			Workers:       4,
			Trace:         "mismatches",
			ExactDecimals: true,
			Catalogue:     []string{"0", "1", "-1", "1/2", "0.25"},
		}, cfg)
	})

	t.Run("partial file", func(t *testing.T) {
		path := writeConfig(t, `workers: 8`)
		cfg, err := LoadConfig(path)
		assert.NoError(t, err)
		expected := DefaultConfig()
		expected.Workers = 8
		assert.Equal(t, expected, cfg)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, ``))
		assert.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `tolerence: 1e-6`))
		assert.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `trace: sometimes`))
		assert.Error(t, err)

		_, err = LoadConfig(writeConfig(t, `workers: -1`))
		assert.Error(t, err)

		_, err = LoadConfig(writeConfig(t, `catalogue: ["1/0"]`))
		assert.Error(t, err)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("EQUIV_TOLERANCE", "0.001")
		t.Setenv("EQUIV_MAX_BINDINGS", "-1")
		t.Setenv("EQUIV_WORKERS", "2")
		t.Setenv("EQUIV_TRACE", "none")
		t.Setenv("EQUIV_EXACT_DECIMALS", "true")
		t.Setenv("EQUIV_CATALOGUE", "1,2,3")

		cfg, err := LoadConfig(writeConfig(t, `workers: 8`))
		assert.NoError(t, err)
		assert.Equal(t, Config{
			Tolerance:     0.001,
			MaxBindings:   -1,
			Workers:       2,
			Trace:         "none",
			ExactDecimals: true,
			Catalogue:     []string{"1", "2", "3"},
		}, cfg)
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv("EQUIV_WORKERS", "many")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{Tolerance: -1}.Validate())
}
