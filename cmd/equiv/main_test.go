package main

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichiban/equiv/engine"
)

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestCheck(t *testing.T) {
	t.Run("equivalent", func(t *testing.T) {
		out, err := execute(t, "", "check", "x*x", "x**2")
		assert.NoError(t, err)
		assert.Equal(t, "Equivalent (61 bindings)\n", out)
	})

	t.Run("not equivalent", func(t *testing.T) {
		out, err := execute(t, "", "check", "x + 1", "x + 2")
		assert.NoError(t, err)
		assert.Equal(t, "NotEquivalent (61 of 61 bindings differ)\n  first mismatch: x = 0: 1 != 2\n", out)
	})

	t.Run("trace", func(t *testing.T) {
		t.Setenv("EQUIV_CATALOGUE", "1,2")
		out, err := execute(t, "", "check", "--trace", "all", "x", "x*x")
		assert.NoError(t, err)
		assert.Equal(t, "NotEquivalent (1 of 2 bindings differ)\n  x = 1: 1 == 1\n  x = 2: 2 != 4\n", out)
	})

	t.Run("trace from env", func(t *testing.T) {
		t.Setenv("EQUIV_CATALOGUE", "1,2")
		t.Setenv("EQUIV_TRACE", "mismatches")
		out, err := execute(t, "", "check", "x", "x*x")
		assert.NoError(t, err)
		assert.Equal(t, "NotEquivalent (1 of 2 bindings differ)\n  x = 2: 2 != 4\n", out)
	})

	t.Run("trace from config", func(t *testing.T) {
		path := t.TempDir() + "/equiv.yaml"
		require.NoError(t, os.WriteFile(path, []byte("trace: all\ncatalogue: [\"1\", \"2\"]\n"), 0o600))
		out, err := execute(t, "", "check", "--config", path, "x", "x*x")
		assert.NoError(t, err)
		assert.Equal(t, "NotEquivalent (1 of 2 bindings differ)\n  x = 1: 1 == 1\n  x = 2: 2 != 4\n", out)
	})

	t.Run("trace none", func(t *testing.T) {
		t.Setenv("EQUIV_CATALOGUE", "1,2")
		out, err := execute(t, "", "check", "--trace", "none", "x", "x*x")
		assert.NoError(t, err)
		assert.Equal(t, "NotEquivalent (1 of 2 bindings differ)\n  first mismatch: x = 2: 2 != 4\n", out)
	})

	t.Run("workers", func(t *testing.T) {
		out, err := execute(t, "", "check", "-w", "4", "x*y", "y*x")
		assert.NoError(t, err)
		assert.Equal(t, "Equivalent (3721 bindings)\n", out)
	})

	t.Run("verbose", func(t *testing.T) {
		t.Setenv("EQUIV_CATALOGUE", "1,2")
		logs := captureLog(t)
		_, err := execute(t, "", "check", "-v", "x", "x*x")
		assert.NoError(t, err)
		assert.Equal(t, "x = 1: 1 == 1\nx = 2: 2 != 4\n", logs.String())
	})

	t.Run("config", func(t *testing.T) {
		path := t.TempDir() + "/equiv.yaml"
		require.NoError(t, os.WriteFile(path, []byte("catalogue: [\"1\", \"2\", \"3\"]\n"), 0o600))
		out, err := execute(t, "", "check", "--config", path, "x/y", "y/x")
		assert.NoError(t, err)
		assert.Equal(t, "NotEquivalent (6 of 9 bindings differ)\n  first mismatch: x = 1, y = 2: 1/2 != 2\n", out)
	})

	t.Run("variable mismatch", func(t *testing.T) {
		_, err := execute(t, "", "check", "x", "x + y")
		var vme *engine.VariableMismatchError
		assert.True(t, errors.As(err, &vme))
	})

	t.Run("zero divisor", func(t *testing.T) {
		_, err := execute(t, "", "check", "1/x", "x")
		assert.True(t, errors.Is(err, engine.ExceptionalValueZeroDivisor))
	})

	t.Run("arguments", func(t *testing.T) {
		_, err := execute(t, "", "check", "x")
		assert.Error(t, err)
	})
}

func TestVars(t *testing.T) {
	out, err := execute(t, "", "vars", "z + x*x")
	assert.NoError(t, err)
	assert.Equal(t, "x, z\n", out)

	_, err = execute(t, "", "vars", "1 + 1")
	var nve *engine.NoVariablesError
	assert.True(t, errors.As(err, &nve))
}

func TestEval(t *testing.T) {
	out, err := execute(t, "", "eval", "x**2 + y", "x=1/2", "y=-3")
	assert.NoError(t, err)
	assert.Equal(t, "-11/4 (-2.75)\n", out)

	out, err = execute(t, "", "eval", "x*y", "x=3", "y=4")
	assert.NoError(t, err)
	assert.Equal(t, "12\n", out)

	out, err = execute(t, "", "eval", "--exact-decimals", "x + 0.1", "x=0")
	assert.NoError(t, err)
	assert.Equal(t, "1/10 (0.1)\n", out)

	_, err = execute(t, "", "eval", "x", "x")
	assert.True(t, errors.Is(err, errAssignment))
}

func TestCatalogue(t *testing.T) {
	out, err := execute(t, "", "catalogue")
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 63)
	assert.Equal(t, "# default catalogue version 1", lines[0])
	assert.Equal(t, "  0  0            zero", lines[1])
	assert.Equal(t, "# total 61: zero 1, small 6, prime 12, composite 12, large 6, proper fraction 10, improper fraction 8, tiny 6", lines[62])

	t.Setenv("EQUIV_CATALOGUE", "1/2")
	out, err = execute(t, "", "catalogue")
	assert.NoError(t, err)
	assert.Equal(t, "  0  1/2          proper fraction\n# total 1: proper fraction 1\n", out)
}

func TestREPL(t *testing.T) {
	t.Run("lines", func(t *testing.T) {
		in := `x*x == x**2

:vars x + y
:eval x * (x + 1) x=2
:quit
x == x
`
		out, err := execute(t, in, "repl")
		assert.NoError(t, err)
		assert.Equal(t, "Equivalent (61 bindings)\nx, y\n6\n", out)
	})

	t.Run("default command", func(t *testing.T) {
		out, err := execute(t, "x + 1 == 1 + x\n")
		assert.NoError(t, err)
		assert.Equal(t, "Equivalent (61 bindings)\n", out)
	})

	t.Run("errors resume the loop", func(t *testing.T) {
		logs := captureLog(t)
		in := `x == x + y
1/x == x
x +
:vars 1
:eval x
x == x
`
		out, err := execute(t, in, "repl")
		assert.NoError(t, err)
		assert.Equal(t, "Equivalent (61 bindings)\n", out)
		assert.Contains(t, logs.String(), "failed to check: variable mismatch")
		assert.Contains(t, logs.String(), "failed to check: evaluation error: zero_divisor in 1/x at x = 0")
		assert.Contains(t, logs.String(), `expected A == B: "x +"`)
		assert.Contains(t, logs.String(), "failed to extract variables")
		assert.Contains(t, logs.String(), "failed to evaluate")
	})

	t.Run("help", func(t *testing.T) {
		out, err := execute(t, ":help\n", "repl")
		assert.NoError(t, err)
		assert.Equal(t, help, out)
	})
}
