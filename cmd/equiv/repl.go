package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/ichiban/equiv"
)

const (
	prompt = "equiv> "
	help   = `A == B           check if A and B are equivalent
:vars E          print the variables of E
:eval E x=1 ...  evaluate E
:catalogue       print the test points
:help            print this help
:quit            quit
`
)

func newREPLCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Starts an interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.checker(cmd)
			if err != nil {
				return err
			}
			return runREPL(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runREPL reads lines from the terminal if stdin is a terminal. Otherwise, it reads lines from in.
func runREPL(ctx context.Context, c *equiv.Checker, in io.Reader, out io.Writer) error {
	if f, ok := in.(*os.File); ok && terminal.IsTerminal(int(f.Fd())) {
		return runTerminal(ctx, c, f)
	}

	s := bufio.NewScanner(in)
	for s.Scan() {
		if err := handleLine(ctx, c, out, s.Text()); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	return s.Err()
}

func runTerminal(ctx context.Context, c *equiv.Checker, f *os.File) error {
	fd := int(f.Fd())
	oldState, err := terminal.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		_ = terminal.Restore(fd, oldState)
	}()

	t := terminal.NewTerminal(f, prompt)
	defer fmt.Printf("\r\n")

	log.SetOutput(t)
	defer log.SetOutput(os.Stderr)

	for {
		line, err := t.ReadLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			log.Printf("failed to read line: %v", err)
			continue
		}
		if err := handleLine(ctx, c, t, line); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// handleLine runs a line of input. Errors in the line are reported and don't end the loop.
// It returns io.EOF to quit or an error which the loop can't recover from.
func handleLine(ctx context.Context, c *equiv.Checker, w io.Writer, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case ":quit", ":q":
		return io.EOF
	case ":help", ":h":
		_, err := fmt.Fprint(w, help)
		return err
	case ":vars":
		vs, err := equiv.ExtractVariables(rest)
		if err != nil {
			log.Printf("failed to extract variables: %v", err)
			return nil
		}
		_, err = fmt.Fprintln(w, strings.Join(vs, ", "))
		return err
	case ":eval":
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			log.Printf("failed to evaluate: no expression")
			return nil
		}
		// Assignments come last. The expression may contain spaces.
		i := len(fields)
		for i > 1 && strings.Contains(fields[i-1], "=") {
			i--
		}
		if err := eval(w, c, strings.Join(fields[:i], " "), fields[i:]); err != nil {
			log.Printf("failed to evaluate: %v", err)
		}
		return nil
	case ":catalogue":
		return writeCatalogue(w, c)
	}

	a, b, ok := strings.Cut(line, "==")
	if !ok {
		log.Printf("expected A == B: %q", line)
		return nil
	}
	v, err := c.CheckEquivalenceContext(ctx, strings.TrimSpace(a), strings.TrimSpace(b))
	if err != nil {
		log.Printf("failed to check: %v", err)
		return nil
	}
	return writeVerdict(w, v, false)
}
