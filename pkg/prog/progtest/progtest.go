// Package progtest contains utilities for testing [prog.Run].
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elves/mdtree/pkg/must"
	"github.com/elves/mdtree/pkg/prog"
)

// Case is a test case for [Test], created with [ThatMdtree].
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exit                           int
	stdout, stderr                 string
	stdoutContains, stderrContains []string
	checkStdout, checkStderr       bool
}

// ThatMdtree returns a Case that runs mdtree with the given arguments. By
// default the case checks that mdtree exits with 0 and writes nothing to
// stderr.
func ThatMdtree(args ...string) Case {
	return Case{args: append([]string{"mdtree"}, args...), want: result{checkStderr: true}}
}

// WithStdin returns an altered Case that feeds the given text to stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// ExitsWith returns an altered Case that checks the exit status.
func (c Case) ExitsWith(exit int) Case {
	c.want.exit = exit
	return c
}

// WritesStdout returns an altered Case that checks the exact stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout, c.want.checkStdout = s, true
	return c
}

// WritesStdoutContaining returns an altered Case that checks that stdout
// contains the given text.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdoutContains = append(c.want.stdoutContains, s)
	return c
}

// WritesStderr returns an altered Case that checks the exact stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr, c.want.checkStderr = s, true
	return c
}

// WritesStderrContaining returns an altered Case that checks that stderr
// contains the given text, instead of checking that it is empty.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderrContains = append(c.want.stderrContains, s)
	c.want.checkStderr = false
	return c
}

// Test runs test cases.
func Test(t *testing.T, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args[1:], " "), func(t *testing.T) {
			t.Helper()
			exit, stdout, stderr := run(c.args, c.stdin)
			if exit != c.want.exit {
				t.Errorf("got exit %d, want %d\nstderr: %s", exit, c.want.exit, stderr)
			}
			if c.want.checkStdout {
				if diff := cmp.Diff(c.want.stdout, stdout); diff != "" {
					t.Errorf("stdout (-want +got):\n%s", diff)
				}
			}
			for _, s := range c.want.stdoutContains {
				if !strings.Contains(stdout, s) {
					t.Errorf("stdout %q does not contain %q", stdout, s)
				}
			}
			if c.want.checkStderr {
				if diff := cmp.Diff(c.want.stderr, stderr); diff != "" {
					t.Errorf("stderr (-want +got):\n%s", diff)
				}
			}
			for _, s := range c.want.stderrContains {
				if !strings.Contains(stderr, s) {
					t.Errorf("stderr %q does not contain %q", stderr, s)
				}
			}
		})
	}
}

// Runs prog.Run with pipes as the standard files. Outputs are collected
// concurrently so that large outputs don't block on the pipe buffers.
func run(args []string, stdin string) (int, string, string) {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	stdout, stderr := readAsync(r1), readAsync(r2)

	exit := prog.Run([3]*os.File{r0, w1, w2}, args)
	r0.Close()
	w1.Close()
	w2.Close()
	return exit, <-stdout, <-stderr
}

func readAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}
