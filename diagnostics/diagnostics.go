// Package diagnostics carries the two output streams and the two
// "had error" flags as an explicit value passed through the pipeline
// instead of as package-level globals, so a host embedding the core can
// run more than one script concurrently without sharing state.
package diagnostics

import (
	"fmt"
	"io"
)

// Sink is where the scanner, parser, resolver and interpreter report
// errors and where Print statements write their output.
type Sink struct {
	Out io.Writer
	Err io.Writer

	hadError        bool
	hadRuntimeError bool
}

func New(out, err io.Writer) *Sink {
	return &Sink{Out: out, Err: err}
}

// Reset clears both flags; called once per run() invocation and, in the
// prompt, again before each line.
func (s *Sink) Reset() {
	s.hadError = false
	s.hadRuntimeError = false
}

func (s *Sink) HadError() bool        { return s.hadError }
func (s *Sink) HadRuntimeError() bool { return s.hadRuntimeError }

// ReportAt renders a compile-time diagnostic as
// "[line N] Error<where>: <message>" where where is empty, " at end", or
// " at '<lexeme>'".
func (s *Sink) ReportAt(line int, where, message string) {
	s.hadError = true
	fmt.Fprintf(s.Err, "[line %d] Error%s: %s\n", line, where, message)
}

// RuntimeError renders a runtime diagnostic as "<message>\n[line N]",
// optionally followed by call-frame trace lines.
func (s *Sink) RuntimeError(line int, message string, trace []string) {
	s.hadRuntimeError = true
	fmt.Fprintf(s.Err, "%s\n[line %d]\n", message, line)
	for _, t := range trace {
		fmt.Fprint(s.Err, t)
	}
}

// Print writes a stringified Lox value followed by a trailing newline.
func (s *Sink) Print(text string) {
	fmt.Fprintln(s.Out, text)
}
