// Package terminal prints human-readable progress lines for a run.
package terminal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes progress lines, colored unless disabled.
type Printer struct {
	out     io.Writer
	info    *color.Color
	step    *color.Color
	success *color.Color
	warn    *color.Color
	failure *color.Color
}

// NewPrinter returns a Printer writing to out. Color is also disabled when the
// NO_COLOR environment variable is set or out is not a terminal.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:     out,
		info:    color.New(color.FgCyan),
		step:    color.New(color.FgBlue),
		success: color.New(color.FgGreen, color.Bold),
		warn:    color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
	}

	if noColor || color.NoColor {
		for _, c := range []*color.Color{p.info, p.step, p.success, p.warn, p.failure} {
			c.DisableColor()
		}
	}

	return p
}

// Info prints a neutral line such as a resolved path.
func (p *Printer) Info(format string, args ...any) {
	p.line(p.info, format, args...)
}

// Step announces the chart about to be generated.
func (p *Printer) Step(name string) {
	p.line(p.step, "Generating %s...", name)
}

// Success prints a completion line.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.success, format, args...)
}

// Warn prints a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	p.line(p.warn, format, args...)
}

// Failure prints a fatal problem.
func (p *Printer) Failure(format string, args ...any) {
	p.line(p.failure, format, args...)
}

func (p *Printer) line(c *color.Color, format string, args ...any) {
	_, _ = c.Fprintln(p.out, fmt.Sprintf(format, args...))
}
