// Package report summarizes the outcome of a rendering run.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	statusOK     = "ok"
	statusFailed = "FAILED"
	durationUnit = time.Millisecond
)

// Result is the outcome of one renderer.
type Result struct {
	Name     string
	File     string
	Bytes    int64
	Duration time.Duration
	Err      error
}

// OK reports whether the renderer succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Results is the ordered list of renderer outcomes of a run.
type Results []Result

// Failed returns the number of failed renderers.
func (rs Results) Failed() int {
	n := 0

	for _, r := range rs {
		if !r.OK() {
			n++
		}
	}

	return n
}

// TotalBytes sums the size of every written file.
func (rs Results) TotalBytes() int64 {
	var total int64

	for _, r := range rs {
		if r.OK() {
			total += r.Bytes
		}
	}

	return total
}

// Err joins the failures, each prefixed by its chart name. It is nil when
// every renderer succeeded.
func (rs Results) Err() error {
	var errs []error

	for _, r := range rs {
		if !r.OK() {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}

	return errors.Join(errs...)
}

// WriteTable renders the results as a table.
func (rs Results) WriteTable(w io.Writer) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Chart", "File", "Size", "Time", "Status"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, r := range rs {
		size, status := humanize.Bytes(uint64(max(r.Bytes, 0))), statusOK
		if !r.OK() {
			size, status = "-", statusFailed
		}

		tbl.AppendRow(table.Row{r.Name, r.File, size, r.Duration.Round(durationUnit).String(), status})
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d charts", len(rs)),
		fmt.Sprintf("%d failed", rs.Failed()),
		humanize.Bytes(uint64(max(rs.TotalBytes(), 0))),
		"",
		"",
	})

	tbl.Render()
}
