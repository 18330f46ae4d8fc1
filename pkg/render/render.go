// Package render draws the contribution charts as PNG files.
//
// Every renderer is stateless: it reads the record, the profile tables and the
// style, and writes exactly one file into the output directory, replacing any
// previous file of the same name.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

// Sentinel errors.
var (
	ErrMilestoneYear = errors.New("milestone year not present in by_year")
	ErrEmptySeries   = errors.New("series has no data")
	ErrYearFormat    = errors.New("year key is not an integer")
	ErrMissingDomain = errors.New("heatmap domain not present in by_domain")
	ErrNilRecord     = errors.New("nil metadata record")
)

const (
	dirPerm     = 0o750
	filePerm    = 0o644
	tempPattern = ".contribviz-*.png"
)

// Output filenames.
const (
	HeatmapFile  = "contribution_heatmap.png"
	TimelineFile = "contribution_timeline.png"
	DomainFile   = "domain_distribution.png"
	LanguageFile = "language_distribution.png"
	ScaleFile    = "project_scale_distribution.png"
	RadarFile    = "skill_radar.png"
)

// Figure sizes in inches.
var (
	HeatmapFigure  = style.Figure{Width: 12, Height: 8}
	TimelineFigure = style.Figure{Width: 12, Height: 6}
	DomainFigure   = style.Figure{Width: 10, Height: 8}
	LanguageFigure = style.Figure{Width: 10, Height: 6}
	ScaleFigure    = style.Figure{Width: 14, Height: 7}
	RadarFigure    = style.Figure{Width: 10, Height: 10}
)

// Renderer produces one chart file.
type Renderer interface {
	// Name is the human-readable chart name used in progress output.
	Name() string
	// Filename is the fixed output file name.
	Filename() string
	// Render writes the chart into dir, creating dir when needed.
	Render(ctx context.Context, rec *metadata.Record, dir string) error
}

// All returns the six renderers in their fixed run order.
func All(st style.Style, p profile.Profile) []Renderer {
	return []Renderer{
		NewHeatmap(st, p),
		NewTimeline(st, p),
		NewDomainPie(st, p),
		NewLanguageBars(st),
		NewScaleCharts(st, p),
		NewSkillRadar(st, p),
	}
}

// Filenames returns the output names of rs in order.
func Filenames(rs []Renderer) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Filename()
	}

	return out
}

// EnsureDir creates dir when it does not exist. It reports whether the
// directory was created by this call.
func EnsureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("output path %s is not a directory", dir)
		}

		return false, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat output dir: %w", err)
	}

	mkErr := os.MkdirAll(dir, dirPerm)
	if mkErr != nil {
		return false, fmt.Errorf("create output dir: %w", mkErr)
	}

	return true, nil
}

// writeFile encodes fn's PNG output, records dpi in it, and writes it to
// dir/name through a temporary file in the same directory, so a failed render
// never leaves a partial PNG behind.
func writeFile(dir, name string, dpi int, fn func(w io.Writer) error) (err error) {
	var buf bytes.Buffer

	encodeErr := fn(&buf)
	if encodeErr != nil {
		return fmt.Errorf("encode %s: %w", name, encodeErr)
	}

	data, err := withDensity(buf.Bytes(), dpi)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	_, err = EnsureDir(dir)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	_, writeErr := tmp.Write(data)
	chmodErr := tmp.Chmod(filePerm)
	closeErr := tmp.Close()

	switch {
	case writeErr != nil:
		return fmt.Errorf("write %s: %w", name, writeErr)
	case chmodErr != nil:
		return fmt.Errorf("chmod %s: %w", name, chmodErr)
	case closeErr != nil:
		return fmt.Errorf("close %s: %w", name, closeErr)
	}

	renameErr := os.Rename(tmpName, filepath.Join(dir, name))
	if renameErr != nil {
		return fmt.Errorf("rename %s: %w", name, renameErr)
	}

	return nil
}

func checkRecord(ctx context.Context, rec *metadata.Record) error {
	ctxErr := ctx.Err()
	if ctxErr != nil {
		return ctxErr
	}

	if rec == nil {
		return ErrNilRecord
	}

	return nil
}
