package render_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/render"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

// Low resolution keeps the full render tests fast.
const testDPI = 36

const sampleJSON = `{
  "statistics": {
    "by_year": {"2017": 3, "2018": 7, "2019": 15, "2020": 12, "2021": 20, "2022": 18, "2023": 31, "2024": 40, "2025": 52, "2026": 9},
    "by_domain": {
      "linux-kernel": 60,
      "windows-drivers": 12,
      "container-tech": 45,
      "ai-infrastructure": 38,
      "android": 30,
      "gentoo-ecosystem": 22
    },
    "by_language": {"C": 5, "Go": 10, "Rust": 12, "Python": 10},
    "by_scale": {"mega": 2, "large": 1, "medium": 5, "small": 20}
  }
}`

func sampleRecord(t *testing.T) *metadata.Record {
	t.Helper()

	rec, err := metadata.Parse([]byte(sampleJSON))
	require.NoError(t, err)

	return rec
}

func testStyle() style.Style {
	return style.Default().WithDPI(testDPI)
}

func TestAll_FixedOrder(t *testing.T) {
	t.Parallel()

	rs := render.All(style.Default(), profile.Default())

	assert.Equal(t, []string{
		render.HeatmapFile,
		render.TimelineFile,
		render.DomainFile,
		render.LanguageFile,
		render.ScaleFile,
		render.RadarFile,
	}, render.Filenames(rs))

	for _, r := range rs {
		assert.NotEmpty(t, r.Name())
	}
}

func TestAll_RenderTwiceOverwrites(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	rec := sampleRecord(t)
	rs := render.All(testStyle(), profile.Default())

	for range 2 {
		for _, r := range rs {
			require.NoError(t, r.Render(context.Background(), rec, dir), r.Name())
		}
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.ElementsMatch(t, render.Filenames(rs), names)
}

func TestRender_PixelSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := sampleRecord(t)
	st := testStyle()
	p := profile.Default()

	tests := []struct {
		r   render.Renderer
		fig style.Figure
	}{
		{r: render.NewHeatmap(st, p), fig: render.HeatmapFigure},
		{r: render.NewTimeline(st, p), fig: render.TimelineFigure},
		{r: render.NewDomainPie(st, p), fig: render.DomainFigure},
		{r: render.NewLanguageBars(st), fig: render.LanguageFigure},
		{r: render.NewScaleCharts(st, p), fig: render.ScaleFigure},
		{r: render.NewSkillRadar(st, p), fig: render.RadarFigure},
	}

	for _, tt := range tests {
		require.NoError(t, tt.r.Render(context.Background(), rec, dir), tt.r.Name())

		f, err := os.Open(filepath.Join(dir, tt.r.Filename()))
		require.NoError(t, err)

		cfg, err := png.DecodeConfig(f)
		require.NoError(t, f.Close())
		require.NoError(t, err, tt.r.Name())

		w, h := tt.fig.Pixels(testDPI)
		assert.InDelta(t, w, cfg.Width, 1, tt.r.Name())
		assert.InDelta(t, h, cfg.Height, 1, tt.r.Name())
	}
}

func TestRender_DensityAndMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := sampleRecord(t)
	rs := render.All(testStyle(), profile.Default())

	for _, r := range rs {
		require.NoError(t, r.Render(context.Background(), rec, dir), r.Name())

		path := filepath.Join(dir, r.Filename())

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm(), r.Name())

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		phys, ok := findChunk(data, "pHYs")
		require.True(t, ok, r.Name())
		require.Len(t, phys, 9)
		assert.Equal(t, render.PixelsPerMeter(testDPI), binary.BigEndian.Uint32(phys[0:4]), r.Name())
		assert.Equal(t, render.PixelsPerMeter(testDPI), binary.BigEndian.Uint32(phys[4:8]), r.Name())
		assert.Equal(t, byte(1), phys[8], r.Name())

		_, err = png.Decode(bytes.NewReader(data))
		require.NoError(t, err, r.Name())
	}
}

func TestPixelsPerMeter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(11811), render.PixelsPerMeter(300))
	assert.Equal(t, uint32(2835), render.PixelsPerMeter(72))
}

// findChunk returns the data of the first chunk of type typ.
func findChunk(data []byte, typ string) ([]byte, bool) {
	pos := 8

	for pos+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		kind := string(data[pos+4 : pos+8])

		if pos+12+n > len(data) {
			return nil, false
		}

		if kind == typ {
			return data[pos+8 : pos+8+n], true
		}

		pos += 12 + n
	}

	return nil, false
}

func TestRender_FailureLeavesNoFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := sampleRecord(t)

	p := profile.Default()
	p.Milestones = append(p.Milestones, profile.Milestone{Year: "1999", Label: "missing"})

	err := render.NewTimeline(testStyle(), p).Render(context.Background(), rec, dir)
	require.ErrorIs(t, err, render.ErrMilestoneYear)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRender_NilRecord(t *testing.T) {
	t.Parallel()

	err := render.NewHeatmap(testStyle(), profile.Default()).Render(context.Background(), nil, t.TempDir())
	require.ErrorIs(t, err, render.ErrNilRecord)

	require.NoError(t, render.NewSkillRadar(testStyle(), profile.Default()).
		Render(context.Background(), nil, t.TempDir()))
}

func TestRender_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := render.NewLanguageBars(testStyle()).Render(ctx, sampleRecord(t), t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b")

	created, err := render.EnsureDir(dir)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = render.EnsureDir(dir)
	require.NoError(t, err)
	assert.False(t, created)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err = render.EnsureDir(file)
	require.Error(t, err)
}
