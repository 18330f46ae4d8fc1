package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/contribviz/cmd/contribviz/commands"
	"github.com/Sumatoshi-tech/contribviz/pkg/metadata"
	"github.com/Sumatoshi-tech/contribviz/pkg/profile"
	"github.com/Sumatoshi-tech/contribviz/pkg/render"
	"github.com/Sumatoshi-tech/contribviz/pkg/style"
)

const testDPI = "36"

const metadataJSON = `{
  "statistics": {
    "by_year": {"2018": 4, "2019": 9, "2020": 6, "2021": 11, "2022": 14, "2023": 21, "2024": 30, "2025": 44},
    "by_domain": {
      "linux-kernel": 50,
      "windows-drivers": 8,
      "container-tech": 40,
      "ai-infrastructure": 20,
      "android": 10,
      "gentoo-ecosystem": 11
    },
    "by_language": {"Python": 60, "Shell": 30, "Rust": 12, "Kotlin": 20},
    "by_scale": {"mega": 12, "large": 30, "medium": 50, "small": 47}
  }
}`

// The timeline needs 2025 for a default milestone.
const metadataWithout2025 = `{
  "statistics": {
    "by_year": {"2019": 9, "2023": 21},
    "by_domain": {
      "linux-kernel": 5, "windows-drivers": 5, "container-tech": 5,
      "ai-infrastructure": 5, "android": 5, "gentoo-ecosystem": 5
    },
    "by_language": {"Go": 3},
    "by_scale": {"mega": 1, "large": 1, "medium": 1, "small": 1}
  }
}`

// workspace mimics the wiki layout: <root>/metadata.json and <root>/scripts as the anchor.
func workspace(t *testing.T, doc string) (root, anchor string) {
	t.Helper()

	root = t.TempDir()
	anchor = filepath.Join(root, "scripts")
	require.NoError(t, os.MkdirAll(anchor, 0o750))

	if doc != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "metadata.json"), []byte(doc), 0o600))
	}

	return root, anchor
}

func runGenerate(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := commands.NewGenerateCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color", "--dpi", testDPI}, args...))

	err := cmd.Execute()

	return stdout.String(), err
}

func allFiles() []string {
	return render.Filenames(render.All(style.Default(), profile.Default()))
}

func TestGenerate_DefaultLayout(t *testing.T) {
	t.Parallel()

	root, anchor := workspace(t, metadataJSON)
	outDir := filepath.Join(root, "visualizations")

	out, err := runGenerate(t, "--anchor", anchor)
	require.NoError(t, err)

	assert.Contains(t, out, "Loading metadata from: "+filepath.Join(root, "metadata.json"))
	assert.Contains(t, out, "Generating visualizations in: "+outDir)
	assert.Contains(t, out, "Created output directory: "+outDir)
	assert.Contains(t, out, "Generating contribution heatmap...")
	assert.Contains(t, out, "Generating skill radar chart...")
	assert.Contains(t, out, "All visualizations generated successfully in "+outDir)

	for _, name := range allFiles() {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestGenerate_TwoRunsOverwrite(t *testing.T) {
	t.Parallel()

	root, anchor := workspace(t, metadataJSON)
	outDir := filepath.Join(root, "out")

	_, err := runGenerate(t, "--anchor", anchor, "--output-dir", outDir)
	require.NoError(t, err)

	out, err := runGenerate(t, "--anchor", anchor, "--output-dir", outDir)
	require.NoError(t, err)

	assert.NotContains(t, out, "Created output directory")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.ElementsMatch(t, allFiles(), names)
}

func TestGenerate_RelativeOutputUnderAnchor(t *testing.T) {
	t.Parallel()

	_, anchor := workspace(t, metadataJSON)

	_, err := runGenerate(t, "--anchor", anchor, "--output-dir", "charts")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(anchor, "charts", render.RadarFile))
}

func TestGenerate_MissingMetadata(t *testing.T) {
	t.Parallel()

	root, anchor := workspace(t, "")

	out, err := runGenerate(t, "--anchor", anchor)
	require.ErrorIs(t, err, commands.ErrLoadMetadata)
	require.ErrorIs(t, err, os.ErrNotExist)

	assert.Contains(t, out, "Error loading metadata file:")
	assert.NoDirExists(t, filepath.Join(root, "visualizations"))
}

func TestGenerate_MalformedMetadata(t *testing.T) {
	t.Parallel()

	_, anchor := workspace(t, `{"statistics": {"by_year": {}}}`)

	_, err := runGenerate(t, "--anchor", anchor)
	require.ErrorIs(t, err, metadata.ErrMalformed)
}

func TestGenerate_FailFast(t *testing.T) {
	t.Parallel()

	root, anchor := workspace(t, metadataWithout2025)
	outDir := filepath.Join(root, "visualizations")

	out, err := runGenerate(t, "--anchor", anchor)
	require.ErrorIs(t, err, render.ErrMilestoneYear)

	assert.Contains(t, out, "Failed to generate contribution timeline")
	assert.NotContains(t, out, "All visualizations generated successfully")
	assert.FileExists(t, filepath.Join(outDir, render.HeatmapFile))
	assert.NoFileExists(t, filepath.Join(outDir, render.TimelineFile))
	assert.NoFileExists(t, filepath.Join(outDir, render.RadarFile))
}

func TestGenerate_KeepGoing(t *testing.T) {
	t.Parallel()

	root, anchor := workspace(t, metadataWithout2025)
	outDir := filepath.Join(root, "visualizations")

	out, err := runGenerate(t, "--anchor", anchor, "--keep-going")
	require.ErrorIs(t, err, render.ErrMilestoneYear)

	assert.Contains(t, out, "FAILED")
	assert.NoFileExists(t, filepath.Join(outDir, render.TimelineFile))

	for _, name := range []string{render.HeatmapFile, render.DomainFile, render.LanguageFile, render.ScaleFile, render.RadarFile} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestGenerate_ProfileOverride(t *testing.T) {
	t.Parallel()

	root, anchor := workspace(t, metadataWithout2025)
	profilePath := filepath.Join(root, "profile.yaml")

	require.NoError(t, os.WriteFile(profilePath, []byte(`heatmap_domains:
  - {key: linux-kernel, label: Kernel}
milestones:
  - {year: "2023", label: Maintainer, offset_percent: 5}
scale_buckets:
  - {key: mega, label: Mega, avg_stars: 40000}
  - {key: small, label: Small, avg_stars: 300}
skills:
  - {name: Go, score: 90}
  - {name: C, score: 70}
  - {name: Shell, score: 80}
`), 0o600))

	_, err := runGenerate(t, "--anchor", anchor, "--profile", profilePath)
	require.NoError(t, err)
}

func TestGenerate_MetricsFile(t *testing.T) {
	t.Parallel()

	root, anchor := workspace(t, metadataJSON)
	metricsPath := filepath.Join(root, "contribviz.prom")

	_, err := runGenerate(t, "--anchor", anchor, "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)

	assert.Contains(t, string(data), `chart="skill radar chart"`)
}

func TestGenerate_InvalidDPI(t *testing.T) {
	t.Parallel()

	_, anchor := workspace(t, metadataJSON)

	var stdout bytes.Buffer

	cmd := commands.NewGenerateCommand()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--anchor", anchor, "--dpi", "5"})

	require.Error(t, cmd.Execute())
}
