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
)

func runValidate(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer

	cmd := commands.NewValidateCommand()
	cmd.SetOut(&stdout)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.Execute()

	return stdout.String(), err
}

func TestValidate_DefaultPath(t *testing.T) {
	t.Parallel()

	root, anchor := workspace(t, metadataJSON)

	out, err := runValidate(t, "--anchor", anchor)
	require.NoError(t, err)

	assert.Contains(t, out, "Metadata is valid ("+filepath.Join(root, "metadata.json")+")")
}

func TestValidate_ReportsViolations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"statistics": {"by_year": {"2020": -1}}}`), 0o600))

	out, err := runValidate(t, path)
	require.ErrorIs(t, err, commands.ErrInvalidMetadata)

	assert.Contains(t, out, "Metadata validation failed")
	assert.Contains(t, out, "by_domain")
	assert.Contains(t, out, "by_year.2020")
}

func TestValidate_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"statistics":`), 0o600))

	out, err := runValidate(t, path)
	require.ErrorIs(t, err, metadata.ErrMalformed)
	assert.Contains(t, out, "Invalid JSON in")
}

func TestValidate_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := runValidate(t, filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_PrintSchema(t *testing.T) {
	t.Parallel()

	out, err := runValidate(t, "--print-schema")
	require.NoError(t, err)

	assert.JSONEq(t, string(metadata.Schema()), out)
	assert.Contains(t, out, `"by_scale"`)
}

func TestValidate_DebugLogging(t *testing.T) {
	t.Parallel()

	_, anchor := workspace(t, metadataJSON)

	var stdout, stderr bytes.Buffer

	cmd := commands.NewValidateCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--no-color", "--anchor", anchor, "--log-level", "debug", "--log-format", "json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), `"msg":"metadata accepted"`)
	assert.Contains(t, stderr.String(), `"mode":"validate"`)
}
