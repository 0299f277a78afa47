package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headson/headson/internal/headsonerr"
)

func TestPreviewCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "preview" {
			found = true
			break
		}
	}
	assert.True(t, found, "preview command must be registered on root")
}

func TestPreviewCommandHasFilesFlag(t *testing.T) {
	flag := previewCmd.Flags().Lookup("files")
	assert.NotNil(t, flag, "preview command must have --files flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestPreviewCommandProperties(t *testing.T) {
	assert.Equal(t, "preview [path]", previewCmd.Use)
	assert.NotEmpty(t, previewCmd.Short)
	assert.NotEmpty(t, previewCmd.Long)
}

func TestPreviewCommandInheritsGlobalFlags(t *testing.T) {
	globalFlags := []string{"encoding", "bytes", "grep", "color"}
	for _, name := range globalFlags {
		t.Run(name, func(t *testing.T) {
			flag := previewCmd.InheritedFlags().Lookup(name)
			assert.NotNil(t, flag, "preview must inherit --%s from root", name)
		})
	}
}

func TestPreviewCommandHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"preview", "--help"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitSuccess), code)

	output := buf.String()
	assert.Contains(t, output, "preview")
	assert.Contains(t, output, "--files")
}

// TestPreviewCommandExitsZero verifies that running `headson preview` against
// a directory with one file completes successfully and writes a report to
// stderr.
func TestPreviewCommandExitsZero(t *testing.T) {
	dir := withTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello world"), 0o644))

	rootCmd.SetArgs([]string{"preview"})
	defer rootCmd.SetArgs(nil)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitSuccess), code,
		"headson preview must exit 0; combined output: %s", buf.String())
	assert.Contains(t, buf.String(), "Token estimate:")
}

// TestPreviewDoesNotWriteOutputFile verifies preview never writes to
// --output even when it is set.
func TestPreviewDoesNotWriteOutputFile(t *testing.T) {
	dir := withTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	outPath := filepath.Join(dir, "summary.md")

	rootCmd.SetArgs([]string{"preview", "--output", outPath})
	defer rootCmd.SetArgs(nil)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitSuccess), code)

	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err), "preview must not create --output's file")
}

// TestPreviewFilesFlagPrintsBreakdown verifies that --files prints a
// per-input token breakdown.
func TestPreviewFilesFlagPrintsBreakdown(t *testing.T) {
	dir := withTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello world"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("a much longer file body here"), 0o644))

	rootCmd.SetArgs([]string{"preview", "--files", "1"})
	defer rootCmd.SetArgs(nil)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	require.Equal(t, int(headsonerr.ExitSuccess), code)
	assert.Contains(t, buf.String(), "Per-file token breakdown:")
}

// TestPreviewWithEncodingFlagExitsZero verifies that the --encoding flag is
// honoured by the preview command (exercises flag inheritance path).
func TestPreviewWithEncodingFlagExitsZero(t *testing.T) {
	dir := withTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))

	rootCmd.SetArgs([]string{"preview", "--encoding", "o200k_base"})
	defer rootCmd.SetArgs(nil)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitSuccess), code,
		"headson preview --encoding o200k_base must exit 0")
}

// TestPreviewWithBytesFlagExitsZero verifies that --bytes is wired through
// the preview path without error.
func TestPreviewWithBytesFlagExitsZero(t *testing.T) {
	dir := withTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))

	rootCmd.SetArgs([]string{"preview", "--bytes", "100"})
	defer rootCmd.SetArgs(nil)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitSuccess), code,
		"headson preview --bytes 100 must exit 0")
}

// TestPreviewWithConflictingBudgetsReturnsError verifies that passing both
// --bytes and --chars fails flag validation.
func TestPreviewWithConflictingBudgetsReturnsError(t *testing.T) {
	withTempDir(t)

	rootCmd.SetArgs([]string{"preview", "--bytes", "100", "--chars", "100"})
	defer rootCmd.SetArgs(nil)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.NotEqual(t, int(headsonerr.ExitSuccess), code,
		"headson preview --bytes 100 --chars 100 must fail validation")
}
