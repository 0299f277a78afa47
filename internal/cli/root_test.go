package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headson/headson/internal/headsonerr"
)

func TestRootCommandUse(t *testing.T) {
	assert.Equal(t, "headson", rootCmd.Use)
}

func TestRootCommandSilenceUsage(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage, "SilenceUsage must be true to avoid printing usage on errors")
}

func TestRootCommandSilenceErrors(t *testing.T) {
	assert.True(t, rootCmd.SilenceErrors, "SilenceErrors must be true for manual error handling")
}

func TestRootCommandHasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag, "root command must have --verbose persistent flag")
}

func TestRootCommandHasQuietFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("quiet")
	require.NotNil(t, flag, "root command must have --quiet persistent flag")
}

func TestRootCommandHasOutputFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("output")
	require.NotNil(t, flag, "root command must have --output persistent flag")
	assert.Equal(t, "o", flag.Shorthand)
}

func TestRootCommandHasFormatFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("format")
	require.NotNil(t, flag, "root command must have --format persistent flag")
}

func TestRootCommandHasStyleFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("style")
	require.NotNil(t, flag, "root command must have --style persistent flag")
}

func TestRootCommandHasGrepFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("grep")
	require.NotNil(t, flag, "root command must have --grep persistent flag")
}

func TestRootCommandHasSkipLargeFilesFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("skip-large-files")
	require.NotNil(t, flag, "root command must have --skip-large-files persistent flag")
}

func TestRootCommandHasBooleanFlags(t *testing.T) {
	boolFlags := []string{
		"git-tracked-only",
		"stdout",
		"compact",
		"grep-weak",
		"no-sort",
		"debug",
		"verbose",
		"quiet",
	}
	for _, name := range boolFlags {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(name)
			require.NotNil(t, flag, "root command must have --%s persistent flag", name)
			assert.Equal(t, "false", flag.DefValue)
		})
	}
}

func TestExecuteWithHelp(t *testing.T) {
	// Running with --help should succeed (exit 0).
	rootCmd.SetArgs([]string{"--help"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitSuccess), code)
	assert.Contains(t, buf.String(), "LLM-ready summary")
}

func TestExecuteHelpShowsAllFlags(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitSuccess), code)

	output := buf.String()
	expectedFlags := []string{
		"--output", "--format", "--style", "--color", "--encoding",
		"--bytes", "--chars", "--lines",
		"--global-bytes", "--global-chars", "--global-lines",
		"--grep", "--grep-weak", "--ignore",
		"--git-tracked-only", "--skip-large-files", "--no-sort",
		"--priority", "--debug", "--verbose", "--quiet",
	}
	for _, flag := range expectedFlags {
		assert.Contains(t, output, flag, "help output should show %s flag", flag)
	}
}

func TestExecuteWithNoArgs(t *testing.T) {
	// Running with no args delegates to generate against the current
	// directory, here a temp dir holding one text file, and exits 0.
	dir := withTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))

	rootCmd.SetArgs([]string{})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitSuccess), code)
}

func TestExecuteWithUnknownFlag(t *testing.T) {
	// Running with an unknown flag should return a non-zero exit code.
	rootCmd.SetArgs([]string{"--nonexistent-flag"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetErr(buf)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, int(headsonerr.ExitRuntime), code)
}

func TestRootCmdReturnsCommand(t *testing.T) {
	cmd := RootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "headson", cmd.Use)
}

func TestRootCommandLongDescription(t *testing.T) {
	assert.Contains(t, rootCmd.Long, "LLM-ready summary")
}

func TestGlobalFlagsReturnsValues(t *testing.T) {
	fv := GlobalFlags()
	require.NotNil(t, fv, "GlobalFlags() should return non-nil FlagValues")
}

func TestExtractExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error returns ExitSuccess",
			err:  nil,
			want: int(headsonerr.ExitSuccess),
		},
		{
			name: "generic error returns ExitRuntime",
			err:  errors.New("something went wrong"),
			want: int(headsonerr.ExitRuntime),
		},
		{
			name: "IngestFailed returns ExitRuntime",
			err:  headsonerr.IngestFailed("a.json", errors.New("cause")),
			want: int(headsonerr.ExitRuntime),
		},
		{
			name: "BudgetConflict returns ExitValidation",
			err:  headsonerr.BudgetConflict("conflicting budgets"),
			want: int(headsonerr.ExitValidation),
		},
		{
			name: "GrepConflict returns ExitValidation",
			err:  headsonerr.GrepConflict("conflicting grep flags"),
			want: int(headsonerr.ExitValidation),
		},
		{
			name: "wrapped headsonerr.Error preserves exit code",
			err:  fmt.Errorf("command failed: %w", headsonerr.BudgetConflict("partial")),
			want: int(headsonerr.ExitValidation),
		},
		{
			name: "deeply wrapped headsonerr.Error preserves exit code",
			err:  fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", headsonerr.IngestFailed("a", nil))),
			want: int(headsonerr.ExitRuntime),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := extractExitCode(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractExitCode_NilReturnsZero(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, extractExitCode(nil))
}

func TestExtractExitCode_GenericErrorReturnsOne(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, extractExitCode(errors.New("generic")))
}

func TestExtractExitCode_ValidationErrorReturnsTwo(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, extractExitCode(headsonerr.GrepConflict("conflict")))
}

func TestExtractExitCode_WrappedGenericErrorReturnsOne(t *testing.T) {
	t.Parallel()

	// A generic error wrapped with fmt.Errorf (no headsonerr.Error in the
	// chain) should still return ExitRuntime (1).
	wrappedGeneric := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", errors.New("root")))
	assert.Equal(t, 1, extractExitCode(wrappedGeneric))
}
