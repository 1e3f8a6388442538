package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	for _, key := range []string{"WIKI_SYNC_CONFIG", "WIKI_SYNC_TOKEN", "WIKI_SYNC_LOG_FORMAT"} {
		os.Unsetenv(key)
	}
	os.Exit(m.Run())
}

// run executes the real command tree with clean flags and an empty home directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	homedir.DisableCache = true

	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "wiki-sync.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestConfigWhichWithoutConfigFile(t *testing.T) {
	out, err := run(t, "config", "which")
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join(".config", "wiki-sync.yaml"))
	assert.Contains(t, out, "not found, using defaults")
	assert.Empty(t, ConfigActual)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := run(t, "config", "which", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestConfigFromEnvironment(t *testing.T) {
	p := writeConfig(t, "debug: true\nlog-format: json\n")
	t.Setenv("WIKI_SYNC_CONFIG", p)

	out, err := run(t, "config", "which")
	require.NoError(t, err)
	assert.Equal(t, "Config path: "+p+"\n", out)
	assert.True(t, Debug)
	assert.Equal(t, "json", LogFormat)
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	p := writeConfig(t, "docs-dir: out\nspaces: [CORE]\n")

	_, err := run(t, "config", "which", "--config", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue parsing config file")
}

func TestConfigShowRedactsToken(t *testing.T) {
	p := writeConfig(t, "docs-dir: generated\ngenerate-cmd: [npx, apexdocs, markdown]\n")
	t.Setenv("WIKI_SYNC_TOKEN", "s3cret")

	out, err := run(t, "config", "show", "--config", p)
	require.NoError(t, err)

	assert.Contains(t, out, "config-file: "+p)
	assert.Contains(t, out, "docs-dir: generated")
	assert.Contains(t, out, "- apexdocs")
	assert.Contains(t, out, "WIKI_SYNC_TOKEN: REDACTED")
	assert.NotContains(t, out, "s3cret")
}

func TestLogFormatPrecedence(t *testing.T) {
	p := writeConfig(t, "log-format: json\n")

	_, err := run(t, "config", "which", "--config", p)
	require.NoError(t, err)
	assert.Equal(t, "json", LogFormat, "config file")

	t.Setenv("WIKI_SYNC_LOG_FORMAT", "pretty")
	_, err = run(t, "config", "which", "--config", p)
	require.NoError(t, err)
	assert.Equal(t, "pretty", LogFormat, "environment beats config file")

	_, err = run(t, "config", "which", "--config", p, "--log-format", "json")
	require.NoError(t, err)
	assert.Equal(t, "json", LogFormat, "flag beats environment")

	_, err = run(t, "config", "which", "--log-format", "xml")
	assert.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	var docsDir string
	var dryRun, progress bool
	var generate []string

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&docsDir, "docs-dir", "docs", "")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "")
	cmd.Flags().BoolVar(&progress, "progress", false, "")
	cmd.Flags().StringArrayVar(&generate, "generate-cmd", []string{}, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--docs-dir", "from-flag"}))

	yes := true
	require.NoError(t, bindFlags(cmd, YamlConfig{
		DocsDir:     "from-config",
		DryRun:      &yes,
		GenerateCmd: []string{"sh", "-c", "mkdir -p docs, please"},
		SourceDir:   "no such flag here",
	}))

	assert.Equal(t, "from-flag", docsDir, "command line wins")
	assert.True(t, dryRun)
	assert.False(t, progress, "unset in config, untouched")
	assert.Equal(t, []string{"sh", "-c", "mkdir -p docs, please"}, generate)
}

func TestBindFlagsBadValue(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Duration("request-timeout", 0, "")

	assert.Error(t, bindFlags(cmd, YamlConfig{RequestTimeout: "soon"}))
}

func TestGroupCommandsDescribeThemselves(t *testing.T) {
	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Flags on the command line")
	assert.Contains(t, out, "which")
	assert.Contains(t, out, "show")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "without changing anything")
	assert.Contains(t, out, "pages")
}
