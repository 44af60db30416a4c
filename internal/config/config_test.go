package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/treescan/internal/matcher"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "treescan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "~/.treescan/settings.yaml", cfg.SettingsPath)
	assert.Equal(t, matcher.SyntaxRegex, cfg.Syntax)
	assert.False(t, cfg.SkipHidden)
	assert.False(t, cfg.FollowSymlinks)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.ProgressInterval)
	assert.False(t, cfg.Watch)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
pattern_syntax: glob
skip_hidden: true
tick_interval: 250ms
progress_interval: 0s
watch: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, matcher.SyntaxGlob, cfg.Syntax)
	assert.True(t, cfg.SkipHidden)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Zero(t, cfg.ProgressInterval)
	assert.True(t, cfg.Watch)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "watch: false\n")
	t.Setenv("TREESCAN_WATCH", "true")
	t.Setenv("TREESCAN_PATTERN_SYNTAX", "glob")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Watch)
	assert.Equal(t, matcher.SyntaxGlob, cfg.Syntax)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "pattern_syntax: sql\n"))
	assert.ErrorContains(t, err, "sql")

	_, err = Load(writeConfig(t, "tick_interval: 0s\n"))
	assert.ErrorContains(t, err, "tick_interval")
}
