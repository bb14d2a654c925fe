package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/loader"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadJourneyFileValidDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "journey.yaml", `
version: "1"
journey:
  path: /onboarding
  code: onboarding
  title: Onboarding
  entryPath: /welcome
  steps:
    - path: /welcome
      title: Welcome
      isEntryPoint: true
      blocks: []
`)

	doc, err := loader.LoadJourneyFile(path)
	require.NoError(t, err)
	require.Equal(t, "1", doc.Version)
}

func TestLoadJourneyFileMissingRequiredFieldFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "journey.yaml", `
version: "1"
journey:
  code: onboarding
  steps:
    - path: /welcome
`)

	_, err := loader.LoadJourneyFile(path)
	require.Error(t, err)
}

func TestLoadJourneyFileInvalidCodeFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "journey.yaml", `
version: "1"
journey:
  path: /onboarding
  code: "Not Valid!"
  steps:
    - path: /welcome
`)

	_, err := loader.LoadJourneyFile(path)
	require.Error(t, err)
}

func TestLoadJourneyFileMissingFilePropagatesError(t *testing.T) {
	_, err := loader.LoadJourneyFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestDefaultSettingsValues(t *testing.T) {
	s := loader.DefaultSettings()
	require.Equal(t, 64, s.MaxRecursionDepth)
	require.Equal(t, 1024, s.CacheSize)
	require.Equal(t, "info", s.LogLevel)
}

func TestLoadSettingsMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "engine.toml", "max_recursion_depth = 8\n")

	s, err := loader.LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, 8, s.MaxRecursionDepth)
	require.Equal(t, 1024, s.CacheSize)
	require.Equal(t, "info", s.LogLevel)
}

func TestLoadSettingsEmptyPathReturnsDefaults(t *testing.T) {
	s, err := loader.LoadSettings("")
	require.NoError(t, err)
	require.Equal(t, loader.DefaultSettings(), s)
}

func TestLoadSettingsMissingFileFails(t *testing.T) {
	_, err := loader.LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
