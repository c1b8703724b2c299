package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestEnsureDirs verifies all required directories are created and
// repeated calls succeed.
func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	for range 3 {
		err := EnsureDirs(tmpDir)
		require.NoError(t, err)
	}

	dirs := []string{
		filepath.Join(tmpDir, ".config", "edureg"),
		filepath.Join(tmpDir, ".cache", "edureg"),
		filepath.Join(tmpDir, ".local", "share", "edureg"),
		filepath.Join(tmpDir, ".local", "share", "edureg", "logs"),
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), dir)
	}
}

// TestClearDir verifies directory content is removed and the directory
// is recreated.
func TestClearDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "xml")

	t.Run("missing directory is created", func(t *testing.T) {
		require.NoError(t, ClearDir(dir))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("content is removed", func(t *testing.T) {
		sub := filepath.Join(dir, "old")
		require.NoError(t, os.MkdirAll(sub, 0755))
		require.NoError(t,
			os.WriteFile(filepath.Join(dir, "a.xml"), []byte("<a/>"), 0644))

		require.NoError(t, ClearDir(dir))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

// TestEnsureConfigFile verifies the default config is written once and
// never overwrites user edits.
func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "edureg", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))

	customContent := "# Custom config\ndatabase:\n  driver: postgres"
	require.NoError(t, os.WriteFile(configPath, []byte(customContent), 0644))
	require.NoError(t, EnsureConfigFile(tmpDir))

	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content))
}

// TestConfigYAML verifies the embedded config is valid YAML with all
// sections.
func TestConfigYAML(t *testing.T) {
	var data map[string]any
	err := yaml.Unmarshal([]byte(ConfigYAML), &data)
	require.NoError(t, err)
	for _, key := range []string{"database", "ingest", "metrics", "log", "jobs_number"} {
		assert.Contains(t, data, key)
	}
}
