package iologger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_File(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	dir := t.TempDir()
	err := Init(dir, config.LogConfig{
		Format:      "json",
		Level:       "warn",
		Destination: "file",
	})
	require.NoError(t, err)
	defer closeFile()

	slog.Info("hidden")
	slog.Warn("region inference failed", "ogrn", "1027700132195")

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "region inference failed", line["msg"])
	assert.Equal(t, "1027700132195", line["ogrn"])
	assert.NotContains(t, string(data), "hidden")
}

func TestInit_BadDir(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	dir := filepath.Join(t.TempDir(), "missing")
	err := Init(dir, config.LogConfig{Destination: "file"})
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		out slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, v := range tests {
		assert.Equal(t, v.out, parseLevel(v.in), v.in)
	}
}
