package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, "query", cfg.Query.Mode)
	assert.False(t, cfg.Query.Simplify)
	assert.Equal(t, 128, cfg.Cache.Size)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
output:
  format: jsonl
query:
  mode: where
  simplify: true
cache:
  size: 16
log:
  level: debug
  encoding: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jsonl", cfg.Output.Format)
	assert.Equal(t, "where", cfg.Query.Mode)
	assert.True(t, cfg.Query.Simplify)
	assert.Equal(t, 16, cfg.Cache.Size)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths, "unset paths take the default")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "output:\n  format: csv\n")
	t.Setenv("SOQL_FORMAT", "json")
	t.Setenv("SOQL_CACHE_SIZE", "7")
	t.Setenv("SOQL_LOG_LEVEL", "error")
	t.Setenv("SOQL_MODE", "expr")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 7, cfg.Cache.Size)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "expr", cfg.Query.Mode)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "output: [\n"},
		{"unknown format", "output:\n  format: xml\n"},
		{"unknown mode", "query:\n  mode: tokens\n"},
		{"negative cache", "cache:\n  size: -1\n"},
		{"bad encoding", "log:\n  encoding: text\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output.Format)

	_, err = LoadOrDefault(writeConfig(t, "output:\n  format: xml\n"))
	assert.Error(t, err, "an existing invalid file is not replaced by defaults")
}

func TestOverrideFromEnv_InvalidSize(t *testing.T) {
	t.Setenv("SOQL_CACHE_SIZE", "many")
	cfg := Default()
	cfg.OverrideFromEnv()
	assert.Equal(t, 128, cfg.Cache.Size)
}
