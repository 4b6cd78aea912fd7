package configs_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2can/api2can/configs"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api2can.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("API2CAN_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := configs.Load()
	require.NoError(t, err)

	assert.Equal(":8080", cfg.ListenAddr)
	assert.Equal("data", cfg.DataDir)
	assert.Equal("templates.tsv", cfg.TemplateBank)
	assert.Empty(cfg.SpecSources)
	assert.Equal("data/parameters.tsv", cfg.ParamsTSVPath())
	assert.Equal("data/entities.txt", cfg.EntityListPath())
	assert.Equal("data/templates.tsv", cfg.TemplateBankPath())
}

func TestLoad_FromFile(t *testing.T) {
	assert := assert.New(t)
	path := writeConfigFile(t, `
spec_sources:
  - petstore.yaml
  - https://example.com/openapi.json
data_dir: /var/lib/api2can
template_bank: bank.tsv
`)
	t.Setenv("API2CAN_CONFIG_FILE", path)

	cfg, err := configs.Load()
	require.NoError(t, err)

	assert.Equal([]string{"petstore.yaml", "https://example.com/openapi.json"}, cfg.SpecSources)
	assert.Equal("/var/lib/api2can", cfg.DataDir)
	assert.Equal("bank.tsv", cfg.TemplateBank)
	assert.Equal("/var/lib/api2can/bank.tsv", cfg.TemplateBankPath())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	assert := assert.New(t)
	path := writeConfigFile(t, `
spec_sources:
  - petstore.yaml
data_dir: /var/lib/api2can
`)
	t.Setenv("API2CAN_CONFIG_FILE", path)
	t.Setenv("API2CAN_DATA_DIR", "/tmp/api2can")
	t.Setenv("API2CAN_SPEC_SOURCES", "a.yaml,b.yaml")
	t.Setenv("API2CAN_LISTEN_ADDR", ":9090")

	cfg, err := configs.Load()
	require.NoError(t, err)

	assert.Equal("/tmp/api2can", cfg.DataDir)
	assert.Equal([]string{"a.yaml", "b.yaml"}, cfg.SpecSources)
	assert.Equal(":9090", cfg.ListenAddr)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "spec_sources: [unterminated")
	t.Setenv("API2CAN_CONFIG_FILE", path)

	_, err := configs.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestResolve_AbsolutePathUntouched(t *testing.T) {
	cfg := configs.Config{DataDir: "data", ParamsTSV: "/etc/api2can/parameters.tsv"}
	assert.Equal(t, "/etc/api2can/parameters.tsv", cfg.ParamsTSVPath())
}

func TestParsedLogLevel(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := configs.Config{LogLevel: tt.level}
		assert.Equal(tt.want, cfg.ParsedLogLevel(), "level %q", tt.level)
	}
}
