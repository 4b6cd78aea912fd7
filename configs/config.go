package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	// SpecSources lists API description documents (file paths or URLs) to
	// mine templates from at startup.
	SpecSources []string `yaml:"spec_sources"`

	// DataDir holds the parameter frequency table and entity list.
	DataDir string `yaml:"data_dir"`

	// TemplateBank is the path of the persisted template bank file.
	TemplateBank string `yaml:"template_bank"`
}

// Config holds the final application configuration, merged from file and
// environment variables. Environment variables use the prefix "API2CAN_"
// and override file settings.
type Config struct {
	// Config File Path (Loaded first from env)
	ConfigFilePath string `envconfig:"CONFIG_FILE" default:"configs/api2can.yaml"`

	// File-loaded fields (merged)
	SpecSources []string `envconfig:"SPEC_SOURCES"`

	ListenAddr         string        `envconfig:"LISTEN_ADDR" default:":8080"`
	HTTPClientTimeout  time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	ServerReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	ServerWriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ServerIdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`

	// GrammarServiceURL points at a LanguageTool server, e.g.
	// "http://localhost:5004". Empty disables grammar correction.
	GrammarServiceURL string `envconfig:"GRAMMAR_SERVICE_URL"`

	// ParamsTSV and EntityList seed the value sampler. Relative paths are
	// resolved against DataDir. DataDir and TemplateBank carry no envconfig
	// default so that file-loaded values survive the env override pass;
	// Load fills the fallbacks in afterwards.
	DataDir      string `envconfig:"DATA_DIR"`
	ParamsTSV    string `envconfig:"PARAMS_TSV" default:"parameters.tsv"`
	EntityList   string `envconfig:"ENTITY_LIST" default:"entities.txt"`
	TemplateBank string `envconfig:"TEMPLATE_BANK"`

	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string `envconfig:"LOG_LEVEL" default:"info"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// ParamsTSVPath resolves the parameter table path against DataDir.
func (c *Config) ParamsTSVPath() string { return c.resolve(c.ParamsTSV) }

// EntityListPath resolves the entity list path against DataDir.
func (c *Config) EntityListPath() string { return c.resolve(c.EntityList) }

// TemplateBankPath resolves the template bank path against DataDir.
func (c *Config) TemplateBankPath() string { return c.resolve(c.TemplateBank) }

func (c *Config) resolve(path string) string {
	if path == "" || strings.HasPrefix(path, "/") || c.DataDir == "" {
		return path
	}
	return c.DataDir + "/" + path
}

// Load loads configuration first from environment variables (to get the file
// path), then from the YAML file, and finally merges/overrides with
// environment variables again.
func Load() (*Config, error) {
	// 1. Load initial config from Env (primarily to get ConfigFilePath)
	var initialCfg Config
	if err := envconfig.Process("api2can", &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}

	// 2. Load config from YAML file if present
	fileCfg := FileConfig{}
	if initialCfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(initialCfg.ConfigFilePath)
		switch {
		case os.IsNotExist(err):
			slog.Info("No config file found, using defaults/env vars only.",
				"path", initialCfg.ConfigFilePath)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file '%s': %w", initialCfg.ConfigFilePath, err)
		default:
			if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", initialCfg.ConfigFilePath, err)
			}
			slog.Info("Loaded configuration from file.", "path", initialCfg.ConfigFilePath)
		}
	}

	// 3. Apply file values, then process Env vars again for overrides.
	finalCfg := initialCfg
	if len(fileCfg.SpecSources) > 0 {
		finalCfg.SpecSources = fileCfg.SpecSources
	}
	if fileCfg.DataDir != "" {
		finalCfg.DataDir = fileCfg.DataDir
	}
	if fileCfg.TemplateBank != "" {
		finalCfg.TemplateBank = fileCfg.TemplateBank
	}

	if err := envconfig.Process("api2can", &finalCfg); err != nil {
		return nil, fmt.Errorf("failed to process overriding environment variables: %w", err)
	}

	if finalCfg.DataDir == "" {
		finalCfg.DataDir = "data"
	}
	if finalCfg.TemplateBank == "" {
		finalCfg.TemplateBank = "templates.tsv"
	}

	return &finalCfg, nil
}
