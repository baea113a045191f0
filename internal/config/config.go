// Package config loads runtime configuration from an optional YAML file with
// environment overrides. Precedence: defaults, then file, then CALCONTEXT_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`

	// Workers bounds concurrent parsing during batch loads.
	// Zero means one worker per CPU.
	Workers int `yaml:"workers"`

	// CodeIndex enables the in-memory SQLite line index for procedure and
	// trigger bodies.
	CodeIndex bool `yaml:"codeIndex"`

	// HTTPAddr, when non-empty, serves the read-only JSON API alongside the
	// MCP transport (for example ":8490").
	HTTPAddr string `yaml:"httpAddr"`
}

func defaults() Config {
	return Config{
		LogLevel:  "info",
		Workers:   0,
		CodeIndex: true,
		HTTPAddr:  "",
	}
}

// Load reads configuration. path may be empty or point to a missing file; in
// both cases defaults plus environment apply. A file that exists but does not
// parse is an error.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// optional file
		default:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.LogLevel = getenv("CALCONTEXT_LOG_LEVEL", cfg.LogLevel)
	cfg.Workers = getenvInt("CALCONTEXT_WORKERS", cfg.Workers)
	cfg.CodeIndex = getenvBool("CALCONTEXT_CODE_INDEX", cfg.CodeIndex)
	cfg.HTTPAddr = getenv("CALCONTEXT_HTTP_ADDR", cfg.HTTPAddr)

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.TrimSpace(strings.ToLower(v)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return fallback
}
