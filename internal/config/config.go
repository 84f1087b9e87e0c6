package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all gateway configuration. It is loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	Port         int               `yaml:"port"`
	DatabasePath string            `yaml:"database_path"`
	LogLevel     string            `yaml:"log_level"`
	Services     map[string]string `yaml:"services"`
}

func defaults() Config {
	return Config{
		Port:         8000,
		DatabasePath: "textproc.db",
		LogLevel:     "info",
		Services: map[string]string{
			"translate": "http://translation:8001",
			"summary":   "http://summary:8002",
			"analytics": "http://analytics:8003",
			"improve":   "http://improve:8004",
			"keywords":  "http://keywords:8005",
		},
	}
}

// Load reads configuration from a YAML file (if path is non-empty), then
// applies environment variable overrides. An empty path returns defaults plus
// env overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if v := os.Getenv("TEXTPROC_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid TEXTPROC_PORT %q: %w", v, err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("TEXTPROC_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("TEXTPROC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	for name := range cfg.Services {
		if v := os.Getenv("TEXTPROC_SERVICE_" + envKey(name)); v != "" {
			cfg.Services[name] = v
		}
	}

	return cfg, nil
}

func envKey(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
