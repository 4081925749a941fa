// Package config loads the optional treeflat.yaml file used by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing default file is not an error.
const DefaultPath = "treeflat.yaml"

// Config holds every setting that can come from the configuration file.
type Config struct {
	Lookup      string `mapstructure:"lookup"`
	Root        int    `mapstructure:"root"`
	VisitLimit  int    `mapstructure:"visit_limit"`
	LogLevel    string `mapstructure:"log_level"`
	MetricsFile string `mapstructure:"metrics_file"`
	Redis       Redis  `mapstructure:"redis"`
}

// Redis configures the optional Redis rule sink. An empty Addr disables it.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Key      string        `mapstructure:"key"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Enabled reports whether a Redis sink should be attached.
func (r Redis) Enabled() bool { return r.Addr != "" }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Lookup:   "scan",
		LogLevel: "info",
		Redis: Redis{
			Key: "treeflat:rules",
		},
	}
}

// Load reads path on top of Default. When required is false a missing file
// yields the defaults.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays the YAML document in data onto cfg.
// Unknown keys are rejected so typos do not go unnoticed.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
