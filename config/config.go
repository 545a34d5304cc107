package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/pitwall/core/history"
	"github.com/kilianp07/pitwall/core/metrics"
	"github.com/kilianp07/pitwall/core/strategy"
	"github.com/kilianp07/pitwall/infra/artifacts"
	"github.com/kilianp07/pitwall/infra/mqtt"
)

type Config struct {
	Server   ServerConfig     `json:"server"`
	Models   artifacts.Config `json:"models"`
	Strategy strategy.Config  `json:"strategy"`
	History  history.Config   `json:"history"`
	Metrics  metrics.Config   `json:"metrics"`
	MQTT     mqtt.Config      `json:"mqtt"`
	Sentry   SentryConfig     `json:"sentry"`
}

// Load reads the YAML or JSON file at path, applies K_ prefixed environment
// overrides (K_SERVER__ADDR sets server.addr), then defaults and validation.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Models.SetDefaults()
	c.Strategy.SetDefaults()
	c.History.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"server", c.Server.Validate()},
		{"strategy", c.Strategy.Validate()},
		{"history", c.History.Validate()},
		{"mqtt", c.MQTT.Validate()},
		{"sentry", c.Sentry.Validate()},
	}
	for _, ch := range checks {
		if ch.err != nil {
			return fmt.Errorf("%s: %w", ch.section, ch.err)
		}
	}
	return nil
}
