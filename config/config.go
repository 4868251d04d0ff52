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

	"github.com/kilianp07/planner/core/eventlog"
	"github.com/kilianp07/planner/core/metrics"
	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/infra/monitoring"
	"github.com/kilianp07/planner/infra/mqtt"
)

// EnvPrefix marks environment variables overriding file settings. Nested keys
// are separated by a double underscore, e.g. PLANNER_PLANNER__MAX_DAYS=21.
const EnvPrefix = "PLANNER_"

type Config struct {
	Planner  model.UserConfig  `json:"planner"`
	EventLog eventlog.Config   `json:"event_log"`
	Metrics  metrics.Config    `json:"metrics"`
	MQTT     mqtt.Config       `json:"mqtt"`
	Service  ServiceConfig     `json:"service"`
	Sentry   monitoring.Config `json:"sentry"`
}

// Load reads the configuration file at path, applies environment overrides
// and fills defaults. An empty path loads defaults and environment only.
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
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.Planner.SetDefaults()
	c.EventLog.SetDefaults()
	c.MQTT.SetDefaults()
	c.Service.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if err := c.EventLog.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.Service.Validate()
}
