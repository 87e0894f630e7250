package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables overriding scalar settings, e.g.
// FACET_SERVER_ADDR overrides server.addr.
const EnvPrefix = "FACET"

// envKeys are the settings available for overriding via environment. Lists, such as
// routes and default headers, can be set in the config file only.
var envKeys = []string{
	"server.addr",
	"server.name",
	"server.read_timeout",
	"pipeline.gzip_level",
	"pipeline.max_ranges",
	"log.level",
	"log.format",
	"metrics.enabled",
	"metrics.path",
}

// Load reads the YAML config file on top of the defaults, applies environment overrides
// and validates the result. Empty path means no config file, so only the environment
// is taken into account.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if len(path) > 0 {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Marshal renders the config as YAML, in the same form Load accepts.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
