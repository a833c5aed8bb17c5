package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the tunable scan parameters read from a profile file.
// Everything has a working default; a missing file is not an error at
// this layer, callers decide whether to require one.
type Settings struct {
	Region              string   `mapstructure:"region"`
	Profile             string   `mapstructure:"profile"`
	Concurrency         int      `mapstructure:"concurrency"`
	CheckTimeoutSeconds int      `mapstructure:"check_timeout_seconds"`
	DisabledRules       []string `mapstructure:"disabled_rules"`
}

// DefaultSettings returns the settings a scan runs with when no profile
// file is supplied.
func DefaultSettings() Settings {
	return Settings{
		Region:              "us-gov-west-1",
		Concurrency:         1,
		CheckTimeoutSeconds: 60,
	}
}

// LoadSettings reads the scan profile at path. Values not present in
// the file keep their defaults.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := DefaultSettings()
	v.SetDefault("region", defaults.Region)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("check_timeout_seconds", defaults.CheckTimeoutSeconds)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scan profile: %w", err)
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scan profile: %w", err)
	}
	return &cfg, nil
}

// CheckTimeout converts the configured timeout to a duration.
func (s Settings) CheckTimeout() time.Duration {
	return time.Duration(s.CheckTimeoutSeconds) * time.Second
}
