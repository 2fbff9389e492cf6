package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix prefixes environment overrides, e.g. BOUNDGEN_LEGACY_MERGE=true.
const envPrefix = "BOUNDGEN"

// Config holds the settings of one boundgen run.
type Config struct {
	// LegacyMerge adds only one side when unifying types from two known sets.
	LegacyMerge bool `mapstructure:"legacy_merge"`
	// Dump prints the equality sets after each implementation.
	Dump bool `mapstructure:"dump"`
	// Sort prints constraints sorted instead of in discovery order.
	Sort bool `mapstructure:"sort"`
	// Strict exits non-zero when any error diagnostic is reported.
	Strict bool `mapstructure:"strict"`
	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
	// Jobs bounds how many fixture files are processed at once.
	Jobs int `mapstructure:"jobs"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{Jobs: runtime.NumCPU()}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"legacy-merge": "legacy_merge",
	"dump":         "dump",
	"sort":         "sort",
	"strict":       "strict",
	"verbose":      "verbose",
	"jobs":         "jobs",
}

// loadConfig merges defaults, the optional config file, BOUNDGEN_* environment
// variables and explicitly set flags, in increasing priority.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("legacy_merge", defaults.LegacyMerge)
	v.SetDefault("dump", defaults.Dump)
	v.SetDefault("sort", defaults.Sort)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("jobs", defaults.Jobs)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Jobs <= 0 {
		cfg.Jobs = defaults.Jobs
	}

	return cfg, nil
}
