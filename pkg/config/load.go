package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Start from defaults so absent true-by-default booleans survive.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// IONC_SECTION_FIELD (e.g. IONC_OUTPUT_DIR) and always take precedence
// over file values.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like LoadWithEnvOverrides, except a missing file
// is not an error: the defaults (plus environment overrides) are used
// instead. The CLI uses it so a config file stays optional.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
		}
		return cfg, nil
	}
	return LoadWithEnvOverrides(path)
}

func applyEnvOverrides(cfg *Config) {
	// Output overrides
	if val := os.Getenv("IONC_OUTPUT_DIR"); val != "" {
		cfg.Output.Dir = val
	}
	if val := os.Getenv("IONC_OUTPUT_MODULE_NAME"); val != "" {
		cfg.Output.ModuleName = val
	}

	// Target overrides
	if val := os.Getenv("IONC_TARGETS_ENABLED"); val != "" {
		parts := strings.Split(val, ",")
		targets := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				targets = append(targets, p)
			}
		}
		cfg.Targets.Enabled = targets
	}
	if val := os.Getenv("IONC_TARGETS_EFFECT_COMMENTS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Targets.EffectComments = b
		}
	}
	if val := os.Getenv("IONC_TARGETS_MAX_CONCURRENT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Targets.MaxConcurrent = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("IONC_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("IONC_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("IONC_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	// History overrides
	if val := os.Getenv("IONC_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("IONC_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("IONC_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLitePath = val
	}
	if val := os.Getenv("IONC_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.Retention.Days = i
		}
	}
	if val := os.Getenv("IONC_HISTORY_RETENTION_SCHEDULE"); val != "" {
		cfg.History.Retention.Schedule = val
	}
}
