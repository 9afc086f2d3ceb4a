// Package config defines the compiler's configuration model and loading.
// Configuration is read from a YAML file, filled in with defaults, overridden
// by IONC_-prefixed environment variables, and validated before use.
package config

// Config is the root configuration for the ionc compiler.
type Config struct {
	// Output controls where generated artifacts are written.
	Output OutputConfig `yaml:"output"`

	// Targets selects and tunes the code generation backends.
	Targets TargetsConfig `yaml:"targets"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// History configures the build history audit log.
	History HistoryConfig `yaml:"history"`
}

// OutputConfig controls artifact placement and naming.
type OutputConfig struct {
	// Dir is the root output directory. Each target writes into its own
	// subdirectory beneath it.
	Dir string `yaml:"dir"`

	// ModuleName names the generated module/namespace. When empty the
	// compiler derives it from the source file name.
	ModuleName string `yaml:"module_name"`
}

// TargetsConfig selects backends and generation options.
type TargetsConfig struct {
	// Enabled lists the targets to compile for. Empty means all
	// registered targets.
	Enabled []string `yaml:"enabled"`

	// EffectComments toggles effect/purity documentation and effect
	// tracking hooks in generated code.
	EffectComments bool `yaml:"effect_comments"`

	// MaxConcurrent bounds how many backends generate at once.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// TelemetryConfig groups the observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the slog setup.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// MetricsConfig configures the prometheus collector.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HistoryConfig configures the per-invocation build history log.
type HistoryConfig struct {
	// Enabled turns history recording on. Off by default.
	Enabled bool `yaml:"enabled"`

	// Backend selects the store: "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// AsyncBuffer is the recorder's channel capacity. Records beyond it
	// are dropped rather than blocking compilation.
	AsyncBuffer int `yaml:"async_buffer"`

	// Retention controls pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig controls history pruning.
type RetentionConfig struct {
	// Days keeps records younger than this many days. Zero disables
	// pruning.
	Days int `yaml:"days"`

	// Schedule is the cron expression for the pruning job.
	Schedule string `yaml:"schedule"`
}

// Default returns a configuration with all defaults applied, for callers
// that run without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.Targets.EffectComments = DefaultEffectComments
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}
