package config

// Default values for configuration fields.
const (
	// Output defaults
	DefaultOutputDir = "./out"

	// Target defaults
	DefaultEffectComments = true
	DefaultMaxConcurrent  = 4

	// Telemetry defaults
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultMetricsEnabled = true

	// History defaults
	DefaultHistoryEnabled     = false
	DefaultHistoryBackend     = "sqlite"
	DefaultHistorySQLitePath  = "data/history.db"
	DefaultHistoryAsyncBuffer = 256
	DefaultRetentionDays      = 90
	DefaultRetentionSchedule  = "0 3 * * *"
)

// ApplyDefaults fills in zero-valued fields with their defaults. Boolean
// fields whose default is true are pre-seeded by Default and Load before
// unmarshalling, so an explicit false in the file survives.
func ApplyDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	if cfg.Targets.MaxConcurrent == 0 {
		cfg.Targets.MaxConcurrent = DefaultMaxConcurrent
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.SQLitePath == "" {
		cfg.History.SQLitePath = DefaultHistorySQLitePath
	}
	if cfg.History.AsyncBuffer == 0 {
		cfg.History.AsyncBuffer = DefaultHistoryAsyncBuffer
	}
	if cfg.History.Retention.Days == 0 {
		cfg.History.Retention.Days = DefaultRetentionDays
	}
	if cfg.History.Retention.Schedule == "" {
		cfg.History.Retention.Schedule = DefaultRetentionSchedule
	}
}
