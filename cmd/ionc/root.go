package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ion-lang/ionc/pkg/config"
	"ion-lang/ionc/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ionc",
	Short: "Ion compiler - compile Ion source to multiple targets",
	Long: `Ionc compiles Ion source files to source code for multiple target
ecosystems from a single parse.

Ion is a small language with effect-tracked functions, a built-in Result
type with '?' propagation, guard statements, match expressions, modules
and string interpolation.

Supported targets:
  csharp      - C# with a namespace per module
  kotlin      - Kotlin with object declarations per module
  javascript  - JavaScript (ES modules) with a tagged-object Result
  rustlang    - Rust mapping Result onto the native Result type
  wasm        - WebAssembly text format with a JS loader`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().AddFlagSet(globalFlags())
}

// globalFlags builds the persistent flag set shared by every subcommand.
func globalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.StringVarP(&cfgFile, "config", "c", "ionc.yaml", "config file path")
	fs.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&logFormat, "log-format", "", "log format: text, json")
	return fs
}

// initConfig loads configuration and installs the logger. A missing
// config file falls back to defaults; flag values win over the file.
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}
