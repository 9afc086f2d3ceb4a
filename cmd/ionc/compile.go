package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ion-lang/ionc/pkg/cli"
	"ion-lang/ionc/pkg/compiler"
	"ion-lang/ionc/pkg/history/recorder"
	"ion-lang/ionc/pkg/telemetry/metrics"
)

var compileFlags struct {
	targets        []string
	output         string
	moduleName     string
	effectComments bool
	format         string
	noHistory      bool
}

var compileCmd = &cobra.Command{
	Use:   "compile <file>...",
	Short: "Compile Ion source files",
	Long: `Compile Ion source files to one or more targets.

Each target writes its generated source, build manifest and runtime
support files into its own subdirectory of the output directory. A
failing target never aborts the others; the exit status is non-zero
when any requested target fails.

Examples:
  # Compile to every available target
  ionc compile main.ion

  # Compile to selected targets
  ionc compile main.ion -t kotlin -t rustlang

  # Custom output directory and module name
  ionc compile main.ion -o ./build --module-name billing

  # Machine-readable result
  ionc compile main.ion --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringSliceVarP(&compileFlags.targets, "target", "t", nil, "target to compile for (repeatable; default: configured set)")
	compileCmd.Flags().StringVarP(&compileFlags.output, "output", "o", "", "output directory (default: from config)")
	compileCmd.Flags().StringVar(&compileFlags.moduleName, "module-name", "", "module/namespace name for generated code")
	compileCmd.Flags().BoolVar(&compileFlags.effectComments, "effect-comments", true, "render effect documentation on generated functions")
	compileCmd.Flags().StringVarP(&compileFlags.format, "format", "f", "text", "output format: text, json")
	compileCmd.Flags().BoolVar(&compileFlags.noHistory, "no-history", false, "skip history recording for this invocation")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}

	format, err := cli.ParseFormat(compileFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return fmt.Errorf("compile does not support CSV output")
	}

	if cmd.Flags().Changed("output") {
		cfg.Output.Dir = compileFlags.output
	}
	if cmd.Flags().Changed("module-name") {
		cfg.Output.ModuleName = compileFlags.moduleName
	}
	if cmd.Flags().Changed("effect-comments") {
		cfg.Targets.EffectComments = compileFlags.effectComments
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
	}

	var rec *recorder.Recorder
	if cfg.History.Enabled && !compileFlags.noHistory {
		store, err := openHistoryStorage(cfg)
		if err != nil {
			return cli.NewCommandError("compile", err)
		}
		defer store.Close()
		rec = recorder.New(store, &recorder.Config{AsyncBuffer: cfg.History.AsyncBuffer})
		defer rec.Close()
	}

	comp := compiler.New(cfg, collector, rec)
	ctx := cli.SetupSignalHandler()

	var progress cli.ProgressReporter
	if format == cli.FormatText && len(args) > 1 {
		progress = cli.NewProgressReporter(os.Stderr)
		progress.Start(int64(len(args)))
	}

	reports := make([]*cli.CompileReport, 0, len(args))
	failed := 0
	for i, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return cli.NewCommandError("compile", err)
		}

		result, err := comp.CompileToTargets(ctx, string(src), path, compileFlags.targets, cfg.Output.Dir)
		if err != nil {
			failed++
			if progress != nil {
				progress.Error(err)
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			continue
		}
		if !result.OverallSuccess() {
			failed++
		}
		reports = append(reports, cli.NewCompileReport(result))

		if progress != nil {
			progress.Update(int64(i + 1))
		}
	}
	if progress != nil {
		progress.Finish()
	}

	switch format {
	case cli.FormatJSON:
		formatter := cli.NewFormatter(cli.FormatJSON)
		if len(reports) == 1 {
			err = formatter.FormatTo(os.Stdout, reports[0])
		} else {
			err = formatter.FormatTo(os.Stdout, reports)
		}
		if err != nil {
			return err
		}
	default:
		for _, report := range reports {
			if err := cli.WriteCompileReport(os.Stdout, report); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("compilation failed for %d of %d files", failed, len(args))
	}
	return nil
}
