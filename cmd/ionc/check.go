package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ion-lang/ionc/pkg/cli"
	"ion-lang/ionc/pkg/compiler"
)

var checkFlags struct {
	format string
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse and validate Ion source without generating code",
	Long: `Check parses and validates Ion source files and reports diagnostics
without running any backend.

Examples:
  # Validate a file
  ionc check main.ion

  # Machine-readable diagnostics
  ionc check main.ion --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

// checkReport is the serializable result of checking one file.
type checkReport struct {
	File     string   `json:"file"`
	OK       bool     `json:"ok"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", "text", "output format: text, json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}

	format, err := cli.ParseFormat(checkFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return fmt.Errorf("check does not support CSV output")
	}

	comp := compiler.New(cfg, nil, nil)

	reports := make([]checkReport, 0, len(args))
	failed := 0
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return cli.NewCommandError("check", err)
		}

		report := checkReport{File: path, OK: true}
		_, diags, err := comp.Check(string(src), path)
		if err != nil {
			report.OK = false
			if diags != nil {
				for _, e := range diags.Errors() {
					report.Errors = append(report.Errors, e.Error())
				}
			} else {
				report.Errors = append(report.Errors, err.Error())
			}
			failed++
		}
		if diags != nil {
			for _, w := range diags.Warnings() {
				report.Warnings = append(report.Warnings, w.Error())
			}
		}
		reports = append(reports, report)
	}

	if format == cli.FormatJSON {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, reports); err != nil {
			return err
		}
	} else {
		for _, report := range reports {
			if report.OK {
				fmt.Printf("✓ %s\n", report.File)
			} else {
				fmt.Printf("✗ %s\n", report.File)
				for _, msg := range report.Errors {
					fmt.Printf("  %s\n", msg)
				}
			}
			for _, msg := range report.Warnings {
				fmt.Printf("  warning: %s\n", msg)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}
