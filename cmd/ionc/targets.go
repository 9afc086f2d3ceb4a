package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ion-lang/ionc/pkg/backendfactory"
	"ion-lang/ionc/pkg/cli"
)

var targetsFlags struct {
	format string
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List available targets and their capabilities",
	Long: `Targets lists every available compilation target with its runtime
capabilities, supported effect subset and natively rendered features.

Examples:
  ionc targets
  ionc targets --format json`,
	RunE: runTargets,
}

// targetInfo is the serializable description of one target.
type targetInfo struct {
	Name          string   `json:"name"`
	Async         bool     `json:"async"`
	Parallel      bool     `json:"parallel"`
	ManagedMemory bool     `json:"managed_memory"`
	Reflection    bool     `json:"reflection"`
	Exceptions    bool     `json:"exceptions"`
	Effects       []string `json:"effects"`
	Features      []string `json:"features"`
}

func init() {
	rootCmd.AddCommand(targetsCmd)

	targetsCmd.Flags().StringVarP(&targetsFlags.format, "format", "f", "text", "output format: text, json")
}

func runTargets(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(targetsFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return fmt.Errorf("targets does not support CSV output")
	}

	infos := make([]targetInfo, 0, len(backendfactory.Available()))
	for _, name := range backendfactory.Available() {
		gen, err := backendfactory.New(name)
		if err != nil {
			return err
		}
		caps := gen.Capabilities()

		effects := make([]string, 0, len(caps.Effects))
		for _, e := range caps.Effects {
			effects = append(effects, e.String())
		}

		infos = append(infos, targetInfo{
			Name:          gen.TargetName(),
			Async:         caps.Async,
			Parallel:      caps.Parallel,
			ManagedMemory: caps.ManagedMemory,
			Reflection:    caps.Reflection,
			Exceptions:    caps.Exceptions,
			Effects:       effects,
			Features:      gen.SupportedFeatures(),
		})
	}

	if format == cli.FormatJSON {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, infos)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tASYNC\tPARALLEL\tGC\tREFLECTION\tEXCEPTIONS\tEFFECTS")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			info.Name,
			yesNo(info.Async),
			yesNo(info.Parallel),
			yesNo(info.ManagedMemory),
			yesNo(info.Reflection),
			yesNo(info.Exceptions),
			strings.Join(info.Effects, ", "),
		)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
