package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ion-lang/ionc/pkg/cli"
	"ion-lang/ionc/pkg/config"
	"ion-lang/ionc/pkg/history"
	"ion-lang/ionc/pkg/history/retention"
	"ion-lang/ionc/pkg/history/storage"
)

var historyFlags struct {
	backend   string
	timeRange string
	source    string
	target    string
	failed    bool
	limit     int
	offset    int
	format    string
	days      int
	maxCount  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query and prune the compilation history",
	Long: `History gives access to the build history database: one record per
compile invocation with per-target outcomes.

Subcommands:
  list   - Query history records with filters
  prune  - Delete records outside the retention policy

Examples:
  # Last 20 invocations
  ionc history list --limit 20

  # Failed invocations for one source file
  ionc history list --source main.ion --failed

  # Export as CSV
  ionc history list --format csv > history.csv

  # Delete records older than 30 days
  ionc history prune --days 30`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Query history records",
	Long: `List queries history records with filters, newest first.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-01T00:00:00Z/2026-08-30T00:00:00Z"`,
	RunE: runHistoryList,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete history records outside the retention policy",
	Long: `Prune deletes records older than the retention period, then the
oldest records beyond the maximum count. Flags override the configured
retention policy.`,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyFlags.backend, "backend", "", "storage backend: memory, sqlite (uses config if not specified)")
	historyListCmd.Flags().StringVar(&historyFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	historyListCmd.Flags().StringVar(&historyFlags.source, "source", "", "filter by source file name")
	historyListCmd.Flags().StringVar(&historyFlags.target, "target", "", "filter by requested target")
	historyListCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "only invocations with at least one failed target")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 100, "max results")
	historyListCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyListCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "text", "output format: text, json, csv")

	historyPruneCmd.Flags().StringVar(&historyFlags.backend, "backend", "", "storage backend: memory, sqlite")
	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", 0, "delete records older than this many days (default: from config)")
	historyPruneCmd.Flags().IntVar(&historyFlags.maxCount, "max-records", 0, "keep at most this many records")
}

// openHistoryStorage opens the configured history backend.
func openHistoryStorage(cfg *config.Config) (history.Storage, error) {
	backend := historyFlags.backend
	if backend == "" {
		backend = cfg.History.Backend
	}

	switch backend {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "sqlite":
		sqliteCfg := storage.DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.History.SQLitePath
		return storage.NewSQLiteStorage(sqliteCfg)
	default:
		return nil, fmt.Errorf("unsupported history backend %q (valid: memory, sqlite)", backend)
	}
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}

	format, err := cli.ParseFormat(historyFlags.format)
	if err != nil {
		return err
	}

	store, err := openHistoryStorage(cfg)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}
	defer store.Close()

	query := &history.Query{
		SourceName: historyFlags.source,
		Target:     historyFlags.target,
		Limit:      historyFlags.limit,
		Offset:     historyFlags.offset,
	}
	if historyFlags.failed {
		success := false
		query.Success = &success
	}
	if historyFlags.timeRange != "" {
		start, end, err := parseTimeRange(historyFlags.timeRange)
		if err != nil {
			return err
		}
		query.StartTime = &start
		query.EndTime = &end
	}

	records, err := store.Query(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	switch format {
	case cli.FormatJSON:
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	case cli.FormatCSV:
		return cli.NewFormatter(cli.FormatCSV).FormatTo(os.Stdout, cli.HistoryTable(records))
	default:
		return cli.WriteHistory(os.Stdout, records)
	}
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}

	store, err := openHistoryStorage(cfg)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	defer store.Close()

	retentionCfg := &retention.Config{
		RetentionDays: cfg.History.Retention.Days,
		MaxRecords:    historyFlags.maxCount,
	}
	if cmd.Flags().Changed("days") {
		retentionCfg.RetentionDays = historyFlags.days
	}

	pruner := retention.NewPruner(store, retentionCfg)
	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Printf("deleted %d records\n", deleted)
	return nil
}

// parseTimeRange splits an RFC3339 interval ("start/end").
func parseTimeRange(s string) (time.Time, time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time range format (expected: start/end)")
	}
	start, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time: %w", err)
	}
	return start, end, nil
}
