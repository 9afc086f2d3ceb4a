// Package retention enforces age and count limits on stored compilation
// history.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"ion-lang/ionc/pkg/history"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain history records.
	// 0 keeps records forever.
	RetentionDays int

	// Schedule is a cron expression for automatic pruning,
	// e.g. "0 3 * * *" for daily at 3 AM. Empty disables scheduling.
	Schedule string

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		Schedule:      "0 3 * * *",
		MaxRecords:    0,
	}
}

// Pruner deletes history records that fall outside the retention policy.
type Pruner struct {
	storage   history.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a pruner for the given storage backend.
func NewPruner(storage history.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	p := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "history.retention"),
	}
	p.scheduler = NewScheduler(p)
	return p
}

// Prune runs one pruning cycle: records older than the retention period
// are deleted first, then the oldest records beyond MaxRecords. Returns
// the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
	}

	if totalDeleted == 0 {
		p.logger.Debug("no history records pruned",
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Info("history pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)

	deleted, err := p.storage.Delete(ctx, &history.Query{EndTime: &cutoff})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		p.logger.Info("pruned history records by age",
			"deleted_count", deleted,
			"cutoff_time", cutoff,
		)
	}
	return deleted, nil
}

func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	if count <= int64(p.config.MaxRecords) {
		return 0, nil
	}

	records, err := p.storage.Query(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to query records: %w", err)
	}

	toDelete := len(records) - p.config.MaxRecords
	if toDelete <= 0 {
		return 0, nil
	}

	// Oldest first, so the first toDelete records are the ones to drop.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})

	cutoff := records[toDelete-1].Time

	deleted, err := p.storage.Delete(ctx, &history.Query{EndTime: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("pruned history records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}
	return deleted, nil
}

// Start starts the automatic pruning scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning run,
// or nil when no run is scheduled.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
