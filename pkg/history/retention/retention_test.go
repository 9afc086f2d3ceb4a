package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ion-lang/ionc/pkg/history"
	"ion-lang/ionc/pkg/history/storage"
)

func seedRecords(t *testing.T, store history.Storage, ages ...time.Duration) {
	t.Helper()
	for i, age := range ages {
		rec := &history.Record{
			ID:             fmt.Sprintf("rec-%d", i),
			InvocationID:   fmt.Sprintf("inv-%d", i),
			Time:           time.Now().Add(-age),
			SourceName:     "main.ion",
			Targets:        []string{"kotlin"},
			PerTarget:      map[string]history.TargetResult{"kotlin": {Success: true}},
			OverallSuccess: true,
		}
		if err := store.Store(context.Background(), rec); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}
}

func TestPruneByAge(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	day := 24 * time.Hour
	seedRecords(t, store, 1*day, 10*day, 100*day, 200*day)

	p := NewPruner(store, &Config{RetentionDays: 30})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() deleted %d records, want 2", deleted)
	}

	count, err := store.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("%d records remain, want 2", count)
	}
}

func TestPruneByCount(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	day := 24 * time.Hour
	seedRecords(t, store, 1*day, 2*day, 3*day, 4*day, 5*day)

	p := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 2})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("Prune() deleted %d records, want 3", deleted)
	}

	remaining, err := store.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("%d records remain, want 2", len(remaining))
	}
	// The newest records survive.
	for _, rec := range remaining {
		if rec.ID != "rec-0" && rec.ID != "rec-1" {
			t.Errorf("unexpected surviving record %q", rec.ID)
		}
	}
}

func TestPruneKeepsEverythingWhenDisabled(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	day := 24 * time.Hour
	seedRecords(t, store, 1*day, 500*day)

	p := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 0})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted %d records, want 0", deleted)
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	seedRecords(t, store, time.Hour)

	p := NewPruner(store, &Config{RetentionDays: 30, MaxRecords: 10})
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted %d records, want 0", deleted)
	}
}

func TestSchedulerEmptyScheduleIsNoop(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	p := NewPruner(store, &Config{RetentionDays: 30, Schedule: ""})
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if p.scheduler.IsRunning() {
		t.Error("scheduler running with empty schedule")
	}
	if p.NextPruning() != nil {
		t.Error("NextPruning() != nil with empty schedule")
	}
}

func TestSchedulerInvalidCron(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	p := NewPruner(store, &Config{RetentionDays: 30, Schedule: "not a cron expr"})
	if err := p.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil, want invalid schedule error")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPruner(store, &Config{RetentionDays: 30, Schedule: "0 3 * * *"})
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !p.scheduler.IsRunning() {
		t.Error("scheduler not running after Start")
	}
	if p.NextPruning() == nil {
		t.Error("NextPruning() = nil after Start")
	}

	p.Stop()
	if p.scheduler.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}
