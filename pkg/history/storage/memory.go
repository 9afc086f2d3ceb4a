// Package storage provides the history storage backends: an in-memory
// store for tests and short-lived runs, and a SQLite store for persistence.
package storage

import (
	"context"
	"sort"
	"sync"

	"ion-lang/ionc/pkg/history"
)

// MemoryStorage implements history.Storage with an in-process slice. It is
// safe for concurrent use.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*history.Record
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists a record.
func (m *MemoryStorage) Store(ctx context.Context, record *history.Record) error {
	if err := ctx.Err(); err != nil {
		return history.NewStorageError("memory", "store", err)
	}

	// copy so later caller mutations don't reach into the store
	cp := *record
	cp.Targets = append([]string(nil), record.Targets...)
	cp.PerTarget = make(map[string]history.TargetResult, len(record.PerTarget))
	for k, v := range record.PerTarget {
		cp.PerTarget[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, &cp)
	return nil
}

// Query retrieves matching records, newest first.
func (m *MemoryStorage) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, history.NewStorageError("memory", "query", err)
	}

	m.mu.RLock()
	matched := make([]*history.Record, 0, len(m.records))
	for _, r := range m.records {
		if query.Matches(r) {
			matched = append(matched, r)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Time.After(matched[j].Time)
	})

	if query != nil {
		if query.Offset > 0 {
			if query.Offset >= len(matched) {
				return []*history.Record{}, nil
			}
			matched = matched[query.Offset:]
		}
		if query.Limit > 0 && query.Limit < len(matched) {
			matched = matched[:query.Limit]
		}
	}
	return matched, nil
}

// Count returns the number of matching records.
func (m *MemoryStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, history.NewStorageError("memory", "count", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.records {
		if query.Matches(r) {
			n++
		}
	}
	return n, nil
}

// Delete removes matching records and returns how many were removed.
func (m *MemoryStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, history.NewStorageError("memory", "delete", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	var removed int64
	for _, r := range m.records {
		if query.Matches(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return removed, nil
}

// Close is a no-op for the memory backend.
func (m *MemoryStorage) Close() error {
	return nil
}
