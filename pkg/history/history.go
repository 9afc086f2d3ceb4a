// Package history defines the build history audit log: one record per
// compile invocation, with per-target outcomes. It is an audit trail, not a
// compilation cache; records never feed back into generation.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Record captures one compile invocation.
type Record struct {
	// Identity
	ID           string `json:"id"`            // UUID v4
	InvocationID string `json:"invocation_id"` // from the orchestrator

	// Time is when the invocation started.
	Time time.Time `json:"time"`

	// Source
	SourceName  string `json:"source_name"`
	SourceHash  string `json:"source_hash"` // SHA-256 of the source text
	SourceBytes int    `json:"source_bytes"`

	// Targets in request order.
	Targets []string `json:"targets"`

	// PerTarget holds each target's outcome.
	PerTarget map[string]TargetResult `json:"per_target"`

	// OverallSuccess is true when every target succeeded.
	OverallSuccess bool `json:"overall_success"`

	// Duration is the whole invocation's wall time.
	Duration time.Duration `json:"duration"`
}

// TargetResult is one target's outcome within a record.
type TargetResult struct {
	Success        bool          `json:"success"`
	Duration       time.Duration `json:"duration"`
	GeneratedBytes int           `json:"generated_bytes"`
	Error          string        `json:"error,omitempty"`
}

// Query defines filter parameters for querying history records.
type Query struct {
	// Time range, inclusive.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// SourceName filters by exact source name.
	SourceName string `json:"source_name,omitempty"`

	// Target filters to records that requested this target.
	Target string `json:"target,omitempty"`

	// Success filters by overall outcome.
	Success *bool `json:"success,omitempty"`

	// Pagination. Records are returned newest first.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Storage is implemented by history storage backends. Implementations must
// be safe for concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query retrieves records matching the filters, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns how many
	// were removed. Used for retention enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases the backend's resources.
	Close() error
}

// HashSource returns the hex-encoded SHA-256 digest of the source text.
func HashSource(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether r satisfies every filter in q, ignoring
// pagination.
func (q *Query) Matches(r *Record) bool {
	if q == nil {
		return true
	}
	if q.StartTime != nil && r.Time.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.Time.After(*q.EndTime) {
		return false
	}
	if q.SourceName != "" && r.SourceName != q.SourceName {
		return false
	}
	if q.Target != "" {
		found := false
		for _, t := range r.Targets {
			if t == q.Target {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Success != nil && r.OverallSuccess != *q.Success {
		return false
	}
	return true
}
