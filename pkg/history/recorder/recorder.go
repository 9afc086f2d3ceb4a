// Package recorder writes history records asynchronously so compilation
// never blocks on the audit log.
package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"ion-lang/ionc/pkg/history"
)

// Config contains configuration for the history recorder.
type Config struct {
	// AsyncBuffer is the size of the async write channel. A full channel
	// drops the record rather than blocking the compiler.
	AsyncBuffer int

	// WriteTimeout bounds each storage write.
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		AsyncBuffer:  256,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder enqueues history records and writes them to storage from a
// background worker.
type Recorder struct {
	storage    history.Storage
	config     *Config
	recordChan chan *history.Record
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	dropped    atomic.Int64
	logger     *slog.Logger
}

// New creates a recorder around the provided storage backend and starts
// its worker.
func New(storage history.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = DefaultConfig().AsyncBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *history.Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "history.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("history recorder started", "async_buffer", config.AsyncBuffer)
	return r
}

// Record enqueues a record for async writing. It never blocks: when the
// buffer is full the record is dropped and counted.
func (r *Recorder) Record(record *history.Record) {
	select {
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record", "record_id", record.ID)
		r.dropped.Add(1)
		return
	default:
	}

	select {
	case r.recordChan <- record:
	default:
		r.dropped.Add(1)
		r.logger.Warn("history channel full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
	}
}

// Dropped returns how many records have been dropped since start.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close drains the channel, waits for pending writes, and stops the
// worker. The underlying storage is not closed.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) writeRecord(record *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store history record",
			"record_id", record.ID,
			"invocation_id", record.InvocationID,
			"error", err,
		)
		return
	}

	r.logger.Debug("history recorded",
		"record_id", record.ID,
		"source", record.SourceName,
		"overall_success", record.OverallSuccess,
	)
}
