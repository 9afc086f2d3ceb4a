// Package compiler is the multi-target orchestrator: it runs the front end
// once, fans the AST out to the requested backends concurrently, writes each
// backend's files into its own output subdirectory, and aggregates
// per-target outcomes. One failing backend never aborts its siblings.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"ion-lang/ionc/pkg/backendfactory"
	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/config"
	"ion-lang/ionc/pkg/history"
	"ion-lang/ionc/pkg/history/recorder"
	"ion-lang/ionc/pkg/ion"
	"ion-lang/ionc/pkg/ion/ast"
	"ion-lang/ionc/pkg/ion/diag"
	"ion-lang/ionc/pkg/ion/symbols"
	"ion-lang/ionc/pkg/telemetry/metrics"
)

// Compiler orchestrates compilation of Ion source to one or more targets.
type Compiler struct {
	config   *config.Config
	metrics  *metrics.Collector
	recorder *recorder.Recorder
	limiter  *ConcurrentLimiter
	logger   *slog.Logger

	// newGenerator is the backend factory, replaceable in tests.
	newGenerator func(target string) (backends.Generator, error)
}

// New creates a compiler from configuration. The collector and recorder
// are optional; pass nil to disable metrics or history recording.
func New(cfg *config.Config, collector *metrics.Collector, rec *recorder.Recorder) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Compiler{
		config:       cfg,
		metrics:      collector,
		recorder:     rec,
		limiter:      NewConcurrentLimiter(cfg.Targets.MaxConcurrent),
		logger:       slog.Default().With("component", "compiler"),
		newGenerator: backendfactory.New,
	}
}

// Check parses and validates source without generating anything. The
// returned diagnostics include warnings; err is non-nil when the source
// does not compile.
func (c *Compiler) Check(src, sourceName string) (*ast.Program, *diag.List, error) {
	prog, err := ion.Parse(src, sourceName)
	if err != nil {
		c.metrics.RecordFrontendError("parse")
		return nil, nil, err
	}

	diags := ion.Check(prog)
	if err := diags.ToError(); err != nil {
		c.metrics.RecordFrontendError("validate")
		return nil, diags, err
	}
	return prog, diags, nil
}

// Compile compiles source for a single target. Output files are written
// under outputDir/<target>/ when outputDir is non-empty.
func (c *Compiler) Compile(ctx context.Context, src, sourceName, target, outputDir string) (*TargetOutcome, error) {
	result, err := c.CompileToTargets(ctx, src, sourceName, []string{target}, outputDir)
	if err != nil {
		return nil, err
	}
	outcome, ok := result.Outcome(target)
	if !ok {
		return nil, fmt.Errorf("no outcome recorded for target %q", target)
	}
	return outcome, nil
}

// CompileToTargets runs the front end once and generates for every
// requested target concurrently. An empty targets slice means the
// configured target set, or every available target when none are
// configured.
//
// The returned error covers front-end and setup failures only; backend
// failures are isolated in the per-target outcomes.
func (c *Compiler) CompileToTargets(ctx context.Context, src, sourceName string, targets []string, outputDir string) (*MultiTargetResult, error) {
	start := time.Now()
	targets = c.resolveTargets(targets)

	result := &MultiTargetResult{
		InvocationID: uuid.NewString(),
		SourceName:   sourceName,
		Targets:      targets,
		PerTarget:    make(map[string]*TargetOutcome, len(targets)),
	}

	c.logger.Info("compilation started",
		"invocation_id", result.InvocationID,
		"source", sourceName,
		"targets", targets,
	)

	prog, diags, err := c.Check(src, sourceName)
	if err != nil {
		c.logger.Error("front end failed",
			"invocation_id", result.InvocationID,
			"source", sourceName,
			"error", err,
		)
		return nil, err
	}
	for _, w := range diags.Warnings() {
		c.logger.Warn("validation warning", "source", sourceName, "warning", w.Message)
	}

	// One symbol table shared by every backend.
	table, _ := symbols.Build(prog)

	genCfg := backends.GenerateConfig{
		ModuleName:         c.config.Output.ModuleName,
		EmitEffectComments: c.config.Targets.EffectComments,
		Symbols:            table,
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, target := range targets {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			outcome := c.compileTarget(ctx, prog, genCfg, target, sourceName, outputDir)
			mu.Lock()
			result.PerTarget[target] = outcome
			mu.Unlock()
		}(target)
	}
	wg.Wait()

	result.Duration = time.Since(start)

	c.logger.Info("compilation finished",
		"invocation_id", result.InvocationID,
		"source", sourceName,
		"success_count", result.SuccessCount(),
		"total_count", result.TotalCount(),
		"duration", result.Duration,
	)

	c.recordHistory(src, result, start)
	return result, nil
}

// compileTarget generates for one target with panic isolation: a panicking
// backend becomes that target's failure, never the process's.
func (c *Compiler) compileTarget(ctx context.Context, prog *ast.Program, genCfg backends.GenerateConfig, target, sourceName, outputDir string) (outcome *TargetOutcome) {
	targetStart := time.Now()
	outcome = &TargetOutcome{Target: target}

	defer func() {
		if r := recover(); r != nil {
			outcome.Output = nil
			outcome.Err = backends.NewGenerateError(target, "", fmt.Sprintf("backend panicked: %v", r))
		}
		outcome.Duration = time.Since(targetStart)

		status := "success"
		generated := 0
		if outcome.Success() {
			generated = outcome.Output.TotalBytes()
		} else {
			status = "error"
			c.logger.Error("target failed",
				"target", target,
				"source", sourceName,
				"error", outcome.Err,
			)
		}
		c.metrics.RecordCompilation(target, status, outcome.Duration, generated)
	}()

	if err := c.limiter.Acquire(ctx); err != nil {
		outcome.Err = fmt.Errorf("waiting for generation slot: %w", err)
		return outcome
	}
	defer c.limiter.Release()

	gen, err := c.newGenerator(target)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	out, err := gen.Generate(prog, genCfg)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Output = out

	if outputDir != "" {
		written, err := c.writeOutput(outputDir, target, out)
		if err != nil {
			outcome.Output = nil
			outcome.Err = err
			return outcome
		}
		outcome.OutputDir = filepath.Join(outputDir, target)
		outcome.WrittenFiles = written
	}

	c.logger.Debug("target generated",
		"target", target,
		"source", sourceName,
		"bytes", out.TotalBytes(),
	)
	return outcome
}

// writeOutput writes a backend's primary source and auxiliary files under
// outputDir/<target>/. Each target gets its own subdirectory so concurrent
// backends never race on paths.
func (c *Compiler) writeOutput(outputDir, target string, out *backends.GeneratedOutput) ([]string, error) {
	dir := filepath.Join(outputDir, target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory for %s: %w", target, err)
	}

	written := make([]string, 0, 1+len(out.Files))

	sourcePath := filepath.Join(dir, out.SourceFileName)
	if err := os.WriteFile(sourcePath, []byte(out.Source), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", sourcePath, err)
	}
	written = append(written, sourcePath)

	for _, f := range out.Files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// resolveTargets picks the effective target list: the explicit request,
// else the configured set, else every available target.
func (c *Compiler) resolveTargets(targets []string) []string {
	if len(targets) == 0 {
		targets = c.config.Targets.Enabled
	}
	if len(targets) == 0 {
		targets = backendfactory.Available()
	}

	// Dedupe while preserving request order; the result map is keyed by
	// target, so duplicates would fold into one entry anyway.
	seen := make(map[string]bool, len(targets))
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// recordHistory enqueues one history record for the invocation.
func (c *Compiler) recordHistory(src string, result *MultiTargetResult, start time.Time) {
	if c.recorder == nil {
		return
	}

	perTarget := make(map[string]history.TargetResult, len(result.PerTarget))
	for target, o := range result.PerTarget {
		tr := history.TargetResult{
			Success:  o.Success(),
			Duration: o.Duration,
			Error:    o.ErrorMessage(),
		}
		if o.Output != nil {
			tr.GeneratedBytes = o.Output.TotalBytes()
		}
		perTarget[target] = tr
	}

	c.recorder.Record(&history.Record{
		ID:             uuid.NewString(),
		InvocationID:   result.InvocationID,
		Time:           start.UTC(),
		SourceName:     result.SourceName,
		SourceHash:     history.HashSource(src),
		SourceBytes:    len(src),
		Targets:        result.Targets,
		PerTarget:      perTarget,
		OverallSuccess: result.OverallSuccess(),
		Duration:       result.Duration,
	})
}
