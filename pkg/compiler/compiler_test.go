package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ion-lang/ionc/pkg/backendfactory"
	"ion-lang/ionc/pkg/backends"
	"ion-lang/ionc/pkg/config"
	"ion-lang/ionc/pkg/history/recorder"
	"ion-lang/ionc/pkg/history/storage"
	"ion-lang/ionc/pkg/ion/ast"
)

const validSource = `module Math {
    export function double(x: int) -> int {
        return x * 2
    }
}

function main() -> int {
    return Math.double(21)
}
`

func newTestCompiler() *Compiler {
	cfg := config.Default()
	cfg.Targets.MaxConcurrent = 4
	return New(cfg, nil, nil)
}

func TestCheckValidSource(t *testing.T) {
	c := newTestCompiler()

	prog, diags, err := c.Check(validSource, "main.ion")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if prog == nil {
		t.Fatal("Check() returned nil program")
	}
	if diags.HasErrors() {
		t.Errorf("Check() diagnostics have errors: %v", diags)
	}
}

func TestCheckParseError(t *testing.T) {
	c := newTestCompiler()

	_, _, err := c.Check("function broken( -> int {", "broken.ion")
	if err == nil {
		t.Fatal("Check() error = nil, want parse error")
	}
}

func TestCompileToTargetsAllSucceed(t *testing.T) {
	c := newTestCompiler()

	result, err := c.CompileToTargets(context.Background(), validSource, "main.ion", nil, "")
	if err != nil {
		t.Fatalf("CompileToTargets() error = %v", err)
	}

	available := backendfactory.Available()
	if result.TotalCount() != len(available) {
		t.Fatalf("TotalCount() = %d, want %d", result.TotalCount(), len(available))
	}
	if !result.OverallSuccess() {
		for target, o := range result.PerTarget {
			if !o.Success() {
				t.Errorf("target %s failed: %v", target, o.Err)
			}
		}
	}
	if result.InvocationID == "" {
		t.Error("InvocationID is empty")
	}
	for _, target := range available {
		o, ok := result.Outcome(target)
		if !ok {
			t.Fatalf("no outcome for %s", target)
		}
		if o.Output == nil || o.Output.Source == "" {
			t.Errorf("target %s produced no source", target)
		}
	}
}

func TestCompileToTargetsFrontendFailure(t *testing.T) {
	c := newTestCompiler()

	result, err := c.CompileToTargets(context.Background(), "function oops(", "bad.ion", []string{"kotlin"}, "")
	if err == nil {
		t.Fatal("CompileToTargets() error = nil, want front-end error")
	}
	if result != nil {
		t.Errorf("CompileToTargets() result = %v, want nil on front-end failure", result)
	}
}

// panickingGenerator simulates a backend bug.
type panickingGenerator struct{}

func (panickingGenerator) Generate(*ast.Program, backends.GenerateConfig) (*backends.GeneratedOutput, error) {
	panic("deliberate backend failure")
}
func (panickingGenerator) TargetName() string                  { return "broken" }
func (panickingGenerator) SupportedFeatures() []string         { return nil }
func (panickingGenerator) Capabilities() backends.Capabilities { return backends.Capabilities{} }

func TestMultiTargetIsolation(t *testing.T) {
	c := newTestCompiler()
	c.newGenerator = func(target string) (backends.Generator, error) {
		if target == "broken" {
			return panickingGenerator{}, nil
		}
		return backendfactory.New(target)
	}

	targets := []string{"kotlin", "broken", "javascript"}
	result, err := c.CompileToTargets(context.Background(), validSource, "main.ion", targets, "")
	if err != nil {
		t.Fatalf("CompileToTargets() error = %v", err)
	}

	if result.OverallSuccess() {
		t.Error("OverallSuccess() = true with a failing target")
	}
	if got, want := result.SuccessCount(), 2; got != want {
		t.Errorf("SuccessCount() = %d, want %d", got, want)
	}
	if got, want := result.TotalCount(), 3; got != want {
		t.Errorf("TotalCount() = %d, want %d", got, want)
	}

	broken, _ := result.Outcome("broken")
	if broken.Success() {
		t.Error("broken target reported success")
	}
	var genErr *backends.GenerateError
	if !errors.As(broken.Err, &genErr) {
		t.Errorf("broken target error = %T, want *backends.GenerateError", broken.Err)
	}
	if !strings.Contains(broken.ErrorMessage(), "panicked") {
		t.Errorf("broken target error %q does not mention the panic", broken.ErrorMessage())
	}

	for _, target := range []string{"kotlin", "javascript"} {
		o, _ := result.Outcome(target)
		if !o.Success() {
			t.Errorf("sibling target %s failed: %v", target, o.Err)
		}
	}
}

func TestUnknownTargetIsolated(t *testing.T) {
	c := newTestCompiler()

	result, err := c.CompileToTargets(context.Background(), validSource, "main.ion", []string{"kotlin", "cobol"}, "")
	if err != nil {
		t.Fatalf("CompileToTargets() error = %v", err)
	}

	bad, _ := result.Outcome("cobol")
	var cfgErr *backends.ConfigError
	if !errors.As(bad.Err, &cfgErr) {
		t.Errorf("unknown target error = %T, want *backends.ConfigError", bad.Err)
	}
	good, _ := result.Outcome("kotlin")
	if !good.Success() {
		t.Errorf("kotlin failed alongside unknown target: %v", good.Err)
	}
}

func TestCompileWritesFiles(t *testing.T) {
	c := newTestCompiler()
	dir := t.TempDir()

	outcome, err := c.Compile(context.Background(), validSource, "main.ion", "rustlang", dir)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !outcome.Success() {
		t.Fatalf("Compile() failed: %v", outcome.Err)
	}

	if outcome.OutputDir != filepath.Join(dir, "rustlang") {
		t.Errorf("OutputDir = %q, want %q", outcome.OutputDir, filepath.Join(dir, "rustlang"))
	}
	if len(outcome.WrittenFiles) != 1+len(outcome.Output.Files) {
		t.Errorf("wrote %d files, want %d", len(outcome.WrittenFiles), 1+len(outcome.Output.Files))
	}
	for _, path := range outcome.WrittenFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("reading %s: %v", path, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}

func TestTargetsWriteIntoOwnSubdirectories(t *testing.T) {
	c := newTestCompiler()
	dir := t.TempDir()

	result, err := c.CompileToTargets(context.Background(), validSource, "main.ion", []string{"csharp", "wasm"}, dir)
	if err != nil {
		t.Fatalf("CompileToTargets() error = %v", err)
	}
	if !result.OverallSuccess() {
		t.Fatalf("compilation failed: %+v", result.PerTarget)
	}

	for _, target := range []string{"csharp", "wasm"} {
		o, _ := result.Outcome(target)
		for _, path := range o.WrittenFiles {
			if !strings.HasPrefix(path, filepath.Join(dir, target)) {
				t.Errorf("target %s wrote outside its subdirectory: %s", target, path)
			}
		}
	}
}

// gatedGenerator records how many Generate calls run at once.
type gatedGenerator struct {
	inFlight *atomic.Int64
	peak     *atomic.Int64
}

func (g gatedGenerator) Generate(*ast.Program, backends.GenerateConfig) (*backends.GeneratedOutput, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return &backends.GeneratedOutput{Source: "ok", SourceFileName: "out.txt"}, nil
}
func (gatedGenerator) TargetName() string                  { return "gated" }
func (gatedGenerator) SupportedFeatures() []string         { return nil }
func (gatedGenerator) Capabilities() backends.Capabilities { return backends.Capabilities{} }

func TestMaxConcurrentBoundsParallelism(t *testing.T) {
	cfg := config.Default()
	cfg.Targets.MaxConcurrent = 1
	c := New(cfg, nil, nil)

	var inFlight, peak atomic.Int64
	gen := gatedGenerator{inFlight: &inFlight, peak: &peak}
	c.newGenerator = func(string) (backends.Generator, error) { return gen, nil }

	targets := []string{"kotlin", "csharp", "javascript", "rustlang", "wasm"}
	result, err := c.CompileToTargets(context.Background(), validSource, "main.ion", targets, "")
	if err != nil {
		t.Fatalf("CompileToTargets() error = %v", err)
	}
	if !result.OverallSuccess() {
		t.Fatalf("compilation failed: %+v", result.PerTarget)
	}
	if peak.Load() > 1 {
		t.Errorf("peak concurrency = %d, want at most 1", peak.Load())
	}
}

func TestDuplicateTargetsDeduplicated(t *testing.T) {
	c := newTestCompiler()

	result, err := c.CompileToTargets(context.Background(), validSource, "main.ion", []string{"kotlin", "kotlin"}, "")
	if err != nil {
		t.Fatalf("CompileToTargets() error = %v", err)
	}
	if result.TotalCount() != 1 {
		t.Errorf("TotalCount() = %d, want 1", result.TotalCount())
	}
	if len(result.Targets) != 1 {
		t.Errorf("Targets = %v, want one entry", result.Targets)
	}
}

func TestHistoryRecorded(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()
	rec := recorder.New(store, nil)

	cfg := config.Default()
	c := New(cfg, nil, rec)

	result, err := c.CompileToTargets(context.Background(), validSource, "main.ion", []string{"kotlin", "csharp"}, "")
	if err != nil {
		t.Fatalf("CompileToTargets() error = %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("recorder Close() error = %v", err)
	}

	records, err := store.Query(context.Background(), nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("stored %d records, want 1", len(records))
	}

	got := records[0]
	if got.InvocationID != result.InvocationID {
		t.Errorf("InvocationID = %q, want %q", got.InvocationID, result.InvocationID)
	}
	if got.SourceName != "main.ion" {
		t.Errorf("SourceName = %q, want main.ion", got.SourceName)
	}
	if !got.OverallSuccess {
		t.Error("OverallSuccess = false")
	}
	if len(got.PerTarget) != 2 {
		t.Errorf("PerTarget has %d entries, want 2", len(got.PerTarget))
	}
	if kt, ok := got.PerTarget["kotlin"]; !ok || kt.GeneratedBytes == 0 {
		t.Errorf("kotlin target result missing or empty: %+v", kt)
	}
}

func TestContextCancellationStopsQueuedTargets(t *testing.T) {
	cfg := config.Default()
	cfg.Targets.MaxConcurrent = 1
	c := New(cfg, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := c.CompileToTargets(ctx, validSource, "main.ion", []string{"kotlin", "csharp"}, "")
	if err != nil {
		t.Fatalf("CompileToTargets() error = %v", err)
	}
	// Outcomes exist for every target; cancelled ones carry the ctx error.
	if result.TotalCount() != 2 {
		t.Fatalf("TotalCount() = %d, want 2", result.TotalCount())
	}
	for target, o := range result.PerTarget {
		if o.Success() {
			continue
		}
		if !errors.Is(o.Err, context.Canceled) {
			t.Errorf("target %s error = %v, want context.Canceled", target, o.Err)
		}
	}
}
