package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testSource = `function double(x: int) -> int {
    return x * 2
}
`

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	return path
}

// resetCompileFlags points the output flag at a scratch directory. Setting
// the flag through the flag set marks it changed, so runCompile applies it
// over the config default.
func resetCompileFlags(t *testing.T, outputDir string) {
	t.Helper()
	compileFlags.targets = nil
	compileFlags.format = "text"
	compileFlags.noHistory = true
	if err := compileCmd.Flags().Set("output", outputDir); err != nil {
		t.Fatalf("setting output flag: %v", err)
	}
}

func TestRunCompileSingleTarget(t *testing.T) {
	src := writeSource(t, "main.ion", testSource)
	out := t.TempDir()
	resetCompileFlags(t, out)
	compileFlags.targets = []string{"kotlin"}

	if err := runCompile(compileCmd, []string{src}); err != nil {
		t.Fatalf("runCompile() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(out, "kotlin"))
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("kotlin output directory is empty")
	}
}

func TestRunCompileAllTargets(t *testing.T) {
	src := writeSource(t, "main.ion", testSource)
	out := t.TempDir()
	resetCompileFlags(t, out)

	if err := runCompile(compileCmd, []string{src}); err != nil {
		t.Fatalf("runCompile() error = %v", err)
	}

	for _, target := range []string{"csharp", "kotlin", "javascript", "rustlang", "wasm"} {
		if _, err := os.Stat(filepath.Join(out, target)); err != nil {
			t.Errorf("no output directory for %s: %v", target, err)
		}
	}
}

func TestRunCompileParseFailure(t *testing.T) {
	src := writeSource(t, "bad.ion", "function broken(")
	resetCompileFlags(t, t.TempDir())

	if err := runCompile(compileCmd, []string{src}); err == nil {
		t.Error("runCompile() error = nil for invalid source")
	}
}

func TestRunCompileMissingFile(t *testing.T) {
	resetCompileFlags(t, t.TempDir())

	if err := runCompile(compileCmd, []string{"does-not-exist.ion"}); err == nil {
		t.Error("runCompile() error = nil for missing file")
	}
}

func TestRunCheck(t *testing.T) {
	src := writeSource(t, "main.ion", testSource)
	checkFlags.format = "text"

	if err := runCheck(checkCmd, []string{src}); err != nil {
		t.Errorf("runCheck() error = %v", err)
	}

	bad := writeSource(t, "bad.ion", "function broken(")
	if err := runCheck(checkCmd, []string{bad}); err == nil {
		t.Error("runCheck() error = nil for invalid source")
	}
}

func TestRunAST(t *testing.T) {
	src := writeSource(t, "main.ion", testSource)

	if err := runAST(astCmd, []string{src}); err != nil {
		t.Errorf("runAST() error = %v", err)
	}
	if err := runAST(astCmd, []string{"missing.ion"}); err == nil {
		t.Error("runAST() error = nil for missing file")
	}
}

func TestRunTargets(t *testing.T) {
	targetsFlags.format = "text"
	if err := runTargets(targetsCmd, nil); err != nil {
		t.Errorf("runTargets() error = %v", err)
	}

	targetsFlags.format = "json"
	if err := runTargets(targetsCmd, nil); err != nil {
		t.Errorf("runTargets() json error = %v", err)
	}
	targetsFlags.format = "text"
}
