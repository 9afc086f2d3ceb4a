package backendfactory

import (
	"errors"
	"strings"
	"testing"

	"ion-lang/ionc/pkg/backends"
)

func TestNewCreatesEveryAvailableTarget(t *testing.T) {
	for _, target := range Available() {
		gen, err := New(target)
		if err != nil {
			t.Errorf("New(%q) error: %v", target, err)
			continue
		}
		if got := gen.TargetName(); got != target {
			t.Errorf("New(%q).TargetName() = %q", target, got)
		}
		if len(gen.SupportedFeatures()) == 0 {
			t.Errorf("New(%q).SupportedFeatures() is empty", target)
		}
	}
}

func TestNewUnknownTarget(t *testing.T) {
	_, err := New("cobol")
	if err == nil {
		t.Fatal("New(cobol) error = nil, want *backends.ConfigError")
	}
	var cfgErr *backends.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *backends.ConfigError", err)
	}
	if cfgErr.Target != "cobol" {
		t.Errorf("Target = %q, want cobol", cfgErr.Target)
	}
	for _, target := range Available() {
		if !strings.Contains(cfgErr.Message, target) {
			t.Errorf("Message does not name valid target %q: %s", target, cfgErr.Message)
		}
	}
}

func TestAvailableIsStable(t *testing.T) {
	first := Available()
	second := Available()
	if len(first) != len(second) {
		t.Fatalf("Available() length varies: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Available() order varies at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable("kotlin") {
		t.Error("IsAvailable(kotlin) = false, want true")
	}
	if IsAvailable("fortran") {
		t.Error("IsAvailable(fortran) = true, want false")
	}
}
