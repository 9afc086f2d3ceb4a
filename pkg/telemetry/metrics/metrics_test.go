package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCompilation(t *testing.T) {
	c := NewCollector(nil)

	c.RecordCompilation("csharp", "success", 5*time.Millisecond, 1024)
	c.RecordCompilation("csharp", "success", 7*time.Millisecond, 2048)
	c.RecordCompilation("wasm", "failure", time.Millisecond, 0)

	got := testutil.ToFloat64(c.compilationsTotal.WithLabelValues("csharp", "success"))
	if got != 2 {
		t.Errorf("compilations_total{csharp,success} = %v, want 2", got)
	}
	got = testutil.ToFloat64(c.compilationsTotal.WithLabelValues("wasm", "failure"))
	if got != 1 {
		t.Errorf("compilations_total{wasm,failure} = %v, want 1", got)
	}
}

func TestRecordFrontendError(t *testing.T) {
	c := NewCollector(nil)

	c.RecordFrontendError("parse")
	c.RecordFrontendError("parse")
	c.RecordFrontendError("validate")

	if got := testutil.ToFloat64(c.frontendErrors.WithLabelValues("parse")); got != 2 {
		t.Errorf("frontend_errors_total{parse} = %v, want 2", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	c.RecordCompilation("csharp", "success", time.Second, 10)
	c.RecordFrontendError("lex")
	if c.Registry() != nil {
		t.Error("Registry() on nil collector should be nil")
	}
	if c.Handler() == nil {
		t.Error("Handler() on nil collector should still serve")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.RecordCompilation("kotlin", "success", 3*time.Millisecond, 512)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}

	if !strings.Contains(string(body), "ionc_compiler_compilations_total") {
		t.Errorf("exposition missing compilations counter:\n%s", body)
	}
	if !strings.Contains(string(body), `target="kotlin"`) {
		t.Errorf("exposition missing kotlin label:\n%s", body)
	}
}
