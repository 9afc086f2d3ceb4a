package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"ion-lang/ionc/pkg/compiler"
	"ion-lang/ionc/pkg/history"
)

// TargetReport is the serializable view of one target's outcome.
type TargetReport struct {
	Target   string   `json:"target"`
	Success  bool     `json:"success"`
	Duration string   `json:"duration"`
	Bytes    int      `json:"bytes,omitempty"`
	Files    []string `json:"files,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// CompileReport is the serializable view of a multi-target invocation.
type CompileReport struct {
	InvocationID   string         `json:"invocation_id"`
	Source         string         `json:"source"`
	OverallSuccess bool           `json:"overall_success"`
	SuccessCount   int            `json:"success_count"`
	TotalCount     int            `json:"total_count"`
	Duration       string         `json:"duration"`
	Targets        []TargetReport `json:"targets"`
}

// NewCompileReport builds a report from an orchestrator result, with
// targets in request order.
func NewCompileReport(result *compiler.MultiTargetResult) *CompileReport {
	report := &CompileReport{
		InvocationID:   result.InvocationID,
		Source:         result.SourceName,
		OverallSuccess: result.OverallSuccess(),
		SuccessCount:   result.SuccessCount(),
		TotalCount:     result.TotalCount(),
		Duration:       result.Duration.Round(time.Millisecond).String(),
		Targets:        make([]TargetReport, 0, len(result.Targets)),
	}
	for _, target := range result.Targets {
		o, ok := result.Outcome(target)
		if !ok {
			continue
		}
		tr := TargetReport{
			Target:   target,
			Success:  o.Success(),
			Duration: o.Duration.Round(time.Millisecond).String(),
			Files:    o.WrittenFiles,
			Error:    o.ErrorMessage(),
		}
		if o.Output != nil {
			tr.Bytes = o.Output.TotalBytes()
		}
		report.Targets = append(report.Targets, tr)
	}
	return report
}

// WriteCompileReport renders a report as human-readable text.
func WriteCompileReport(w io.Writer, report *CompileReport) error {
	fmt.Fprintf(w, "%s: %d/%d targets succeeded in %s\n",
		report.Source, report.SuccessCount, report.TotalCount, report.Duration)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tr := range report.Targets {
		if tr.Success {
			fmt.Fprintf(tw, "  ✓ %s\t%s\t%s\n", tr.Target, formatBytes(tr.Bytes), tr.Duration)
		} else {
			fmt.Fprintf(tw, "  ✗ %s\terror: %s\n", tr.Target, tr.Error)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, tr := range report.Targets {
		for _, f := range tr.Files {
			fmt.Fprintf(w, "    wrote %s\n", f)
		}
	}
	return nil
}

// WriteHistory renders history records as a text table, newest first.
func WriteHistory(w io.Writer, records []*history.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "no history records")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tTARGETS\tRESULT\tDURATION")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			r.Time.Local().Format("2006-01-02 15:04:05"),
			r.SourceName,
			len(r.Targets),
			historyStatus(r),
			r.Duration.Round(time.Millisecond),
		)
	}
	return tw.Flush()
}

// HistoryTable converts history records to tabular form for CSV output.
func HistoryTable(records []*history.Record) *Table {
	table := &Table{
		Headers: []string{"time", "source", "targets", "success_count", "total_count", "overall_success", "duration"},
	}
	for _, r := range records {
		succeeded := 0
		for _, tr := range r.PerTarget {
			if tr.Success {
				succeeded++
			}
		}
		table.Rows = append(table.Rows, []string{
			r.Time.UTC().Format(time.RFC3339),
			r.SourceName,
			strconv.Itoa(len(r.Targets)),
			strconv.Itoa(succeeded),
			strconv.Itoa(len(r.PerTarget)),
			strconv.FormatBool(r.OverallSuccess),
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	return table
}

func historyStatus(r *history.Record) string {
	if r.OverallSuccess {
		return "ok"
	}
	failed := 0
	for _, tr := range r.PerTarget {
		if !tr.Success {
			failed++
		}
	}
	return fmt.Sprintf("%d failed", failed)
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
