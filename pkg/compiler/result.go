package compiler

import (
	"time"

	"ion-lang/ionc/pkg/backends"
)

// TargetOutcome is one backend's result within a multi-target invocation.
type TargetOutcome struct {
	// Target is the backend's stable identifier.
	Target string

	// Output is the generated output, nil when the backend failed.
	Output *backends.GeneratedOutput

	// Err is the backend's failure, nil on success.
	Err error

	// Duration is the backend's generation plus write time.
	Duration time.Duration

	// OutputDir is the directory the files were written to, empty when
	// nothing was written.
	OutputDir string

	// WrittenFiles lists the paths written for this target.
	WrittenFiles []string
}

// Success reports whether this target produced output.
func (o *TargetOutcome) Success() bool {
	return o.Err == nil && o.Output != nil
}

// ErrorMessage returns the failure message, empty on success.
func (o *TargetOutcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// MultiTargetResult aggregates per-target outcomes for one invocation.
// One failing target never removes another target's outcome; every
// requested target has an entry in PerTarget.
type MultiTargetResult struct {
	// InvocationID uniquely identifies this compile invocation.
	InvocationID string

	// SourceName labels the compiled source.
	SourceName string

	// Targets lists the requested targets in request order.
	Targets []string

	// PerTarget maps target name to its outcome.
	PerTarget map[string]*TargetOutcome

	// Duration is the whole invocation's wall time, front end included.
	Duration time.Duration
}

// SuccessCount returns how many targets succeeded.
func (r *MultiTargetResult) SuccessCount() int {
	n := 0
	for _, o := range r.PerTarget {
		if o.Success() {
			n++
		}
	}
	return n
}

// TotalCount returns how many targets were requested.
func (r *MultiTargetResult) TotalCount() int {
	return len(r.PerTarget)
}

// OverallSuccess reports whether every requested target succeeded.
func (r *MultiTargetResult) OverallSuccess() bool {
	return r.SuccessCount() == r.TotalCount()
}

// Outcome returns the outcome for a target.
func (r *MultiTargetResult) Outcome(target string) (*TargetOutcome, bool) {
	o, ok := r.PerTarget[target]
	return o, ok
}
