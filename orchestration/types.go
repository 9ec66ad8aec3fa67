// Package orchestration runs the discovery analysis pipeline.
//
// Stage and error types used by the orchestrator.
package orchestration

import (
	"errors"
	"fmt"
	"time"
)

// Stage identifies a step of a pipeline run.
type Stage int

const (
	StageGeneratingQueries Stage = iota
	StageResearching
	StageFormatting
	StageExtracting
	StageAssembling
	StageDone
	StageFailed
)

// String returns the wire name of the stage.
func (s Stage) String() string {
	switch s {
	case StageGeneratingQueries:
		return "generating_queries"
	case StageResearching:
		return "researching"
	case StageFormatting:
		return "formatting"
	case StageExtracting:
		return "extracting"
	case StageAssembling:
		return "assembling"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrTimeout is wrapped by PipelineError when a run exceeds its deadline.
var ErrTimeout = errors.New("analysis timed out")

// PipelineError reports the stage at which a run failed. Err is the
// underlying cause, unchanged (or ErrTimeout).
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed while %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Options bound a pipeline run.
type Options struct {
	// MaxResults is the number of search hits requested per query.
	MaxResults int
	// Timeout bounds the whole run. Zero means no deadline beyond the caller's.
	Timeout time.Duration
	// MinSuccessRatio is the share of research queries that must succeed.
	// 1 (or any value outside (0,1)) keeps fail-fast research.
	MinSuccessRatio float64
}

// DefaultOptions returns the standard run bounds.
func DefaultOptions() Options {
	return Options{
		MaxResults:      5,
		Timeout:         60 * time.Second,
		MinSuccessRatio: 1,
	}
}

func (o Options) failFast() bool {
	return o.MinSuccessRatio <= 0 || o.MinSuccessRatio >= 1
}
