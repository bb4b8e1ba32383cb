package etl

import "fmt"

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// BarrierStageFailure marks an internal inconsistency in a barrier stage
// (deduplication or benchmark computation). It is fatal: downstream tables
// cannot be trusted from a partial result, so nothing is published.
type BarrierStageFailure struct {
	Stage string
	Err   error
}

func (e *BarrierStageFailure) Error() string {
	return fmt.Sprintf("barrier stage %s failed: %s", e.Stage, e.Err)
}

func (e *BarrierStageFailure) Unwrap() error {
	return e.Err
}
