package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Stage is a discrete unit of work in the homepage build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Generator *Generator
	Report    *BuildReport

	Readme   []byte // raw README text
	Template string // template text
	Prepared []byte // README after the strikethrough rewrite
	Fragment []byte // rendered (and post-processed) HTML fragment
	Page     string // assembled page
}

func newBuildState(g *Generator, report *BuildReport) *BuildState {
	return &BuildState{Generator: g, Report: report}
}

// namedStage pairs a stage with its report/metrics identity.
type namedStage struct {
	name StageName
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first error. Cancellation is checked between stages; a stage that observes
// cancellation itself returns a canceled StageError directly.
func runStages(ctx context.Context, bs *BuildState, stages []namedStage, recorder metrics.Recorder) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			bs.Report.recordStage(st.name, 0, se, recorder)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				// Wrap unknown errors as fatal by default.
				se = newFatalStageError(st.name, err)
			}
			bs.Report.recordStage(st.name, dur, se, recorder)
			return se
		}
		bs.Report.recordStage(st.name, dur, nil, recorder)
	}
	return nil
}
