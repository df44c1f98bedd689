package site

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures high-level metrics about a homepage generation run.
// It is diagnostic state for the current process only and is never persisted.
type BuildReport struct {
	BuildID string
	Start   time.Time
	End     time.Time
	Outcome BuildOutcome

	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind

	DocsFiles        int  // files mirrored into the content tree
	LogoRewritten    bool // logo block replacement applied
	TaglineRewritten bool // tagline replacement applied

	Errors []error
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		BuildID:         uuid.NewString(),
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
	}
}

// recordStage stores timing and classification for one executed stage and
// emits the matching metrics.
func (r *BuildReport) recordStage(stage StageName, dur time.Duration, se *StageError, recorder metrics.Recorder) {
	r.StageDurations[stage] = dur
	if recorder != nil {
		recorder.ObserveStageDuration(stage, dur)
	}

	if se == nil {
		if recorder != nil {
			recorder.IncStageResult(stage, metrics.ResultSuccess)
		}
		return
	}

	r.StageErrorKinds[stage] = se.Kind
	r.Errors = append(r.Errors, se)
	if recorder == nil {
		return
	}
	switch se.Kind {
	case StageErrorCanceled:
		recorder.IncStageResult(stage, metrics.ResultCanceled)
	default:
		recorder.IncStageResult(stage, metrics.ResultFatal)
	}
}

// finish derives the overall outcome from the build error.
func (r *BuildReport) finish(err error) {
	r.End = time.Now()
	switch {
	case err == nil:
		r.Outcome = OutcomeSuccess
	case isCanceled(err):
		r.Outcome = OutcomeCanceled
	default:
		r.Outcome = OutcomeFailed
	}
}

// Duration returns the total wall-clock build time.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

func isCanceled(err error) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind == StageErrorCanceled
	}
	return false
}
