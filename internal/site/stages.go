package site

import (
	"context"
	"errors"
	"log/slog"
	"time"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// StageName identifies a build stage.
type StageName string

// Build stages in execution order.
const (
	StageClean         StageName = "clean"
	StageLoad          StageName = "load"
	StageNavigation    StageName = "navigation"
	StageSpecification StageName = "specification"
	StageManifest      StageName = "manifest"
	StageRender        StageName = "render"
	StagePassthrough   StageName = "passthrough"
	StageHighlightCSS  StageName = "highlight-css"
	StageScripts       StageName = "scripts"
)

// Stage is one step of a build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the first error.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef, recorder metrics.Recorder) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return err
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		bs.Report.StageDurations[st.Name] = dur
		recorder.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				recorder.IncStageResult(string(st.Name), metrics.ResultCanceled)
				return err
			}
			recorder.IncStageResult(string(st.Name), metrics.ResultFatal)
			slog.Error("Build stage failed",
				logfields.BuildID(bs.ID),
				logfields.Stage(string(st.Name)),
				logfields.Error(err))
			return serrors.BuildFailed(string(st.Name), err)
		}

		recorder.IncStageResult(string(st.Name), metrics.ResultSuccess)
		slog.Debug("Build stage complete",
			logfields.BuildID(bs.ID),
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}
