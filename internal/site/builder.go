// Package site builds the static site: it loads pages, derives navigation,
// fetches remote documents, renders every page through its layout and writes
// the output tree.
package site

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/remote"
)

// Builder runs builds for one configuration. A Builder is not safe for
// concurrent Build calls; the preview server serializes them.
type Builder struct {
	cfg      *config.Config
	recorder metrics.Recorder
	client   *http.Client
	now      func() time.Time
}

// NewBuilder creates a Builder with a NoopRecorder.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		client:   remote.NewHTTPClient(cfg.HTTP.Timeout),
		now:      time.Now,
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithHTTPClient sets the client used for remote fetches.
func (b *Builder) WithHTTPClient(c *http.Client) *Builder {
	if c != nil {
		b.client = c
	}
	return b
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config { return b.cfg }

func (b *Builder) stages() []StageDef {
	return []StageDef{
		{StageClean, stageClean},
		{StageLoad, stageLoad},
		{StageNavigation, stageNavigation},
		{StageSpecification, b.stageSpecification},
		{StageManifest, b.stageManifest},
		{StageRender, stageRender},
		{StagePassthrough, stagePassthrough},
		{StageHighlightCSS, stageHighlightCSS},
		{StageScripts, stageScripts},
	}
}

// Build runs every stage. The report is returned even when the build fails.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := b.now()
	id := uuid.NewString()
	bs := &BuildState{
		ID:     id,
		Config: b.cfg,
		Report: newReport(id, start),
	}

	slog.Info("Starting build",
		logfields.BuildID(id),
		logfields.Env(string(b.cfg.Environment)),
		logfields.Output(b.cfg.OutputDir))

	err := runStages(ctx, bs, b.stages(), b.recorder)

	bs.Report.End = b.now()
	switch {
	case err == nil:
		bs.Report.Outcome = OutcomeSuccess
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		bs.Report.Outcome = OutcomeCanceled
	default:
		bs.Report.Outcome = OutcomeFailed
	}

	b.recorder.ObserveBuildDuration(bs.Report.Duration())
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(bs.Report.Outcome))
	b.recorder.SetPages(bs.Report.Pages)

	if err != nil {
		return bs.Report, err
	}
	slog.Info("Build complete",
		logfields.BuildID(id),
		logfields.Pages(bs.Report.Pages),
		slog.Int("files", len(bs.Report.Outputs)),
		slog.Int("warnings", len(bs.Report.Warnings)),
		logfields.DurationMS(float64(bs.Report.Duration().Microseconds())/1000))
	return bs.Report, nil
}
