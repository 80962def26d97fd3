package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/navigation"
	"git.home.luguber.info/inful/sitegen/internal/openmfe"
	"git.home.luguber.info/inful/sitegen/internal/pages"
	"git.home.luguber.info/inful/sitegen/internal/specification"
)

// stageClean empties the output directory.
func stageClean(_ context.Context, bs *BuildState) error {
	out := bs.Config.OutputDir
	switch filepath.Clean(out) {
	case "", ".", string(filepath.Separator):
		return fmt.Errorf("refusing to clean output directory %q", out)
	}
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("clean output: %w", err)
	}
	if err := os.MkdirAll(out, 0o750); err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return nil
}

func stageLoad(_ context.Context, bs *BuildState) error {
	loaded, err := pages.Load(bs.Config.ContentDir)
	if err != nil {
		return err
	}
	bs.Pages = loaded
	return nil
}

func stageNavigation(_ context.Context, bs *BuildState) error {
	bs.Navigation = navigation.Build(bs.Pages, navigation.Options{
		SegmentAware: bs.Config.Navigation.SegmentAware,
	})
	slog.Debug("Built navigation tree",
		logfields.BuildID(bs.ID),
		slog.Int("top_level", bs.Navigation.Len()))
	return nil
}

func (b *Builder) stageSpecification(ctx context.Context, bs *BuildState) error {
	doc, err := specification.NewFetcher(bs.Config).WithClient(b.client).Fetch(ctx)
	b.recorder.IncFetch(metrics.FetchSpecification, err == nil)
	if err != nil {
		return err
	}
	bs.Specification = doc
	return nil
}

func (b *Builder) stageManifest(ctx context.Context, bs *BuildState) error {
	if bs.Config.ManifestURL == "" {
		return nil
	}
	m, err := openmfe.NewLoader(bs.Config).WithClient(b.client).Load(ctx)
	b.recorder.IncFetch(metrics.FetchManifest, err == nil)
	if err != nil {
		return err
	}
	bs.Manifest = m
	return nil
}

// errNoOutputDir guards writes when the clean stage did not run.
var errNoOutputDir = errors.New("output directory not set")
