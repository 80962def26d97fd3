package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory; overrides output_dir"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.OutputDir = b.Output
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := site.NewBuilder(cfg).Build(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Stdout, "Built %d pages (%d files) into %s in %s\n",
		report.Pages, len(report.Outputs), cfg.OutputDir, report.Duration().Round(time.Millisecond))
	for _, w := range report.Warnings {
		_, _ = fmt.Fprintf(g.Stdout, "warning: %s\n", w)
	}
	return nil
}
