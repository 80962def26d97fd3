package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/preview"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// ServeCmd starts the preview server.
type ServeCmd struct {
	Port            int    `name:"port" help:"Port to listen on; overrides serve.port"`
	Metrics         bool   `name:"metrics" help:"Expose Prometheus metrics on /metrics"`
	RefreshInterval string `name:"refresh" help:"Rebuild on this interval to refresh remote documents (e.g. 10m)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.Metrics {
		cfg.Serve.Metrics = true
	}
	if s.RefreshInterval != "" {
		d, err := parseInterval(s.RefreshInterval)
		if err != nil {
			return err
		}
		cfg.Serve.RefreshInterval = d
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return preview.New(site.NewBuilder(cfg), preview.Options{}).Run(ctx)
}
