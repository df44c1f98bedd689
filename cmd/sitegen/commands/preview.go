package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/preview"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// PreviewCmd serves the content directory locally and rebuilds on changes.
type PreviewCmd struct {
	Port     int           `name:"port" help:"HTTP port (overrides config)"`
	Metrics  bool          `name:"metrics" help:"Expose Prometheus metrics on /metrics"`
	Interval time.Duration `name:"interval" help:"Force a full rebuild at this interval (0 disables)"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}

	opts := preview.Options{
		Port:     cfg.Preview.Port,
		Metrics:  cfg.Preview.Metrics || p.Metrics,
		Interval: p.Interval,
	}
	if p.Port != 0 {
		opts.Port = p.Port
	}

	return preview.Run(sigctx, site.NewGenerator(cfg), opts)
}
