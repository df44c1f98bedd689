package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	ProjectRoot string `short:"r" name:"root" help:"Project root directory (overrides config)"`
	Quiet       bool   `short:"q" help:"Suppress the confirmation message"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}
	if b.ProjectRoot != "" {
		cfg.ProjectRoot = b.ProjectRoot
	}

	gen := site.NewGenerator(cfg)
	if _, err := gen.Build(context.Background()); err != nil {
		return err
	}

	if !b.Quiet {
		fmt.Printf("Regenerated %s from %s\n", cfg.Rel(cfg.OutputPath()), cfg.Rel(cfg.ReadmePath()))
	}
	return nil
}
