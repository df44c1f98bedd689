package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/cmd/sitegen/commands"
	"git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sitegen"),
		kong.Description("Regenerates the project homepage from the README."),
		kong.Vars{
			"version": fmt.Sprintf("sitegen %s (commit %s, built %s)",
				version.Version, version.GitCommit, version.BuildTime),
		},
	)

	err := ctx.Run(&commands.Global{}, &cli)
	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
