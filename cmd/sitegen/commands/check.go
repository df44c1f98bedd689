package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/linkcheck"
)

// CheckCmd implements the 'check' command: verify that internal references in
// the generated homepage resolve to files under the content directory.
type CheckCmd struct {
	Page string `short:"p" help:"Page to verify (defaults to the configured output)"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}

	page := c.Page
	if page == "" {
		page = cfg.OutputPath()
	}
	if _, err := os.Stat(page); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "generated page not found, run build first").
			WithContext("path", page)
	}

	report, err := linkcheck.VerifyPage(page, cfg.ContentDirPath())
	if err != nil {
		return err
	}

	fmt.Printf("Checked %s: %d links (%d internal, %d external, %d skipped)\n",
		cfg.Rel(page), report.Total, report.Internal, report.External, report.Skipped)

	if report.OK() {
		fmt.Println("All internal references resolve")
		return nil
	}

	for _, broken := range report.Broken {
		fmt.Fprintf(os.Stderr, "broken: %s\n", broken)
	}
	return errors.New(errors.CategoryValidation, errors.SeverityError,
		fmt.Sprintf("%d broken internal reference(s)", len(report.Broken)))
}
