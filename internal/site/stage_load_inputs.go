package site

import (
	"context"
	"log/slog"
	"os"

	errs "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// stageLoadInputs reads the README and template files. Either one missing is
// fatal and aborts the build immediately.
func stageLoadInputs(_ context.Context, bs *BuildState) error {
	cfg := bs.Generator.config

	readme, err := os.ReadFile(cfg.ReadmePath())
	if err != nil {
		return newFatalStageError(StageLoadInputs,
			errs.Wrap(err, errs.CategoryFileSystem, errs.SeverityFatal, "failed to read README").
				WithContext("path", cfg.ReadmePath()))
	}
	bs.Readme = readme

	tmpl, err := os.ReadFile(cfg.TemplatePath())
	if err != nil {
		return newFatalStageError(StageLoadInputs,
			errs.Wrap(err, errs.CategoryFileSystem, errs.SeverityFatal, "failed to read template").
				WithContext("path", cfg.TemplatePath()))
	}
	bs.Template = string(tmpl)

	slog.Debug("Loaded inputs",
		logfields.File(cfg.ReadmePath()), logfields.Count(len(readme)))
	return nil
}
