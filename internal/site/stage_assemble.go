package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	errs "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// stageAssemble substitutes the rendered fragment into the template's single
// named placeholder. A template without the placeholder is malformed and
// fatal.
func stageAssemble(_ context.Context, bs *BuildState) error {
	page, err := Assemble(bs.Template, string(bs.Fragment))
	if err != nil {
		return newFatalStageError(StageAssemble,
			errs.Wrap(err, errs.CategoryTemplate, errs.SeverityFatal, "failed to assemble page").
				WithContext("template", bs.Generator.config.TemplatePath()))
	}
	bs.Page = page
	return nil
}

// stageWriteOutput persists the assembled page, overwriting any existing
// file. The write is staged through a temp file and renamed into place so a
// failed run leaves the previous page untouched.
func stageWriteOutput(_ context.Context, bs *BuildState) error {
	out := bs.Generator.config.OutputPath()
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return newFatalStageError(StageWriteOutput,
			errs.Wrap(err, errs.CategoryFileSystem, errs.SeverityFatal, "failed to create output directory").
				WithContext("path", filepath.Dir(out)))
	}
	if err := writeFileAtomic(out, []byte(bs.Page), 0o644); err != nil {
		return newFatalStageError(StageWriteOutput,
			errs.Wrap(err, errs.CategoryFileSystem, errs.SeverityFatal, "failed to write output page").
				WithContext("path", out))
	}
	slog.Debug("Wrote output page", logfields.Path(out), logfields.Count(len(bs.Page)))
	return nil
}
