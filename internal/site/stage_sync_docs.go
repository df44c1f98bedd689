package site

import (
	"context"
	"log/slog"
	"os"

	errs "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// stageSyncDocs mirrors the documentation source tree into the content
// directory: the target is removed entirely, then the source is copied.
// A missing source is fatal; documentation is a required input.
func stageSyncDocs(_ context.Context, bs *BuildState) error {
	cfg := bs.Generator.config
	src := cfg.DocsSourcePath()
	dst := cfg.DocsTargetPath()

	if _, err := os.Stat(src); err != nil {
		return newFatalStageError(StageSyncDocs,
			errs.Wrap(err, errs.CategoryFileSystem, errs.SeverityFatal, "documentation source directory missing").
				WithContext("source", src))
	}

	if err := os.RemoveAll(dst); err != nil {
		return newFatalStageError(StageSyncDocs,
			errs.Wrap(err, errs.CategoryFileSystem, errs.SeverityFatal, "failed to clear documentation target").
				WithContext("target", dst))
	}

	copied, err := CopyTree(src, dst)
	if err != nil {
		return newFatalStageError(StageSyncDocs,
			errs.Wrap(err, errs.CategoryFileSystem, errs.SeverityFatal, "failed to copy documentation tree").
				WithContext("source", src).WithContext("target", dst))
	}

	bs.Report.DocsFiles = copied
	slog.Debug("Synchronized documentation tree",
		logfields.Source(src), logfields.Target(dst), logfields.Count(copied))
	return nil
}
