package site

import (
	"context"

	errs "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// stagePrepareMarkdown applies the strikethrough rewrite to the raw README
// text before rendering.
func stagePrepareMarkdown(_ context.Context, bs *BuildState) error {
	bs.Prepared = markdown.RewriteStrikethrough(bs.Readme)
	return nil
}

// stageRenderMarkdown converts the prepared text to an HTML fragment.
func stageRenderMarkdown(_ context.Context, bs *BuildState) error {
	fragment, err := bs.Generator.converter.Convert(bs.Prepared)
	if err != nil {
		return newFatalStageError(StageRenderMarkdown,
			errs.Wrap(err, errs.CategoryMarkdown, errs.SeverityFatal, "failed to render README markdown"))
	}
	bs.Fragment = fragment
	return nil
}

// stagePostProcess applies the optional logo and tagline rewrites. Absence of
// either pattern is not an error; the fragment passes through unchanged.
func stagePostProcess(_ context.Context, bs *BuildState) error {
	result := bs.Generator.rewriter.Apply(bs.Fragment)
	bs.Fragment = result.HTML
	bs.Report.LogoRewritten = result.LogoRewritten
	bs.Report.TaglineRewritten = result.TaglineRewritten
	return nil
}
