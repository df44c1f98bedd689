package site

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Generator handles homepage generation.
type Generator struct {
	config    *config.Config
	converter *markdown.Converter
	rewriter  *Rewriter
	recorder  metrics.Recorder
}

// NewGenerator creates a new homepage generator.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		config:    cfg,
		converter: markdown.NewConverter(markdown.Options{HighlightStyle: cfg.Markdown.HighlightStyle}),
		rewriter:  NewRewriter(cfg.Site),
		recorder:  metrics.NoopRecorder{},
	}
}

// Config exposes the underlying configuration (read-only usage by callers).
func (g *Generator) Config() *config.Config { return g.config }

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// Build runs the full pipeline and returns its report. Every run recomputes
// everything from scratch; there is no incremental or cached state.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	report := newBuildReport()
	bs := newBuildState(g, report)

	slog.Info("Starting homepage build",
		logfields.BuildID(report.BuildID),
		logfields.Source(g.config.ReadmePath()),
		logfields.Target(g.config.OutputPath()))

	stages := []namedStage{
		{StageSyncDocs, stageSyncDocs},
		{StageLoadInputs, stageLoadInputs},
		{StagePrepareMarkdown, stagePrepareMarkdown},
		{StageRenderMarkdown, stageRenderMarkdown},
		{StagePostProcess, stagePostProcess},
		{StageAssemble, stageAssemble},
		{StageWriteOutput, stageWriteOutput},
	}

	err := runStages(ctx, bs, stages, g.recorder)
	report.finish(err)
	g.recorder.ObserveBuildDuration(report.Duration())
	g.recorder.IncBuildOutcome(string(report.Outcome))

	if err != nil {
		slog.Error("Homepage build failed",
			logfields.BuildID(report.BuildID),
			logfields.Outcome(string(report.Outcome)),
			logfields.Error(err))
		return report, err
	}

	slog.Info("Homepage build completed",
		logfields.BuildID(report.BuildID),
		logfields.Outcome(string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration().Milliseconds())),
		logfields.Count(report.DocsFiles))
	return report, nil
}
