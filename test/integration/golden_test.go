package integration

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/linkcheck"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

var updateGolden = flag.Bool("update-golden", false, "Update golden files")

// TestGolden_HomepageBuild runs the full pipeline over the testdata project.
// This test verifies:
// - docs tree mirrored into the content directory
// - strikethrough spans rewritten to <del> before rendering
// - logo and tagline blocks rewritten to their readme__ classes
// - [TOC] directive expanded, tables and fenced code rendered
// - $readme interpolated into the template.
func TestGolden_HomepageBuild(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}

	cfg := setupTestProject(t, "../testdata/project")
	cfg.Site = config.SiteConfig{
		LogoImage: "docs/images/logo/logo.png",
		LogoAlt:   "project logo",
		Tagline:   "Timeless & Playful Language",
	}

	report, err := site.NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err, "build pipeline failed")
	require.Equal(t, site.OutcomeSuccess, report.Outcome)
	require.True(t, report.LogoRewritten, "logo block should be rewritten")
	require.True(t, report.TaglineRewritten, "tagline should be rewritten")

	verifySiteStructure(t, cfg.ContentDirPath(),
		"../testdata/golden/homepage-structure.golden.json", *updateGolden)

	page, err := os.ReadFile(cfg.OutputPath())
	require.NoError(t, err)

	requireContainsAll(t, string(page), []string{
		"<!DOCTYPE html>",
		`<p class="readme__logo">`,
		`<p class="readme__tagline">Timeless &amp; Playful Language</p>`,
		`<div class="toc">`,
		"<del>tedious</del>",
		"<table>",
		"<pre><code>",
		`<h1 id="overview">`,
	})
	require.NotContains(t, string(page), "$readme")
	require.NotContains(t, string(page), "[TOC]")
}

// TestGolden_HomepageDeterminism verifies that rebuilding unchanged inputs
// produces byte-identical output.
func TestGolden_HomepageDeterminism(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}

	cfg := setupTestProject(t, "../testdata/project")
	gen := site.NewGenerator(cfg)

	_, err := gen.Build(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.OutputPath())
	require.NoError(t, err)

	_, err = gen.Build(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.OutputPath())
	require.NoError(t, err)

	require.Equal(t, first, second, "rebuild must be byte-identical")
}

// TestGolden_HomepageLinksResolve runs the link checker over the generated
// page: every internal reference in the testdata README points at a file the
// docs sync mirrors, so nothing may be reported broken.
func TestGolden_HomepageLinksResolve(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}

	cfg := setupTestProject(t, "../testdata/project")
	_, err := site.NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)

	report, err := linkcheck.VerifyPage(cfg.OutputPath(), cfg.ContentDirPath())
	require.NoError(t, err)
	for _, broken := range report.Broken {
		t.Errorf("broken reference: %s", broken)
	}
	require.True(t, report.OK())
}

// TestGolden_StaleDocsRemoved verifies that files previously mirrored into the
// content tree disappear when their source is gone.
func TestGolden_StaleDocsRemoved(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden test in short mode")
	}

	cfg := setupTestProject(t, "../testdata/project")
	gen := site.NewGenerator(cfg)

	_, err := gen.Build(context.Background())
	require.NoError(t, err)

	stale := filepath.Join(cfg.DocsSourcePath(), "stale.md")
	require.NoError(t, os.WriteFile(stale, []byte("# Stale\n"), 0o644))
	_, err = gen.Build(context.Background())
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.DocsTargetPath(), "stale.md"))
	require.NoError(t, err, "new docs file should be mirrored")

	require.NoError(t, os.Remove(stale))
	_, err = gen.Build(context.Background())
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.DocsTargetPath(), "stale.md"))
	require.True(t, os.IsNotExist(err), "removed docs file should disappear from the mirror")
}
