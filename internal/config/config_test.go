package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".", cfg.ProjectRoot)
	assert.Equal(t, "README.md", cfg.Readme)
	assert.Equal(t, filepath.Join("website", "index.html.template"), cfg.Template)
	assert.Equal(t, filepath.Join("website", "content"), cfg.ContentDir)
	assert.Equal(t, filepath.Join("website", "content", "index.html"), cfg.Output)
	assert.Equal(t, "docs", cfg.DocsSource)
	assert.Equal(t, filepath.Join("website", "content", "docs"), cfg.DocsTarget)
	assert.Equal(t, 8080, cfg.Preview.Port)

	// The rewrites are active out of the box, targeting the stock README
	// logo and tagline blocks.
	assert.Equal(t, "docs/images/logo/ascii-art-boon.png", cfg.Site.LogoImage)
	assert.Equal(t, "boon logo", cfg.Site.LogoAlt)
	assert.Equal(t, "Timeless & Playful Language", cfg.Site.Tagline)
}

func TestLoad_ExplicitSiteReplacesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  tagline: Only this\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Only this", cfg.Site.Tagline)
	assert.Empty(t, cfg.Site.LogoImage, "a partial site section must not inherit default patterns")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitegen.yaml")
	content := `
project_root: /srv/project
readme: docs/README.md
site:
  logo_image: docs/images/logo.png
  logo_alt: logo
  tagline: Fast & Friendly
markdown:
  highlight_style: dracula
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/project", cfg.ProjectRoot)
	assert.Equal(t, filepath.Join("/srv/project", "docs", "README.md"), cfg.ReadmePath())
	// unset fields fall back to defaults under the configured root
	assert.Equal(t, filepath.Join("/srv/project", "website", "content", "index.html"), cfg.OutputPath())
	assert.Equal(t, "Fast & Friendly", cfg.Site.Tagline)
	assert.Equal(t, "dracula", cfg.Markdown.HighlightStyle)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SITEGEN_TEST_ROOT", "/opt/site")

	dir := t.TempDir()
	path := filepath.Join(dir, "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project_root: ${SITEGEN_TEST_ROOT}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/site", cfg.ProjectRoot)
}

func TestLoadOrDefault_ExplicitMissingPathFails(t *testing.T) {
	_, err := LoadOrDefault(filepath.Join(t.TempDir(), "custom.yaml"))
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitegen.yaml")

	require.NoError(t, Init(path, false))

	// Second init without force must refuse to overwrite.
	err := Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Site.Tagline)
}

func TestRel(t *testing.T) {
	cfg := Default()
	cfg.ProjectRoot = t.TempDir()

	out := filepath.Join(cfg.ProjectRoot, "website", "content", "index.html")
	assert.Equal(t, filepath.Join("website", "content", "index.html"), cfg.Rel(out))
}
