package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newProject lays out a minimal project and returns the config file path.
func newProject(t *testing.T) (root, cfgPath string) {
	t.Helper()
	root = t.TempDir()

	writeFile(t, filepath.Join(root, "README.md"), "# Hello\n\nSome ~~old~~ new text.\n")
	writeFile(t, filepath.Join(root, "website", "index.html.template"),
		"<html><body>$readme</body></html>\n")
	writeFile(t, filepath.Join(root, "docs", "guide.md"), "# Guide\n")

	cfgPath = filepath.Join(root, "sitegen.yaml")
	writeFile(t, cfgPath, fmt.Sprintf("project_root: %s\n", root))
	return root, cfgPath
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	cmd := &InitCmd{Output: dir}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))

	cfgPath := filepath.Join(dir, config.DefaultConfigPath)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "README.md", cfg.Readme)

	// Re-running without force refuses to overwrite.
	err = cmd.Run(&Global{}, &CLI{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	cmd.Force = true
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))
}

func TestBuildCmd(t *testing.T) {
	root, cfgPath := newProject(t)

	cmd := &BuildCmd{Quiet: true}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: cfgPath}))

	page, err := os.ReadFile(filepath.Join(root, "website", "content", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<del>old</del>")

	_, err = os.Stat(filepath.Join(root, "website", "content", "docs", "guide.md"))
	require.NoError(t, err)
}

func TestBuildCmd_MissingConfigFile(t *testing.T) {
	cmd := &BuildCmd{Quiet: true}
	err := cmd.Run(&Global{}, &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
}

func TestCheckCmd(t *testing.T) {
	_, cfgPath := newProject(t)

	build := &BuildCmd{Quiet: true}
	require.NoError(t, build.Run(&Global{}, &CLI{Config: cfgPath}))

	check := &CheckCmd{}
	require.NoError(t, check.Run(&Global{}, &CLI{Config: cfgPath}))
}

func TestCheckCmd_ReportsBrokenReference(t *testing.T) {
	root, cfgPath := newProject(t)
	writeFile(t, filepath.Join(root, "README.md"),
		"# Hello\n\n[missing](docs/missing.md)\n")

	build := &BuildCmd{Quiet: true}
	require.NoError(t, build.Run(&Global{}, &CLI{Config: cfgPath}))

	check := &CheckCmd{}
	err := check.Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken internal reference")
}

func TestCheckCmd_RequiresBuiltPage(t *testing.T) {
	_, cfgPath := newProject(t)

	check := &CheckCmd{}
	err := check.Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run build first")
}
